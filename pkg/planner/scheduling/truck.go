/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package scheduling

import (
	"math"

	"github.com/deckplan/deckplan/pkg/calendar"
	"github.com/deckplan/deckplan/pkg/transport"
)

// LoadedItem is a demand (possibly a split of one) assigned to a truck on a
// day. Field names match what the persistence layer stores downstream.
type LoadedItem struct {
	TruckID       int            `json:"truck_id"`
	TruckName     string         `json:"truck_name"`
	ProductID     int            `json:"product_id"`
	ProductCode   string         `json:"product_code"`
	ProductName   string         `json:"product_name,omitempty"`
	ContainerID   int            `json:"container_id"`
	NumContainers int            `json:"num_containers"`
	TotalQuantity int            `json:"total_quantity"`
	DeliveryDate  calendar.Date  `json:"delivery_date"`
	LoadingDate   calendar.Date  `json:"loading_date"`
	IsAdvanced    bool           `json:"is_advanced"`
	OriginalDate  *calendar.Date `json:"original_date,omitempty"`

	// Container characteristics kept for utilization math; not serialized.
	containerFootprint int64
	containerVolume    int64
	containerWeight    float64
	stackable          bool
	maxStack           int
}

func newLoadedItem(truck transport.Truck, d Demand) LoadedItem {
	item := LoadedItem{
		TruckID:            truck.ID,
		TruckName:          truck.Name,
		ProductID:          d.ProductID,
		ProductCode:        d.ProductCode,
		ProductName:        d.ProductName,
		ContainerID:        d.ContainerID,
		NumContainers:      d.NumContainers,
		TotalQuantity:      d.TotalQuantity,
		DeliveryDate:       d.DeliveryDate,
		LoadingDate:        d.LoadingDate,
		IsAdvanced:         d.Advanced(),
		containerFootprint: d.ContainerFootprint,
		containerVolume:    d.ContainerVolume,
		containerWeight:    d.ContainerWeight,
		stackable:          d.Stackable,
		maxStack:           d.MaxStack,
	}
	if item.IsAdvanced {
		original := d.OriginalDate
		item.OriginalDate = &original
	}
	return item
}

// Utilization is the reported fill of a truck trip. Floor area is the only
// packing constraint; volume and weight are informational.
type Utilization struct {
	FloorArea float64 `json:"floor_area_utilization"`
	Volume    float64 `json:"volume_utilization"`
	Weight    float64 `json:"weight_utilization"`
}

// TruckTrip is one truck's load for one day. There is at most one trip per
// (day, truck).
type TruckTrip struct {
	TruckID     int          `json:"truck_id"`
	TruckName   string       `json:"truck_name"`
	Items       []LoadedItem `json:"loaded_items"`
	Utilization Utilization  `json:"utilization"`
}

// truckState tracks one truck's deck while a day is packed.
type truckState struct {
	truck           transport.Truck
	deckArea        int64
	remaining       int64
	items           []LoadedItem
	containerCounts map[int]int
}

func newTruckState(t transport.Truck) *truckState {
	area := t.DeckArea()
	return &truckState{
		truck:           t,
		deckArea:        area,
		remaining:       area,
		containerCounts: map[int]int{},
	}
}

// containerCount is the number of containers of the given kind already on
// the deck, summed across loaded items.
func (s *truckState) containerCount(containerID int) int {
	return s.containerCounts[containerID]
}

// add attaches a demand to the truck, paying the given deck area.
func (s *truckState) add(d Demand, area int64) {
	s.items = append(s.items, newLoadedItem(s.truck, d))
	s.remaining -= area
	s.containerCounts[d.ContainerID] += d.NumContainers
}

func (s *truckState) used() bool {
	return len(s.items) > 0
}

// trip finalizes the state into a TruckTrip with recomputed utilization.
func (s *truckState) trip() *TruckTrip {
	return &TruckTrip{
		TruckID:     s.truck.ID,
		TruckName:   s.truck.Name,
		Items:       s.items,
		Utilization: s.utilization(),
	}
}

// utilization regroups loaded items by container id so that consolidated
// stacks are counted once, then reports floor, volume and weight fill.
// Groups are visited in first-seen order to keep float sums reproducible.
func (s *truckState) utilization() Utilization {
	type group struct {
		count     int
		footprint int64
		stackable bool
		maxStack  int
	}
	groups := map[int]*group{}
	var seen []int
	var volume int64
	var weight float64
	for _, item := range s.items {
		g, ok := groups[item.ContainerID]
		if !ok {
			g = &group{footprint: item.containerFootprint, stackable: item.stackable, maxStack: item.maxStack}
			groups[item.ContainerID] = g
			seen = append(seen, item.ContainerID)
		}
		g.count += item.NumContainers
		volume += item.containerVolume * int64(item.NumContainers)
		weight += item.containerWeight * float64(item.NumContainers)
	}
	var loadedArea int64
	for _, id := range seen {
		g := groups[id]
		loadedArea += StackedFootprint(g.count, g.footprint, g.stackable, g.maxStack)
	}

	var u Utilization
	if s.deckArea > 0 {
		u.FloorArea = round1(100 * float64(loadedArea) / float64(s.deckArea))
	}
	if deckVolume := s.deckArea * s.truck.Height; deckVolume > 0 {
		u.Volume = round1(100 * float64(volume) / float64(deckVolume))
	}
	if s.truck.MaxWeight > 0 {
		u.Weight = round1(100 * weight / s.truck.MaxWeight)
	}
	return u
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
