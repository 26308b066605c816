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

// Package scheduling implements the planning pipeline: building demands from
// orders, forward-moving overflow across days, and packing each day's demands
// onto truck decks.
package scheduling

import (
	"github.com/deckplan/deckplan/pkg/calendar"
)

// Demand is one order's worth of containers bound for a loading day. It is a
// value type: splitting produces new values, never mutates in place, so a
// demand can be re-queued or reported without aliasing surprises.
type Demand struct {
	ProductID     int
	ProductCode   string
	ProductName   string
	ContainerID   int
	NumContainers int
	TotalQuantity int

	// Capacity is units per container, clamped to at least 1.
	Capacity int

	// ContainerFootprint is the per-container deck area; FloorArea is the
	// stacked footprint of the whole demand.
	ContainerFootprint int64
	FloorArea          int64

	// Per-container volume and gross weight, reported in utilization figures
	// but never enforced.
	ContainerVolume int64
	ContainerWeight float64

	DeliveryDate calendar.Date

	// LoadingDate is the day the demand is currently scheduled on.
	// OriginalDate keeps the placer's assignment; the two differ only when
	// the forward scheduler relocated the demand.
	LoadingDate  calendar.Date
	OriginalDate calendar.Date

	// TruckIDs is the ordered list of permitted trucks; empty means the
	// default fleet in insertion order.
	TruckIDs []int

	Stackable bool
	MaxStack  int
}

// EffectiveStack is the stack factor applied to this demand's container.
func (d Demand) EffectiveStack() int {
	if !d.Stackable || d.MaxStack < 1 {
		return 1
	}
	return d.MaxStack
}

// StackedArea is the deck area n containers of this demand's kind consume.
func (d Demand) StackedArea(n int) int64 {
	return StackedFootprint(n, d.ContainerFootprint, d.Stackable, d.MaxStack)
}

// Advanced reports whether the forward scheduler moved this demand off the
// loading day the placer assigned.
func (d Demand) Advanced() bool {
	return d.LoadingDate != d.OriginalDate
}

// Split divides d into a placed part of loadable containers and the residual.
// The placed part carries a proportional quantity of loadable × capacity; the
// residual keeps the remainder, so quantities are conserved exactly even when
// the last container was a partial fill. Both parts get recomputed stacked
// footprints. loadable must be in (0, d.NumContainers).
func (d Demand) Split(loadable int) (placed Demand, residual Demand) {
	placed = d
	placed.NumContainers = loadable
	placed.TotalQuantity = loadable * d.Capacity
	placed.FloorArea = d.StackedArea(loadable)

	residual = d
	residual.NumContainers = d.NumContainers - loadable
	residual.TotalQuantity = d.TotalQuantity - placed.TotalQuantity
	residual.FloorArea = d.StackedArea(residual.NumContainers)
	return placed, residual
}

// StackedFootprint is the deck area n containers consume once stacked:
// ⌈n/maxStack⌉ × footprint for stackable containers, n × footprint otherwise.
func StackedFootprint(n int, footprint int64, stackable bool, maxStack int) int64 {
	if n <= 0 {
		return 0
	}
	if stackable && maxStack > 1 {
		return int64(ceilDiv(n, maxStack)) * footprint
	}
	return int64(n) * footprint
}

// AdditionalStacks is the number of new stacks needed to add more containers
// of a kind already on a deck: ⌈(existing+added)/maxStack⌉ − ⌈existing/maxStack⌉.
func AdditionalStacks(existing, added, maxStack int) int {
	if maxStack < 1 {
		maxStack = 1
	}
	return ceilDiv(existing+added, maxStack) - ceilDiv(existing, maxStack)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
