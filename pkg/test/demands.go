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

package test

import (
	"fmt"
	"strings"
	"time"

	"github.com/Pallinder/go-randomdata"
	"github.com/imdario/mergo"

	"github.com/deckplan/deckplan/pkg/calendar"
	"github.com/deckplan/deckplan/pkg/planner/scheduling"
)

// DemandOptions customizes a Demand.
type DemandOptions struct {
	ProductID          int
	ProductCode        string
	ProductName        string
	ContainerID        int
	NumContainers      int
	TotalQuantity      int
	Capacity           int
	ContainerFootprint int64
	FloorArea          int64
	ContainerVolume    int64
	ContainerWeight    float64
	DeliveryDate       calendar.Date
	LoadingDate        calendar.Date
	OriginalDate       calendar.Date
	TruckIDs           []int
	Stackable          bool
	MaxStack           int
}

// Demand creates a test demand of one 1000×1000 mm container, capacity 10,
// loading and due on 2025-10-06, unless overridden. FloorArea, TotalQuantity
// and OriginalDate derive from the other options when not given explicitly.
func Demand(overrides ...DemandOptions) scheduling.Demand {
	options := DemandOptions{}
	for _, opts := range overrides {
		if err := mergo.Merge(&options, opts, mergo.WithOverride); err != nil {
			panic(fmt.Sprintf("Failed to merge demand options: %s", err.Error()))
		}
	}
	if options.ProductID == 0 {
		options.ProductID = 1
	}
	if options.ProductCode == "" {
		options.ProductCode = strings.ToUpper(randomdata.SillyName())
	}
	if options.ContainerID == 0 {
		options.ContainerID = 1
	}
	if options.NumContainers == 0 {
		options.NumContainers = 1
	}
	if options.Capacity == 0 {
		options.Capacity = 10
	}
	if options.TotalQuantity == 0 {
		options.TotalQuantity = options.NumContainers * options.Capacity
	}
	if options.ContainerFootprint == 0 {
		options.ContainerFootprint = 1_000_000
	}
	if options.MaxStack == 0 {
		options.MaxStack = 1
	}
	if options.FloorArea == 0 {
		options.FloorArea = scheduling.StackedFootprint(options.NumContainers, options.ContainerFootprint, options.Stackable, options.MaxStack)
	}
	if options.ContainerVolume == 0 {
		options.ContainerVolume = options.ContainerFootprint * 1000
	}
	if options.ContainerWeight == 0 {
		options.ContainerWeight = 500
	}
	if options.LoadingDate.IsZero() {
		options.LoadingDate = calendar.NewDate(2025, time.October, 6)
	}
	if options.OriginalDate.IsZero() {
		options.OriginalDate = options.LoadingDate
	}
	if options.DeliveryDate.IsZero() {
		options.DeliveryDate = options.LoadingDate
	}
	return scheduling.Demand{
		ProductID:          options.ProductID,
		ProductCode:        options.ProductCode,
		ProductName:        options.ProductName,
		ContainerID:        options.ContainerID,
		NumContainers:      options.NumContainers,
		TotalQuantity:      options.TotalQuantity,
		Capacity:           options.Capacity,
		ContainerFootprint: options.ContainerFootprint,
		FloorArea:          options.FloorArea,
		ContainerVolume:    options.ContainerVolume,
		ContainerWeight:    options.ContainerWeight,
		DeliveryDate:       options.DeliveryDate,
		LoadingDate:        options.LoadingDate,
		OriginalDate:       options.OriginalDate,
		TruckIDs:           options.TruckIDs,
		Stackable:          options.Stackable,
		MaxStack:           options.MaxStack,
	}
}
