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

	"github.com/Pallinder/go-randomdata"
	"github.com/imdario/mergo"
	"github.com/samber/lo"

	"github.com/deckplan/deckplan/pkg/transport"
)

// TruckOptions customizes a Truck. DefaultUse is a pointer so that tests can
// explicitly opt a truck out of the baseline fleet.
type TruckOptions struct {
	ID                   int
	Name                 string
	Width                int64
	Depth                int64
	Height               int64
	MaxWeight            float64
	DefaultUse           *bool
	ArrivalDayOffset     int
	PriorityProductCodes []string
	DepartureTime        string
	ArrivalTime          string
}

// Truck creates a test truck: 10000×5000 mm deck, default-use, same-day
// arrival, unless overridden.
func Truck(overrides ...TruckOptions) transport.Truck {
	options := TruckOptions{}
	for _, opts := range overrides {
		if err := mergo.Merge(&options, opts, mergo.WithOverride); err != nil {
			panic(fmt.Sprintf("Failed to merge truck options: %s", err.Error()))
		}
	}
	if options.ID == 0 {
		options.ID = 1
	}
	if options.Name == "" {
		options.Name = strings.ToLower(randomdata.SillyName())
	}
	if options.Width == 0 {
		options.Width = 10000
	}
	if options.Depth == 0 {
		options.Depth = 5000
	}
	if options.Height == 0 {
		options.Height = 3000
	}
	if options.MaxWeight == 0 {
		options.MaxWeight = 10000
	}
	return transport.Truck{
		ID:                   options.ID,
		Name:                 options.Name,
		Width:                options.Width,
		Depth:                options.Depth,
		Height:               options.Height,
		MaxWeight:            options.MaxWeight,
		DefaultUse:           lo.FromPtrOr(options.DefaultUse, true),
		ArrivalDayOffset:     options.ArrivalDayOffset,
		PriorityProductCodes: options.PriorityProductCodes,
		DepartureTime:        options.DepartureTime,
		ArrivalTime:          options.ArrivalTime,
	}
}
