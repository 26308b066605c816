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
	"time"

	"github.com/imdario/mergo"

	"github.com/deckplan/deckplan/pkg/calendar"
	"github.com/deckplan/deckplan/pkg/planner"
	"github.com/deckplan/deckplan/pkg/transport"
)

// RequestOptions customizes a plan Request.
type RequestOptions struct {
	StartDate  calendar.Date
	Days       int
	Orders     []transport.Order
	Products   []transport.Product
	Containers []transport.Container
	Trucks     []transport.Truck
	Calendar   calendar.Oracle
}

// Request creates a plan request starting 2025-10-06 over one working day,
// with no calendar (every day works), unless overridden.
func Request(overrides ...RequestOptions) *planner.Request {
	options := RequestOptions{}
	for _, opts := range overrides {
		if err := mergo.Merge(&options, opts, mergo.WithOverride); err != nil {
			panic(fmt.Sprintf("Failed to merge request options: %s", err.Error()))
		}
	}
	if options.StartDate.IsZero() {
		options.StartDate = calendar.NewDate(2025, time.October, 6)
	}
	if options.Days == 0 {
		options.Days = 1
	}
	return &planner.Request{
		StartDate:  options.StartDate,
		Days:       options.Days,
		Orders:     options.Orders,
		Products:   options.Products,
		Containers: options.Containers,
		Trucks:     options.Trucks,
		Calendar:   options.Calendar,
	}
}
