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

package transport

import "slices"

// Truck is a flat-bed truck in the fleet. DefaultUse trucks form the baseline
// fleet; the rest are reserve capacity the planner enables only when the
// horizon-average demand exceeds the baseline deck area. ArrivalDayOffset is
// the whole-day lag between loading and arrival at the customer.
type Truck struct {
	ID                   int      `json:"truck_id"`
	Name                 string   `json:"truck_name"`
	Width                int64    `json:"width"`
	Depth                int64    `json:"depth"`
	Height               int64    `json:"height"`
	MaxWeight            float64  `json:"max_weight"`
	DefaultUse           bool     `json:"default_use"`
	ArrivalDayOffset     int      `json:"arrival_day_offset"`
	PriorityProductCodes []string `json:"priority_product_codes,omitempty"`

	// Departure and arrival times of day are carried for operator reports;
	// the planner never consults them.
	DepartureTime string `json:"departure_time,omitempty"`
	ArrivalTime   string `json:"arrival_time,omitempty"`
}

// DeckArea is the loadable flat-bed footprint.
func (t Truck) DeckArea() int64 {
	return t.Width * t.Depth
}

// HasPriorityFor reports whether code is listed as preferred cargo.
func (t Truck) HasPriorityFor(code string) bool {
	return slices.Contains(t.PriorityProductCodes, code)
}
