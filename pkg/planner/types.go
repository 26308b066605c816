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

package planner

import (
	"github.com/deckplan/deckplan/pkg/calendar"
	"github.com/deckplan/deckplan/pkg/planner/scheduling"
	"github.com/deckplan/deckplan/pkg/transport"
)

// Request carries one plan run's inputs. All collections are ordered slices:
// master insertion order is part of the contract (default-fleet priority,
// tie-breaks), so callers hand over slices, not maps. Everything is read-only
// for the duration of the run.
type Request struct {
	StartDate calendar.Date
	// Days is the horizon length in working days, not calendar days.
	Days       int
	Orders     []transport.Order
	Products   []transport.Product
	Containers []transport.Container
	Trucks     []transport.Truck
	// Calendar may be nil, in which case every day is a working day. It is
	// behavioral, not data, so the fingerprint ignores it.
	Calendar calendar.Oracle `hash:"ignore"`
}

// Status summarizes whether a plan carries warnings.
type Status string

const (
	StatusNormal  Status = "normal"
	StatusWarning Status = "warning"
)

// Summary is the plan-level rollup callers use to decide whether to persist,
// alert, or re-plan.
type Summary struct {
	TotalDays          int    `json:"total_days"`
	TotalTrips         int    `json:"total_trips"`
	TotalWarnings      int    `json:"total_warnings"`
	UnloadedCount      int    `json:"unloaded_count"`
	UseNonDefaultTruck bool   `json:"use_non_default_truck"`
	Status             Status `json:"status"`
}

// DailyPlan is one working day's outcome. Remaining keeps the day's residual
// demands for programmatic callers; serialized output carries them flattened
// in Plan.UnloadedTasks instead.
type DailyPlan struct {
	Trucks     []*scheduling.TruckTrip `json:"trucks"`
	TotalTrips int                     `json:"total_trips"`
	Warnings   []string                `json:"warnings"`
	Remaining  []scheduling.Residual   `json:"-"`
}

// UnloadedTask is a residual demand flattened for reporting, with the day it
// failed on and the reason.
type UnloadedTask struct {
	LoadingDate   calendar.Date `json:"loading_date"`
	ProductID     int           `json:"product_id"`
	ProductCode   string        `json:"product_code"`
	ProductName   string        `json:"product_name,omitempty"`
	ContainerID   int           `json:"container_id"`
	NumContainers int           `json:"num_containers"`
	TotalQuantity int           `json:"total_quantity"`
	DeliveryDate  calendar.Date `json:"delivery_date"`
	Reason        string        `json:"reason"`
}

// Plan is the sole output artifact of a run. DailyPlans is keyed by date;
// Date's text marshaling keeps JSON keys in chronological order, so identical
// inputs produce byte-identical output.
type Plan struct {
	WorkingDates  []calendar.Date              `json:"working_dates"`
	DailyPlans    map[calendar.Date]*DailyPlan `json:"daily_plans"`
	Summary       Summary                      `json:"summary"`
	UnloadedTasks []UnloadedTask               `json:"unloaded_tasks"`
	Period        string                       `json:"period"`
	Fingerprint   string                       `json:"fingerprint"`
}

// Day returns the plan for the given working date, or nil.
func (p *Plan) Day(d calendar.Date) *DailyPlan {
	return p.DailyPlans[d]
}

// StartDate returns the first working date, or the zero Date for an empty
// horizon.
func (p *Plan) StartDate() calendar.Date {
	if len(p.WorkingDates) == 0 {
		return calendar.Date{}
	}
	return p.WorkingDates[0]
}

// EndDate returns the last working date, or the zero Date for an empty
// horizon.
func (p *Plan) EndDate() calendar.Date {
	if len(p.WorkingDates) == 0 {
		return calendar.Date{}
	}
	return p.WorkingDates[len(p.WorkingDates)-1]
}
