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
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/deckplan/deckplan/pkg/calendar"
	"github.com/deckplan/deckplan/pkg/transport"
)

// Residual reasons, persisted with unloaded tasks.
const (
	ReasonConstraintUnavailable = "truck constraint unavailable"
	ReasonInsufficientDeckArea  = "insufficient deck area"
)

// Residual is a demand the packer could not place, with the reason.
type Residual struct {
	Demand
	Reason string
}

// DayResult is the packer's output for one working day. The packer never
// fails: what could not be placed is data in Remaining and Warnings.
type DayResult struct {
	Trips     []*TruckTrip
	Warnings  []string
	Remaining []Residual
}

// Packer assigns a day's demands to truck decks. The available fleet is fixed
// for the horizon: every truck when non-default trucks are enabled, otherwise
// the default-use trucks, in master insertion order.
type Packer struct {
	fleet []transport.Truck
}

// NewPacker builds a packer over the available fleet.
func NewPacker(trucks []transport.Truck, useNonDefaultTrucks bool) *Packer {
	fleet := slices.Clone(trucks)
	if !useNonDefaultTrucks {
		fleet = lo.Filter(fleet, func(t transport.Truck, _ int) bool { return t.DefaultUse })
	}
	return &Packer{fleet: fleet}
}

// Pack assigns the day's demands to trucks. Deck state is fresh per call:
// one call covers exactly one working day.
func (p *Packer) Pack(date calendar.Date, demands []Demand) *DayResult {
	result := &DayResult{Trips: []*TruckTrip{}, Warnings: []string{}}
	if len(demands) == 0 {
		return result
	}
	states := lo.Map(p.fleet, func(t transport.Truck, _ int) *truckState { return newTruckState(t) })
	statesByID := lo.KeyBy(states, func(s *truckState) int { return s.truck.ID })

	for _, demand := range orderDemands(demands, states) {
		p.place(date, demand, states, statesByID, result)
	}
	for _, state := range states {
		if state.used() {
			result.Trips = append(result.Trips, state.trip())
		}
	}
	return result
}

// orderDemands sorts a day's demands into their processing order:
// class 0 carries a product some truck lists as priority cargo (lowest
// matching truck id first), class 1 is truck-constrained (first allowed id),
// class 2 is unconstrained; product code breaks remaining ties. The sort is
// stable, so equal keys keep their arrival order.
func orderDemands(demands []Demand, states []*truckState) []Demand {
	type rankedDemand struct {
		Demand
		class int
		key   int
	}
	ranked := lo.Map(demands, func(d Demand, _ int) rankedDemand {
		class, key := demandRank(d, states)
		return rankedDemand{Demand: d, class: class, key: key}
	})
	slices.SortStableFunc(ranked, func(a, b rankedDemand) int {
		if a.class != b.class {
			return a.class - b.class
		}
		if a.key != b.key {
			return a.key - b.key
		}
		return strings.Compare(a.ProductCode, b.ProductCode)
	})
	return lo.Map(ranked, func(r rankedDemand, _ int) Demand { return r.Demand })
}

func demandRank(d Demand, states []*truckState) (class int, key int) {
	matching := math.MaxInt
	for _, s := range states {
		if s.truck.HasPriorityFor(d.ProductCode) && s.truck.ID < matching {
			matching = s.truck.ID
		}
	}
	if matching != math.MaxInt {
		return 0, matching
	}
	if len(d.TruckIDs) > 0 {
		return 1, d.TruckIDs[0]
	}
	return 2, 0
}

// place walks a demand down its candidate trucks, trying consolidation, full
// placement and split placement in that order. Once a demand splits, later
// candidates only see full or split placement: the source planner never
// consolidated a continuation and that behavior is kept.
func (p *Packer) place(date calendar.Date, demand Demand, states []*truckState, statesByID map[int]*truckState, result *DayResult) {
	candidates := candidatesFor(demand, states, statesByID)
	if len(candidates) == 0 {
		if len(demand.TruckIDs) > 0 {
			warning := fmt.Sprintf("truck constraint %v unavailable for %s", demand.TruckIDs, demand.ProductCode)
			result.Warnings = append(result.Warnings, warning)
			result.Remaining = append(result.Remaining, Residual{Demand: demand, Reason: ReasonConstraintUnavailable})
			zap.S().Warnw("truck constraint unavailable",
				"date", date.String(), "product", demand.ProductCode, "allowed", demand.TruckIDs)
			return
		}
		p.unloadable(date, demand, result)
		return
	}

	remaining := demand
	continuation := false
	for _, candidate := range candidates {
		if remaining.NumContainers <= 0 {
			return
		}
		if !continuation && remaining.Stackable && candidate.containerCount(remaining.ContainerID) > 0 {
			existing := candidate.containerCount(remaining.ContainerID)
			additional := int64(AdditionalStacks(existing, remaining.NumContainers, remaining.EffectiveStack())) * remaining.ContainerFootprint
			if additional <= candidate.remaining {
				candidate.add(remaining, additional)
				zap.S().Debugw("consolidated demand",
					"date", date.String(), "truck", candidate.truck.ID, "product", remaining.ProductCode,
					"containers", remaining.NumContainers, "additional_area", additional)
				return
			}
		}
		if remaining.FloorArea <= candidate.remaining {
			candidate.add(remaining, remaining.FloorArea)
			return
		}
		loadable := fitContainers(candidate.remaining, remaining)
		if loadable > 0 && loadable < remaining.NumContainers {
			placed, rest := remaining.Split(loadable)
			candidate.add(placed, placed.FloorArea)
			zap.S().Debugw("split demand across trucks",
				"date", date.String(), "truck", candidate.truck.ID, "product", placed.ProductCode,
				"placed_containers", placed.NumContainers, "residual_containers", rest.NumContainers)
			remaining = rest
			continuation = true
		}
	}
	if remaining.NumContainers > 0 {
		p.unloadable(date, remaining, result)
	}
}

func (p *Packer) unloadable(date calendar.Date, demand Demand, result *DayResult) {
	result.Warnings = append(result.Warnings,
		fmt.Sprintf("unloadable: %s (%d containers)", demand.ProductCode, demand.NumContainers))
	result.Remaining = append(result.Remaining, Residual{Demand: demand, Reason: ReasonInsufficientDeckArea})
	zap.S().Warnw("unloadable demand",
		"date", date.String(), "product", demand.ProductCode, "containers", demand.NumContainers)
}

// candidatesFor intersects the demand's allowed trucks (or the whole fleet
// when unconstrained) with the day's trucks, then orders them: trucks listing
// the product as priority cargo first, then trucks already carrying the
// demand's container, then the rest; larger remaining deck first within each
// class. The underlying order (allowed-list order, or fleet order) breaks
// remaining ties via sort stability.
func candidatesFor(d Demand, states []*truckState, statesByID map[int]*truckState) []*truckState {
	var candidates []*truckState
	if len(d.TruckIDs) == 0 {
		candidates = slices.Clone(states)
	} else {
		for _, id := range d.TruckIDs {
			if state, ok := statesByID[id]; ok {
				candidates = append(candidates, state)
			}
		}
	}
	slices.SortStableFunc(candidates, func(a, b *truckState) int {
		classA, classB := candidateClass(a, d), candidateClass(b, d)
		if classA != classB {
			return classA - classB
		}
		return cmp.Compare(b.remaining, a.remaining)
	})
	return candidates
}

func candidateClass(s *truckState, d Demand) int {
	switch {
	case s.truck.HasPriorityFor(d.ProductCode):
		return 0
	case s.containerCount(d.ContainerID) > 0:
		return 1
	default:
		return 2
	}
}

// fitContainers is how many containers of the demand's kind fit into the
// given remaining deck area: whole stacks for stackable containers, whole
// footprints otherwise.
func fitContainers(remaining int64, d Demand) int {
	if d.ContainerFootprint <= 0 {
		return 0
	}
	stacksThatFit := int(remaining / d.ContainerFootprint)
	if d.Stackable {
		return stacksThatFit * d.EffectiveStack()
	}
	return stacksThatFit
}
