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

// Package planner computes multi-day truck loading plans. Compute is a pure
// synchronous function of its request: working-day expansion, demand
// placement, forward scheduling and daily packing run in strict sequence, and
// identical requests yield byte-identical plans.
package planner

import (
	"context"
	"fmt"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/deckplan/deckplan/pkg/calendar"
	"github.com/deckplan/deckplan/pkg/metrics"
	"github.com/deckplan/deckplan/pkg/planner/scheduling"
	"github.com/deckplan/deckplan/pkg/transport"
)

var (
	planDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: "planner",
			Name:      "plan_duration_seconds",
			Help:      "Duration of loading plan computation in seconds.",
			Buckets:   metrics.DurationBuckets(),
		},
	)
	plansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "planner",
			Name:      "plans_total",
			Help:      "Number of plans computed, partitioned by summary status.",
		},
		[]string{metrics.StatusLabel},
	)
	unloadedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "planner",
			Name:      "unloaded_demands_total",
			Help:      "Number of demands that could not be placed on their loading day.",
		},
	)
)

func init() {
	prometheus.MustRegister(planDuration, plansTotal, unloadedTotal)
}

// Compute runs the four planning stages over the request and returns the
// plan. It returns an error only for an unusable request; bad input records
// degrade to silent drops, warnings and residuals per the planning contract,
// never to an error. The context is accepted for call-site symmetry; a run
// has no suspension points.
func Compute(ctx context.Context, req *Request) (*Plan, error) {
	if req == nil {
		return nil, fmt.Errorf("computing plan: request is nil")
	}
	if req.Days < 1 {
		return nil, fmt.Errorf("computing plan: horizon must be at least one working day, got %d", req.Days)
	}
	if req.StartDate.IsZero() {
		return nil, fmt.Errorf("computing plan: start date is required")
	}
	defer metrics.Measure(planDuration)()

	workingDates := calendar.WorkingDays(req.StartDate, req.Days, req.Calendar)
	demandsByDay, useNonDefaultTrucks := scheduling.BuildDemands(
		req.Orders, req.Products, req.Containers, req.Trucks, req.Calendar, workingDates)

	availableFleet := req.Trucks
	if !useNonDefaultTrucks {
		availableFleet = lo.Filter(req.Trucks, func(t transport.Truck, _ int) bool { return t.DefaultUse })
	}
	fleetDeckArea := lo.SumBy(availableFleet, func(t transport.Truck) int64 { return t.DeckArea() })
	forwardMoved := scheduling.ForwardSchedule(demandsByDay, workingDates, fleetDeckArea)

	packer := scheduling.NewPacker(req.Trucks, useNonDefaultTrucks)
	plan := &Plan{
		WorkingDates:  workingDates,
		DailyPlans:    make(map[calendar.Date]*DailyPlan, len(workingDates)),
		UnloadedTasks: []UnloadedTask{},
	}
	totalTrips := 0
	totalWarnings := 0
	for _, date := range workingDates {
		result := packer.Pack(date, demandsByDay[date])
		daily := &DailyPlan{
			Trucks:     result.Trips,
			TotalTrips: len(result.Trips),
			Warnings:   result.Warnings,
			Remaining:  result.Remaining,
		}
		plan.DailyPlans[date] = daily
		totalTrips += daily.TotalTrips
		totalWarnings += len(daily.Warnings)
		for _, residual := range result.Remaining {
			plan.UnloadedTasks = append(plan.UnloadedTasks, newUnloadedTask(date, residual))
		}
	}

	plan.Summary = Summary{
		TotalDays:          len(workingDates),
		TotalTrips:         totalTrips,
		TotalWarnings:      totalWarnings,
		UnloadedCount:      len(plan.UnloadedTasks),
		UseNonDefaultTruck: useNonDefaultTrucks,
		Status:             lo.Ternary(totalWarnings == 0, StatusNormal, StatusWarning),
	}
	if len(workingDates) > 0 {
		plan.Period = fmt.Sprintf("%s ~ %s", plan.StartDate(), plan.EndDate())
	}
	plan.Fingerprint = Fingerprint(req)

	plansTotal.WithLabelValues(string(plan.Summary.Status)).Inc()
	unloadedTotal.Add(float64(plan.Summary.UnloadedCount))
	zap.S().Infow("computed loading plan",
		"period", plan.Period,
		"working_days", plan.Summary.TotalDays,
		"trips", plan.Summary.TotalTrips,
		"warnings", plan.Summary.TotalWarnings,
		"unloaded", plan.Summary.UnloadedCount,
		"forward_moved", forwardMoved,
		"use_non_default_trucks", useNonDefaultTrucks,
		"status", plan.Summary.Status,
	)
	return plan, nil
}

// Fingerprint hashes the request's data inputs. Identical inputs hash
// identically, so the fingerprint doubles as a dedupe key for persistence
// and a determinism handle for audits. The calendar oracle is behavioral and
// excluded.
func Fingerprint(req *Request) string {
	hash, err := hashstructure.Hash(req, hashstructure.FormatV2, nil)
	if err != nil {
		zap.S().Warnw("fingerprinting plan request", "error", err)
		return ""
	}
	return fmt.Sprintf("%016x", hash)
}

func newUnloadedTask(date calendar.Date, residual scheduling.Residual) UnloadedTask {
	return UnloadedTask{
		LoadingDate:   date,
		ProductID:     residual.ProductID,
		ProductCode:   residual.ProductCode,
		ProductName:   residual.ProductName,
		ContainerID:   residual.ContainerID,
		NumContainers: residual.NumContainers,
		TotalQuantity: residual.TotalQuantity,
		DeliveryDate:  residual.DeliveryDate,
		Reason:        residual.Reason,
	}
}
