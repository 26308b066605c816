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

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/deckplan/deckplan/pkg/planner"
)

// StoredPlan is a persisted plan with its storage identity.
type StoredPlan struct {
	ID        int64        `json:"id"`
	Name      string       `json:"plan_name"`
	CreatedAt time.Time    `json:"created_at"`
	Plan      planner.Plan `json:"plan"`
}

// PlanListing is the header row shown by list endpoints.
type PlanListing struct {
	ID            int64          `json:"id"`
	Name          string         `json:"plan_name"`
	Period        string         `json:"period"`
	Fingerprint   string         `json:"fingerprint"`
	Status        planner.Status `json:"status"`
	TotalTrips    int            `json:"total_trips"`
	UnloadedCount int            `json:"unloaded_count"`
	CreatedAt     time.Time      `json:"created_at"`
}

// SavePlan persists the plan: one header row, denormalized detail rows per
// loaded item, warning and unloaded rows, plus the full plan JSON for exact
// reads. The write is one transaction.
func (s *Store) SavePlan(ctx context.Context, name string, plan *planner.Plan) (int64, error) {
	raw, err := json.Marshal(plan)
	if err != nil {
		return 0, fmt.Errorf("encoding plan: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO loading_plans (plan_name, fingerprint, period, start_date, end_date,
			total_days, total_trips, total_warnings, unloaded_count, use_non_default_truck, status, plan_json)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id`,
		name, plan.Fingerprint, plan.Period, plan.StartDate(), plan.EndDate(),
		plan.Summary.TotalDays, plan.Summary.TotalTrips, plan.Summary.TotalWarnings,
		plan.Summary.UnloadedCount, plan.Summary.UseNonDefaultTruck, plan.Summary.Status, raw,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("inserting plan header: %w", err)
	}

	for _, date := range plan.WorkingDates {
		daily := plan.DailyPlans[date]
		if daily == nil {
			continue
		}
		for tripNumber, trip := range daily.Trucks {
			for _, item := range trip.Items {
				var original any
				if item.OriginalDate != nil {
					original = *item.OriginalDate
				}
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO loading_plan_details (plan_id, loading_date, trip_number, truck_id, truck_name,
						product_id, product_code, product_name, container_id, num_containers, total_quantity,
						delivery_date, is_advanced, original_date,
						floor_area_utilization, volume_utilization, weight_utilization)
					 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
					id, item.LoadingDate, tripNumber+1, trip.TruckID, trip.TruckName,
					item.ProductID, item.ProductCode, item.ProductName, item.ContainerID,
					item.NumContainers, item.TotalQuantity, item.DeliveryDate, item.IsAdvanced, original,
					trip.Utilization.FloorArea, trip.Utilization.Volume, trip.Utilization.Weight); err != nil {
					return 0, fmt.Errorf("inserting plan detail: %w", err)
				}
			}
		}
		for _, message := range daily.Warnings {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO loading_plan_warnings (plan_id, warning_date, message) VALUES ($1, $2, $3)`,
				id, date, message); err != nil {
				return 0, fmt.Errorf("inserting plan warning: %w", err)
			}
		}
	}
	for _, task := range plan.UnloadedTasks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO loading_plan_unloaded (plan_id, loading_date, product_id, product_code, product_name,
				container_id, num_containers, total_quantity, delivery_date, reason)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			id, task.LoadingDate, task.ProductID, task.ProductCode, task.ProductName,
			task.ContainerID, task.NumContainers, task.TotalQuantity, task.DeliveryDate, task.Reason); err != nil {
			return 0, fmt.Errorf("inserting unloaded task: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing plan: %w", err)
	}
	return id, nil
}

// Plan reads one stored plan from its JSON snapshot.
func (s *Store) Plan(ctx context.Context, id int64) (*StoredPlan, error) {
	stored := &StoredPlan{ID: id}
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT plan_name, created_at, plan_json FROM loading_plans WHERE id = $1`, id,
	).Scan(&stored.Name, &stored.CreatedAt, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying plan %d: %w", id, err)
	}
	if err := json.Unmarshal(raw, &stored.Plan); err != nil {
		return nil, fmt.Errorf("decoding plan %d: %w", id, err)
	}
	return stored, nil
}

// Plans lists stored plan headers, newest first.
func (s *Store) Plans(ctx context.Context) ([]PlanListing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, plan_name, period, fingerprint, status, total_trips, unloaded_count, created_at
		 FROM loading_plans ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	var listings []PlanListing
	for rows.Next() {
		var listing PlanListing
		if err := rows.Scan(&listing.ID, &listing.Name, &listing.Period, &listing.Fingerprint,
			&listing.Status, &listing.TotalTrips, &listing.UnloadedCount, &listing.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning plan listing: %w", err)
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading plans: %w", err)
	}
	return listings, nil
}

// DeletePlan removes a plan and, through the schema's cascades, its detail,
// warning and unloaded rows.
func (s *Store) DeletePlan(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM loading_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting plan %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting plan %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
