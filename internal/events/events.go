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

// Package events publishes plan lifecycle notifications over NATS. Publishing
// is optional: a nil Publisher is valid and does nothing, so call sites never
// branch on whether a broker is configured.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/deckplan/deckplan/internal/store"
	"github.com/deckplan/deckplan/pkg/planner"
)

// SubjectPlanCreated carries PlanCreated payloads.
const SubjectPlanCreated = "deckplan.plans.created"

// PlanCreated announces a persisted plan.
type PlanCreated struct {
	EventID       string         `json:"event_id"`
	PlanID        int64          `json:"plan_id"`
	PlanName      string         `json:"plan_name"`
	Period        string         `json:"period"`
	Status        planner.Status `json:"status"`
	TotalTrips    int            `json:"total_trips"`
	UnloadedCount int            `json:"unloaded_count"`
	Fingerprint   string         `json:"fingerprint"`
	CreatedAt     time.Time      `json:"created_at"`
}

// NewPlanCreated builds the event for a stored plan with a fresh event id.
func NewPlanCreated(stored *store.StoredPlan) PlanCreated {
	return PlanCreated{
		EventID:       uuid.NewString(),
		PlanID:        stored.ID,
		PlanName:      stored.Name,
		Period:        stored.Plan.Period,
		Status:        stored.Plan.Summary.Status,
		TotalTrips:    stored.Plan.Summary.TotalTrips,
		UnloadedCount: stored.Plan.Summary.UnloadedCount,
		Fingerprint:   stored.Plan.Fingerprint,
		CreatedAt:     stored.CreatedAt,
	}
}

// Publisher publishes events to NATS.
type Publisher struct {
	conn *nats.Conn
}

// Connect dials the broker. An empty URL disables publishing by returning a
// nil publisher.
func Connect(url string) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}
	conn, err := nats.Connect(url, nats.Name("deckplan"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}
	return &Publisher{conn: conn}, nil
}

// PlanCreated publishes the plan-created event.
func (p *Publisher) PlanCreated(stored *store.StoredPlan) error {
	if p == nil {
		return nil
	}
	event := NewPlanCreated(stored)
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding plan created event: %w", err)
	}
	if err := p.conn.Publish(SubjectPlanCreated, raw); err != nil {
		return fmt.Errorf("publishing plan created event: %w", err)
	}
	zap.S().Debugw("published event",
		"subject", SubjectPlanCreated, "event_id", event.EventID, "plan_id", event.PlanID)
	return nil
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		zap.S().Warnw("draining nats connection", "error", err)
	}
}
