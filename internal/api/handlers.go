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

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/deckplan/deckplan/internal/store"
	"github.com/deckplan/deckplan/pkg/calendar"
	"github.com/deckplan/deckplan/pkg/planner"
)

// planRequest is the POST /api/plans body. Days omitted or zero falls back to
// the server's default horizon.
type planRequest struct {
	PlanName  string        `json:"plan_name"`
	StartDate calendar.Date `json:"start_date"`
	Days      int           `json:"days"`
}

func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	var body planRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("decoding request body: %w", err))
		return
	}
	if body.PlanName == "" {
		s.writeError(w, r, http.StatusBadRequest, errors.New("plan_name is required"))
		return
	}
	if body.Days <= 0 {
		body.Days = s.opts.DefaultDays
	}

	ctx := r.Context()
	req, err := s.buildRequest(ctx, body)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	plan, err := planner.Compute(ctx, req)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	id, err := s.store.SavePlan(ctx, body.PlanName, plan)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	stored, err := s.store.Plan(ctx, id)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	// The plan is durable at this point; a broker outage must not fail the
	// request.
	if err := s.publisher.PlanCreated(stored); err != nil {
		zap.S().Errorw("publishing plan created event", "plan_id", stored.ID, "error", err)
	}
	s.writeJSON(w, http.StatusCreated, stored)
}

// buildRequest assembles a planner request from the stored masters, orders
// and calendar.
func (s *Server) buildRequest(ctx context.Context, body planRequest) (*planner.Request, error) {
	trucks, err := s.store.Trucks(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading trucks: %w", err)
	}
	containers, err := s.store.Containers(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading containers: %w", err)
	}
	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}
	orders, err := s.store.Orders(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading orders: %w", err)
	}
	table, err := s.store.Calendar(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading calendar: %w", err)
	}
	req := &planner.Request{
		StartDate:  body.StartDate,
		Days:       body.Days,
		Orders:     orders,
		Products:   products,
		Containers: containers,
		Trucks:     trucks,
	}
	if table != nil {
		req.Calendar = table
	}
	return req, nil
}

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	listings, err := s.store.Plans(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if listings == nil {
		listings = []store.PlanListing{}
	}
	s.writeJSON(w, http.StatusOK, listings)
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := s.planID(w, r)
	if !ok {
		return
	}
	stored, err := s.store.Plan(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, r, http.StatusNotFound, fmt.Errorf("plan %d not found", id))
		return
	}
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stored)
}

func (s *Server) deletePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := s.planID(w, r)
	if !ok {
		return
	}
	err := s.store.DeletePlan(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, r, http.StatusNotFound, fmt.Errorf("plan %d not found", id))
		return
	}
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) planID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, errors.New("plan id must be an integer"))
		return 0, false
	}
	return id, true
}

func (s *Server) listTrucks(w http.ResponseWriter, r *http.Request) {
	respondList(s, w, r, s.store.Trucks)
}

func (s *Server) listContainers(w http.ResponseWriter, r *http.Request) {
	respondList(s, w, r, s.store.Containers)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	respondList(s, w, r, s.store.Products)
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	respondList(s, w, r, s.store.Orders)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Healthy(r.Context()); err != nil {
		s.writeError(w, r, http.StatusServiceUnavailable, fmt.Errorf("database unreachable: %w", err))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondList serves a master listing, mapping a nil slice to [] so clients
// always get a JSON array.
func respondList[T any](s *Server, w http.ResponseWriter, r *http.Request, load func(context.Context) ([]T, error)) {
	items, err := load(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	s.writeJSON(w, http.StatusOK, items)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.S().Errorw("encoding response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		zap.S().Errorw("request failed",
			"method", r.Method, "path", r.URL.Path, "status", status,
			"request_id", requestIDFrom(r.Context()), "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
