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

// Package api serves the planning service over HTTP: plan runs computed from
// the stored masters, stored plan reads, and master/order listings, as JSON.
package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/deckplan/deckplan/internal/events"
	"github.com/deckplan/deckplan/internal/store"
	"github.com/deckplan/deckplan/pkg/calendar"
	"github.com/deckplan/deckplan/pkg/planner"
	"github.com/deckplan/deckplan/pkg/transport"
)

// Store is the persistence surface the server depends on. *store.Store
// satisfies it; tests supply fakes.
type Store interface {
	Trucks(ctx context.Context) ([]transport.Truck, error)
	Containers(ctx context.Context) ([]transport.Container, error)
	Products(ctx context.Context) ([]transport.Product, error)
	Orders(ctx context.Context) ([]transport.Order, error)
	Calendar(ctx context.Context) (*calendar.Table, error)
	SavePlan(ctx context.Context, name string, plan *planner.Plan) (int64, error)
	Plan(ctx context.Context, id int64) (*store.StoredPlan, error)
	Plans(ctx context.Context) ([]store.PlanListing, error)
	DeletePlan(ctx context.Context, id int64) error
	Healthy(ctx context.Context) error
}

// Publisher announces persisted plans. A nil *events.Publisher satisfies it.
type Publisher interface {
	PlanCreated(stored *store.StoredPlan) error
}

// Options tune the server. Zero values fall back to the defaults below.
type Options struct {
	// DefaultDays is the horizon applied when a plan request omits days.
	DefaultDays    int
	AllowedOrigins []string
	RateRPS        float64
	RateBurst      int
}

func (o Options) withDefaults() Options {
	if o.DefaultDays <= 0 {
		o.DefaultDays = 7
	}
	if len(o.AllowedOrigins) == 0 {
		o.AllowedOrigins = []string{"*"}
	}
	if o.RateRPS <= 0 {
		o.RateRPS = 50
	}
	if o.RateBurst <= 0 {
		o.RateBurst = 100
	}
	return o
}

// Server routes HTTP requests onto the store and the planner.
type Server struct {
	store     Store
	publisher Publisher
	opts      Options
	limiter   *rate.Limiter
}

// New builds a server. publisher may be nil when no broker is configured.
func New(st Store, publisher Publisher, opts Options) *Server {
	if publisher == nil {
		publisher = (*events.Publisher)(nil)
	}
	opts = opts.withDefaults()
	return &Server{
		store:     st,
		publisher: publisher,
		opts:      opts,
		limiter:   rate.NewLimiter(rate.Limit(opts.RateRPS), opts.RateBurst),
	}
}

// Handler returns the full middleware-wrapped route tree.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(s.requestID, s.accessLog, s.rateLimit)
	router.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/plans", s.createPlan).Methods(http.MethodPost)
	apiRouter.HandleFunc("/plans", s.listPlans).Methods(http.MethodGet)
	apiRouter.HandleFunc("/plans/{id}", s.getPlan).Methods(http.MethodGet)
	apiRouter.HandleFunc("/plans/{id}", s.deletePlan).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/masters/trucks", s.listTrucks).Methods(http.MethodGet)
	apiRouter.HandleFunc("/masters/containers", s.listContainers).Methods(http.MethodGet)
	apiRouter.HandleFunc("/masters/products", s.listProducts).Methods(http.MethodGet)
	apiRouter.HandleFunc("/orders", s.listOrders).Methods(http.MethodGet)

	return cors.New(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"*"},
	}).Handler(router)
}
