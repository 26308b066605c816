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

package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/deckplan/deckplan/internal/api"
	"github.com/deckplan/deckplan/internal/events"
	"github.com/deckplan/deckplan/internal/store"
)

const shutdownGrace = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the planning API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd.Context())
			if cfg.DatabaseURL == "" {
				return errors.New("database_url is not configured")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := store.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer st.Close()

			publisher, err := events.Connect(cfg.NATSURL)
			if err != nil {
				return err
			}
			defer publisher.Close()

			server := &http.Server{
				Addr: cfg.Listen,
				Handler: api.New(st, publisher, api.Options{
					DefaultDays:    cfg.PlanDays,
					AllowedOrigins: cfg.AllowedOrigins,
					RateRPS:        cfg.RateRPS,
					RateBurst:      cfg.RateBurst,
				}).Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			group, ctx := errgroup.WithContext(ctx)
			group.Go(func() error {
				zap.S().Infow("serving", "listen", cfg.Listen)
				if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			group.Go(func() error {
				<-ctx.Done()
				zap.S().Infow("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			})
			return group.Wait()
		},
	}
}
