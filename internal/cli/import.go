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
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deckplan/deckplan/internal/csvio"
	"github.com/deckplan/deckplan/internal/store"
)

func newImportCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the stored masters with CSV contents",
		Long: `Reads the CSV masters from --dir and replaces the database's trucks,
containers, products, orders and calendar with them. Each master is swapped
in its own transaction; an absent calendar.csv clears the stored calendar.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd.Context())
			if cfg.DatabaseURL == "" {
				return errors.New("database_url is not configured")
			}
			ctx := cmd.Context()
			bundle, err := csvio.LoadBundle(ctx, dir)
			if err != nil {
				return err
			}
			st, err := store.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.ReplaceTrucks(ctx, bundle.Trucks); err != nil {
				return err
			}
			if err := st.ReplaceContainers(ctx, bundle.Containers); err != nil {
				return err
			}
			if err := st.ReplaceProducts(ctx, bundle.Products); err != nil {
				return err
			}
			if err := st.ReplaceOrders(ctx, bundle.Orders); err != nil {
				return err
			}
			if err := st.ReplaceCalendar(ctx, bundle.Calendar); err != nil {
				return err
			}

			calendarDays := 0
			if bundle.Calendar != nil {
				calendarDays = len(bundle.Calendar.Days)
			}
			zap.S().Infow("imported masters",
				"trucks", len(bundle.Trucks), "containers", len(bundle.Containers),
				"products", len(bundle.Products), "orders", len(bundle.Orders),
				"calendar_days", calendarDays)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "directory holding the CSV masters")
	return cmd
}
