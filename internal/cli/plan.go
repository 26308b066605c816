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
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/deckplan/deckplan/internal/csvio"
	"github.com/deckplan/deckplan/pkg/calendar"
	"github.com/deckplan/deckplan/pkg/planner"
)

func newPlanCommand() *cobra.Command {
	var (
		dir    string
		start  string
		days   int
		output string
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute a loading plan from CSV masters",
		Long: `Reads trucks.csv, containers.csv, products.csv, orders.csv and an
optional calendar.csv from --dir, computes the loading plan for the horizon,
and prints it as a table or as JSON.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			startDate, err := calendar.ParseDate(start)
			if err != nil {
				return fmt.Errorf("parsing --start: %w", err)
			}
			if days <= 0 {
				days = configFrom(cmd.Context()).PlanDays
			}
			bundle, err := csvio.LoadBundle(cmd.Context(), dir)
			if err != nil {
				return err
			}
			req := &planner.Request{
				StartDate:  startDate,
				Days:       days,
				Orders:     bundle.Orders,
				Products:   bundle.Products,
				Containers: bundle.Containers,
				Trucks:     bundle.Trucks,
			}
			if bundle.Calendar != nil {
				req.Calendar = bundle.Calendar
			}
			plan, err := planner.Compute(cmd.Context(), req)
			if err != nil {
				return err
			}
			switch output {
			case "json":
				return writeJSON(cmd.OutOrStdout(), plan)
			case "table":
				renderPlan(cmd.OutOrStdout(), plan)
				return nil
			default:
				return fmt.Errorf("unknown output format %q, want table or json", output)
			}
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "directory holding the CSV masters")
	cmd.Flags().StringVar(&start, "start", "", "first delivery date, YYYY-MM-DD")
	cmd.Flags().IntVar(&days, "days", 0, "horizon in working days (default plan_days from configuration)")
	cmd.Flags().StringVar(&output, "output", "table", "output format, table or json")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func writeJSON(w io.Writer, payload any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	return nil
}
