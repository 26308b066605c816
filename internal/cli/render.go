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
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/deckplan/deckplan/pkg/planner"
)

// renderPlan prints the plan as one row per loaded item, grouped by day and
// trip, followed by a summary footer, warnings and unloaded tasks.
func renderPlan(w io.Writer, plan *planner.Plan) {
	fmt.Fprintf(w, "Period: %s\n", plan.Period)
	fmt.Fprintf(w, "Status: %s\n\n", plan.Summary.Status)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{
		"Loading", "Trip", "Truck", "Product", "Containers", "Quantity", "Delivery", "Floor %", "Volume %", "Weight %",
	})
	for _, date := range plan.WorkingDates {
		daily := plan.Day(date)
		if daily == nil {
			continue
		}
		for tripNumber, trip := range daily.Trucks {
			for _, item := range trip.Items {
				delivery := item.DeliveryDate.String()
				if item.IsAdvanced {
					delivery += " (advanced)"
				}
				table.Append([]string{
					item.LoadingDate.String(),
					strconv.Itoa(tripNumber + 1),
					trip.TruckName,
					item.ProductCode,
					strconv.Itoa(item.NumContainers),
					strconv.Itoa(item.TotalQuantity),
					delivery,
					fmt.Sprintf("%.1f", trip.Utilization.FloorArea),
					fmt.Sprintf("%.1f", trip.Utilization.Volume),
					fmt.Sprintf("%.1f", trip.Utilization.Weight),
				})
			}
		}
	}
	table.Render()

	fmt.Fprintf(w, "\nDays: %d  Trips: %d  Warnings: %d  Unloaded: %d\n",
		plan.Summary.TotalDays, plan.Summary.TotalTrips,
		plan.Summary.TotalWarnings, plan.Summary.UnloadedCount)
	if plan.Summary.UseNonDefaultTruck {
		fmt.Fprintln(w, "Reserve trucks engaged.")
	}
	for _, date := range plan.WorkingDates {
		daily := plan.Day(date)
		if daily == nil {
			continue
		}
		for _, warning := range daily.Warnings {
			fmt.Fprintf(w, "WARNING %s: %s\n", date, warning)
		}
	}
	for _, task := range plan.UnloadedTasks {
		fmt.Fprintf(w, "UNLOADED %s: %s, %d containers (%s)\n",
			task.LoadingDate, task.ProductCode, task.NumContainers, task.Reason)
	}
}
