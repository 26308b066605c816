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
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/deckplan/deckplan/pkg/calendar"
)

// ForwardSchedule relieves overloaded days by moving demand one working day
// earlier. It walks the horizon from the last day down to the second; when a
// day's stacked footprint exceeds the fleet deck area it selects whole
// demands in their current order until the selection covers the overflow and
// appends them to the previous day, which is then itself re-examined on the
// next iteration. Demands are never split here, so a single demand larger
// than the fleet cascades day by day toward the horizon start. The first
// working day has no earlier day: whatever still exceeds capacity there is
// left for the packer to report.
//
// Moved demands get their LoadingDate rewritten to the receiving day while
// OriginalDate keeps the placer's assignment, which is how downstream output
// marks them advanced. byDay is adjusted in place. Returns the number of
// demands moved; a move is informational and never a warning.
func ForwardSchedule(byDay map[calendar.Date][]Demand, workingDates []calendar.Date, fleetDeckArea int64) int {
	moved := 0
	for i := len(workingDates) - 1; i >= 1; i-- {
		day := workingDates[i]
		demands := byDay[day]
		total := lo.SumBy(demands, func(d Demand) int64 { return d.FloorArea })
		if total <= fleetDeckArea {
			continue
		}
		overflow := total - fleetDeckArea

		var selected int64
		cut := 0
		for idx := range demands {
			selected += demands[idx].FloorArea
			if selected >= overflow {
				cut = idx + 1
				break
			}
		}

		previous := workingDates[i-1]
		block := slices.Clone(demands[:cut])
		for idx := range block {
			block[idx].LoadingDate = previous
		}
		byDay[day] = demands[cut:]
		byDay[previous] = append(byDay[previous], block...)
		moved += cut
		zap.S().Debugw("forward-moved overflow",
			"from", day.String(), "to", previous.String(),
			"demands", cut, "overflow_area", overflow, "selected_area", selected)
	}
	return moved
}
