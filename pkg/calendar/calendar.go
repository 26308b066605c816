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

// Package calendar provides the working-day oracle consumed by the planner
// and the date arithmetic the planner schedules with.
package calendar

import (
	"time"
)

// maxLookahead bounds the forward scan of WorkingDays so that an oracle that
// never reports a working day cannot spin the expansion forever. Ten years of
// calendar days is far beyond any plan horizon.
const maxLookahead = 3660

// Oracle answers whether a given date is a working day. Implementations must
// be consistent for the duration of a plan run.
type Oracle interface {
	IsWorkingDay(d Date) bool
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(Date) bool

func (f OracleFunc) IsWorkingDay(d Date) bool { return f(d) }

// AllDays is the oracle used when no calendar is supplied: every day works.
var AllDays Oracle = OracleFunc(func(Date) bool { return true })

// Weekdays returns an oracle that treats the given weekdays as working.
// Weekdays() with no arguments is the common Monday through Friday week.
func Weekdays(working ...time.Weekday) Oracle {
	if len(working) == 0 {
		working = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	}
	var set [7]bool
	for _, day := range working {
		set[day] = true
	}
	return OracleFunc(func(d Date) bool { return set[d.Weekday()] })
}

// Table is an explicit per-date oracle with a default for dates it does not
// list. It is the shape produced by calendar imports.
type Table struct {
	Days map[Date]bool
	// Default applies to dates absent from Days.
	Default bool
}

func (t *Table) IsWorkingDay(d Date) bool {
	if t == nil {
		return true
	}
	if working, ok := t.Days[d]; ok {
		return working
	}
	return t.Default
}

// WorkingDays expands a start date and a desired count into an ordered list
// of working days, starting at or after start. Non-working days consume no
// slot. A nil oracle means every day is a working day. The scan gives up
// after maxLookahead calendar days and returns the prefix collected so far.
func WorkingDays(start Date, count int, oracle Oracle) []Date {
	if count <= 0 {
		return nil
	}
	if oracle == nil {
		oracle = AllDays
	}
	days := make([]Date, 0, count)
	current := start
	for scanned := 0; len(days) < count && scanned < maxLookahead; scanned++ {
		if oracle.IsWorkingDay(current) {
			days = append(days, current)
		}
		current = current.AddDays(1)
	}
	return days
}

// RollBackToWorking returns the most recent working day at or before d,
// searching at most maxBack days into the past. The boolean reports whether
// one was found.
func RollBackToWorking(d Date, oracle Oracle, maxBack int) (Date, bool) {
	if oracle == nil {
		return d, true
	}
	for back := 0; back <= maxBack; back++ {
		candidate := d.AddDays(-back)
		if oracle.IsWorkingDay(candidate) {
			return candidate, true
		}
	}
	return Date{}, false
}
