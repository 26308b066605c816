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

package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/deckplan/deckplan/pkg/calendar"
	"github.com/deckplan/deckplan/pkg/transport"
)

var (
	truckHeader     = []string{"truck_id", "truck_name", "width", "depth", "height", "max_weight", "default_use", "arrival_day_offset", "departure_time", "arrival_time", "priority_product_codes"}
	containerHeader = []string{"container_id", "name", "width", "depth", "height", "max_weight", "stackable", "max_stack"}
	productHeader   = []string{"product_id", "product_code", "product_name", "capacity", "container_id", "used_truck_ids"}
	orderHeader     = []string{"order_id", "product_id", "delivery_date", "order_quantity"}
	calendarHeader  = []string{"date", "is_working_day"}
)

// ReadTrucks parses trucks.csv. File order is preserved: it defines the
// default-fleet priority downstream.
func ReadTrucks(r io.Reader) ([]transport.Truck, error) {
	var trucks []transport.Truck
	err := readRows(r, "trucks", truckHeader, func(row *record) {
		trucks = append(trucks, transport.Truck{
			ID:                   row.int("truck_id"),
			Name:                 row.string("truck_name"),
			Width:                row.int64("width"),
			Depth:                row.int64("depth"),
			Height:               row.int64("height"),
			MaxWeight:            row.float("max_weight"),
			DefaultUse:           row.bool("default_use"),
			ArrivalDayOffset:     row.int("arrival_day_offset"),
			DepartureTime:        row.string("departure_time"),
			ArrivalTime:          row.string("arrival_time"),
			PriorityProductCodes: row.stringList("priority_product_codes"),
		})
	})
	if err != nil {
		return nil, err
	}
	return trucks, nil
}

// ReadContainers parses containers.csv.
func ReadContainers(r io.Reader) ([]transport.Container, error) {
	var containers []transport.Container
	err := readRows(r, "containers", containerHeader, func(row *record) {
		containers = append(containers, transport.Container{
			ID:        row.int("container_id"),
			Name:      row.string("name"),
			Width:     row.int64("width"),
			Depth:     row.int64("depth"),
			Height:    row.int64("height"),
			MaxWeight: row.float("max_weight"),
			Stackable: row.bool("stackable"),
			MaxStack:  row.int("max_stack"),
		})
	})
	if err != nil {
		return nil, err
	}
	return containers, nil
}

// ReadProducts parses products.csv. used_truck_ids is a comma-separated list
// inside one quoted cell; empty means any truck.
func ReadProducts(r io.Reader) ([]transport.Product, error) {
	var products []transport.Product
	err := readRows(r, "products", productHeader, func(row *record) {
		products = append(products, transport.Product{
			ID:          row.int("product_id"),
			Code:        row.string("product_code"),
			Name:        row.string("product_name"),
			Capacity:    row.int("capacity"),
			ContainerID: row.int("container_id"),
			TruckIDs:    row.intList("used_truck_ids"),
		})
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// ReadOrders parses orders.csv. Dates are ISO yyyy-mm-dd.
func ReadOrders(r io.Reader) ([]transport.Order, error) {
	var orders []transport.Order
	err := readRows(r, "orders", orderHeader, func(row *record) {
		orders = append(orders, transport.Order{
			ID:           row.string("order_id"),
			ProductID:    row.int("product_id"),
			DeliveryDate: row.date("delivery_date"),
			Quantity:     row.int("order_quantity"),
		})
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ReadCalendar parses calendar.csv into a working-day table. The file is
// authoritative: dates it does not list are non-working, so it must cover the
// whole planning horizon.
func ReadCalendar(r io.Reader) (*calendar.Table, error) {
	table := &calendar.Table{Days: map[calendar.Date]bool{}}
	err := readRows(r, "calendar", calendarHeader, func(row *record) {
		table.Days[row.date("date")] = row.bool("is_working_day")
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// readRows streams a CSV file: header strictness first, then every data row
// through visit. Row-level failures are collected, not short-circuited, so
// one pass reports every defect in the file.
func readRows(r io.Reader, file string, header []string, visit func(*record)) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: missing header", file)
	}
	if err != nil {
		return fmt.Errorf("%s: reading header: %w", file, err)
	}
	if len(first) > 0 {
		// Excel exports prepend a byte order mark.
		first[0] = strings.TrimPrefix(first[0], "\ufeff")
	}
	if !slices.Equal(first, header) {
		return fmt.Errorf("%s: header %v does not match expected %v", file, first, header)
	}
	index := map[string]int{}
	for i, name := range header {
		index[name] = i
	}

	var errs error
	line := 1
	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s row %d: %w", file, line, err))
			continue
		}
		row := &record{file: file, line: line, index: index, cells: cells}
		visit(row)
		errs = multierr.Append(errs, row.errs)
	}
	return errs
}

// record gives typed access to one CSV row. Parse failures accumulate on the
// record instead of aborting it, so a single row reports all its bad cells.
type record struct {
	file  string
	line  int
	index map[string]int
	cells []string
	errs  error
}

func (r *record) fail(column string, err error) {
	r.errs = multierr.Append(r.errs, fmt.Errorf("%s row %d: column %s: %w", r.file, r.line, column, err))
}

func (r *record) string(column string) string {
	return strings.TrimSpace(r.cells[r.index[column]])
}

func (r *record) int(column string) int {
	value, err := strconv.Atoi(r.string(column))
	if err != nil {
		r.fail(column, err)
		return 0
	}
	return value
}

func (r *record) int64(column string) int64 {
	value, err := strconv.ParseInt(r.string(column), 10, 64)
	if err != nil {
		r.fail(column, err)
		return 0
	}
	return value
}

func (r *record) float(column string) float64 {
	value, err := strconv.ParseFloat(r.string(column), 64)
	if err != nil {
		r.fail(column, err)
		return 0
	}
	return value
}

func (r *record) bool(column string) bool {
	value, err := strconv.ParseBool(r.string(column))
	if err != nil {
		r.fail(column, err)
		return false
	}
	return value
}

func (r *record) date(column string) calendar.Date {
	value, err := calendar.ParseDate(r.string(column))
	if err != nil {
		r.fail(column, err)
		return calendar.Date{}
	}
	return value
}

func (r *record) intList(column string) []int {
	var values []int
	for _, part := range strings.Split(r.string(column), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := strconv.Atoi(part)
		if err != nil {
			r.fail(column, err)
			continue
		}
		values = append(values, value)
	}
	return values
}

func (r *record) stringList(column string) []string {
	var values []string
	for _, part := range strings.Split(r.string(column), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		values = append(values, part)
	}
	return values
}
