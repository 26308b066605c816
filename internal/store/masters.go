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

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"

	"github.com/deckplan/deckplan/pkg/calendar"
	"github.com/deckplan/deckplan/pkg/transport"
)

const (
	trucksKey     = "trucks"
	containersKey = "containers"
	productsKey   = "products"
)

// ReplaceTrucks swaps the truck master wholesale, preserving slice order as
// the stored position.
func (s *Store) ReplaceTrucks(ctx context.Context, trucks []transport.Truck) error {
	return s.replace(ctx, "trucks", func(tx *sql.Tx) error {
		for i, t := range trucks {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO trucks (position, truck_id, truck_name, width, depth, height, max_weight,
					default_use, arrival_day_offset, departure_time, arrival_time, priority_product_codes)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
				i, t.ID, t.Name, t.Width, t.Depth, t.Height, t.MaxWeight,
				t.DefaultUse, t.ArrivalDayOffset, t.DepartureTime, t.ArrivalTime,
				pq.Array(t.PriorityProductCodes)); err != nil {
				return fmt.Errorf("inserting truck %d: %w", t.ID, err)
			}
		}
		return nil
	})
}

// Trucks returns the truck master in stored order. Reads are cached until
// the next replace.
func (s *Store) Trucks(ctx context.Context) ([]transport.Truck, error) {
	if cached, ok := s.cache.Get(trucksKey); ok {
		return cached.([]transport.Truck), nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT truck_id, truck_name, width, depth, height, max_weight,
			default_use, arrival_day_offset, departure_time, arrival_time, priority_product_codes
		 FROM trucks ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying trucks: %w", err)
	}
	defer rows.Close()

	var trucks []transport.Truck
	for rows.Next() {
		var t transport.Truck
		var codes pq.StringArray
		if err := rows.Scan(&t.ID, &t.Name, &t.Width, &t.Depth, &t.Height, &t.MaxWeight,
			&t.DefaultUse, &t.ArrivalDayOffset, &t.DepartureTime, &t.ArrivalTime, &codes); err != nil {
			return nil, fmt.Errorf("scanning truck: %w", err)
		}
		t.PriorityProductCodes = codes
		trucks = append(trucks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading trucks: %w", err)
	}
	s.cache.Set(trucksKey, trucks, cache.DefaultExpiration)
	return trucks, nil
}

// ReplaceContainers swaps the container master wholesale.
func (s *Store) ReplaceContainers(ctx context.Context, containers []transport.Container) error {
	return s.replace(ctx, "containers", func(tx *sql.Tx) error {
		for i, c := range containers {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO containers (position, container_id, name, width, depth, height, max_weight, stackable, max_stack)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				i, c.ID, c.Name, c.Width, c.Depth, c.Height, c.MaxWeight, c.Stackable, c.MaxStack); err != nil {
				return fmt.Errorf("inserting container %d: %w", c.ID, err)
			}
		}
		return nil
	})
}

// Containers returns the container master in stored order.
func (s *Store) Containers(ctx context.Context) ([]transport.Container, error) {
	if cached, ok := s.cache.Get(containersKey); ok {
		return cached.([]transport.Container), nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT container_id, name, width, depth, height, max_weight, stackable, max_stack
		 FROM containers ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying containers: %w", err)
	}
	defer rows.Close()

	var containers []transport.Container
	for rows.Next() {
		var c transport.Container
		if err := rows.Scan(&c.ID, &c.Name, &c.Width, &c.Depth, &c.Height, &c.MaxWeight, &c.Stackable, &c.MaxStack); err != nil {
			return nil, fmt.Errorf("scanning container: %w", err)
		}
		containers = append(containers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading containers: %w", err)
	}
	s.cache.Set(containersKey, containers, cache.DefaultExpiration)
	return containers, nil
}

// ReplaceProducts swaps the product master wholesale.
func (s *Store) ReplaceProducts(ctx context.Context, products []transport.Product) error {
	return s.replace(ctx, "products", func(tx *sql.Tx) error {
		for i, p := range products {
			ids := lo.Map(p.TruckIDs, func(id int, _ int) int64 { return int64(id) })
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO products (position, product_id, product_code, product_name, capacity, container_id, used_truck_ids)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				i, p.ID, p.Code, p.Name, p.Capacity, p.ContainerID, pq.Array(ids)); err != nil {
				return fmt.Errorf("inserting product %d: %w", p.ID, err)
			}
		}
		return nil
	})
}

// Products returns the product master in stored order.
func (s *Store) Products(ctx context.Context) ([]transport.Product, error) {
	if cached, ok := s.cache.Get(productsKey); ok {
		return cached.([]transport.Product), nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, product_code, product_name, capacity, container_id, used_truck_ids
		 FROM products ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []transport.Product
	for rows.Next() {
		var p transport.Product
		var ids pq.Int64Array
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Capacity, &p.ContainerID, &ids); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		p.TruckIDs = lo.Map(ids, func(id int64, _ int) int { return int(id) })
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading products: %w", err)
	}
	s.cache.Set(productsKey, products, cache.DefaultExpiration)
	return products, nil
}

// ReplaceOrders swaps the order book wholesale.
func (s *Store) ReplaceOrders(ctx context.Context, orders []transport.Order) error {
	return s.replace(ctx, "orders", func(tx *sql.Tx) error {
		for i, o := range orders {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO orders (position, order_id, product_id, delivery_date, order_quantity)
				 VALUES ($1, $2, $3, $4, $5)`,
				i, o.ID, o.ProductID, o.DeliveryDate, o.Quantity); err != nil {
				return fmt.Errorf("inserting order %s: %w", o.ID, err)
			}
		}
		return nil
	})
}

// Orders returns the order book in stored order.
func (s *Store) Orders(ctx context.Context) ([]transport.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT order_id, product_id, delivery_date, order_quantity FROM orders ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var orders []transport.Order
	for rows.Next() {
		var o transport.Order
		if err := rows.Scan(&o.ID, &o.ProductID, &o.DeliveryDate, &o.Quantity); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading orders: %w", err)
	}
	return orders, nil
}

// ReplaceCalendar swaps the working-day table wholesale. A nil table clears
// it, which downstream reads as every day working.
func (s *Store) ReplaceCalendar(ctx context.Context, table *calendar.Table) error {
	return s.replace(ctx, "calendar_days", func(tx *sql.Tx) error {
		if table == nil {
			return nil
		}
		for day, working := range table.Days {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO calendar_days (day, is_working_day) VALUES ($1, $2)`,
				day, working); err != nil {
				return fmt.Errorf("inserting calendar day %s: %w", day, err)
			}
		}
		return nil
	})
}

// Calendar returns the stored working-day table, or nil when none is stored.
func (s *Store) Calendar(ctx context.Context) (*calendar.Table, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT day, is_working_day FROM calendar_days ORDER BY day`)
	if err != nil {
		return nil, fmt.Errorf("querying calendar: %w", err)
	}
	defer rows.Close()

	days := map[calendar.Date]bool{}
	for rows.Next() {
		var day calendar.Date
		var working bool
		if err := rows.Scan(&day, &working); err != nil {
			return nil, fmt.Errorf("scanning calendar day: %w", err)
		}
		days[day] = working
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading calendar: %w", err)
	}
	if len(days) == 0 {
		return nil, nil
	}
	return &calendar.Table{Days: days}, nil
}

// replace runs delete-then-insert in one transaction and flushes the master
// cache on success.
func (s *Store) replace(ctx context.Context, table string, insert func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clearing %s: %w", table, err)
	}
	if err := insert(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s: %w", table, err)
	}
	s.cache.Flush()
	return nil
}
