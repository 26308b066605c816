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

// Package csvio reads the five planning input files. Headers are strict,
// dates are ISO, list-valued cells are comma-separated inside one quoted
// field, and every defective row in a file is reported in a single pass.
package csvio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/deckplan/deckplan/pkg/calendar"
	"github.com/deckplan/deckplan/pkg/transport"
)

// Input file names inside a bundle directory.
const (
	TrucksFile     = "trucks.csv"
	ContainersFile = "containers.csv"
	ProductsFile   = "products.csv"
	OrdersFile     = "orders.csv"
	CalendarFile   = "calendar.csv"
)

// Bundle is one directory's worth of planning inputs. Calendar is nil when
// calendar.csv is absent, which downstream treats as every day working.
type Bundle struct {
	Trucks     []transport.Truck
	Containers []transport.Container
	Products   []transport.Product
	Orders     []transport.Order
	Calendar   *calendar.Table
}

// LoadBundle reads all input files from dir concurrently. The four master and
// order files are required; the calendar is optional.
func LoadBundle(ctx context.Context, dir string) (*Bundle, error) {
	bundle := &Bundle{}
	group, _ := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		bundle.Trucks, err = loadFile(dir, TrucksFile, ReadTrucks)
		return err
	})
	group.Go(func() (err error) {
		bundle.Containers, err = loadFile(dir, ContainersFile, ReadContainers)
		return err
	})
	group.Go(func() (err error) {
		bundle.Products, err = loadFile(dir, ProductsFile, ReadProducts)
		return err
	})
	group.Go(func() (err error) {
		bundle.Orders, err = loadFile(dir, OrdersFile, ReadOrders)
		return err
	})
	group.Go(func() (err error) {
		bundle.Calendar, err = loadFile(dir, CalendarFile, ReadCalendar)
		if errors.Is(err, fs.ErrNotExist) {
			bundle.Calendar = nil
			return nil
		}
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return bundle, nil
}

func loadFile[T any](dir, name string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return zero, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()
	return read(f)
}
