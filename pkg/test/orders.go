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

package test

import (
	"fmt"
	"strings"
	"time"

	"github.com/Pallinder/go-randomdata"
	"github.com/imdario/mergo"

	"github.com/deckplan/deckplan/pkg/calendar"
	"github.com/deckplan/deckplan/pkg/transport"
)

// OrderOptions customizes an Order.
type OrderOptions struct {
	ID           string
	ProductID    int
	DeliveryDate calendar.Date
	Quantity     int
}

// Order creates a test order: product 1, quantity 10, due on the default
// plan date (2025-10-06, a Monday), unless overridden.
func Order(overrides ...OrderOptions) transport.Order {
	options := OrderOptions{}
	for _, opts := range overrides {
		if err := mergo.Merge(&options, opts, mergo.WithOverride); err != nil {
			panic(fmt.Sprintf("Failed to merge order options: %s", err.Error()))
		}
	}
	if options.ID == "" {
		options.ID = strings.ToLower(randomdata.SillyName())
	}
	if options.ProductID == 0 {
		options.ProductID = 1
	}
	if options.DeliveryDate.IsZero() {
		options.DeliveryDate = calendar.NewDate(2025, time.October, 6)
	}
	if options.Quantity == 0 {
		options.Quantity = 10
	}
	return transport.Order{
		ID:           options.ID,
		ProductID:    options.ProductID,
		DeliveryDate: options.DeliveryDate,
		Quantity:     options.Quantity,
	}
}
