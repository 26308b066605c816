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

package transport

import "github.com/deckplan/deckplan/pkg/calendar"

// Order is an outstanding delivery order. Callers filter to remaining
// quantity > 0; the planner drops anything else silently.
type Order struct {
	ID           string        `json:"order_id"`
	ProductID    int           `json:"product_id"`
	DeliveryDate calendar.Date `json:"delivery_date"`
	Quantity     int           `json:"order_quantity"`
}
