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

// Product maps a sellable item to its shipping container and capacity.
// TruckIDs is the ordered list of trucks permitted to carry it; earlier
// entries win. An empty list permits every default-use truck in fleet order.
type Product struct {
	ID          int    `json:"product_id"`
	Code        string `json:"product_code"`
	Name        string `json:"product_name,omitempty"`
	Capacity    int    `json:"capacity"`
	ContainerID int    `json:"container_id"`
	TruckIDs    []int  `json:"used_truck_ids,omitempty"`
}

// UnitsPerContainer is Capacity clamped to at least one unit, the planner's
// working value for container-count math.
func (p Product) UnitsPerContainer() int {
	if p.Capacity < 1 {
		return 1
	}
	return p.Capacity
}
