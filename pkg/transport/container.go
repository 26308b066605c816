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

// Package transport holds the master records a plan run is computed from:
// containers, trucks, products and orders. Masters are immutable for the
// duration of a run. Lengths are millimetres, so footprints and volumes fit
// comfortably in int64.
package transport

// Container is a returnable shipping container. Products ship in exactly one
// container kind; stacking is the only third dimension the planner uses.
type Container struct {
	ID        int     `json:"container_id"`
	Name      string  `json:"name"`
	Width     int64   `json:"width"`
	Depth     int64   `json:"depth"`
	Height    int64   `json:"height"`
	MaxWeight float64 `json:"max_weight"`
	Stackable bool    `json:"stackable"`
	MaxStack  int     `json:"max_stack"`
}

// Footprint is the deck area one container occupies.
func (c Container) Footprint() int64 {
	return c.Width * c.Depth
}

// Volume is the space one container occupies.
func (c Container) Volume() int64 {
	return c.Width * c.Depth * c.Height
}

// EffectiveStack is the stack factor the planner applies: non-stackable
// containers stack 1 high regardless of MaxStack.
func (c Container) EffectiveStack() int {
	if !c.Stackable || c.MaxStack < 1 {
		return 1
	}
	return c.MaxStack
}
