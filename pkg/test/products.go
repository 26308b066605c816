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

	"github.com/Pallinder/go-randomdata"
	"github.com/imdario/mergo"

	"github.com/deckplan/deckplan/pkg/transport"
)

// ProductOptions customizes a Product.
type ProductOptions struct {
	ID          int
	Code        string
	Name        string
	Capacity    int
	ContainerID int
	TruckIDs    []int
}

// Product creates a test product: capacity 10, container 1, unconstrained
// trucks, unless overridden.
func Product(overrides ...ProductOptions) transport.Product {
	options := ProductOptions{}
	for _, opts := range overrides {
		if err := mergo.Merge(&options, opts, mergo.WithOverride); err != nil {
			panic(fmt.Sprintf("Failed to merge product options: %s", err.Error()))
		}
	}
	if options.ID == 0 {
		options.ID = 1
	}
	if options.Code == "" {
		options.Code = strings.ToUpper(randomdata.SillyName())
	}
	if options.Name == "" {
		options.Name = strings.ToLower(randomdata.SillyName())
	}
	if options.Capacity == 0 {
		options.Capacity = 10
	}
	if options.ContainerID == 0 {
		options.ContainerID = 1
	}
	return transport.Product{
		ID:          options.ID,
		Code:        options.Code,
		Name:        options.Name,
		Capacity:    options.Capacity,
		ContainerID: options.ContainerID,
		TruckIDs:    options.TruckIDs,
	}
}
