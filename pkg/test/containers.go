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

// Package test provides object factories for suites. Factories merge option
// structs with a last-write-wins semantic and fill whatever is left with
// workable defaults.
package test

import (
	"fmt"
	"strings"

	"github.com/Pallinder/go-randomdata"
	"github.com/imdario/mergo"

	"github.com/deckplan/deckplan/pkg/transport"
)

// ContainerOptions customizes a Container.
type ContainerOptions struct {
	ID        int
	Name      string
	Width     int64
	Depth     int64
	Height    int64
	MaxWeight float64
	Stackable bool
	MaxStack  int
}

// Container creates a test container: 1000×1000×1000 mm, non-stackable,
// unless overridden.
func Container(overrides ...ContainerOptions) transport.Container {
	options := ContainerOptions{}
	for _, opts := range overrides {
		if err := mergo.Merge(&options, opts, mergo.WithOverride); err != nil {
			panic(fmt.Sprintf("Failed to merge container options: %s", err.Error()))
		}
	}
	if options.ID == 0 {
		options.ID = 1
	}
	if options.Name == "" {
		options.Name = strings.ToLower(randomdata.SillyName())
	}
	if options.Width == 0 {
		options.Width = 1000
	}
	if options.Depth == 0 {
		options.Depth = 1000
	}
	if options.Height == 0 {
		options.Height = 1000
	}
	if options.MaxWeight == 0 {
		options.MaxWeight = 500
	}
	if options.MaxStack == 0 {
		options.MaxStack = 1
	}
	return transport.Container{
		ID:        options.ID,
		Name:      options.Name,
		Width:     options.Width,
		Depth:     options.Depth,
		Height:    options.Height,
		MaxWeight: options.MaxWeight,
		Stackable: options.Stackable,
		MaxStack:  options.MaxStack,
	}
}
