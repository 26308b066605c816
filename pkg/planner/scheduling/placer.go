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

package scheduling

import (
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/deckplan/deckplan/pkg/calendar"
	"github.com/deckplan/deckplan/pkg/transport"
)

// maxRollbackDays bounds the backward search for a working loading day.
// Orders whose loading day cannot be rolled onto a working day within a week
// are dropped for the horizon.
const maxRollbackDays = 7

// BuildDemands turns orders into demands keyed by loading day, and decides
// whether non-default trucks are enabled for the horizon. Orders that cannot
// become demands (unknown product or container, non-positive quantity, no
// permitted truck, no working loading day inside the horizon) are dropped
// silently per the error-handling contract; drops are traced at debug level.
//
// The demand keeps the product's own allowed-truck list: an empty list means
// unconstrained, which the packer resolves against whatever fleet is
// available that day. The default fleet only determines the arrival offset
// of unconstrained products and the baseline deck area.
func BuildDemands(
	orders []transport.Order,
	products []transport.Product,
	containers []transport.Container,
	trucks []transport.Truck,
	oracle calendar.Oracle,
	workingDates []calendar.Date,
) (map[calendar.Date][]Demand, bool) {
	productsByID := lo.KeyBy(products, func(p transport.Product) int { return p.ID })
	containersByID := lo.KeyBy(containers, func(c transport.Container) int { return c.ID })
	trucksByID := lo.KeyBy(trucks, func(t transport.Truck) int { return t.ID })
	defaultFleet := lo.Filter(trucks, func(t transport.Truck, _ int) bool { return t.DefaultUse })
	defaultTruckIDs := lo.Map(defaultFleet, func(t transport.Truck, _ int) int { return t.ID })
	horizon := lo.SliceToMap(workingDates, func(d calendar.Date) (calendar.Date, struct{}) { return d, struct{}{} })

	log := zap.S()
	byDay := map[calendar.Date][]Demand{}
	var totalFloorArea int64
	for _, order := range orders {
		if order.Quantity <= 0 {
			log.Debugw("dropping order: non-positive quantity", "order", order.ID, "quantity", order.Quantity)
			continue
		}
		product, ok := productsByID[order.ProductID]
		if !ok {
			log.Debugw("dropping order: unknown product", "order", order.ID, "product_id", order.ProductID)
			continue
		}
		container, ok := containersByID[product.ContainerID]
		if !ok {
			log.Debugw("dropping order: unknown container", "order", order.ID, "container_id", product.ContainerID)
			continue
		}

		permitted := product.TruckIDs
		if len(permitted) == 0 {
			permitted = defaultTruckIDs
		}
		if len(permitted) == 0 {
			log.Debugw("dropping order: no permitted trucks", "order", order.ID, "product", product.Code)
			continue
		}
		firstTruck, ok := trucksByID[permitted[0]]
		if !ok {
			log.Debugw("dropping order: first permitted truck unknown", "order", order.ID, "truck_id", permitted[0])
			continue
		}

		loadingDate := order.DeliveryDate.AddDays(-firstTruck.ArrivalDayOffset)
		loadingDate, ok = calendar.RollBackToWorking(loadingDate, oracle, maxRollbackDays)
		if !ok {
			log.Debugw("dropping order: no working loading day within rollback window",
				"order", order.ID, "delivery_date", order.DeliveryDate.String())
			continue
		}
		if _, inside := horizon[loadingDate]; !inside {
			log.Debugw("dropping order: loading day outside horizon",
				"order", order.ID, "loading_date", loadingDate.String())
			continue
		}

		capacity := product.UnitsPerContainer()
		numContainers := ceilDiv(order.Quantity, capacity)
		demand := Demand{
			ProductID:          product.ID,
			ProductCode:        product.Code,
			ProductName:        product.Name,
			ContainerID:        container.ID,
			NumContainers:      numContainers,
			TotalQuantity:      order.Quantity,
			Capacity:           capacity,
			ContainerFootprint: container.Footprint(),
			FloorArea:          StackedFootprint(numContainers, container.Footprint(), container.Stackable, container.MaxStack),
			ContainerVolume:    container.Volume(),
			ContainerWeight:    container.MaxWeight,
			DeliveryDate:       order.DeliveryDate,
			LoadingDate:        loadingDate,
			OriginalDate:       loadingDate,
			TruckIDs:           product.TruckIDs,
			Stackable:          container.Stackable,
			MaxStack:           container.MaxStack,
		}
		byDay[loadingDate] = append(byDay[loadingDate], demand)
		totalFloorArea += demand.FloorArea
	}

	defaultDeckArea := lo.SumBy(defaultFleet, func(t transport.Truck) int64 { return t.DeckArea() })
	// Integer form of avg_floor_area > default_deck_area; exact, no float division.
	useNonDefaultTrucks := len(workingDates) > 0 && totalFloorArea > defaultDeckArea*int64(len(workingDates))
	if useNonDefaultTrucks {
		log.Infow("enabling non-default trucks for horizon",
			"total_floor_area", totalFloorArea, "default_deck_area", defaultDeckArea, "horizon_days", len(workingDates))
	}
	return byDay, useNonDefaultTrucks
}
