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

package scheduling_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/samber/lo"

	"github.com/deckplan/deckplan/pkg/calendar"
	"github.com/deckplan/deckplan/pkg/planner/scheduling"
	"github.com/deckplan/deckplan/pkg/test"
	"github.com/deckplan/deckplan/pkg/transport"
)

var _ = Describe("BuildDemands", func() {
	var (
		monday    calendar.Date
		trucks    []transport.Truck
		products  []transport.Product
		container transport.Container
		weekdays  calendar.Oracle
	)
	BeforeEach(func() {
		monday = calendar.NewDate(2025, time.October, 6)
		trucks = []transport.Truck{test.Truck(test.TruckOptions{ID: 1})}
		container = test.Container(test.ContainerOptions{ID: 1})
		products = []transport.Product{test.Product(test.ProductOptions{ID: 1, Code: "P1", Capacity: 10, ContainerID: 1})}
		weekdays = calendar.Weekdays()
	})

	It("should place an order on its due date when the truck arrives same-day", func() {
		dates := calendar.WorkingDays(monday, 1, weekdays)
		orders := []transport.Order{test.Order(test.OrderOptions{ProductID: 1, DeliveryDate: monday, Quantity: 200})}
		byDay, useNonDefault := scheduling.BuildDemands(orders, products, []transport.Container{container}, trucks, weekdays, dates)
		Expect(useNonDefault).To(BeFalse())
		Expect(byDay).To(HaveKey(monday))
		Expect(byDay[monday]).To(HaveLen(1))
		demand := byDay[monday][0]
		Expect(demand.NumContainers).To(Equal(20))
		Expect(demand.TotalQuantity).To(Equal(200))
		Expect(demand.FloorArea).To(Equal(int64(20_000_000)))
		Expect(demand.LoadingDate).To(Equal(monday))
		Expect(demand.OriginalDate).To(Equal(monday))
	})

	It("should load one day early when the first permitted truck arrives a day late", func() {
		trucks[0].ArrivalDayOffset = 1
		tuesday := monday.AddDays(1)
		dates := calendar.WorkingDays(monday, 2, weekdays)
		orders := []transport.Order{test.Order(test.OrderOptions{ProductID: 1, DeliveryDate: tuesday})}
		byDay, _ := scheduling.BuildDemands(orders, products, []transport.Container{container}, trucks, weekdays, dates)
		Expect(byDay).To(HaveKey(monday))
		Expect(byDay).ToNot(HaveKey(tuesday))
	})

	It("should roll a non-working loading day back to the prior working day", func() {
		friday := calendar.NewDate(2025, time.October, 3)
		tuesday := monday.AddDays(1)
		table := &calendar.Table{Days: map[calendar.Date]bool{friday: true, tuesday: true}}
		dates := calendar.WorkingDays(friday, 2, table) // holiday Monday skipped
		orders := []transport.Order{test.Order(test.OrderOptions{ProductID: 1, DeliveryDate: monday})}
		byDay, _ := scheduling.BuildDemands(orders, products, []transport.Container{container}, trucks, table, dates)
		Expect(byDay).To(HaveKey(friday))
		Expect(byDay[friday][0].DeliveryDate).To(Equal(monday))
		Expect(byDay[friday][0].LoadingDate).To(Equal(friday))
	})

	It("should drop orders it cannot resolve", func() {
		dates := calendar.WorkingDays(monday, 1, weekdays)
		orders := []transport.Order{
			test.Order(test.OrderOptions{ID: "unknown-product", ProductID: 99, DeliveryDate: monday}),
			{ID: "zero-quantity", ProductID: 1, DeliveryDate: monday, Quantity: 0},
			test.Order(test.OrderOptions{ID: "outside-horizon", ProductID: 1, DeliveryDate: monday.AddDays(14)}),
		}
		byDay, _ := scheduling.BuildDemands(orders, products, []transport.Container{container}, trucks, weekdays, dates)
		Expect(byDay).To(BeEmpty())
	})

	It("should drop an order whose product names an unknown container", func() {
		dates := calendar.WorkingDays(monday, 1, weekdays)
		products[0].ContainerID = 42
		orders := []transport.Order{test.Order(test.OrderOptions{ProductID: 1, DeliveryDate: monday})}
		byDay, _ := scheduling.BuildDemands(orders, products, []transport.Container{container}, trucks, weekdays, dates)
		Expect(byDay).To(BeEmpty())
	})

	It("should drop an order whose loading day cannot reach a working day within a week", func() {
		neverWorks := calendar.OracleFunc(func(calendar.Date) bool { return false })
		orders := []transport.Order{test.Order(test.OrderOptions{ProductID: 1, DeliveryDate: monday})}
		byDay, _ := scheduling.BuildDemands(orders, products, []transport.Container{container}, trucks, neverWorks, nil)
		Expect(byDay).To(BeEmpty())
	})

	It("should stack the footprint when the container allows it", func() {
		stackable := test.Container(test.ContainerOptions{ID: 1, Stackable: true, MaxStack: 4})
		dates := calendar.WorkingDays(monday, 1, weekdays)
		orders := []transport.Order{test.Order(test.OrderOptions{ProductID: 1, DeliveryDate: monday, Quantity: 50})}
		byDay, _ := scheduling.BuildDemands(orders, products, []transport.Container{stackable}, trucks, weekdays, dates)
		demand := byDay[monday][0]
		Expect(demand.NumContainers).To(Equal(5))
		Expect(demand.FloorArea).To(Equal(int64(2_000_000))) // ⌈5/4⌉ stacks
	})

	It("should keep the product's own truck list and leave unconstrained demands unconstrained", func() {
		constrained := test.Product(test.ProductOptions{ID: 2, Code: "P2", ContainerID: 1, TruckIDs: []int{1}})
		dates := calendar.WorkingDays(monday, 1, weekdays)
		orders := []transport.Order{
			test.Order(test.OrderOptions{ProductID: 1, DeliveryDate: monday}),
			test.Order(test.OrderOptions{ProductID: 2, DeliveryDate: monday}),
		}
		byDay, _ := scheduling.BuildDemands(orders, append(products, constrained), []transport.Container{container}, trucks, weekdays, dates)
		Expect(byDay[monday][0].TruckIDs).To(BeEmpty())
		Expect(byDay[monday][1].TruckIDs).To(Equal([]int{1}))
	})

	It("should clamp capacity to one unit per container", func() {
		products[0].Capacity = 0
		dates := calendar.WorkingDays(monday, 1, weekdays)
		orders := []transport.Order{test.Order(test.OrderOptions{ProductID: 1, DeliveryDate: monday, Quantity: 3})}
		byDay, _ := scheduling.BuildDemands(orders, products, []transport.Container{container}, trucks, weekdays, dates)
		Expect(byDay[monday][0].NumContainers).To(Equal(3))
	})

	Context("non-default truck decision", func() {
		// The default deck is 10000×5000 = 50,000,000 mm²; each container
		// pays 1,000,000 mm² at capacity 10 units per container.
		It("should stay on the default fleet when average demand equals the default deck area", func() {
			dates := calendar.WorkingDays(monday, 1, weekdays)
			orders := []transport.Order{test.Order(test.OrderOptions{ProductID: 1, DeliveryDate: monday, Quantity: 500})}
			_, useNonDefault := scheduling.BuildDemands(orders, products, []transport.Container{container}, trucks, weekdays, dates)
			Expect(useNonDefault).To(BeFalse())
		})
		It("should enable reserve trucks when average demand exceeds the default deck area", func() {
			dates := calendar.WorkingDays(monday, 1, weekdays)
			orders := []transport.Order{test.Order(test.OrderOptions{ProductID: 1, DeliveryDate: monday, Quantity: 510})}
			_, useNonDefault := scheduling.BuildDemands(orders, products, []transport.Container{container}, trucks, weekdays, dates)
			Expect(useNonDefault).To(BeTrue())
		})
		It("should never flip back to the default fleet when demand grows", func() {
			dates := calendar.WorkingDays(monday, 1, weekdays)
			orders := []transport.Order{test.Order(test.OrderOptions{ProductID: 1, DeliveryDate: monday, Quantity: 510})}
			_, before := scheduling.BuildDemands(orders, products, []transport.Container{container}, trucks, weekdays, dates)
			orders = append(orders, test.Order(test.OrderOptions{ProductID: 1, DeliveryDate: monday, Quantity: 100}))
			_, after := scheduling.BuildDemands(orders, products, []transport.Container{container}, trucks, weekdays, dates)
			Expect(before).To(BeTrue())
			Expect(after).To(BeTrue())
		})
		It("should ignore reserve deck area in the baseline", func() {
			reserve := test.Truck(test.TruckOptions{ID: 2, DefaultUse: lo.ToPtr(false)})
			dates := calendar.WorkingDays(monday, 1, weekdays)
			orders := []transport.Order{test.Order(test.OrderOptions{ProductID: 1, DeliveryDate: monday, Quantity: 510})}
			_, useNonDefault := scheduling.BuildDemands(orders, products, []transport.Container{container}, append(trucks, reserve), weekdays, dates)
			Expect(useNonDefault).To(BeTrue())
		})
	})
})
