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

var _ = Describe("Packer", func() {
	var day calendar.Date
	BeforeEach(func() {
		day = calendar.NewDate(2025, time.October, 6)
	})

	It("should return an empty result for an empty day", func() {
		packer := scheduling.NewPacker([]transport.Truck{test.Truck()}, false)
		result := packer.Pack(day, nil)
		Expect(result.Trips).To(BeEmpty())
		Expect(result.Warnings).To(BeEmpty())
		Expect(result.Remaining).To(BeEmpty())
	})

	It("should keep reserve trucks off the fleet unless enabled", func() {
		trucks := []transport.Truck{
			test.Truck(test.TruckOptions{ID: 1}),
			test.Truck(test.TruckOptions{ID: 2, DefaultUse: lo.ToPtr(false)}),
		}
		demands := []scheduling.Demand{
			test.Demand(test.DemandOptions{NumContainers: 60, LoadingDate: day}),
		}
		result := scheduling.NewPacker(trucks, false).Pack(day, demands)
		Expect(result.Trips).To(HaveLen(1))
		Expect(result.Trips[0].TruckID).To(Equal(1))
		Expect(result.Remaining).To(HaveLen(1))

		result = scheduling.NewPacker(trucks, true).Pack(day, demands)
		Expect(result.Trips).To(HaveLen(2))
		Expect(result.Remaining).To(BeEmpty())
	})

	Context("demand ordering", func() {
		It("should load priority products before anything else", func() {
			trucks := []transport.Truck{test.Truck(test.TruckOptions{PriorityProductCodes: []string{"URGENT"}})}
			demands := []scheduling.Demand{
				test.Demand(test.DemandOptions{ProductCode: "AMPLE", NumContainers: 30, LoadingDate: day}),
				test.Demand(test.DemandOptions{ProductCode: "URGENT", NumContainers: 30, LoadingDate: day}),
			}
			result := scheduling.NewPacker(trucks, false).Pack(day, demands)
			Expect(result.Trips).To(HaveLen(1))
			items := result.Trips[0].Items
			Expect(items[0].ProductCode).To(Equal("URGENT"))
			Expect(items[0].NumContainers).To(Equal(30))
			Expect(items[1].ProductCode).To(Equal("AMPLE"))
			Expect(items[1].NumContainers).To(Equal(20))
			Expect(result.Remaining).To(HaveLen(1))
			Expect(result.Remaining[0].ProductCode).To(Equal("AMPLE"))
		})

		It("should load truck-constrained demands before unconstrained ones", func() {
			trucks := []transport.Truck{test.Truck()}
			demands := []scheduling.Demand{
				test.Demand(test.DemandOptions{ProductCode: "AAA", NumContainers: 30, LoadingDate: day}),
				test.Demand(test.DemandOptions{ProductCode: "BBB", NumContainers: 30, TruckIDs: []int{1}, LoadingDate: day}),
			}
			result := scheduling.NewPacker(trucks, false).Pack(day, demands)
			items := result.Trips[0].Items
			Expect(items[0].ProductCode).To(Equal("BBB"))
			Expect(items[1].ProductCode).To(Equal("AAA"))
		})

		It("should break unconstrained ties by product code", func() {
			trucks := []transport.Truck{test.Truck()}
			demands := []scheduling.Demand{
				test.Demand(test.DemandOptions{ProductCode: "BBB", NumContainers: 10, LoadingDate: day}),
				test.Demand(test.DemandOptions{ProductCode: "AAA", NumContainers: 10, LoadingDate: day}),
			}
			result := scheduling.NewPacker(trucks, false).Pack(day, demands)
			items := result.Trips[0].Items
			Expect(items[0].ProductCode).To(Equal("AAA"))
			Expect(items[1].ProductCode).To(Equal("BBB"))
		})
	})

	Context("candidate selection", func() {
		It("should steer a priority product to its truck over a roomier one", func() {
			trucks := []transport.Truck{
				test.Truck(test.TruckOptions{ID: 1, Width: 20000}),
				test.Truck(test.TruckOptions{ID: 2, PriorityProductCodes: []string{"URGENT"}}),
			}
			demands := []scheduling.Demand{
				test.Demand(test.DemandOptions{ProductCode: "URGENT", NumContainers: 10, LoadingDate: day}),
			}
			result := scheduling.NewPacker(trucks, false).Pack(day, demands)
			Expect(result.Trips).To(HaveLen(1))
			Expect(result.Trips[0].TruckID).To(Equal(2))
		})

		It("should prefer the truck with more remaining deck for unconstrained demand", func() {
			trucks := []transport.Truck{
				test.Truck(test.TruckOptions{ID: 1}),
				test.Truck(test.TruckOptions{ID: 2, Width: 20000}),
			}
			demands := []scheduling.Demand{
				test.Demand(test.DemandOptions{NumContainers: 10, LoadingDate: day}),
			}
			result := scheduling.NewPacker(trucks, false).Pack(day, demands)
			Expect(result.Trips).To(HaveLen(1))
			Expect(result.Trips[0].TruckID).To(Equal(2))
		})

		It("should prefer a truck already carrying the container over a roomier one", func() {
			trucks := []transport.Truck{
				test.Truck(test.TruckOptions{ID: 1}),
				test.Truck(test.TruckOptions{ID: 2, Width: 20000}),
			}
			demands := []scheduling.Demand{
				test.Demand(test.DemandOptions{ProductCode: "SEED", ContainerID: 7, NumContainers: 10, TruckIDs: []int{1}, LoadingDate: day}),
				test.Demand(test.DemandOptions{ProductCode: "TAIL", ContainerID: 7, NumContainers: 10, LoadingDate: day}),
			}
			result := scheduling.NewPacker(trucks, false).Pack(day, demands)
			Expect(result.Trips).To(HaveLen(1))
			Expect(result.Trips[0].TruckID).To(Equal(1))
			Expect(result.Trips[0].Items).To(HaveLen(2))
		})

		It("should honor the demand's allowed truck list", func() {
			trucks := []transport.Truck{
				test.Truck(test.TruckOptions{ID: 1, Width: 20000}),
				test.Truck(test.TruckOptions{ID: 2}),
			}
			demands := []scheduling.Demand{
				test.Demand(test.DemandOptions{NumContainers: 10, TruckIDs: []int{2}, LoadingDate: day}),
			}
			result := scheduling.NewPacker(trucks, false).Pack(day, demands)
			Expect(result.Trips).To(HaveLen(1))
			Expect(result.Trips[0].TruckID).To(Equal(2))
		})
	})

	Context("consolidation", func() {
		It("should top up existing stacks without paying new floor area", func() {
			// One 1000×1000 deck slot; two half stacks of the same container
			// share it.
			trucks := []transport.Truck{test.Truck(test.TruckOptions{Width: 1000, Depth: 1000})}
			demands := []scheduling.Demand{
				test.Demand(test.DemandOptions{ProductCode: "AAA", NumContainers: 2, Stackable: true, MaxStack: 4, LoadingDate: day}),
				test.Demand(test.DemandOptions{ProductCode: "BBB", NumContainers: 2, Stackable: true, MaxStack: 4, LoadingDate: day}),
			}
			result := scheduling.NewPacker(trucks, false).Pack(day, demands)
			Expect(result.Remaining).To(BeEmpty())
			Expect(result.Trips).To(HaveLen(1))
			Expect(result.Trips[0].Items).To(HaveLen(2))
			Expect(result.Trips[0].Utilization.FloorArea).To(Equal(100.0))
		})

		It("should charge only the additional stacks when topping up", func() {
			// 4 containers fill one stack; 4 more open exactly one new stack.
			trucks := []transport.Truck{test.Truck(test.TruckOptions{Width: 2000, Depth: 1000})}
			demands := []scheduling.Demand{
				test.Demand(test.DemandOptions{ProductCode: "AAA", NumContainers: 4, Stackable: true, MaxStack: 4, LoadingDate: day}),
				test.Demand(test.DemandOptions{ProductCode: "BBB", NumContainers: 4, Stackable: true, MaxStack: 4, LoadingDate: day}),
			}
			result := scheduling.NewPacker(trucks, false).Pack(day, demands)
			Expect(result.Remaining).To(BeEmpty())
			Expect(result.Trips[0].Utilization.FloorArea).To(Equal(100.0))
		})

		It("should not consolidate non-stackable containers", func() {
			trucks := []transport.Truck{test.Truck(test.TruckOptions{Width: 1000, Depth: 1000})}
			demands := []scheduling.Demand{
				test.Demand(test.DemandOptions{ProductCode: "AAA", NumContainers: 1, LoadingDate: day}),
				test.Demand(test.DemandOptions{ProductCode: "BBB", NumContainers: 1, LoadingDate: day}),
			}
			result := scheduling.NewPacker(trucks, false).Pack(day, demands)
			Expect(result.Trips[0].Items).To(HaveLen(1))
			Expect(result.Remaining).To(HaveLen(1))
			Expect(result.Remaining[0].ProductCode).To(Equal("BBB"))
		})

		It("should not consolidate the residual of a split", func() {
			// Both trucks already hold a half stack of container 1. The big
			// demand splits on truck 1; its residual must pay full stacks on
			// truck 2 instead of topping the half stack up, so two containers
			// stay on the ground.
			trucks := []transport.Truck{
				test.Truck(test.TruckOptions{ID: 1, Width: 2000, Depth: 1000}),
				test.Truck(test.TruckOptions{ID: 2, Width: 2000, Depth: 1000}),
			}
			demands := []scheduling.Demand{
				test.Demand(test.DemandOptions{ProductCode: "AAA", NumContainers: 2, Stackable: true, MaxStack: 4, TruckIDs: []int{1}, LoadingDate: day}),
				test.Demand(test.DemandOptions{ProductCode: "BBB", NumContainers: 2, Stackable: true, MaxStack: 4, TruckIDs: []int{2}, LoadingDate: day}),
				test.Demand(test.DemandOptions{ProductCode: "CCC", NumContainers: 10, Stackable: true, MaxStack: 4, LoadingDate: day}),
			}
			result := scheduling.NewPacker(trucks, false).Pack(day, demands)
			Expect(result.Remaining).To(HaveLen(1))
			Expect(result.Remaining[0].ProductCode).To(Equal("CCC"))
			Expect(result.Remaining[0].NumContainers).To(Equal(2))
			Expect(result.Remaining[0].Reason).To(Equal(scheduling.ReasonInsufficientDeckArea))
			Expect(result.Warnings).To(ContainElement("unloadable: CCC (2 containers)"))
		})
	})

	Context("splitting", func() {
		It("should split a demand across trucks and carry quantity proportionally", func() {
			trucks := []transport.Truck{
				test.Truck(test.TruckOptions{ID: 1}),
				test.Truck(test.TruckOptions{ID: 2}),
			}
			demands := []scheduling.Demand{
				test.Demand(test.DemandOptions{ProductCode: "WIDE", NumContainers: 80, Capacity: 10, LoadingDate: day}),
			}
			result := scheduling.NewPacker(trucks, false).Pack(day, demands)
			Expect(result.Remaining).To(BeEmpty())
			Expect(result.Trips).To(HaveLen(2))
			Expect(result.Trips[0].Items[0].NumContainers).To(Equal(50))
			Expect(result.Trips[0].Items[0].TotalQuantity).To(Equal(500))
			Expect(result.Trips[1].Items[0].NumContainers).To(Equal(30))
			Expect(result.Trips[1].Items[0].TotalQuantity).To(Equal(300))
		})

		It("should split by whole stacks for stackable containers", func() {
			// 1.5 deck slots: one whole stack of four fits, the fifth
			// container cannot open a partial slot.
			trucks := []transport.Truck{
				test.Truck(test.TruckOptions{ID: 1, Width: 1500, Depth: 1000}),
				test.Truck(test.TruckOptions{ID: 2, Width: 1000, Depth: 1000}),
			}
			demands := []scheduling.Demand{
				test.Demand(test.DemandOptions{ProductCode: "TALL", NumContainers: 5, Stackable: true, MaxStack: 4, LoadingDate: day}),
			}
			result := scheduling.NewPacker(trucks, false).Pack(day, demands)
			Expect(result.Remaining).To(BeEmpty())
			Expect(result.Trips).To(HaveLen(2))
			Expect(result.Trips[0].Items[0].NumContainers).To(Equal(4))
			Expect(result.Trips[1].Items[0].NumContainers).To(Equal(1))
		})

		It("should report the unplaced tail of a split chain", func() {
			trucks := []transport.Truck{test.Truck()}
			demands := []scheduling.Demand{
				test.Demand(test.DemandOptions{ProductCode: "BULK", NumContainers: 60, Capacity: 10, LoadingDate: day}),
			}
			result := scheduling.NewPacker(trucks, false).Pack(day, demands)
			Expect(result.Trips).To(HaveLen(1))
			Expect(result.Trips[0].Items[0].NumContainers).To(Equal(50))
			Expect(result.Remaining).To(HaveLen(1))
			Expect(result.Remaining[0].NumContainers).To(Equal(10))
			Expect(result.Remaining[0].TotalQuantity).To(Equal(100))
			Expect(result.Remaining[0].Reason).To(Equal(scheduling.ReasonInsufficientDeckArea))
			Expect(result.Warnings).To(ContainElement("unloadable: BULK (10 containers)"))
		})
	})

	Context("warnings", func() {
		It("should warn when a demand's only allowed truck is not on the day's fleet", func() {
			trucks := []transport.Truck{
				test.Truck(test.TruckOptions{ID: 1}),
				test.Truck(test.TruckOptions{ID: 2, DefaultUse: lo.ToPtr(false)}),
			}
			demands := []scheduling.Demand{
				test.Demand(test.DemandOptions{ProductCode: "BOLT-M8", NumContainers: 1, TruckIDs: []int{2}, LoadingDate: day}),
			}
			result := scheduling.NewPacker(trucks, false).Pack(day, demands)
			Expect(result.Trips).To(BeEmpty())
			Expect(result.Warnings).To(ConsistOf("truck constraint [2] unavailable for BOLT-M8"))
			Expect(result.Remaining).To(HaveLen(1))
			Expect(result.Remaining[0].Reason).To(Equal(scheduling.ReasonConstraintUnavailable))
		})

		It("should report an oversized demand as unloadable without a partial trip", func() {
			trucks := []transport.Truck{test.Truck(test.TruckOptions{Width: 1000, Depth: 1000})}
			demands := []scheduling.Demand{
				test.Demand(test.DemandOptions{ProductCode: "HUGE", NumContainers: 1, ContainerFootprint: 2_000_000, LoadingDate: day}),
			}
			result := scheduling.NewPacker(trucks, false).Pack(day, demands)
			Expect(result.Trips).To(BeEmpty())
			Expect(result.Warnings).To(ConsistOf("unloadable: HUGE (1 containers)"))
			Expect(result.Remaining).To(HaveLen(1))
		})
	})

	Context("utilization", func() {
		It("should report floor, volume and weight fill", func() {
			trucks := []transport.Truck{test.Truck()}
			demands := []scheduling.Demand{
				test.Demand(test.DemandOptions{NumContainers: 20, LoadingDate: day}),
			}
			result := scheduling.NewPacker(trucks, false).Pack(day, demands)
			utilization := result.Trips[0].Utilization
			Expect(utilization.FloorArea).To(Equal(40.0))
			Expect(utilization.Volume).To(Equal(13.3))
			Expect(utilization.Weight).To(Equal(100.0))
		})

		It("should report weight overload without refusing the load", func() {
			trucks := []transport.Truck{test.Truck()}
			demands := []scheduling.Demand{
				test.Demand(test.DemandOptions{NumContainers: 10, ContainerWeight: 2000, LoadingDate: day}),
			}
			result := scheduling.NewPacker(trucks, false).Pack(day, demands)
			Expect(result.Remaining).To(BeEmpty())
			Expect(result.Trips[0].Utilization.Weight).To(Equal(200.0))
		})
	})

	It("should list trips in fleet order regardless of placement order", func() {
		trucks := []transport.Truck{
			test.Truck(test.TruckOptions{ID: 1}),
			test.Truck(test.TruckOptions{ID: 2, PriorityProductCodes: []string{"URGENT"}}),
		}
		demands := []scheduling.Demand{
			test.Demand(test.DemandOptions{ProductCode: "URGENT", NumContainers: 10, LoadingDate: day}),
			test.Demand(test.DemandOptions{ProductCode: "AAA", NumContainers: 10, TruckIDs: []int{1}, LoadingDate: day}),
		}
		result := scheduling.NewPacker(trucks, false).Pack(day, demands)
		Expect(result.Trips).To(HaveLen(2))
		Expect(result.Trips[0].TruckID).To(Equal(1))
		Expect(result.Trips[1].TruckID).To(Equal(2))
	})
})
