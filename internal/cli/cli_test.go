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

package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/deckplan/deckplan/internal/cli"
	"github.com/deckplan/deckplan/pkg/planner"
)

const (
	trucksCSV = `truck_id,truck_name,width,depth,height,max_weight,default_use,arrival_day_offset,departure_time,arrival_time,priority_product_codes
1,truck-1,10000,5000,3000,10000,true,0,08:00,17:00,
`
	containersCSV = `container_id,name,width,depth,height,max_weight,stackable,max_stack
1,pallet,1000,1000,1000,500,false,1
`
	productsCSV = `product_id,product_code,product_name,capacity,container_id,used_truck_ids
1,WIDGET,widget,10,1,
`
	ordersCSV = `order_id,product_id,delivery_date,order_quantity
ord-1,1,2025-10-06,10
`
	calendarCSV = `date,is_working_day
2025-10-06,false
2025-10-07,true
`
)

func writeMasters(dir string) {
	for name, content := range map[string]string{
		"trucks.csv":     trucksCSV,
		"containers.csv": containersCSV,
		"products.csv":   productsCSV,
		"orders.csv":     ordersCSV,
	} {
		ExpectWithOffset(1, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)).To(Succeed())
	}
}

func runCommand(args ...string) (string, error) {
	root := cli.NewRootCommand()
	buffer := &bytes.Buffer{}
	root.SetOut(buffer)
	root.SetErr(buffer)
	root.SetArgs(args)
	err := root.Execute()
	return buffer.String(), err
}

var _ = Describe("Commands", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "deckplan-cli-")
		Expect(err).ToNot(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)
		writeMasters(dir)
	})

	Context("Plan", func() {
		It("should plan from CSV masters and print JSON", func() {
			output, err := runCommand("plan", "--dir", dir, "--start", "2025-10-06", "--days", "1", "--output", "json")
			Expect(err).ToNot(HaveOccurred())

			var plan planner.Plan
			Expect(json.Unmarshal([]byte(output), &plan)).To(Succeed())
			Expect(plan.Period).To(Equal("2025-10-06 ~ 2025-10-06"))
			Expect(plan.Summary.TotalTrips).To(Equal(1))
			Expect(plan.Summary.Status).To(Equal(planner.StatusNormal))
			Expect(plan.Fingerprint).ToNot(BeEmpty())
		})

		It("should fall back to the configured horizon when days is omitted", func() {
			output, err := runCommand("plan", "--dir", dir, "--start", "2025-10-06", "--output", "json")
			Expect(err).ToNot(HaveOccurred())

			var plan planner.Plan
			Expect(json.Unmarshal([]byte(output), &plan)).To(Succeed())
			Expect(plan.Summary.TotalDays).To(Equal(7))
			Expect(plan.Period).To(Equal("2025-10-06 ~ 2025-10-12"))
		})

		It("should honor an explicit calendar file", func() {
			Expect(os.WriteFile(filepath.Join(dir, "calendar.csv"), []byte(calendarCSV), 0o644)).To(Succeed())

			output, err := runCommand("plan", "--dir", dir, "--start", "2025-10-06", "--days", "1", "--output", "json")
			Expect(err).ToNot(HaveOccurred())

			var plan planner.Plan
			Expect(json.Unmarshal([]byte(output), &plan)).To(Succeed())
			Expect(plan.Period).To(Equal("2025-10-07 ~ 2025-10-07"))
			Expect(plan.Summary.TotalTrips).To(Equal(0))
		})

		It("should render a table with a summary footer", func() {
			output, err := runCommand("plan", "--dir", dir, "--start", "2025-10-06", "--days", "1")
			Expect(err).ToNot(HaveOccurred())
			Expect(output).To(ContainSubstring("Period: 2025-10-06 ~ 2025-10-06"))
			Expect(output).To(ContainSubstring("WIDGET"))
			Expect(output).To(ContainSubstring("truck-1"))
			Expect(output).To(ContainSubstring("Days: 1  Trips: 1  Warnings: 0  Unloaded: 0"))
		})

		It("should require a start date", func() {
			_, err := runCommand("plan", "--dir", dir)
			Expect(err).To(MatchError(ContainSubstring(`"start" not set`)))
		})

		It("should reject a malformed start date", func() {
			_, err := runCommand("plan", "--dir", dir, "--start", "06.10.2025")
			Expect(err).To(MatchError(ContainSubstring("parsing --start")))
		})

		It("should reject an unknown output format", func() {
			_, err := runCommand("plan", "--dir", dir, "--start", "2025-10-06", "--output", "yaml")
			Expect(err).To(MatchError(ContainSubstring("unknown output format")))
		})

		It("should surface missing master files", func() {
			Expect(os.Remove(filepath.Join(dir, "trucks.csv"))).To(Succeed())
			_, err := runCommand("plan", "--dir", dir, "--start", "2025-10-06")
			Expect(err).To(MatchError(ContainSubstring("opening trucks.csv")))
		})
	})

	Context("Import", func() {
		It("should refuse to run without a database", func() {
			GinkgoT().Setenv("DECKPLAN_DATABASE_URL", "")
			_, err := runCommand("import", "--dir", dir)
			Expect(err).To(MatchError("database_url is not configured"))
		})
	})

	Context("Serve", func() {
		It("should refuse to run without a database", func() {
			GinkgoT().Setenv("DECKPLAN_DATABASE_URL", "")
			_, err := runCommand("serve")
			Expect(err).To(MatchError("database_url is not configured"))
		})
	})

	Context("Version", func() {
		It("should print the stamped version", func() {
			output, err := runCommand("version")
			Expect(err).ToNot(HaveOccurred())
			Expect(output).To(Equal(cli.Version + "\n"))
		})
	})

	Context("Configuration", func() {
		It("should surface a missing configuration file", func() {
			_, err := runCommand("--config", filepath.Join(dir, "absent.toml"), "version")
			Expect(err).To(MatchError(ContainSubstring("reading config file")))
		})
	})
})
