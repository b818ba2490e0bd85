package crontab_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pringinacio/ivxv/pkg/crontab"
)

var generated = time.Date(2025, 3, 2, 14, 5, 9, 0, time.UTC)

var _ = Describe("Schedule", func() {
	It("defaults to every 15 minutes", func() {
		s := crontab.Schedule{}.WithDefaults()
		Expect(s.String()).To(Equal("*/15 * * * *"))
		Expect(s.Validate()).To(Succeed())
	})

	It("keeps explicit fields", func() {
		s := crontab.Schedule{Minute: "0", Hour: "8-20/2"}.WithDefaults()
		Expect(s.String()).To(Equal("0 8-20/2 * * *"))
	})

	DescribeTable("accepts valid schedules",
		func(s crontab.Schedule) {
			Expect(s.Validate()).To(Succeed())
		},
		Entry("lists", crontab.Schedule{Minute: "0,30", Hour: "1,2,3", Day: "*", Month: "*", Weekday: "1-5"}),
		Entry("sunday as 7", crontab.Schedule{Minute: "0", Hour: "0", Day: "1", Month: "12", Weekday: "7"}),
		Entry("stepped wildcard", crontab.Schedule{Minute: "*/5", Hour: "*/2", Day: "*/3", Month: "*", Weekday: "*"}),
	)

	DescribeTable("rejects invalid schedules",
		func(s crontab.Schedule, msg string) {
			Expect(s.WithDefaults().Validate()).To(MatchError(ContainSubstring(msg)))
		},
		Entry("minute out of range", crontab.Schedule{Minute: "60"}, "minute field"),
		Entry("day zero", crontab.Schedule{Day: "0"}, "day field"),
		Entry("reversed range", crontab.Schedule{Hour: "5-1"}, "range start 5 > end 1"),
		Entry("zero step", crontab.Schedule{Minute: "*/0"}, "step must be positive"),
		Entry("garbage", crontab.Schedule{Month: "jan"}, "invalid value"),
		Entry("step without range", crontab.Schedule{Minute: "5/2"}, "step needs a range"),
	)
})

var _ = Describe("RenderBackup", func() {
	It("renders one line per job and backup time", func() {
		out, err := crontab.RenderBackup(crontab.BackupParams{
			Command:   "ivxv-admin",
			Generated: generated,
			Times:     []crontab.Time{{Hour: 1, Minute: 30}, {Hour: 13, Minute: 0}},
			BallotBox: true,
			Logs:      true,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(`# Generated by ivxv-admin on 02.03.2025 14:05:09.
30 1 * * * ivxv-admin backup management-conf
30 1 * * * ivxv-admin backup ballot-box
30 1 * * * ivxv-admin backup log
0 13 * * * ivxv-admin backup management-conf
0 13 * * * ivxv-admin backup ballot-box
0 13 * * * ivxv-admin backup log`))
	})

	It("skips jobs without configured services", func() {
		out, err := crontab.RenderBackup(crontab.BackupParams{
			Command:   "ivxv-admin",
			Generated: generated,
			Times:     []crontab.Time{{Hour: 2, Minute: 0}},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveSuffix("\n0 2 * * * ivxv-admin backup management-conf"))
		Expect(out).NotTo(ContainSubstring("ballot-box"))
	})

	It("notes a missing schedule", func() {
		out, err := crontab.RenderBackup(crontab.BackupParams{Command: "ivxv-admin", Generated: generated})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveSuffix("# No backup times configured."))
	})
})

var _ = Describe("scheduled blocks", func() {
	It("renders detail statistics with defaults", func() {
		out, err := crontab.RenderDetailStats("ivxv-admin", generated, crontab.Schedule{})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveSuffix("\n*/15 * * * * ivxv-admin voterstats --detailed --quiet"))
	})

	It("renders voting facts", func() {
		out, err := crontab.RenderVotingFacts("ivxv-admin", generated, crontab.Schedule{Minute: "0", Hour: "*/4"})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveSuffix("\n0 */4 * * * ivxv-admin voting-facts --quiet"))
	})

	It("refuses invalid schedules", func() {
		_, err := crontab.RenderVotingFacts("ivxv-admin", generated, crontab.Schedule{Hour: "24"})
		Expect(err).To(HaveOccurred())
	})
})
