package services_test

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pringinacio/ivxv/internal/models"
	"github.com/pringinacio/ivxv/internal/services"
	"github.com/pringinacio/ivxv/pkg/crontab"
	"github.com/pringinacio/ivxv/pkg/remote"
)

var _ = Describe("CrontabService", func() {
	var (
		e    *env
		cron *services.CrontabService
	)

	BeforeEach(func() {
		e = newEnv()
		e.collector("CONFIGURED")
		e.service("backup@backup.ivxv", "backup", "CONFIGURED", "backup.ivxv")
		e.set("service/backup@backup.ivxv/backup-times", "13:00 01:30")
		e.service("voting@voting1.ivxv", "voting", "CONFIGURED", "voting1.ivxv:443")
		cron = services.NewCrontabService(e.fleet, e.store.Values(), e.store.Values())
	})

	It("parses block kinds", func() {
		kind, err := services.ParseCrontabKind("voting-facts")
		Expect(err).NotTo(HaveOccurred())
		Expect(kind.BlockName()).To(Equal(crontab.VotingFactsBlock))

		_, err = services.ParseCrontabKind("weekly")
		Expect(errors.Is(err, services.ErrInvalidArgument)).To(BeTrue())
	})

	It("renders the backup block from the service state", func() {
		content, err := cron.Content(e.ctx, services.CrontabBackup)
		Expect(err).NotTo(HaveOccurred())
		Expect(content).To(Equal(`# Generated by ivxv-admin on 02.03.2025 09:30:00.
30 1 * * * ivxv-admin backup management-conf
30 1 * * * ivxv-admin backup ballot-box
0 13 * * * ivxv-admin backup management-conf
0 13 * * * ivxv-admin backup ballot-box`))
	})

	It("rejects malformed backup times", func() {
		e.set("service/backup@backup.ivxv/backup-times", "25:00")
		_, err := cron.RenderBackup(e.ctx)
		Expect(errors.Is(err, models.ErrInconsistentState)).To(BeTrue())
	})

	It("persists generated blocks", func() {
		content, err := cron.Generate(e.ctx, services.CrontabDetailStats, crontab.Schedule{Hour: "8-20"})
		Expect(err).NotTo(HaveOccurred())
		Expect(content).To(Equal("# Generated by ivxv-admin on 02.03.2025 09:30:00.\n" +
			"*/15 8-20 * * * ivxv-admin voterstats --detailed --quiet"))

		stored, err := e.store.Values().GetValue(e.ctx, "stats/detail/scheduler/cron")
		Expect(err).NotTo(HaveOccurred())
		Expect(stored).To(Equal(content))

		again, err := cron.Content(e.ctx, services.CrontabDetailStats)
		Expect(err).NotTo(HaveOccurred())
		Expect(again).To(Equal(content))
	})

	It("rejects invalid schedules", func() {
		_, err := cron.Generate(e.ctx, services.CrontabVotingFacts, crontab.Schedule{Minute: "61"})
		Expect(errors.Is(err, services.ErrInvalidArgument)).To(BeTrue())
	})

	It("does not generate the backup block", func() {
		_, err := cron.Generate(e.ctx, services.CrontabBackup, crontab.Schedule{})
		Expect(errors.Is(err, services.ErrInvalidArgument)).To(BeTrue())
	})

	It("reports blocks that were never generated", func() {
		_, err := cron.Content(e.ctx, services.CrontabVotingFacts)
		Expect(errors.Is(err, services.ErrBlockNotGenerated)).To(BeTrue())
	})

	Context("Edit", func() {
		var path string

		BeforeEach(func() {
			path = filepath.Join(e.dir, "crontab")
			Expect(os.WriteFile(path, []byte("MAILTO=root\n0 0 * * * other\n"), 0o600)).To(Succeed())
			_, err := cron.Generate(e.ctx, services.CrontabVotingFacts, crontab.Schedule{})
			Expect(err).NotTo(HaveOccurred())
		})

		It("inserts the block and keeps operator entries", func() {
			Expect(cron.Edit(e.ctx, services.CrontabVotingFacts, path)).To(Succeed())

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("MAILTO=root\n0 0 * * * other\n\n\n" +
				"### block ivxv_voting_facts_crontab ###\n" +
				"# Generated by ivxv-admin on 02.03.2025 09:30:00.\n" +
				"*/15 * * * * ivxv-admin voting-facts --quiet\n" +
				"### endblock ivxv_voting_facts_crontab ###\n"))
		})

		It("is idempotent", func() {
			Expect(cron.Edit(e.ctx, services.CrontabVotingFacts, path)).To(Succeed())
			first, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())

			Expect(cron.Edit(e.ctx, services.CrontabVotingFacts, path)).To(Succeed())
			second, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
		})

		It("keeps blocks of other kinds", func() {
			Expect(cron.Edit(e.ctx, services.CrontabBackup, path)).To(Succeed())
			Expect(cron.Edit(e.ctx, services.CrontabVotingFacts, path)).To(Succeed())

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("### endblock ivxv_backup_crontab ###"))
			Expect(string(data)).To(ContainSubstring("### endblock ivxv_voting_facts_crontab ###"))
		})

		It("removes the block again", func() {
			Expect(cron.Edit(e.ctx, services.CrontabVotingFacts, path)).To(Succeed())
			Expect(cron.Remove(e.ctx, services.CrontabVotingFacts, path)).To(Succeed())

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("MAILTO=root\n0 0 * * * other\n"))
		})

		It("refuses to touch a file with a broken block", func() {
			broken := "### block ivxv_voting_facts_crontab ###\n* * * * * x\n"
			Expect(os.WriteFile(path, []byte(broken), 0o600)).To(Succeed())

			Expect(cron.Edit(e.ctx, services.CrontabVotingFacts, path)).NotTo(Succeed())
			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(broken))
		})
	})

	It("installs through crontab with itself as editor", func() {
		Expect(cron.Install(e.ctx, services.CrontabDetailStats)).To(Succeed())

		calls := e.runner.Calls()
		Expect(calls).To(HaveLen(1))
		Expect(calls[0].Name).To(Equal("crontab"))
		Expect(calls[0].Args).To(Equal([]string{"-e"}))
		Expect(calls[0].Attached).To(BeTrue())
		Expect(calls[0].Env).To(ContainElement(
			"EDITOR=ivxv-admin crontab edit detail-stats --data-folder /var/lib/ivxv/admin --pause 0s"))
	})

	It("points the editor at the same store and pause", func() {
		e.cfg.Store.DataFolder = "/srv/custom admin"
		e.cfg.Crontab.Pause = 2 * time.Second
		Expect(cron.Install(e.ctx, services.CrontabDetailStats)).To(Succeed())
		Expect(e.runner.Calls()[0].Env).To(ConsistOf(
			"VISUAL=ivxv-admin crontab edit detail-stats --data-folder '/srv/custom admin' --pause 2s",
			"EDITOR=ivxv-admin crontab edit detail-stats --data-folder '/srv/custom admin' --pause 2s",
		))
	})

	It("uninstalls through crontab with the remove editor", func() {
		Expect(cron.Uninstall(e.ctx, services.CrontabVotingFacts)).To(Succeed())
		Expect(e.runner.Calls()[0].Env).To(ContainElement(
			"VISUAL=ivxv-admin crontab edit --remove voting-facts --data-folder /var/lib/ivxv/admin --pause 0s"))
	})

	It("reports a failed crontab run", func() {
		e.runner.On("crontab", remote.Result{ExitCode: 1, Stderr: "no crontab"})
		err := cron.Install(e.ctx, services.CrontabBackup)
		Expect(errors.Is(err, models.ErrOperationFailed)).To(BeTrue())
	})
})

var _ = Describe("StatusService", func() {
	var e *env

	BeforeEach(func() {
		e = newEnv()
		e.collector("PARTIAL_FAILURE")
		e.service("voting@voting1.ivxv", "voting", "CONFIGURED", "voting1.ivxv:443")
		e.service("voting@voting2.ivxv", "voting", "FAILURE", "voting2.ivxv:443")
		e.service("log@log1.ivxv", "log", "CONFIGURED", "log1.ivxv")
		e.service("storage@old.ivxv", "storage", "REMOVED", "old.ivxv")
	})

	It("counts services per state", func() {
		status, err := services.NewStatusService(e.fleet.Selector).GetStatus(e.ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(status.State).To(Equal(models.CollectorStatePartialFailure))
		Expect(status.Services).To(Equal(map[models.ServiceState]int{
			models.ServiceStateConfigured: 2,
			models.ServiceStateFailure:    1,
			models.ServiceStateRemoved:    1,
		}))
	})

	It("lists services by type", func() {
		list, err := services.NewStatusService(e.fleet.Selector).ListServices(e.ctx, models.ServiceTypeVoting)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(2))
		Expect(list[0].ID).To(Equal("voting@voting1.ivxv"))
	})
})
