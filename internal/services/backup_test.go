package services_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pringinacio/ivxv/internal/models"
	"github.com/pringinacio/ivxv/internal/services"
	"github.com/pringinacio/ivxv/pkg/remote"
)

var _ = Describe("BackupService", func() {
	var (
		e      *env
		backup *services.BackupService
	)

	BeforeEach(func() {
		e = newEnv()
		e.collector("CONFIGURED")
		e.service("backup@backup.ivxv", "backup", "CONFIGURED", "backup.ivxv")
		e.service("voting@voting1.ivxv", "voting", "CONFIGURED", "voting1.ivxv:443")
		e.service("log@log1.ivxv", "log", "CONFIGURED", "log1.ivxv")
		e.service("log@log2.ivxv", "log", "CONFIGURED", "log2.ivxv")
		backup = services.NewBackupService(e.fleet)
	})

	It("requires a backup service", func() {
		Expect(e.store.Values().Delete(e.ctx, "service/backup@backup.ivxv/service-type")).To(Succeed())
		Expect(e.store.Values().Delete(e.ctx, "service/backup@backup.ivxv/state")).To(Succeed())
		Expect(e.store.Values().Delete(e.ctx, "service/backup@backup.ivxv/ip-address")).To(Succeed())

		err := backup.ManagementConf(e.ctx)
		Expect(errors.Is(err, services.ErrServiceNotDefined)).To(BeTrue())
	})

	It("requires the backup service to be configured", func() {
		e.set("service/backup@backup.ivxv/state", "INSTALLED")
		_, err := backup.BallotBox(e.ctx, "")
		Expect(errors.Is(err, services.ErrServiceNotConfigured)).To(BeTrue())
		Expect(e.transport.Calls()).To(BeEmpty())
	})

	Context("ManagementConf", func() {
		It("transfers into a temporary directory before activating it", func() {
			Expect(backup.ManagementConf(e.ctx)).To(Succeed())

			Expect(e.transport.Commands("backup.ivxv")).To(Equal([]string{
				"rm -rfv /var/backups/ivxv/management-conf/tmp-20250302_0930",
				"mkdir -v /var/backups/ivxv/management-conf/tmp-20250302_0930",
				"rm -rfv /var/backups/ivxv/management-conf/20250302_0930",
				"mv -v /var/backups/ivxv/management-conf/tmp-20250302_0930 /var/backups/ivxv/management-conf/20250302_0930",
			}))

			calls := e.runner.Calls()
			Expect(calls).To(HaveLen(3))
			Expect(calls[0].Name).To(Equal("rsync"))
			Expect(calls[0].Args).To(Equal([]string{
				"-av", "--del", "-e", "ssh -p 22", "/etc/ivxv/",
				"ivxv-admin@backup.ivxv:/var/backups/ivxv/management-conf/tmp-20250302_0930/etc/",
			}))
			Expect(calls[1].Args[4]).To(Equal("/var/lib/ivxv/admin-ui-permissions/"))
			Expect(calls[2].Args[4]).To(Equal("/var/lib/ivxv/commands/"))
		})

		It("keeps the previous backup when a transfer fails", func() {
			e.runner.On("rsync", remote.Result{ExitCode: 23, Stderr: "partial transfer"})

			err := backup.ManagementConf(e.ctx)
			Expect(errors.Is(err, models.ErrOperationFailed)).To(BeTrue())
			Expect(e.runner.Calls()).To(HaveLen(1))
			Expect(e.transport.Commands("backup.ivxv")).To(HaveLen(2))
		})

		It("does not run while another backup holds the host", func() {
			e.lock("backup.ivxv", "backup")

			err := backup.ManagementConf(e.ctx)
			Expect(errors.Is(err, services.ErrHostLocked)).To(BeTrue())
			Expect(e.transport.Calls()).To(BeEmpty())
			Expect(e.runner.Calls()).To(BeEmpty())
		})
	})

	Context("BallotBox", func() {
		It("backs up a voting service through the backup host", func() {
			archive, err := backup.BallotBox(e.ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(archive).To(Equal("ballot-box-20250302_0930.zip"))

			data, ok := e.transport.File("backup.ivxv", "~/.ssh/known_hosts")
			Expect(ok).To(BeTrue())
			Expect(string(data)).To(ContainSubstring("backup.ivxv"))

			calls := e.transport.Calls()
			Expect(calls).To(HaveLen(1))
			Expect(calls[0].Host).To(Equal("backup.ivxv"))
			Expect(calls[0].ForwardAgent).To(BeTrue())
			Expect(calls[0].Command).To(Equal(
				"ivxv-admin-sudo backup-ballot-box voting1.ivxv voting@voting1.ivxv ballot-box-20250302_0930.zip"))
		})

		It("rejects an unknown voting service", func() {
			_, err := backup.BallotBox(e.ctx, "voting@nowhere")
			Expect(errors.Is(err, services.ErrUnknownService)).To(BeTrue())
		})

		It("needs a configured voting service", func() {
			e.set("service/voting@voting1.ivxv/state", "FAILURE")
			_, err := backup.BallotBox(e.ctx, "")
			Expect(errors.Is(err, services.ErrNoEligibleServices)).To(BeTrue())
		})

		It("reports a failed backup", func() {
			e.transport.Fail("backup.ivxv", "backup-ballot-box", 1)
			_, err := backup.BallotBox(e.ctx, "voting@voting1.ivxv")
			Expect(errors.Is(err, models.ErrOperationFailed)).To(BeTrue())
		})

		It("stops when the known hosts cannot be copied", func() {
			e.transport.FailCopy("backup.ivxv", "~/.ssh/known_hosts")
			_, err := backup.BallotBox(e.ctx, "")
			Expect(errors.Is(err, models.ErrOperationFailed)).To(BeTrue())
			Expect(e.transport.Calls()).To(BeEmpty())
		})
	})

	Context("Logs", func() {
		It("backs up every log collector", func() {
			report, err := backup.Logs(e.ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Succeeded).To(Equal(2))
			Expect(e.transport.Commands("backup.ivxv")).To(Equal([]string{
				"ivxv-admin-sudo backup-log log1.ivxv 20250302_0930",
				"ivxv-admin-sudo backup-log log2.ivxv 20250302_0930",
			}))
		})

		It("stops at the first failed collector", func() {
			e.transport.Fail("backup.ivxv", "log1.ivxv", 1)
			report, err := backup.Logs(e.ctx)
			Expect(errors.Is(err, models.ErrOperationFailed)).To(BeTrue())
			Expect(report.Failed).To(Equal(1))
			Expect(report.Skipped).To(Equal(1))
		})

		It("skips while another backup runs", func() {
			e.lock("backup.ivxv", "backup")
			_, err := backup.Logs(e.ctx)
			Expect(errors.Is(err, services.ErrHostLocked)).To(BeTrue())
		})
	})

	Context("ExportVotes", func() {
		var output string

		BeforeEach(func() {
			output = filepath.Join(e.dir, "votes.zip")
		})

		It("refuses to overwrite the output", func() {
			Expect(os.WriteFile(output, []byte("old"), 0o600)).To(Succeed())
			err := backup.ExportVotes(e.ctx, false, output)
			Expect(errors.Is(err, services.ErrOutputExists)).To(BeTrue())
			Expect(e.transport.Calls()).To(BeEmpty())
		})

		It("downloads the newest ballot box backup", func() {
			newest := "/var/backups/ivxv/ballot-box/ballot-box-20250302_0930.zip"
			e.transport.On("backup.ivxv", "ls ", remote.Result{
				Stdout: "/var/backups/ivxv/ballot-box/ballot-box-20250301_0800.zip\n" + newest + "\n",
			})
			e.transport.PutFile("backup.ivxv", newest, []byte("votes"))

			Expect(backup.ExportVotes(e.ctx, false, output)).To(Succeed())

			data, err := os.ReadFile(output)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("votes"))
			Expect(e.transport.Commands("backup.ivxv")).To(ContainElement(
				"ls /var/backups/ivxv/ballot-box/ballot-box-????????_????.zip"))
		})

		It("consolidates and cleans up on the backup host", func() {
			consolidated := "/var/lib/ivxv/ballot-box-consolidated-20250302_0930.zip"
			e.transport.PutFile("backup.ivxv", consolidated, []byte("union"))

			Expect(backup.ExportVotes(e.ctx, true, output)).To(Succeed())

			commands := e.transport.Commands("backup.ivxv")
			Expect(commands).To(ContainElement(
				"ivxv-voteunion " + consolidated + " /var/backups/ivxv/ballot-box/ballot-box-????????_????.zip"))
			Expect(commands[len(commands)-1]).To(Equal("rm -v " + consolidated))
			data, err := os.ReadFile(output)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("union"))
		})

		It("fails when the consolidation fails", func() {
			e.transport.Fail("backup.ivxv", "ivxv-voteunion", 1)
			err := backup.ExportVotes(e.ctx, true, output)
			Expect(errors.Is(err, models.ErrOperationFailed)).To(BeTrue())
			Expect(output).NotTo(BeAnExistingFile())
		})

		It("skips while another backup runs", func() {
			e.lock("backup.ivxv", "backup")
			err := backup.ExportVotes(e.ctx, false, output)
			Expect(errors.Is(err, services.ErrHostLocked)).To(BeTrue())
			Expect(e.transport.Calls()).To(BeEmpty())
			Expect(output).NotTo(BeAnExistingFile())
		})

		It("fails when the ballot box backup fails", func() {
			e.transport.Fail("backup.ivxv", "backup-ballot-box", 1)
			err := backup.ExportVotes(e.ctx, false, output)
			Expect(err).To(MatchError(ContainSubstring("creating ballot box backup failed")))
		})
	})
})
