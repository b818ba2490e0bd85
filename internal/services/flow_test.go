package services_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pringinacio/ivxv/internal/models"
	"github.com/pringinacio/ivxv/internal/services"
	"github.com/pringinacio/ivxv/pkg/hostlock"
)

var _ = Describe("Flow", func() {
	var (
		ctx   context.Context
		items []services.Item
		ran   []string
	)

	// failing returns an action failing for the listed identifiers.
	failing := func(ids ...string) services.Action {
		return func(_ context.Context, item services.Item) models.OperationResult {
			ran = append(ran, item.ID)
			for _, id := range ids {
				if id == item.ID {
					return models.Failed(item.ID, item.Host, 1, "boom")
				}
			}
			return models.Succeeded(item.ID, item.Host)
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		ran = nil
		items = nil
		for i := 1; i <= 5; i++ {
			items = append(items, services.Item{
				ID:   fmt.Sprintf("voting@v%d", i),
				Host: fmt.Sprintf("v%d.ivxv", i),
			})
		}
	})

	DescribeTable("collect-all counts every failure",
		func(failed []string) {
			report := services.Flow{Name: "test", Policy: services.CollectAll}.Run(ctx, items, failing(failed...))

			Expect(ran).To(HaveLen(len(items)))
			Expect(report.Results).To(HaveLen(len(items)))
			Expect(report.Failed).To(Equal(len(failed)))
			Expect(report.Succeeded).To(Equal(len(items) - len(failed)))
			Expect(report.OK()).To(Equal(len(failed) == 0))
		},
		Entry("no failures", nil),
		Entry("one failure", []string{"voting@v3"}),
		Entry("all failures", []string{"voting@v1", "voting@v2", "voting@v3", "voting@v4", "voting@v5"}),
	)

	It("keeps the item order in the report", func() {
		report := services.Flow{Name: "test"}.Run(ctx, items, failing())
		for i, res := range report.Results {
			Expect(res.ID).To(Equal(items[i].ID))
		}
	})

	It("fills in identifiers the action left empty", func() {
		report := services.Flow{Name: "test"}.Run(ctx, items[:1], func(context.Context, services.Item) models.OperationResult {
			return models.OperationResult{Status: models.ResultSucceeded}
		})
		Expect(report.Results[0].ID).To(Equal("voting@v1"))
		Expect(report.Results[0].Host).To(Equal("v1.ivxv"))
	})

	It("stops after the first failure", func() {
		report := services.Flow{Name: "test", Policy: services.StopOnFirstFailure}.Run(ctx, items, failing("voting@v2"))

		Expect(ran).To(Equal([]string{"voting@v1", "voting@v2"}))
		Expect(report.Succeeded).To(Equal(1))
		Expect(report.Failed).To(Equal(1))
		Expect(report.Skipped).To(Equal(3))
		Expect(report.Results[2].Reason).To(ContainSubstring("voting@v2"))
		Expect(report.OK()).To(BeFalse())
		Expect(errors.Is(report.Err(), models.ErrOperationFailed)).To(BeTrue())
	})

	It("stops after the first success", func() {
		report := services.Flow{Name: "test", Policy: services.StopOnFirstSuccess}.Run(ctx, items, failing("voting@v1", "voting@v2"))

		Expect(ran).To(Equal([]string{"voting@v1", "voting@v2", "voting@v3"}))
		Expect(report.Skipped).To(Equal(2))
		Expect(report.OK()).To(BeTrue())
		Expect(report.Err()).NotTo(HaveOccurred())
	})

	It("fails stop-on-first-success when nothing succeeds", func() {
		all := []string{"voting@v1", "voting@v2", "voting@v3", "voting@v4", "voting@v5"}
		report := services.Flow{Name: "test", Policy: services.StopOnFirstSuccess}.Run(ctx, items, failing(all...))

		Expect(ran).To(HaveLen(5))
		Expect(report.OK()).To(BeFalse())
	})

	It("skips the remaining items once cancelled", func() {
		cctx, cancel := context.WithCancel(ctx)
		action := func(ctx context.Context, item services.Item) models.OperationResult {
			ran = append(ran, item.ID)
			if item.ID == "voting@v2" {
				cancel()
			}
			return models.Succeeded(item.ID, item.Host)
		}

		report := services.Flow{Name: "test"}.Run(cctx, items, action)
		Expect(ran).To(Equal([]string{"voting@v1", "voting@v2"}))
		Expect(report.Skipped).To(Equal(3))
		Expect(report.Results[4].Reason).To(Equal("cancelled"))
	})

	Context("with host locks", func() {
		var (
			dir   string
			locks *hostlock.Manager
		)

		BeforeEach(func() {
			dir = filepath.Join(GinkgoT().TempDir(), "locks")
			locks = hostlock.NewManager(dir)
		})

		It("skips hosts locked by another process", func() {
			held, ok, err := hostlock.NewManager(dir).TryAcquire(hostlock.Key("v2.ivxv", "update-packages"))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			defer func() { _ = held.Release() }()

			flow := services.Flow{Name: "test", LockKind: "update-packages", Locks: locks}
			report := flow.Run(ctx, items, failing())

			Expect(ran).NotTo(ContainElement("voting@v2"))
			Expect(report.Skipped).To(Equal(1))
			Expect(report.Succeeded).To(Equal(4))
			Expect(report.Results[1].Reason).To(Equal("locked by another process"))
			Expect(report.OK()).To(BeTrue())
		})

		It("holds the lock while the action runs and releases it afterwards", func() {
			key := hostlock.Key("v1.ivxv", "update-packages")
			other := hostlock.NewManager(dir)

			flow := services.Flow{Name: "test", LockKind: "update-packages", Locks: locks}
			flow.Run(ctx, items[:1], func(_ context.Context, item services.Item) models.OperationResult {
				_, ok, err := other.TryAcquire(key)
				Expect(err).NotTo(HaveOccurred())
				Expect(ok).To(BeFalse())
				return models.Succeeded(item.ID, item.Host)
			})

			lock, ok, err := other.TryAcquire(key)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(lock.Release()).To(Succeed())
		})

		It("does not lock hosts of other kinds", func() {
			held, ok, err := hostlock.NewManager(dir).TryAcquire(hostlock.Key("v2.ivxv", "backup"))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			defer func() { _ = held.Release() }()

			flow := services.Flow{Name: "test", LockKind: "update-packages", Locks: locks}
			report := flow.Run(ctx, items, failing())
			Expect(report.Succeeded).To(Equal(5))
		})
	})

	It("builds items from services in identifier order", func() {
		items := services.ServiceItems(map[string]models.Service{
			"voting@b": {ID: "voting@b", Address: "b.ivxv:443"},
			"voting@a": {ID: "voting@a", Address: "a.ivxv"},
		})
		Expect(items).To(Equal([]services.Item{
			{ID: "voting@a", Host: "a.ivxv"},
			{ID: "voting@b", Host: "b.ivxv"},
		}))
	})
})
