package services

import (
	"context"
	"fmt"
	"os"

	"github.com/pringinacio/ivxv/internal/models"
	"github.com/pringinacio/ivxv/pkg/remote"
)

// exitNoMissingFacts is returned by the CSV preparation script when every
// voting fact is already stored.
const exitNoMissingFacts = 2

// VotingFacts searches the log monitor for voting facts missing from storage
// and submits them through the first votes order service that accepts them.
func (l *LogMonitorService) VotingFacts(ctx context.Context) (models.Report, error) {
	snap, err := l.fleet.Selector.Snapshot(ctx)
	if err != nil {
		return models.Report{}, err
	}
	if snap.LogMonitor == "" {
		return models.Report{}, ErrLogMonitorNotDefined
	}
	if snap.CollectorState != models.CollectorStateConfigured {
		return models.Report{}, ErrCollectorNotConfigured
	}

	votesOrder := snap.Select(Query{Types: []models.ServiceType{models.ServiceTypeVotesOrder}})
	if len(votesOrder) == 0 {
		return models.Report{}, fmt.Errorf("%w: no votesorder services found", ErrNoEligibleServices)
	}

	log := logger(ctx)
	accounts := l.fleet.Config.Accounts
	filename := fmt.Sprintf("votesorder-%d.csv", l.fleet.Now().UnixNano())

	res := l.fleet.Remote.Run(ctx, snap.LogMonitor,
		remote.Join("ivxv-storageorder-prepare-csv.sh", "--filename", filename),
		remote.Options{Account: accounts.LogMonitor},
	)
	switch {
	case res.Success():
	case res.Err == nil && res.ExitCode == exitNoMissingFacts:
		log.Info("no missing voting facts found")
		return models.Report{Flow: "voting-facts"}, nil
	default:
		return models.Report{}, fmt.Errorf("%w: preparing voting facts on log monitor: %s", models.ErrOperationFailed, res.Reason())
	}

	tmp, err := os.CreateTemp("", "votesorder-*.csv")
	if err != nil {
		return models.Report{}, err
	}
	local := tmp.Name()
	_ = tmp.Close()
	defer func() { _ = os.Remove(local) }()

	if !l.fleet.Remote.Copy(ctx, snap.LogMonitor, accounts.LogMonitor, local, filename, remote.Download, "voting facts") {
		return models.Report{}, fmt.Errorf("%w: copying voting facts from log monitor", models.ErrOperationFailed)
	}

	flow := l.fleet.flow("voting-facts", StopOnFirstSuccess, "")
	report := flow.Run(ctx, ServiceItems(votesOrder), func(ctx context.Context, item Item) models.OperationResult {
		if !l.fleet.Remote.Copy(ctx, item.Host, accounts.VotesOrder, local, filename, remote.Upload, "voting facts") {
			return models.Failed(item.ID, item.Host, remote.ExitTransportError, "failed to copy voting facts")
		}
		return l.fleet.run(ctx, item,
			remote.Join("ivxv-storageorder", "-file", filename, "-instance", item.ID),
			remote.Options{Account: accounts.VotesOrder},
		)
	})
	return report, report.Err()
}
