package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pringinacio/ivxv/internal/models"
	"github.com/pringinacio/ivxv/pkg/remote"
)

const lockKindCopyLogs = "copy-logs-to-logmon"

// LogMonitorService moves data between service hosts and the log monitor.
type LogMonitorService struct {
	fleet *Fleet
}

func NewLogMonitorService(fleet *Fleet) *LogMonitorService {
	return &LogMonitorService{fleet: fleet}
}

// reachable returns the log monitor address after checking that its account
// accepts commands.
func (l *LogMonitorService) reachable(ctx context.Context, snap *Snapshot) (string, error) {
	if snap.LogMonitor == "" {
		return "", ErrLogMonitorNotDefined
	}
	account := l.fleet.Config.Accounts.LogMonitor
	logger(ctx).Infow("checking access to log monitor", "address", snap.LogMonitor, "account", account)
	res := l.fleet.Remote.Run(ctx, snap.LogMonitor, "true", remote.Options{Account: account})
	if !res.Success() {
		return "", fmt.Errorf("%w: %s@%s: %s", ErrLogMonitorUnreachable, account, snap.LogMonitor, res.Reason())
	}
	return snap.LogMonitor, nil
}

// CopyLogs transfers service logs from hosts to the log monitor. Without
// hostnames every host running a main service or log collector is used.
func (l *LogMonitorService) CopyLogs(ctx context.Context, hostnames []string) (models.Report, error) {
	snap, err := l.fleet.Selector.Snapshot(ctx)
	if err != nil {
		return models.Report{}, err
	}
	if snap.CollectorState == models.CollectorStateNotInstalled {
		return models.Report{}, ErrCollectorNotInstalled
	}

	if len(hostnames) == 0 {
		hostnames = logHosts(snap)
	}

	logmon, err := l.reachable(ctx, snap)
	if err != nil {
		return models.Report{}, err
	}
	logmonAccount := l.fleet.Config.Accounts.LogMonitor + "@" + logmon

	items := make([]Item, 0, len(hostnames))
	for _, host := range hostnames {
		items = append(items, Item{ID: host, Host: host})
	}

	flow := l.fleet.flow("copy-logs-to-logmon", CollectAll, lockKindCopyLogs)
	report := flow.Run(ctx, items, func(ctx context.Context, item Item) models.OperationResult {
		if res := l.ensureHostKey(ctx, item, logmon); res.Status == models.ResultFailed {
			return res
		}
		logger(ctx).Infow("copying service log files to log monitor", "host", item.Host)
		return l.fleet.run(ctx, item,
			remote.Join("ivxv-admin-helper", "copy-logs-to-logmon", item.Host, logmonAccount),
			remote.Options{ForwardAgent: true},
		)
	})
	return report, report.Err()
}

// logHosts lists the hosts of non-removed main services and log collectors.
func logHosts(snap *Snapshot) []string {
	seen := make(map[string]bool)
	for _, svc := range snap.Select(Query{}) {
		if svc.Type.IsMain() || svc.Type == models.ServiceTypeLog {
			seen[svc.Hostname()] = true
		}
	}
	hosts := make([]string, 0, len(seen))
	for host := range seen {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)
	return hosts
}

// ensureHostKey installs the log monitor host key on item's host unless the
// host already knows it.
func (l *LogMonitorService) ensureHostKey(ctx context.Context, item Item, logmon string) models.OperationResult {
	log := logger(ctx).With("host", item.Host)
	res := l.fleet.Remote.Run(ctx, item.Host, remote.Join("ssh-keygen", "-F", logmon), remote.Options{CaptureStdout: true})
	if res.Success() {
		return models.Succeeded(item.ID, item.Host)
	}

	log.Infow("installing log monitor host key", "logmon", logmon)
	local := l.fleet.Local.Run(ctx, remote.Command("ssh-keygen", "-F", logmon))
	if !local.Success() {
		log.Errorw("log monitor host key is not known locally", "logmon", logmon, "reason", local.Reason())
		return models.Failed(item.ID, item.Host, local.ExitCode, "log monitor host key unknown")
	}

	var keys strings.Builder
	for _, line := range strings.Split(local.Stdout, "\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keys.WriteString(line)
		keys.WriteByte('\n')
	}

	install := l.fleet.Remote.Run(ctx, item.Host, "tee --append .ssh/known_hosts", remote.Options{
		Stdin: strings.NewReader(keys.String()),
	})
	if !install.Success() {
		log.Errorw("failed to install log monitor host key", "reason", install.Reason())
		return models.Failed(item.ID, item.Host, install.ExitCode, "failed to install log monitor host key")
	}
	return models.Succeeded(item.ID, item.Host)
}
