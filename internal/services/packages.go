package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pringinacio/ivxv/internal/models"
	"github.com/pringinacio/ivxv/pkg/remote"
)

const lockKindUpdatePackages = "update-packages"

// PackageInstaller installs a software package version on a service host.
type PackageInstaller interface {
	Install(ctx context.Context, svc models.Service, pkg, version string) error
}

// RemoteInstaller delegates installation to the privileged helper on the
// service host.
type RemoteInstaller struct {
	Remote *remote.Executor
}

func (r RemoteInstaller) Install(ctx context.Context, svc models.Service, pkg, version string) error {
	res := r.Remote.Run(ctx, svc.Hostname(), remote.Join("ivxv-admin-sudo", "install-pkg", pkg, version), remote.Options{})
	if !res.Success() {
		return errors.New(res.Reason())
	}
	return nil
}

// PackageRef names a package of a service.
type PackageRef struct {
	ServiceID string
	Package   string
}

// PackageUpdate is the outcome of UpdatePackages.
type PackageUpdate struct {
	Report    models.Report
	Installed []PackageRef
	Failed    []PackageRef
	Skipped   []PackageRef
}

// PackageService keeps service hosts on the target software version.
type PackageService struct {
	fleet     *Fleet
	installer PackageInstaller
}

func NewPackageService(fleet *Fleet, installer PackageInstaller) *PackageService {
	return &PackageService{fleet: fleet, installer: installer}
}

// UpdatePackages brings the common package and the service package of every
// installed service to the target version. With force every package is
// reinstalled.
func (p *PackageService) UpdatePackages(ctx context.Context, force bool) (PackageUpdate, error) {
	target := p.fleet.Config.Packages.TargetVersion
	if target == "" {
		return PackageUpdate{}, fmt.Errorf("%w: target package version is not set", ErrInvalidArgument)
	}

	snap, err := p.fleet.Selector.Snapshot(ctx)
	if err != nil {
		return PackageUpdate{}, err
	}
	services := snap.Select(Query{
		CollectorStates: models.CollectorStatesAfterInstall,
		ServiceStates: []models.ServiceState{
			models.ServiceStateInstalled,
			models.ServiceStateConfigured,
			models.ServiceStateFailure,
		},
	})
	if len(services) == 0 {
		return PackageUpdate{}, ErrNoEligibleServices
	}

	var update PackageUpdate
	common := p.fleet.Config.Packages.CommonPackage
	// common package version per host, as probed or installed in this run
	hostVersions := make(map[string]string)

	flow := p.fleet.flow("update-packages", CollectAll, lockKindUpdatePackages)
	update.Report = flow.Run(ctx, ServiceItems(services), func(ctx context.Context, item Item) models.OperationResult {
		svc := services[item.ID]

		install := force
		if !install && hostVersions[item.Host] != target {
			hostVersions[item.Host] = p.installedVersion(ctx, item.Host, common)
			install = hostVersions[item.Host] != target
		}
		if res, ok := p.apply(ctx, &update, svc, common, target, install); !ok {
			return res
		}
		if install {
			hostVersions[item.Host] = target
		}

		pkg := svc.Type.Package()
		install = force || p.installedVersion(ctx, item.Host, pkg) != target
		if res, ok := p.apply(ctx, &update, svc, pkg, target, install); !ok {
			return res
		}
		return models.Succeeded(item.ID, item.Host)
	})

	log := logger(ctx)
	for _, ref := range update.Installed {
		log.Infow("installed service package", "service", ref.ServiceID, "package", ref.Package)
	}
	for _, ref := range update.Failed {
		log.Errorw("failed to install service package", "service", ref.ServiceID, "package", ref.Package)
	}
	log.Infow("service update stats",
		"installed", len(update.Installed),
		"failed", len(update.Failed),
		"skipped", len(update.Skipped),
	)

	return update, update.Report.Err()
}

// apply installs pkg when requested and records the outcome. It returns false
// with a failed result when the installation failed.
func (p *PackageService) apply(ctx context.Context, update *PackageUpdate, svc models.Service, pkg, version string, install bool) (models.OperationResult, bool) {
	ref := PackageRef{ServiceID: svc.ID, Package: pkg}
	if !install {
		update.Skipped = append(update.Skipped, ref)
		return models.OperationResult{}, true
	}

	logger(ctx).Infow("installing package", "service", svc.ID, "package", pkg, "version", version)
	if err := p.installer.Install(ctx, svc, pkg, version); err != nil {
		update.Failed = append(update.Failed, ref)
		return models.Failed(svc.ID, svc.Hostname(), 1, fmt.Sprintf("installing %s: %s", pkg, err)), false
	}
	update.Installed = append(update.Installed, ref)
	return models.OperationResult{}, true
}

// installedVersion probes the installed version of pkg on host. An unknown
// version is returned as an empty string.
func (p *PackageService) installedVersion(ctx context.Context, host, pkg string) string {
	logger(ctx).Infow("detecting package version", "host", host, "package", pkg)
	res := p.fleet.Remote.Run(ctx, host,
		fmt.Sprintf("dpkg --status %s | grep ^Version: | cut -d: -f2", remote.Quote(pkg)),
		remote.Options{CaptureStdout: true, Account: p.fleet.Config.Accounts.Admin},
	)
	if !res.Success() {
		return ""
	}
	return strings.TrimSpace(res.Stdout)
}
