package config

import "time"

const (
	ServerModeProd string = "prod"
	ServerModeDev  string = "dev"
)

//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Store SSH Accounts Paths Packages VIS Crontab Server
type Configuration struct {
	Store    Store    `debugmap:"visible"`
	SSH      SSH      `debugmap:"visible"`
	Accounts Accounts `debugmap:"visible"`
	Paths    Paths    `debugmap:"visible"`
	Packages Packages `debugmap:"visible"`
	VIS      VIS      `debugmap:"visible"`
	Crontab  Crontab  `debugmap:"visible"`
	Server   Server   `debugmap:"visible"`

	// Log
	LogFormat string `debugmap:"visible" default:"console"`
	LogLevel  string `debugmap:"visible" default:"info"`
}

// Store locates the collector management database.
type Store struct {
	// DataFolder holds ivxv-admin.duckdb. Empty means in-memory.
	DataFolder string `debugmap:"visible" default:"/var/lib/ivxv/admin"`
}

type SSH struct {
	Port           int           `debugmap:"visible" default:"22"`
	KeyPath        string        `debugmap:"visible"`
	Passphrase     string        `debugmap:"sensitive"`
	KnownHostsPath string        `debugmap:"visible"`
	Timeout        time.Duration `debugmap:"visible" default:"10s"`
	AgentSocket    string        `debugmap:"visible"`
}

// Accounts are the remote accounts used on service hosts.
type Accounts struct {
	Admin      string `debugmap:"visible" default:"ivxv-admin"`
	LogMonitor string `debugmap:"visible" default:"logmon"`
	VotesOrder string `debugmap:"visible" default:"ivxv-votesorder"`
}

type Paths struct {
	LockDir        string `debugmap:"visible" default:"/var/lib/ivxv/admin/service"`
	BackupDir      string `debugmap:"visible" default:"/var/backups/ivxv"`
	ConfigDir      string `debugmap:"visible" default:"/etc/ivxv"`
	PermissionsDir string `debugmap:"visible" default:"/var/lib/ivxv/admin-ui-permissions"`
	CommandsDir    string `debugmap:"visible" default:"/var/lib/ivxv/commands"`
	AdminUIDataDir string `debugmap:"visible" default:"/var/lib/ivxv/admin-ui-data"`
	KnownHosts     string `debugmap:"visible" default:"~/.ssh/known_hosts"`
	// VotingDataDir is where voting services write generated statistics.
	VotingDataDir string `debugmap:"visible" default:"/var/lib/ivxv/user/ivxv-voting"`
}

type Packages struct {
	// TargetVersion every service host should run.
	TargetVersion string `debugmap:"visible"`
	CommonPackage string `debugmap:"visible" default:"ivxv-common"`
}

// VIS is the election information system receiving voter statistics.
type VIS struct {
	URL            string        `debugmap:"visible"`
	CACertPath     string        `debugmap:"visible"`
	ClientCertPath string        `debugmap:"visible" default:"/etc/ssl/certs/ivxv-admin-client.crt"`
	ClientKeyPath  string        `debugmap:"visible" default:"/etc/ssl/private/ivxv-admin-client.key"`
	Timeout        time.Duration `debugmap:"visible" default:"30s"`
}

type Crontab struct {
	// Command is the utility cron and crontab(1) invoke, normally this binary.
	Command string `debugmap:"visible" default:"ivxv-admin"`
	// Pause before rewriting a crontab file so its mtime changes visibly.
	Pause time.Duration `debugmap:"visible" default:"1s"`
}

// Server configures the diagnostics API.
type Server struct {
	HTTPPort   int    `debugmap:"visible" default:"8080"`
	ServerMode string `debugmap:"visible" default:"dev"`
}
