package crontab

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

const generatedLayout = "02.01.2006 15:04:05"

var (
	backupTemplate = template.Must(template.New(BackupBlock).Parse(`# Generated by {{.Command}} on {{.Generated}}.
{{- range .Times}}
{{.Minute}} {{.Hour}} * * * {{$.Command}} backup management-conf
{{- if $.BallotBox}}
{{.Minute}} {{.Hour}} * * * {{$.Command}} backup ballot-box
{{- end}}
{{- if $.Logs}}
{{.Minute}} {{.Hour}} * * * {{$.Command}} backup log
{{- end}}
{{- else}}
# No backup times configured.
{{- end}}
`))

	scheduledTemplate = template.Must(template.New("scheduled").Parse(`# Generated by {{.Command}} on {{.Generated}}.
{{.Schedule}} {{.Command}} {{.Args}}
`))
)

// Time is a daily backup time.
type Time struct {
	Hour   int
	Minute int
}

// BackupParams describes the configured backup automation.
type BackupParams struct {
	// Command is the management utility invoked by cron.
	Command   string
	Generated time.Time
	Times     []Time
	// BallotBox is set when configured voting services exist.
	BallotBox bool
	// Logs is set when configured log collectors exist.
	Logs bool
}

// RenderBackup renders the content of the backup block.
func RenderBackup(p BackupParams) (string, error) {
	return render(backupTemplate, map[string]any{
		"Command":   p.Command,
		"Generated": p.Generated.Format(generatedLayout),
		"Times":     p.Times,
		"BallotBox": p.BallotBox,
		"Logs":      p.Logs,
	})
}

// RenderDetailStats renders the content of the detail statistics block.
func RenderDetailStats(command string, generated time.Time, s Schedule) (string, error) {
	return renderScheduled(command, generated, s, "voterstats --detailed --quiet")
}

// RenderVotingFacts renders the content of the voting facts block.
func RenderVotingFacts(command string, generated time.Time, s Schedule) (string, error) {
	return renderScheduled(command, generated, s, "voting-facts --quiet")
}

func renderScheduled(command string, generated time.Time, s Schedule, args string) (string, error) {
	s = s.WithDefaults()
	if err := s.Validate(); err != nil {
		return "", err
	}
	return render(scheduledTemplate, map[string]any{
		"Command":   command,
		"Generated": generated.Format(generatedLayout),
		"Schedule":  s.String(),
		"Args":      args,
	})
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", t.Name(), err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
