// Package command provides CLI command definitions for docvault.
package command

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/docvault-go/internal/infra/buildinfo"
)

// InitCommand returns the vault init command.
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:   "init",
		Usage:  "Initialize the vault data directory",
		Action: runInit,
	}
}

func runInit(c *cli.Context) error {
	m, _, err := openVault(c)
	if err != nil {
		return err
	}
	defer m.Close()

	info, err := m.SystemInfo(c.Context)
	if err != nil {
		return err
	}

	fmt.Printf("Initialized vault at %s (mode %s)\n", info.DataDir, info.Mode)
	if info.Encrypted {
		fmt.Println("Encryption at rest is enabled; keep the key file and secret safe.")
	}
	return nil
}

// InfoCommand returns the vault info command.
func InfoCommand() *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Show vault configuration and live counters",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "Include cache, rate limit and audit counters",
			},
		},
		Action: runInfo,
	}
}

func runInfo(c *cli.Context) error {
	m, _, err := openVault(c)
	if err != nil {
		return err
	}
	defer m.Close()

	info, err := m.SystemInfo(c.Context)
	if err != nil {
		return err
	}

	if c.String("output") == "json" {
		if !c.Bool("metrics") {
			return printJSON(info)
		}
		pm, err := m.PerformanceMetrics(c.Context)
		if err != nil {
			return err
		}
		return printJSON(map[string]any{"info": info, "metrics": pm})
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Version:\t%s\n", info.Version)
	fmt.Fprintf(w, "Mode:\t%s\n", info.Mode)
	fmt.Fprintf(w, "Data directory:\t%s\n", info.DataDir)
	fmt.Fprintf(w, "Memory profile:\t%s\n", info.MemoryProfile)
	fmt.Fprintf(w, "Encrypted:\t%t\n", info.Encrypted)
	fmt.Fprintf(w, "Full-text search:\t%t\n", info.FullTextSearch)
	fmt.Fprintf(w, "Documents:\t%d\n", info.DocumentCount)
	fmt.Fprintf(w, "Active tokens:\t%d\n", info.ActiveTokens)

	if c.Bool("metrics") {
		pm, err := m.PerformanceMetrics(c.Context)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Uptime:\t%s\n", pm.Uptime.Truncate(time.Second))
		fmt.Fprintf(w, "Cache hits/misses:\t%d/%d\n", pm.Cache.Hits, pm.Cache.Misses)
		fmt.Fprintf(w, "Cache evictions:\t%d\n", pm.Cache.Evictions)
		fmt.Fprintf(w, "Rate limit denials:\t%d\n", pm.RateLimit.Denied)
		fmt.Fprintf(w, "Audit events:\t%d\n", pm.Audit.Recorded)
	}
	return w.Flush()
}

// AuditCommand returns the audit trail command.
func AuditCommand() *cli.Command {
	return &cli.Command{
		Name:  "audit",
		Usage: "Show recent audit events",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Number of events to show, newest first",
				Value:   20,
			},
			&cli.BoolFlag{
				Name:  "anomalies",
				Usage: "Report suspicious patterns instead of raw events",
			},
		},
		Action: runAudit,
	}
}

func runAudit(c *cli.Context) error {
	m, _, err := openVault(c)
	if err != nil {
		return err
	}
	defer m.Close()

	if !m.Flags().AuditLogging {
		return fmt.Errorf("audit logging is off in mode %s", m.Mode())
	}

	if c.Bool("anomalies") {
		anomalies := m.AuditAnomalies()
		if c.String("output") == "json" {
			return printJSON(anomalies)
		}
		if len(anomalies) == 0 {
			fmt.Println("No anomalies detected.")
			return nil
		}
		for _, a := range anomalies {
			fmt.Printf("[%s] user=%s count=%d %s\n", a.Kind, a.User, a.Count, a.Message)
		}
		return nil
	}

	events := m.AuditRecent(c.Int("limit"))
	if c.String("output") == "json" {
		return printJSON(events)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tSEVERITY\tACTION\tUSER\tMESSAGE")
	for _, e := range events {
		ts := time.UnixMilli(e.Timestamp).Format(time.RFC3339)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", ts, e.Severity, e.Action, e.User, e.Message)
	}
	return w.Flush()
}

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(c *cli.Context) error {
			if c.String("output") == "json" {
				return printJSON(buildinfo.Get())
			}
			fmt.Println(buildinfo.String())
			return nil
		},
	}
}
