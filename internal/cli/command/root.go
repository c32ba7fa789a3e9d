// Package command provides CLI command definitions for docvault.
package command

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/docvault-go/internal/config"
	"github.com/yndnr/docvault-go/internal/core/domain"
	"github.com/yndnr/docvault-go/internal/infra/buildinfo"
	"github.com/yndnr/docvault-go/internal/infra/confloader"
	"github.com/yndnr/docvault-go/internal/telemetry/logger"
	"github.com/yndnr/docvault-go/internal/vault"
)

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:    "docvault",
		Usage:   "Encrypted document vault management tool",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			InitCommand(),
			CreateCommand(),
			GetCommand(),
			ListCommand(),
			SearchCommand(),
			DeleteCommand(),
			InfoCommand(),
			AuditCommand(),
			VersionCommand(),
		},
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Configuration file (YAML)",
			EnvVars: []string{"DOCVAULT_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "data-dir",
			Aliases: []string{"d"},
			Usage:   "Vault data directory",
			EnvVars: []string{"DOCVAULT_VAULT_DATA_DIR"},
		},
		&cli.StringFlag{
			Name:    "mode",
			Aliases: []string{"m"},
			Usage:   "Vault mode: basic, performance, secure, enterprise",
			EnvVars: []string{"DOCVAULT_VAULT_MODE"},
		},
		&cli.StringFlag{
			Name:    "secret",
			Usage:   "Secret protecting the master key file",
			EnvVars: []string{"DOCVAULT_SECURITY_SECRET"},
		},
		&cli.StringFlag{
			Name:    "user",
			Aliases: []string{"u"},
			Usage:   "Acting user id for audited operations",
			EnvVars: []string{"DOCVAULT_USER"},
			Value:   "operator",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: text, json",
			Value:   "text",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable verbose logging",
		},
	}
}

// loadConfig builds the effective configuration from defaults, the
// config file, environment variables and CLI flags, in that order.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()

	loader := confloader.NewLoader(confloader.WithConfigFile(c.String("config")))
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	// CLI flags override everything.
	if v := c.String("data-dir"); v != "" {
		cfg.Vault.DataDir = v
	}
	if v := c.String("mode"); v != "" {
		cfg.Vault.Mode = v
	}
	if v := c.String("secret"); v != "" {
		cfg.Security.Secret = v
	}
	if c.Bool("verbose") {
		cfg.Log.Level = "debug"
	}

	if err := config.Verify(cfg); err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)

	return cfg, nil
}

// openVault opens the storage manager and, when RBAC is active,
// issues an admin token for the acting user.
func openVault(c *cli.Context) (*vault.Manager, string, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, "", err
	}

	m, err := vault.Open(cfg)
	if err != nil {
		return nil, "", err
	}

	var tok string
	if m.Flags().RBAC {
		tok, err = m.IssueToken(c.String("user"), domain.RoleAdmin)
		if err != nil {
			m.Close()
			return nil, "", err
		}
	}

	return m, tok, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
