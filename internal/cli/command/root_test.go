package command

import (
	"bytes"
	"os"
	"testing"

	"github.com/urfave/cli/v2"
)

func TestApp(t *testing.T) {
	app := App()
	if app == nil {
		t.Fatal("App() returned nil")
	}

	if app.Name != "docvault" {
		t.Errorf("Name = %q, want %q", app.Name, "docvault")
	}
	if app.Usage == "" {
		t.Error("Usage should not be empty")
	}

	commandNames := make(map[string]bool)
	for _, cmd := range app.Commands {
		commandNames[cmd.Name] = true
	}

	requiredCommands := []string{
		"init", "create", "get", "list", "search", "delete",
		"info", "audit", "version",
	}
	for _, name := range requiredCommands {
		if !commandNames[name] {
			t.Errorf("missing required command: %s", name)
		}
	}
}

func TestApp_GlobalFlags(t *testing.T) {
	app := App()

	flagNames := make(map[string]bool)
	for _, flag := range app.Flags {
		flagNames[flag.Names()[0]] = true
	}

	requiredFlags := []string{"config", "data-dir", "mode", "secret", "user", "output", "verbose"}
	for _, name := range requiredFlags {
		if !flagNames[name] {
			t.Errorf("missing required flag: %s", name)
		}
	}
}

func TestGlobalFlags_EnvVars(t *testing.T) {
	flags := globalFlags()

	envVarFlags := make(map[string][]string)
	for _, flag := range flags {
		if sf, ok := flag.(*cli.StringFlag); ok {
			envVarFlags[sf.Name] = sf.EnvVars
		}
	}

	if len(envVarFlags["mode"]) == 0 || envVarFlags["mode"][0] != "DOCVAULT_VAULT_MODE" {
		t.Error("mode flag should have DOCVAULT_VAULT_MODE env var")
	}
	if len(envVarFlags["data-dir"]) == 0 || envVarFlags["data-dir"][0] != "DOCVAULT_VAULT_DATA_DIR" {
		t.Error("data-dir flag should have DOCVAULT_VAULT_DATA_DIR env var")
	}
	if len(envVarFlags["secret"]) == 0 || envVarFlags["secret"][0] != "DOCVAULT_SECURITY_SECRET" {
		t.Error("secret flag should have DOCVAULT_SECURITY_SECRET env var")
	}
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	dir := t.TempDir()

	app := &cli.App{
		Flags: globalFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				t.Fatalf("loadConfig: %v", err)
			}
			if cfg.Vault.Mode != "performance" {
				t.Errorf("Mode = %q, want %q", cfg.Vault.Mode, "performance")
			}
			if cfg.Vault.DataDir != dir {
				t.Errorf("DataDir = %q, want %q", cfg.Vault.DataDir, dir)
			}
			if cfg.Log.Level != "debug" {
				t.Errorf("Level = %q, want %q after --verbose", cfg.Log.Level, "debug")
			}
			return nil
		},
	}

	err := app.Run([]string{"test", "--mode", "performance", "--data-dir", dir, "--verbose"})
	if err != nil {
		t.Fatalf("app.Run failed: %v", err)
	}
}

func TestLoadConfig_InvalidMode(t *testing.T) {
	app := &cli.App{
		Flags: globalFlags(),
		Action: func(c *cli.Context) error {
			_, err := loadConfig(c)
			if err == nil {
				t.Error("loadConfig should reject an unknown mode")
			}
			return nil
		},
	}

	err := app.Run([]string{"test", "--mode", "turbo", "--data-dir", t.TempDir()})
	if err != nil {
		t.Fatalf("app.Run failed: %v", err)
	}
}

func TestOpenVault_IssuesTokenUnderRBAC(t *testing.T) {
	dir := t.TempDir()

	app := &cli.App{
		Flags: globalFlags(),
		Action: func(c *cli.Context) error {
			m, tok, err := openVault(c)
			if err != nil {
				t.Fatalf("openVault: %v", err)
			}
			defer m.Close()

			if !m.Flags().RBAC {
				t.Fatal("secure mode should enable RBAC")
			}
			if tok == "" {
				t.Error("openVault should issue a token under RBAC")
			}
			return nil
		},
	}

	err := app.Run([]string{"test", "--mode", "secure", "--data-dir", dir, "--secret", "cli-test"})
	if err != nil {
		t.Fatalf("app.Run failed: %v", err)
	}
}

func TestOpenVault_NoTokenInBasicMode(t *testing.T) {
	app := &cli.App{
		Flags: globalFlags(),
		Action: func(c *cli.Context) error {
			m, tok, err := openVault(c)
			if err != nil {
				t.Fatalf("openVault: %v", err)
			}
			defer m.Close()

			if tok != "" {
				t.Errorf("token = %q, want empty in basic mode", tok)
			}
			return nil
		},
	}

	err := app.Run([]string{"test", "--mode", "basic", "--data-dir", t.TempDir()})
	if err != nil {
		t.Fatalf("app.Run failed: %v", err)
	}
}

func TestPrintError(t *testing.T) {
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	PrintError("test error: %s", "details")

	w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	if output != "error: test error: details\n" {
		t.Errorf("PrintError output = %q, want %q", output, "error: test error: details\n")
	}
}
