// Package main is the entry point for the lazystage application.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazystage/internal/app"
	"github.com/chmouel/lazystage/internal/config"
	"github.com/chmouel/lazystage/internal/log"
	"github.com/chmouel/lazystage/internal/theme"
	urfavecli "github.com/urfave/cli/v2"
	"golang.org/x/term"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cliApp := &urfavecli.App{
		Name:                 "lazystage",
		Usage:                "A TUI to review and stage pending git changes",
		ArgsUsage:            "[repository]",
		Version:              version,
		EnableBashCompletion: true,

		Flags: globalFlags(),

		Action: runTUI,
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// runTUI launches the staging UI on the repository given as the first
// positional argument, defaulting to the current directory.
func runTUI(c *urfavecli.Context) error {
	if debugLog := c.String("debug-log"); debugLog != "" {
		if err := log.SetFile(expandPath(debugLog)); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", debugLog, err)
		}
	}

	cfg, err := config.LoadConfig(c.String("config-file"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if c.String("debug-log") == "" {
		if cfg.DebugLog != "" {
			if err := log.SetFile(expandPath(cfg.DebugLog)); err != nil {
				fmt.Fprintf(os.Stderr, "Error opening debug log file from config %q: %v\n", cfg.DebugLog, err)
			}
		} else {
			_ = log.SetFile("")
		}
	}

	if err := applyThemeConfig(cfg, c.String("theme")); err != nil {
		_ = log.Close()
		return err
	}

	repoDir := c.Args().First()
	if repoDir == "" {
		repoDir = "."
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		_ = log.Close()
		return fmt.Errorf("lazystage needs a terminal to run")
	}

	ctx := context.Background()
	model := app.NewModel(ctx, cfg, repoDir)
	if err := model.Open(ctx); err != nil {
		_ = log.Close()
		return err
	}

	empty, err := model.LoadInitial(ctx)
	if err != nil {
		_ = log.Close()
		return err
	}
	if empty {
		fmt.Println("Nothing to stage, commit or delete.")
		_ = log.Close()
		return nil
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		_ = log.Close()
		return err
	}

	if err := log.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing debug log: %v\n", err)
	}
	return nil
}

// applyThemeConfig resolves the effective theme, flag over config file.
func applyThemeConfig(cfg *config.AppConfig, flagTheme string) error {
	name := cfg.Theme
	if flagTheme != "" {
		name = flagTheme
	}
	normalized := theme.NormalizeThemeName(name)
	if normalized == "" {
		return fmt.Errorf("unknown theme %q (available: %s)",
			name, strings.Join(theme.AvailableThemes(), ", "))
	}
	cfg.Theme = normalized
	return nil
}

// expandPath resolves a leading ~ against the user's home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
