package main

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/experiment"
	"github.com/san-kum/ropesim/internal/sim"
	"github.com/san-kum/ropesim/internal/viz"
)

func runLive(cmd *cobra.Command, args []string) error {
	if watch && configFile == "" {
		return errors.New("--watch needs --config")
	}
	if !viz.HasTheme(themeName) {
		return fmt.Errorf("unknown theme: %s (available: %s)", themeName, strings.Join(viz.ThemeNames(), ", "))
	}

	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	// The terminal belongs to the view; keep logging off it.
	quiet := zap.NewNop()

	reg := experiment.NewRegistry()
	exp, err := experiment.New(cfg, reg, quiet)
	if err != nil {
		return err
	}

	resets := int64(0)
	rebuild := func() (*sim.Scene, error) {
		resets++
		c := cfg.Clone()
		c.Seed = cfg.Seed + resets
		return reg.Build(c, dynamo.NewRand(c.Seed))
	}

	// Register the watch before taking over the terminal so a bad path is
	// reported instead of silently never reloading.
	var watcher *config.Watcher
	if watch {
		watcher, err = config.NewWatcher(configFile, quiet)
		if err != nil {
			return err
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	m := viz.NewModel(exp.Simulator(), exp.Scene(), rebuild).WithTheme(themeName)
	p := viz.NewProgram(m, tea.WithContext(ctx))

	if watcher != nil {
		go func() {
			_ = watcher.Run(ctx, func(c *config.Config) {
				t, err := c.Tuning()
				if err != nil {
					return
				}
				p.Send(viz.ReloadMsg{Tuning: t})
			})
		}()
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
