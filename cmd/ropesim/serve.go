package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/kv"
	"github.com/san-kum/ropesim/internal/writings"
)

func serve(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = c
	}
	cfg.ApplyEnv()
	sc := cfg.Server

	if sc.AdminSecret == "" {
		logger.Warn("no admin secret configured; all writes will be rejected")
	}

	store, err := kv.Open(kv.Options{
		Driver: sc.KVDriver,
		DSN:    sc.KVDSN,
		URL:    sc.KVURL,
		Token:  sc.KVToken,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	repo := writings.NewRepository(store, logger.Named("writings"))
	handler := writings.NewHandler(repo, sc.AdminSecret, logger.Named("http"))
	srv := writings.NewServer(sc.Addr, sc.Path, handler, logger)

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("starting writings api",
		zap.String("addr", sc.Addr),
		zap.String("path", sc.Path),
		zap.String("kv", sc.KVDriver),
	)

	// With a config file the admin secret can be rotated without a restart.
	var watcher *config.Watcher
	if configFile != "" {
		watcher, err = config.NewWatcher(configFile, logger)
		if err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(gctx, func(c *config.Config) {
				c.ApplyEnv()
				handler.SetSecret(c.Server.AdminSecret)
				logger.Info("admin secret reloaded", zap.Bool("writes_enabled", c.Server.AdminSecret != ""))
			})
		})
	}
	return g.Wait()
}
