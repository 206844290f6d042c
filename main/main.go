package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/beijian128/aoe/config"
	"github.com/beijian128/aoe/shape"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

func main() {
	configPath := flag.String("config", "", "path to config file (toml), defaults are used when empty")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			logrus.WithError(err).Fatal("load config")
		}
	}
	log := newLogger(cfg.Logging)

	shapes, err := shape.LoadTable(cfg.Data.ShapesPath)
	if err != nil {
		log.WithError(err).Fatal("load telegraph shapes")
	}
	// 配置问题只告警，判定时会按空范围处理
	for _, e := range multierr.Errors(shapes.Validate()) {
		log.WithError(e).Warn("telegraph shape")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *snapshotStore
	if cfg.Debug.Addr != "" {
		store = &snapshotStore{}
		go serveDebug(ctx, cfg.Debug.Addr, store, log)
	}

	w, err := newWorld(cfg, log, shapes, store)
	if err != nil {
		log.WithError(err).Fatal("create world")
	}
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("world")
	}
}

func newLogger(cfg config.LoggingConfig) *logrus.Logger {
	log := logrus.New()
	switch cfg.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		log.WithField("level", cfg.Level).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}
