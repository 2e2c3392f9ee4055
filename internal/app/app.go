// Package app wires configuration, state, source, templates and publisher
// into an announcer.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/deusflow/ytannounce/internal/announce"
	"github.com/deusflow/ytannounce/internal/compose"
	"github.com/deusflow/ytannounce/internal/config"
	"github.com/deusflow/ytannounce/internal/logger"
	"github.com/deusflow/ytannounce/internal/metrics"
	"github.com/deusflow/ytannounce/internal/source"
	"github.com/deusflow/ytannounce/internal/state"
	"github.com/deusflow/ytannounce/internal/templates"
)

// App is a ready to run announcer and the resources it owns.
type App struct {
	cfg       *config.Config
	kv        state.KV
	State     *state.State
	Metrics   *metrics.Metrics
	announcer *announce.Announcer
	log       zerolog.Logger
}

// Options override collaborators, mostly for tests.
type Options struct {
	Metrics *metrics.Metrics
	Rand    templates.Rand
	Now     func() time.Time
}

// New opens the state backend and builds the announcer. Close releases the
// state backend.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	log := logger.With("app")
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}

	kv, err := state.Open(ctx, cfg.State())
	if err != nil {
		return nil, fmt.Errorf("failed to open state: %w", err)
	}
	st := state.New(kv)

	set, err := templates.Load(cfg.TemplatesPath)
	if err != nil {
		kv.Close()
		return nil, err
	}
	selector := templates.NewSelector(set, st, opts.Rand)
	composer := compose.New(selector, compose.Options{
		StaticTags:   cfg.StaticTags,
		CategoryTags: cfg.CategoryTags,
		Location:     cfg.Location,
	})

	src, err := source.New(ctx, source.Config{
		APIKey:      cfg.APIKey,
		APIEndpoint: cfg.APIEndpoint,
		FeedURL:     cfg.FeedURL,
		ScrapeLive:  cfg.ScrapeLive,
		Timeout:     cfg.RequestTimeout,
	}, logger.With("source"))
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("failed to create content source: %w", err)
	}

	pub, err := newPublisher(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("publisher not configured, announcements will fail outside dry runs")
	}

	a := announce.New(announce.Options{
		ChannelID: cfg.ChannelID,
		MaxItems:  cfg.MaxItems,
		Now:       opts.Now,
	}, announce.Deps{
		Source:    src,
		Store:     st,
		Composer:  composer,
		Draws:     selector,
		Publisher: pub,
		Metrics:   opts.Metrics,
		Logger:    logger.With("announce"),
	})

	return &App{
		cfg:       cfg,
		kv:        kv,
		State:     st,
		Metrics:   opts.Metrics,
		announcer: a,
		log:       log,
	}, nil
}

// RunOnce performs one announcement pass and records it in the metrics.
func (a *App) RunOnce(ctx context.Context) (announce.Result, error) {
	start := time.Now()

	res, err := a.announcer.Run(ctx)

	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	a.Metrics.RecordRun(string(res.Status), time.Since(start), errMsg)
	a.log.Debug().
		Str("status", string(res.Status)).
		Dur("took", time.Since(start)).
		Msg("run finished")
	return res, err
}

// Close releases the state backend.
func (a *App) Close() error {
	return a.kv.Close()
}
