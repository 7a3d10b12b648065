package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/tbxark/sobaguide"
	"github.com/tbxark/sobaguide/agent"
	"github.com/tbxark/sobaguide/config"
	"github.com/tbxark/sobaguide/formatter"
	"github.com/tbxark/sobaguide/generate"
	"github.com/tbxark/sobaguide/geo"
	"github.com/tbxark/sobaguide/render"
)

type app struct {
	flow   *agent.Flow
	agent  *agent.Agent
	states agent.StateReadWriter
	text   *render.Text
	close  func() error
}

func newApp(ctx context.Context, conf *config.Config, reg prometheus.Registerer) (*app, error) {
	lookup, err := loadLookup(conf.GeoData)
	if err != nil {
		return nil, err
	}
	gen, err := newGenerator(ctx, conf, generate.NewMetrics(reg))
	if err != nil {
		return nil, err
	}
	opts := []sobaguide.Option{
		sobaguide.WithLookup(lookup),
		sobaguide.WithCategories(conf.Categories...),
		sobaguide.WithFormatter(formatter.New(
			formatter.WithMarkers(conf.Markers),
			formatter.WithPaletteSize(conf.PaletteSize),
		)),
	}
	if conf.OptionalFreeText {
		opts = append(opts, sobaguide.WithOptionalFreeText())
	}
	if conf.FallbackMessage != "" {
		opts = append(opts, sobaguide.WithFallbackMessage(conf.FallbackMessage))
	}
	guide, err := sobaguide.New(gen, opts...)
	if err != nil {
		return nil, err
	}

	states, closeFn := newStateReadWriter(ctx, conf.Redis)
	text := render.NewText(render.DefaultPalette(), conf.Color, guide.Flow().Engine().Steps())
	return &app{
		flow:   guide.Flow(),
		agent:  guide.NewAgent("SobaGuide", "Guides users to public support programs for their municipality", states, text.Response),
		states: states,
		text:   text,
		close:  closeFn,
	}, nil
}

func loadLookup(path string) (*geo.StaticLookup, error) {
	if path == "" {
		return geo.Default()
	}
	return geo.Load(path)
}

func newStateReadWriter(ctx context.Context, conf config.Redis) (agent.StateReadWriter, func() error) {
	if conf.Addr == "" {
		return agent.NewMemoryStateReadWriter(), func() error { return nil }
	}
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		slog.Warn("Redis unavailable, keeping sessions in memory", "addr", conf.Addr, "error", err)
		_ = client.Close()
		return agent.NewMemoryStateReadWriter(), func() error { return nil }
	}
	slog.Info("Storing sessions in redis", "addr", conf.Addr, "namespace", conf.Namespace)
	cache := agent.NewRedisCache[agent.State](client, conf.TTL.Std())
	return agent.NewCacheStateReadWriter(cache, conf.Namespace), client.Close
}
