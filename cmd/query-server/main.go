// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package main contains the development query server main function.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/absmach/telequery"
	"github.com/absmach/telequery/internal"
	jaegerclient "github.com/absmach/telequery/internal/clients/jaeger"
	mongoclient "github.com/absmach/telequery/internal/clients/mongo"
	"github.com/absmach/telequery/internal/env"
	"github.com/absmach/telequery/internal/server"
	httpserver "github.com/absmach/telequery/internal/server/http"
	tqlog "github.com/absmach/telequery/logger"
	"github.com/absmach/telequery/pkg/uuid"
	qserver "github.com/absmach/telequery/server"
	"github.com/absmach/telequery/server/api"
	"github.com/absmach/telequery/server/memory"
	"github.com/absmach/telequery/server/mongodb"
	"golang.org/x/sync/errgroup"
)

const (
	svcName        = "query_server"
	envPrefix      = "TQ_QUERY_SERVER_"
	envPrefixHTTP  = "TQ_QUERY_SERVER_HTTP_"
	envPrefixDB    = "TQ_QUERY_SERVER_DB_"
	envEnvFile     = "TQ_QUERY_SERVER_ENV_FILE"
	defSvcHTTPPort = "9099"

	backendMemory  = "memory"
	backendMongoDB = "mongodb"
)

type config struct {
	LogLevel    string  `env:"LOG_LEVEL"    envDefault:"info"`
	Secret      string  `env:"SECRET"       envDefault:""`
	Backend     string  `env:"BACKEND"      envDefault:"memory"`
	RecordsFile string  `env:"RECORDS_FILE" envDefault:"server/memory/testdata/readings.ndjson"`
	InstanceID  string  `env:"INSTANCE_ID"  envDefault:""`
	JaegerURL   string  `env:"JAEGER_URL"   envDefault:""`
	TraceRatio  float64 `env:"TRACE_RATIO"  envDefault:"1.0"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	if err := telequery.LoadEnvFile(telequery.Env(envEnvFile, "")); err != nil {
		log.Fatalf("failed to load env file: %s", err)
	}

	cfg := config{}
	if err := env.Parse(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		log.Fatalf("failed to load %s configuration : %s", svcName, err)
	}

	logger, err := tqlog.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %s", err)
	}

	var exitCode int
	defer tqlog.ExitWithError(&exitCode)

	if cfg.InstanceID == "" {
		if cfg.InstanceID, err = uuid.New().ID(); err != nil {
			logger.Error(fmt.Sprintf("failed to generate instanceID: %s", err))
			exitCode = 1
			return
		}
	}

	if cfg.JaegerURL != "" {
		tp, err := jaegerclient.NewProvider(ctx, svcName, cfg.JaegerURL, cfg.InstanceID, cfg.TraceRatio)
		if err != nil {
			logger.Error(fmt.Sprintf("failed to init Jaeger: %s", err))
			exitCode = 1
			return
		}
		defer internal.Close(logger, "tracer provider", tp.Shutdown)
		logger.Info(fmt.Sprintf("Exporting traces to %s", cfg.JaegerURL))
	}

	var repo qserver.Repository
	switch cfg.Backend {
	case backendMemory:
		if repo, err = memory.Load(cfg.RecordsFile); err != nil {
			logger.Error(err.Error())
			exitCode = 1
			return
		}
		logger.Info(fmt.Sprintf("Loaded records from %s", cfg.RecordsFile))
	case backendMongoDB:
		db, dbConfig, err := mongoclient.Setup(ctx, envPrefixDB)
		if err != nil {
			logger.Error(err.Error())
			exitCode = 1
			return
		}
		defer internal.Close(logger, "mongodb", db.Client().Disconnect)
		repo = mongodb.New(db, dbConfig.Collection)
		logger.Info(fmt.Sprintf("Connected to MongoDB database %s", dbConfig.Name))
	default:
		logger.Error(fmt.Sprintf("unknown backend %q, expected %s or %s", cfg.Backend, backendMemory, backendMongoDB))
		exitCode = 1
		return
	}

	if cfg.Secret == "" {
		logger.Warn("no secret configured, authentication is disabled")
	}
	svc := newService(repo, cfg.Secret, logger)

	httpServerConfig := server.Config{Port: defSvcHTTPPort}
	if err := env.Parse(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err))
		exitCode = 1
		return
	}
	hs := httpserver.New(ctx, cancel, svcName, httpServerConfig, api.MakeHandler(svc, logger, svcName, cfg.InstanceID), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service terminated: %s", svcName, err))
	}
}

func newService(repo qserver.Repository, secret string, logger tqlog.Logger) qserver.Service {
	svc := qserver.NewService(repo, secret)
	svc = api.LoggingMiddleware(svc, logger)
	counter, latency := internal.MakeMetrics(svcName, "api")
	svc = api.MetricsMiddleware(svc, counter, latency)

	return svc
}
