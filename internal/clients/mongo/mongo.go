// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/absmach/telequery/internal/env"
	"github.com/absmach/telequery/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

var (
	errConfig  = errors.New("failed to load mongodb configuration")
	errConnect = errors.New("failed to connect to mongodb server")
)

// Config defines the options that are used when connecting to a MongoDB instance.
type Config struct {
	Host       string `env:"HOST"       envDefault:"localhost"`
	Port       string `env:"PORT"       envDefault:"27017"`
	Name       string `env:"NAME"       envDefault:"telemetry"`
	Collection string `env:"COLLECTION" envDefault:"records"`
}

// Connect creates a connection to the MongoDB instance and checks that it answers.
func Connect(ctx context.Context, cfg Config) (*mongo.Database, error) {
	addr := fmt.Sprintf("mongodb://%s:%s", cfg.Host, cfg.Port)

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(addr))
	if err != nil {
		return nil, errors.Wrap(errConnect, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errConnect, err)
	}

	return client.Database(cfg.Name), nil
}

// LoadConfig reads the connection options from the environment.
func LoadConfig(envPrefix string) (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, errors.Wrap(errConfig, err)
	}

	return cfg, nil
}

// Setup loads the configuration from the environment and connects to the MongoDB server.
func Setup(ctx context.Context, envPrefix string) (*mongo.Database, Config, error) {
	cfg, err := LoadConfig(envPrefix)
	if err != nil {
		return nil, Config{}, err
	}
	db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, Config{}, err
	}

	return db, cfg, nil
}
