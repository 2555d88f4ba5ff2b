package config

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/rabbikazmi/HackingDelhi/logger"
	"github.com/rabbikazmi/HackingDelhi/models"
	"github.com/rabbikazmi/HackingDelhi/store"
)

const (
	retryDelay     = 5 * time.Second
	connectTimeout = 15 * time.Second
	demoSeed       = 42
)

// withRetry calls fn up to attempts times, pausing delay between failures.
func withRetry(ctx context.Context, log *logger.Logger, what string, attempts int, delay time.Duration, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		log.Warn("connection attempt failed", "target", what, "attempt", i+1, "of", attempts, "error", err)
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("failed to connect to %s after %d attempts: %w", what, attempts, err)
}

// OpenStore connects the configured record backend.
func OpenStore(ctx context.Context, cfg *Config, log *logger.Logger) (store.Store, error) {
	switch cfg.DataSource {
	case SourceMongo:
		var client *mongo.Client
		err := withRetry(ctx, log, "MongoDB", cfg.ConnectRetries, retryDelay, func(ctx context.Context) error {
			var err error
			client, err = connectMongo(ctx, cfg.MongoURL)
			return err
		})
		if err != nil {
			return nil, err
		}
		m := store.NewMongo(client, cfg.DBName)
		ictx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		if err := m.EnsureIndexes(ictx); err != nil {
			log.Warn("failed to create indexes", "error", err)
		}
		log.Info("connected to MongoDB", "database", cfg.DBName)
		return m, nil

	case SourceSQL:
		var s *store.SQL
		err := withRetry(ctx, log, cfg.SQLDriver, cfg.ConnectRetries, retryDelay, func(ctx context.Context) error {
			cctx, cancel := context.WithTimeout(ctx, connectTimeout)
			defer cancel()
			var err error
			s, err = store.OpenSQL(cctx, cfg.SQLDriver, cfg.SQLDSN)
			return err
		})
		if err != nil {
			return nil, err
		}
		if err := seedFromDataset(ctx, s, cfg.DatasetPath, log); err != nil {
			s.Close(ctx)
			return nil, err
		}
		log.Info("connected to SQL database", "driver", cfg.SQLDriver)
		return s, nil

	default:
		records, err := demoRecords(cfg)
		if err != nil {
			return nil, err
		}
		log.Info("using in-memory store", "records", len(records))
		return store.NewMemory(records), nil
	}
}

// seedFromDataset loads path into a backend that stores canonical records.
// An empty path is a no-op.
func seedFromDataset(ctx context.Context, s store.Seeder, path string, log *logger.Logger) error {
	if path == "" {
		return nil
	}
	records, err := store.LoadDataset(path)
	if err != nil {
		return err
	}
	added, err := s.SeedRecords(ctx, records)
	if err != nil {
		return fmt.Errorf("seed records: %w", err)
	}
	log.Info("seeded census records", "path", path, "added", added)
	return nil
}

func demoRecords(cfg *Config) ([]models.CensusRecord, error) {
	if cfg.DatasetPath != "" {
		return store.LoadDataset(cfg.DatasetPath)
	}
	return store.GenerateDemo(cfg.DemoRecordCount, demoSeed), nil
}

func connectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri).
		SetMaxPoolSize(100).
		SetMinPoolSize(5).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second).
		SetSocketTimeout(30 * time.Second).
		SetRetryWrites(true).
		SetRetryReads(true).
		SetWriteConcern(writeconcern.Majority()).
		SetReadConcern(readconcern.Majority()).
		SetReadPreference(readpref.Primary())

	cctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(cctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("error connecting to MongoDB: %w", err)
	}
	if err := client.Ping(cctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("error pinging MongoDB: %w", err)
	}
	return client, nil
}

// OpenSessions returns the configured session store and a function that
// releases it.
func OpenSessions(ctx context.Context, cfg *Config, log *logger.Logger) (store.Sessions, func() error, error) {
	if cfg.SessionBackend != SessionsRedis {
		return store.NewMemorySessions(), func() error { return nil }, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		DialTimeout: 5 * time.Second,
	})
	err := withRetry(ctx, log, "Redis", cfg.ConnectRetries, retryDelay, func(ctx context.Context) error {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return rdb.Ping(pctx).Err()
	})
	if err != nil {
		rdb.Close()
		return nil, nil, err
	}
	log.Info("connected to Redis", "addr", cfg.RedisAddr)
	return store.NewRedisSessions(rdb), rdb.Close, nil
}
