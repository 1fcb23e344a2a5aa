// Package mongo keeps the audit log in MongoDB when HISTORY_STORE=mongo.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	appName        = "inventory"
	defaultTimeout = 10 * time.Second
)

// Config selects the server and database holding the history collection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Store owns the client and the database of the history store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials cfg.URI and pings the primary. History rows are written with
// majority acknowledgement.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongo: database name is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout).
		SetWriteConcern(writeconcern.Majority())

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &Store{client: client, db: client.Database(cfg.Database)}, nil
}

// Database returns the configured database.
func (s *Store) Database() *mongo.Database { return s.db }

// History returns the audit repository backed by this store.
func (s *Store) History() *HistoryRepository { return NewHistoryRepository(s.db) }

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
