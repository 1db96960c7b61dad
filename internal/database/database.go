package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	UsersCollection    = "users"
	TasksCollection    = "tasks"
	CommentsCollection = "comments"

	connectTimeout = 10 * time.Second
)

// Store is the process-wide MongoDB handle. It is built once at startup and
// handed to each repository.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB and pings the primary so startup fails fast when the
// store is unreachable.
func Connect(ctx context.Context, uri, dbName string, log logrus.FieldLogger) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.WithField("database", dbName).Info("Database connection established")
	return &Store{
		client: client,
		db:     client.Database(dbName),
	}, nil
}

// DB returns the database handle.
func (s *Store) DB() *mongo.Database {
	return s.db
}

// Ping checks that the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
