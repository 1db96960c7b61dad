package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// index describes one collection index the service relies on.
type index struct {
	collection string
	name       string
	keys       bson.D
	unique     bool
}

var indexes = []index{
	// Username uniqueness is enforced by the store so concurrent signups cannot
	// both succeed.
	{UsersCollection, "idx_users_username", bson.D{{Key: "username", Value: 1}}, true},
	{CommentsCollection, "idx_comments_task_id", bson.D{{Key: "taskId", Value: 1}}, false},
}

// EnsureIndexes creates the indexes the service relies on. Creating an index
// that already exists with the same definition is a no-op in MongoDB.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log logrus.FieldLogger) error {
	log.Info("Ensuring database indexes...")
	for _, idx := range indexes {
		model := mongo.IndexModel{
			Keys:    idx.keys,
			Options: options.Index().SetName(idx.name).SetUnique(idx.unique),
		}
		if _, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		log.WithFields(logrus.Fields{
			"collection": idx.collection,
			"index":      idx.name,
		}).Debug("Index ready")
	}
	log.Info("Database indexes ready")
	return nil
}
