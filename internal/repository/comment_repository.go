package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCommentRepository is a MongoDB implementation of CommentRepository
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *mongo.Database) CommentRepository {
	return &MongoCommentRepository{collection: db.Collection(database.CommentsCollection)}
}

func (r *MongoCommentRepository) List(ctx context.Context) ([]models.Comment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}
	return comments, nil
}

func (r *MongoCommentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	return &comment, nil
}

func (r *MongoCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	if _, err := r.collection.InsertOne(ctx, comment); err != nil {
		comment.ID = primitive.NilObjectID
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *MongoCommentRepository) Update(ctx context.Context, id primitive.ObjectID, update CommentUpdate) error {
	set := bson.M{
		"taskId":    update.TaskID,
		"content":   update.Content,
		"updatedAt": update.UpdatedAt,
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoCommentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
