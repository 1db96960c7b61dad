package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment references its task by an opaque identifier. The reference is not
// checked and is left dangling when the task is deleted.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TaskID    string             `bson:"taskId" json:"taskId"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
