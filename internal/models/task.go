package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Status      TaskStatus         `bson:"status" json:"status"`
	AssignedTo  string             `bson:"assignedTo" json:"assignedTo"`
	DueDate     time.Time          `bson:"dueDate" json:"dueDate"`
	Priority    TaskPriority       `bson:"priority" json:"priority"`
	Tags        []string           `bson:"tags" json:"tags"`
	// Comments is a legacy reference list. No route writes to it; comments
	// point at their task through Comment.TaskID instead.
	Comments  []string  `bson:"comments" json:"comments"`
	CreatedBy string    `bson:"createdBy" json:"createdBy"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
