package dto

// MessageResponse acknowledges a write that returns no resource
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterResponse is returned after a user signs up
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// LoginResponse carries a freshly issued bearer token
type LoginResponse struct {
	Token string `json:"token"`
}

// TaskCreatedResponse is returned after a task is stored
type TaskCreatedResponse struct {
	Message string `json:"message"`
	TaskID  string `json:"taskId"`
}

// CommentCreatedResponse is returned after a comment is stored
type CommentCreatedResponse struct {
	Message   string `json:"message"`
	CommentID string `json:"commentId"`
}

// HealthResponse reports store reachability
type HealthResponse struct {
	Status string `json:"status"`
}
