// Package tasks implements per-user task management: ownership-filtered
// CRUD with pagination and completion-status filtering.
package tasks

// CreateTaskRequest is the payload for creating a task.
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200" example:"Buy groceries"`
	Description *string `json:"description" validate:"omitempty,max=1000" example:"Milk, eggs, bread"`
	Completed   bool    `json:"completed"`
}

// UpdateTaskRequest is the payload for a partial task update. Nil fields
// are left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Completed   *bool   `json:"completed"`
}

// Pagination describes the page of a task listing.
type Pagination struct {
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// TaskListResponse is the response for a task listing.
type TaskListResponse struct {
	Tasks      []Task     `json:"tasks"`
	Pagination Pagination `json:"pagination"`
}
