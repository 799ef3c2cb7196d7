package dto

import (
	"time"

	"github.com/taskboard-api/apperrors"
	"github.com/taskboard-api/models"
)

// TaskRequest represents the body of task create/update requests
type TaskRequest struct {
	Name         Optional[string]          `json:"name"`
	Description  Optional[string]          `json:"description"`
	StartDate    Optional[models.Date]     `json:"start_date"`
	EndDate      Optional[models.Date]     `json:"end_date"`
	Priority     Optional[models.Priority] `json:"priority"`
	Project      Optional[uint]            `json:"project"`
	AssignedUser Optional[uint]            `json:"assigned_user"`
	IsCompleted  Optional[bool]            `json:"is_completed"`
}

// Apply copies the request onto t following mode
func (r TaskRequest) Apply(t *models.Task, mode WriteMode) error {
	errs := fieldErrors{}
	applyValue(errs, "name", r.Name, mode, true, &t.Name)
	applyValue(errs, "description", r.Description, mode, false, &t.Description)
	applyValue(errs, "start_date", r.StartDate, mode, true, &t.StartDate)
	applyNullable(errs, "end_date", r.EndDate, &t.EndDate)
	applyValue(errs, "priority", r.Priority, mode, false, &t.Priority)
	applyValue(errs, "project", r.Project, mode, true, &t.ProjectID)
	applyNullable(errs, "assigned_user", r.AssignedUser, &t.AssignedUserID)
	applyValue(errs, "is_completed", r.IsCompleted, mode, false, &t.IsCompleted)
	if r.AssignedUser.Set {
		// the loaded association no longer matches the id
		t.AssignedUser = nil
	}
	if len(errs) > 0 {
		return apperrors.Validation(errs)
	}
	return nil
}

// TaskResponse is the standard task representation
type TaskResponse struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	StartDate    models.Date     `json:"start_date"`
	EndDate      *models.Date    `json:"end_date"`
	Priority     models.Priority `json:"priority"`
	Project      uint            `json:"project"`
	AssignedUser *UserSummary    `json:"assigned_user"`
	IsCompleted  bool            `json:"is_completed"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TaskDetailResponse adds the ids of the tasks this one depends on
type TaskDetailResponse struct {
	TaskResponse
	Dependencies []uint `json:"dependencies"`
}

// DependencyResponse represents a dependency edge
type DependencyResponse struct {
	ID              uint      `json:"id"`
	Task            uint      `json:"task"`
	DependentOnTask uint      `json:"dependent_on_task"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewTaskResponse maps a task; the assignee is embedded when loaded
func NewTaskResponse(t *models.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		Priority:    t.Priority,
		Project:     t.ProjectID,
		IsCompleted: t.IsCompleted,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.AssignedUser != nil {
		summary := NewUserSummary(t.AssignedUser)
		resp.AssignedUser = &summary
	}
	return resp
}

// NewTaskResponses maps a slice of tasks
func NewTaskResponses(tasks []models.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, NewTaskResponse(&tasks[i]))
	}
	return out
}

// NewTaskDetailResponse maps a task with its dependency ids
func NewTaskDetailResponse(t *models.Task, dependencies []uint) TaskDetailResponse {
	if dependencies == nil {
		dependencies = []uint{}
	}
	return TaskDetailResponse{TaskResponse: NewTaskResponse(t), Dependencies: dependencies}
}

// NewDependencyResponses maps dependency edges
func NewDependencyResponses(deps []models.TaskDependency) []DependencyResponse {
	out := make([]DependencyResponse, 0, len(deps))
	for _, d := range deps {
		out = append(out, DependencyResponse{
			ID:              d.ID,
			Task:            d.TaskID,
			DependentOnTask: d.DependentOnTaskID,
			CreatedAt:       d.CreatedAt,
		})
	}
	return out
}
