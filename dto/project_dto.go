package dto

import (
	"time"

	"github.com/taskboard-api/apperrors"
	"github.com/taskboard-api/models"
)

// ProjectRequest represents the body of project create/update requests
type ProjectRequest struct {
	Name        Optional[string]      `json:"name"`
	Description Optional[string]      `json:"description"`
	StartDate   Optional[models.Date] `json:"start_date"`
	EndDate     Optional[models.Date] `json:"end_date"`
	IsCompleted Optional[bool]        `json:"is_completed"`
	AccessCode  Optional[string]      `json:"access_code"`
}

// Apply copies the request onto p following mode. manager and timestamps are
// never client-supplied
func (r ProjectRequest) Apply(p *models.Project, mode WriteMode) error {
	errs := fieldErrors{}
	applyValue(errs, "name", r.Name, mode, true, &p.Name)
	applyValue(errs, "description", r.Description, mode, false, &p.Description)
	applyValue(errs, "start_date", r.StartDate, mode, true, &p.StartDate)
	applyNullable(errs, "end_date", r.EndDate, &p.EndDate)
	applyValue(errs, "is_completed", r.IsCompleted, mode, false, &p.IsCompleted)
	applyNullable(errs, "access_code", r.AccessCode, &p.AccessCode)
	if len(errs) > 0 {
		return apperrors.Validation(errs)
	}
	return nil
}

// JoinProjectRequest carries an access code
type JoinProjectRequest struct {
	AccessCode string `json:"access_code" binding:"required,max=32"`
}

// ProjectListItem is the light project representation used by list responses
type ProjectListItem struct {
	ID          uint         `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	StartDate   models.Date  `json:"start_date"`
	EndDate     *models.Date `json:"end_date"`
	IsCompleted bool         `json:"is_completed"`
	Manager     *uint        `json:"manager"`
	TaskCount   int64        `json:"task_count"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ProjectResponse is the detail representation with embedded tasks
type ProjectResponse struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	StartDate   models.Date    `json:"start_date"`
	EndDate     *models.Date   `json:"end_date"`
	IsCompleted bool           `json:"is_completed"`
	Manager     *uint          `json:"manager"`
	AccessCode  *string        `json:"access_code"`
	Tasks       []TaskResponse `json:"tasks"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// MemberResponse represents a project membership
type MemberResponse struct {
	ID       uint        `json:"id"`
	User     UserSummary `json:"user"`
	Project  uint        `json:"project"`
	JoinedAt time.Time   `json:"joined_at"`
}

// NewProjectListItem maps a project and its task count
func NewProjectListItem(p *models.Project, taskCount int64) ProjectListItem {
	return ProjectListItem{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		IsCompleted: p.IsCompleted,
		Manager:     p.ManagerID,
		TaskCount:   taskCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewProjectResponse maps a project with its loaded tasks
func NewProjectResponse(p *models.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		IsCompleted: p.IsCompleted,
		Manager:     p.ManagerID,
		AccessCode:  p.AccessCode,
		Tasks:       NewTaskResponses(p.Tasks),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewMemberResponses maps membership rows with their loaded users
func NewMemberResponses(members []models.ProjectMember) []MemberResponse {
	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		resp := MemberResponse{ID: m.ID, Project: m.ProjectID, JoinedAt: m.JoinedAt}
		if m.User != nil {
			resp.User = NewUserSummary(m.User)
		} else {
			resp.User = UserSummary{ID: m.UserID}
		}
		out = append(out, resp)
	}
	return out
}
