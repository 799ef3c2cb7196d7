package repositories

import (
	"context"
	"strings"

	"github.com/taskboard-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProjectFilter narrows project listings
type ProjectFilter struct {
	UserID uint
	Search string
}

// ProjectRepository handles database operations for projects and memberships
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository instance
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// visibleProjectIDs selects ids of projects userID manages or belongs to
func visibleProjectIDs(db *gorm.DB, userID uint) *gorm.DB {
	members := db.Model(&models.ProjectMember{}).Select("project_id").Where("user_id = ?", userID)
	return db.Model(&models.Project{}).Select("id").
		Where("manager_id = ? OR id IN (?)", userID, members)
}

// FindVisible retrieves the projects the user manages or is a member of
func (r *ProjectRepository) FindVisible(ctx context.Context, filter ProjectFilter) ([]models.Project, error) {
	var projects []models.Project
	q := r.db.WithContext(ctx).
		Where("id IN (?)", visibleProjectIDs(r.db, filter.UserID))

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}

	err := q.Order("id").Find(&projects).Error
	return projects, translate(err, "list projects failed")
}

// FindVisibleByID retrieves a project if the user can see it
func (r *ProjectRepository) FindVisibleByID(ctx context.Context, id, userID uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Where("id IN (?)", visibleProjectIDs(r.db, userID)).
		First(&project, id).Error
	if err != nil {
		return nil, translate(err, "get project failed")
	}
	return &project, nil
}

// FindByID retrieves a project by its ID
func (r *ProjectRepository) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, translate(err, "get project failed")
	}
	return &project, nil
}

// WithTasks loads a project with its tasks and their assignees
func (r *ProjectRepository) WithTasks(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("tasks.id") }).
		Preload("Tasks.AssignedUser").
		First(&project, id).Error
	if err != nil {
		return nil, translate(err, "get project failed")
	}
	return &project, nil
}

// FindByAccessCode retrieves the project matching an access code
func (r *ProjectRepository) FindByAccessCode(ctx context.Context, code string) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).Where("access_code = ?", code).First(&project).Error; err != nil {
		return nil, translate(err, "get project by access code failed")
	}
	return &project, nil
}

// AccessCodeTaken checks whether an access code is already used
func (r *ProjectRepository) AccessCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Where("access_code = ?", code).Count(&count).Error
	return count > 0, translate(err, "check access code failed")
}

// TaskCounts returns the live task count for each project id
func (r *ProjectRepository) TaskCounts(ctx context.Context, ids []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []struct {
		ProjectID uint
		Count     int64
	}
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Select("project_id, COUNT(*) AS count").
		Where("project_id IN ?", ids).
		Group("project_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "count tasks failed")
	}
	for _, row := range rows {
		counts[row.ProjectID] = row.Count
	}
	return counts, nil
}

// Create inserts a new project into the database
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(project).Error
	return translate(err, "create project failed")
}

// Update modifies an existing project
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(project).Error
	return translate(err, "update project failed")
}

// Delete removes a project together with its tasks, their dependency edges
// and its memberships
func (r *ProjectRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskIDs := func() *gorm.DB {
			return tx.Model(&models.Task{}).Select("id").Where("project_id = ?", id)
		}
		if err := tx.Where("task_id IN (?) OR dependent_on_task_id IN (?)", taskIDs(), taskIDs()).
			Delete(&models.TaskDependency{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Project{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate(err, "delete project failed")
}

// IsMember checks whether a membership row links userID to projectID
func (r *ProjectRepository) IsMember(ctx context.Context, projectID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, translate(err, "check membership failed")
}

// AddMember inserts a membership row. A duplicate comes back as a conflict error
func (r *ProjectRepository) AddMember(ctx context.Context, member *models.ProjectMember) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(member).Error
	return translate(err, "add member failed")
}

// Members lists membership rows of a project with their users
func (r *ProjectRepository) Members(ctx context.Context, projectID uint) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	err := r.db.WithContext(ctx).Preload("User").
		Where("project_id = ?", projectID).
		Order("id").
		Find(&members).Error
	return members, translate(err, "list members failed")
}
