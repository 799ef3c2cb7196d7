package repositories

import (
	"context"
	"strings"

	"github.com/taskboard-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskFilter narrows task listings
type TaskFilter struct {
	UserID    uint
	ProjectID *uint
	Search    string
}

// TaskRepository handles database operations for tasks
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository instance
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// FindVisible retrieves tasks of projects the user can see
func (r *TaskRepository) FindVisible(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task
	q := r.db.WithContext(ctx).Preload("AssignedUser").
		Where("project_id IN (?)", visibleProjectIDs(r.db, filter.UserID))

	if filter.ProjectID != nil {
		q = q.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}

	err := q.Order("id").Find(&tasks).Error
	return tasks, translate(err, "list tasks failed")
}

// FindVisibleByID retrieves a task if the user can see its project
func (r *TaskRepository) FindVisibleByID(ctx context.Context, id, userID uint) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Preload("AssignedUser").
		Where("project_id IN (?)", visibleProjectIDs(r.db, userID)).
		First(&task, id).Error
	if err != nil {
		return nil, translate(err, "get task failed")
	}
	return &task, nil
}

// FindByID retrieves a task by its ID
func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Preload("AssignedUser").First(&task, id).Error; err != nil {
		return nil, translate(err, "get task failed")
	}
	return &task, nil
}

// FindByProject retrieves all tasks belonging to a project
func (r *TaskRepository) FindByProject(ctx context.Context, projectID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).Preload("AssignedUser").
		Where("project_id = ?", projectID).
		Order("id").
		Find(&tasks).Error
	return tasks, translate(err, "list project tasks failed")
}

// Exists checks if a task exists
func (r *TaskRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Count(&count).Error
	return count > 0, translate(err, "check task failed")
}

// Create inserts a new task into the database
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
	return translate(err, "create task failed")
}

// Update modifies an existing task
func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error
	return translate(err, "update task failed")
}

// Delete removes a task and every dependency edge touching it
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ? OR dependent_on_task_id = ?", id, id).
			Delete(&models.TaskDependency{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Task{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate(err, "delete task failed")
}
