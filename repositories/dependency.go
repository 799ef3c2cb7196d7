package repositories

import (
	"context"
	"errors"

	"github.com/taskboard-api/apperrors"
	"github.com/taskboard-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DependencyRepository handles database operations for task dependency edges
type DependencyRepository struct {
	db *gorm.DB
}

// NewDependencyRepository creates a new dependency repository instance
func NewDependencyRepository(db *gorm.DB) *DependencyRepository {
	return &DependencyRepository{db: db}
}

// FindAll retrieves every dependency edge
func (r *DependencyRepository) FindAll(ctx context.Context) ([]models.TaskDependency, error) {
	var deps []models.TaskDependency
	err := r.db.WithContext(ctx).Order("id").Find(&deps).Error
	return deps, translate(err, "list dependencies failed")
}

// DependentOnIDs returns the ids of the tasks taskID depends on
func (r *DependencyRepository) DependentOnIDs(ctx context.Context, taskID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).Model(&models.TaskDependency{}).
		Where("task_id = ?", taskID).
		Order("id").
		Pluck("dependent_on_task_id", &ids).Error
	return ids, translate(err, "list task dependencies failed")
}

// Add inserts the edge taskID -> dependentOnID unless it already exists
// created is false when the edge was already present, including when a
// concurrent insert won the race on the unique index
func (r *DependencyRepository) Add(ctx context.Context, taskID, dependentOnID uint) (created bool, err error) {
	dep := models.TaskDependency{TaskID: taskID, DependentOnTaskID: dependentOnID}
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dep)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, translate(res.Error, "add dependency failed")
	}
	return res.RowsAffected > 0, nil
}

// Remove deletes the edge taskID -> dependentOnID
func (r *DependencyRepository) Remove(ctx context.Context, taskID, dependentOnID uint) error {
	res := r.db.WithContext(ctx).
		Where("task_id = ? AND dependent_on_task_id = ?", taskID, dependentOnID).
		Delete(&models.TaskDependency{})
	if res.Error != nil {
		return translate(res.Error, "remove dependency failed")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound()
	}
	return nil
}
