package repositories

import (
	"context"

	"github.com/taskboard-api/apperrors"
	"github.com/taskboard-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository handles database operations for users and their profiles
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindAll retrieves all users
func (r *UserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, translate(err, "list users failed")
}

// FindByID retrieves a user with its profile
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Profile").First(&user, id).Error
	if err != nil {
		return nil, translate(err, "get user failed")
	}
	return &user, nil
}

// FindByUsername retrieves a user with its profile by username
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Profile").Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, translate(err, "get user failed")
	}
	return &user, nil
}

// Exists checks if a user with id exists
func (r *UserRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, translate(err, "check user failed")
}

// UsernameTaken checks whether a username is already registered
func (r *UserRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, translate(err, "check username failed")
}

// CreateWithProfile inserts a user and its profile in one transaction
func (r *UserRepository) CreateWithProfile(ctx context.Context, user *models.User, role models.Role) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}
		profile := &models.UserProfile{UserID: user.ID, Role: role}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
	return translate(err, "create user failed")
}

// Update saves the user's own columns
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
	return translate(err, "update user failed")
}

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return translate(res.Error, "update password failed")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound()
	}
	return nil
}

// SaveProfile inserts or updates a profile
func (r *UserRepository) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	err := r.db.WithContext(ctx).Save(profile).Error
	return translate(err, "save profile failed")
}

// SetRole sets the role on the user's profile, creating the profile if needed
func (r *UserRepository) SetRole(ctx context.Context, userID uint, role models.Role) error {
	if _, err := r.FindByID(ctx, userID); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role"}),
		}).
		Create(&models.UserProfile{UserID: userID, Role: role}).Error
	return translate(err, "set role failed")
}

// Delete removes a user. Tasks assigned to the user and projects it managed
// survive with the reference cleared
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).Where("assigned_user_id = ?", id).
			Update("assigned_user_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Project{}).Where("manager_id = ?", id).
			Update("manager_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.UserProfile{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate(err, "delete user failed")
}
