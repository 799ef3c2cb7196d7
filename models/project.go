package models

import (
	"time"
)

// Project groups tasks under a single manager
type Project struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null" validate:"required,max=255"`
	Description string    `json:"description" gorm:"type:text"`
	StartDate   Date      `json:"start_date" gorm:"not null"`
	EndDate     *Date     `json:"end_date"`
	IsCompleted bool      `json:"is_completed" gorm:"default:false"`
	ManagerID   *uint     `json:"manager" gorm:"index"`
	AccessCode  *string   `json:"access_code" gorm:"size:32;uniqueIndex" validate:"omitempty,max=32"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime;<-:create"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relations
	Manager *User           `json:"-" gorm:"foreignKey:ManagerID;constraint:OnDelete:SET NULL"`
	Tasks   []Task          `json:"tasks,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Members []ProjectMember `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// IsManagedBy reports whether userID is the project's manager
func (p *Project) IsManagedBy(userID uint) bool {
	return p.ManagerID != nil && *p.ManagerID == userID
}

// ProjectMember links a user to a project they joined without managing it
type ProjectMember struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProjectID uint      `json:"project" gorm:"not null;uniqueIndex:idx_project_member"`
	UserID    uint      `json:"user" gorm:"not null;uniqueIndex:idx_project_member;index"`
	JoinedAt  time.Time `json:"joined_at" gorm:"autoCreateTime;<-:create"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
