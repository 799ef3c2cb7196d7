package services

import (
	"github.com/taskboard-api/config"
	"github.com/taskboard-api/repositories"
	"gorm.io/gorm"
)

// Services bundles the application services sharing one database handle
type Services struct {
	Auth     *AuthService
	Users    *UserService
	Projects *ProjectService
	Tasks    *TaskService
}

// New wires repositories and services on top of db
func New(db *gorm.DB, cfg *config.Config) *Services {
	users := repositories.NewUserRepository(db)
	projects := repositories.NewProjectRepository(db)
	tasks := repositories.NewTaskRepository(db)
	deps := repositories.NewDependencyRepository(db)

	return &Services{
		Auth:     NewAuthService(users, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Users:    NewUserService(users, cfg.MediaRoot),
		Projects: NewProjectService(projects, tasks),
		Tasks:    NewTaskService(tasks, projects, users, deps),
	}
}
