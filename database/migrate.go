package database

import (
	"fmt"

	"github.com/taskboard-api/logger"
	"github.com/taskboard-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Models lists every table in dependency order, parents first
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.UserProfile{},
		&models.Project{},
		&models.Task{},
		&models.TaskDependency{},
		&models.ProjectMember{},
	}
}

// Migrate migrates the database schema
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.L().Info("database schema migrated")
	return nil
}

// CopyData copies every row from source into target, table by table in
// dependency order. Rows already present in target (same primary key) are skipped
func CopyData(source, target *gorm.DB) error {
	logger.L().Info("starting data copy from source to target")

	steps := []struct {
		name string
		copy func() (int, error)
	}{
		{"users", func() (int, error) { return copyTable[models.User](source, target) }},
		{"user profiles", func() (int, error) { return copyTable[models.UserProfile](source, target) }},
		{"projects", func() (int, error) { return copyTable[models.Project](source, target) }},
		{"tasks", func() (int, error) { return copyTable[models.Task](source, target) }},
		{"task dependencies", func() (int, error) { return copyTable[models.TaskDependency](source, target) }},
		{"project members", func() (int, error) { return copyTable[models.ProjectMember](source, target) }},
	}

	for _, step := range steps {
		n, err := step.copy()
		if err != nil {
			return fmt.Errorf("failed to copy %s: %w", step.name, err)
		}
		logger.L().Info("copied table", zap.String("table", step.name), zap.Int("rows", n))
	}

	logger.L().Info("data copy completed")
	return nil
}

func copyTable[T any](source, target *gorm.DB) (int, error) {
	var rows []T
	if err := source.Find(&rows).Error; err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	err := target.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&rows, 200).Error
	if err != nil {
		return 0, err
	}

	// explicit ids leave postgres sequences behind the copied rows
	if target.Dialector.Name() == "postgres" {
		stmt := &gorm.Statement{DB: target}
		if err := stmt.Parse(new(T)); err != nil {
			return 0, err
		}
		table := stmt.Schema.Table
		sql := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(MAX(id), 1)) FROM %s", table, table)
		if err := target.Exec(sql).Error; err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}
