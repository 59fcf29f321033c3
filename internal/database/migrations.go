package database

import (
	"fmt"
	"log"

	"github.com/employeest/employeest-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds composite indexes used by listing and aggregation queries
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   any
		name    string
		columns string
	}{
		// Status rollups per project and windowed completion rollups
		{&models.Task{}, "idx_tasks_project_status", "project_id, status"},
		{&models.Task{}, "idx_tasks_status_updated_at", "status, updated_at"},
		{&models.Task{}, "idx_tasks_assignee_status", "assignee_id, status"},

		// Default work log ordering
		{&models.WorkLog{}, "idx_work_logs_user_date", "user_id, date, created_at"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return fmt.Errorf("failed to resolve table for index %s: %w", idx.name, err)
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, stmt.Schema.Table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, stmt.Schema.Table, idx.columns)
	}

	return nil
}
