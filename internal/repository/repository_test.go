package repository

import (
	"testing"
	"time"

	"github.com/employeest/employeest-api/internal/database"
	"github.com/employeest/employeest-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.NewGormConfig(logger.Silent))
	require.NoError(t, err)

	// Every connection to :memory: is a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.Models...))

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashed",
		Role:         role,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(user).Error)
	return user
}

func seedProject(t *testing.T, db *gorm.DB, ownerID uint64, name string) *models.Project {
	t.Helper()
	project := &models.Project{Name: name, OwnerID: ownerID}
	require.NoError(t, db.Omit(clause.Associations).Create(project).Error)
	return project
}

func seedTask(t *testing.T, db *gorm.DB, projectID uint64, name string, opts ...func(*models.Task)) *models.Task {
	t.Helper()
	task := &models.Task{
		ProjectID: projectID,
		Name:      name,
		Status:    models.TaskStatusTodo,
		Version:   1,
	}
	for _, opt := range opts {
		opt(task)
	}
	require.NoError(t, db.Omit(clause.Associations).Create(task).Error)
	return task
}

func seedWorkLog(t *testing.T, db *gorm.DB, userID uint64, taskID, projectID *uint64) *models.WorkLog {
	t.Helper()
	log := &models.WorkLog{
		UserID:     userID,
		TaskID:     taskID,
		ProjectID:  projectID,
		Date:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		HoursSpent: 1.5,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(log).Error)
	return log
}

func withStatus(s models.TaskStatus) func(*models.Task) {
	return func(t *models.Task) { t.Status = s }
}

func withAssignee(id uint64) func(*models.Task) {
	return func(t *models.Task) { t.AssigneeID = &id }
}

func withDeadline(d time.Time) func(*models.Task) {
	return func(t *models.Task) { t.Deadline = &d }
}

func withStoryPoints(n int) func(*models.Task) {
	return func(t *models.Task) { t.StoryPoints = &n }
}

func withUpdatedAt(at time.Time) func(*models.Task) {
	return func(t *models.Task) { t.UpdatedAt = at }
}

func ptr[T any](v T) *T {
	return &v
}
