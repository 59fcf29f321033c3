package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/employeest/employeest-api/internal/chart"
	"github.com/employeest/employeest-api/internal/database"
	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/policy"
	"github.com/employeest/employeest-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type testEnv struct {
	db       *gorm.DB
	users    repository.UserRepository
	teams    repository.TeamRepository
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	workLogs repository.WorkLogRepository
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.NewGormConfig(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.Models...))

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return testEnv{
		db:       db,
		users:    repository.NewUserRepository(db),
		teams:    repository.NewTeamRepository(db),
		projects: repository.NewProjectRepository(db),
		tasks:    repository.NewTaskRepository(db),
		workLogs: repository.NewWorkLogRepository(db),
	}
}

func (e testEnv) user(t *testing.T, username string, role models.UserRole) policy.Caller {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashed",
		Role:         role,
	}
	require.NoError(t, e.db.Omit(clause.Associations).Create(user).Error)
	return policy.Caller{ID: user.ID, Role: role}
}

func (e testEnv) project(t *testing.T, owner policy.Caller, name string) *models.Project {
	t.Helper()
	project := &models.Project{Name: name, OwnerID: owner.ID}
	require.NoError(t, e.db.Omit(clause.Associations).Create(project).Error)
	return project
}

func (e testEnv) task(t *testing.T, projectID uint64, name string, opts ...func(*models.Task)) *models.Task {
	t.Helper()
	task := &models.Task{ProjectID: projectID, Name: name, Status: models.TaskStatusTodo, Version: 1}
	for _, opt := range opts {
		opt(task)
	}
	require.NoError(t, e.db.Omit(clause.Associations).Create(task).Error)
	return task
}

func assignedTo(c policy.Caller) func(*models.Task) {
	return func(t *models.Task) { t.AssigneeID = &c.ID }
}

func doneAt(at time.Time, points *int) func(*models.Task) {
	return func(t *models.Task) {
		t.Status = models.TaskStatusDone
		t.StoryPoints = points
		t.CreatedAt = at
		t.UpdatedAt = at
	}
}

func ptr[T any](v T) *T { return &v }

// fakeRenderer records the last configuration and answers with url or err.
type fakeRenderer struct {
	mu   sync.Mutex
	url  string
	err  error
	last chart.Config
}

func (f *fakeRenderer) Render(_ context.Context, cfg chart.Config) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = cfg
	return f.url, f.err
}
