package services

import (
	"context"
	"testing"
	"time"

	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkLogService_TargetInvariant(t *testing.T) {
	env := newTestEnv(t)
	service := NewWorkLogService(env.workLogs, env.tasks, env.projects)
	ctx := context.Background()

	owner := env.user(t, "owner", models.RoleOwner)
	project := env.project(t, owner, "Apollo")
	task := env.task(t, project.ID, "Build")

	tests := []struct {
		name  string
		input CreateWorkLogInput
		want  error
	}{
		{"neither", CreateWorkLogInput{HoursSpent: 1}, ErrWorkLogNoTarget},
		{"both", CreateWorkLogInput{TaskID: &task.ID, ProjectID: &project.ID, HoursSpent: 1}, ErrWorkLogBothTargets},
		{"zero hours", CreateWorkLogInput{TaskID: &task.ID}, ErrInvalidHours},
		{"too many hours", CreateWorkLogInput{TaskID: &task.ID, HoursSpent: 100}, ErrInvalidHours},
		{"missing task", CreateWorkLogInput{TaskID: ptr(uint64(999)), HoursSpent: 1}, ErrWorkLogTaskMissing},
		{"missing project", CreateWorkLogInput{ProjectID: ptr(uint64(999)), HoursSpent: 1}, ErrProjectMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateWorkLog(ctx, owner, tt.input)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&models.WorkLog{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWorkLogService_CreateDefaultsDateToToday(t *testing.T) {
	env := newTestEnv(t)
	service := NewWorkLogService(env.workLogs, env.tasks, env.projects)
	service.now = fixedClock
	ctx := context.Background()

	dev := env.user(t, "dev", models.RoleEmployee)
	owner := env.user(t, "owner", models.RoleOwner)
	project := env.project(t, owner, "Apollo")

	log, err := service.CreateWorkLog(ctx, dev, CreateWorkLogInput{ProjectID: &project.ID, HoursSpent: 2.5, Description: "review"})
	require.NoError(t, err)

	assert.Equal(t, dev.ID, log.UserID)
	assert.Equal(t, "2024-06-15", log.Date.UTC().Format("2006-01-02"))
	assert.Nil(t, log.TaskID)
	assert.InDelta(t, 2.5, log.HoursSpent, 0.001)
}

func TestWorkLogService_UpdateRevalidatesTargets(t *testing.T) {
	env := newTestEnv(t)
	service := NewWorkLogService(env.workLogs, env.tasks, env.projects)
	ctx := context.Background()

	owner := env.user(t, "owner", models.RoleOwner)
	project := env.project(t, owner, "Apollo")
	task := env.task(t, project.ID, "Build")

	log, err := service.CreateWorkLog(ctx, owner, CreateWorkLogInput{TaskID: &task.ID, HoursSpent: 1})
	require.NoError(t, err)

	_, err = service.UpdateWorkLog(ctx, owner, log.ID, UpdateWorkLogInput{ProjectID: &project.ID})
	assert.ErrorIs(t, err, ErrWorkLogBothTargets)

	moved, err := service.UpdateWorkLog(ctx, owner, log.ID, UpdateWorkLogInput{ProjectID: &project.ID, ClearTask: true})
	require.NoError(t, err)
	assert.Nil(t, moved.TaskID)
	require.NotNil(t, moved.ProjectID)
	assert.Equal(t, project.ID, *moved.ProjectID)
}

func TestWorkLogService_AuthorOnly(t *testing.T) {
	env := newTestEnv(t)
	service := NewWorkLogService(env.workLogs, env.tasks, env.projects)
	ctx := context.Background()

	author := env.user(t, "author", models.RoleEmployee)
	other := env.user(t, "other", models.RoleEmployee)
	admin := env.user(t, "admin", models.RoleAdmin)
	project := env.project(t, author, "Apollo")

	log, err := service.CreateWorkLog(ctx, author, CreateWorkLogInput{ProjectID: &project.ID, HoursSpent: 1})
	require.NoError(t, err)

	for name, c := range map[string]policy.Caller{"other": other, "admin": admin} {
		_, err := service.GetWorkLog(ctx, c, log.ID)
		assert.ErrorIs(t, err, ErrForbidden, name)
		assert.ErrorIs(t, service.DeleteWorkLog(ctx, c, log.ID), ErrForbidden, name)
	}

	require.NoError(t, service.DeleteWorkLog(ctx, author, log.ID))
	_, err = service.GetWorkLog(ctx, author, log.ID)
	assert.ErrorIs(t, err, ErrWorkLogNotFound)
}

func TestWorkLogService_ListScopedToCallerUnlessStaff(t *testing.T) {
	env := newTestEnv(t)
	service := NewWorkLogService(env.workLogs, env.tasks, env.projects)
	ctx := context.Background()

	alice := env.user(t, "alice", models.RoleEmployee)
	bob := env.user(t, "bob", models.RoleEmployee)
	lead := env.user(t, "lead", models.RoleTopEmployee)
	project := env.project(t, alice, "Apollo")

	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, caller := range []policy.Caller{alice, alice, bob} {
		date := day.AddDate(0, 0, i)
		_, err := service.CreateWorkLog(ctx, caller, CreateWorkLogInput{ProjectID: &project.ID, HoursSpent: 1, Date: &date})
		require.NoError(t, err)
	}

	logs, total, err := service.ListWorkLogs(ctx, alice, ListWorkLogsInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, logs, 2)
	assert.True(t, logs[0].Date.After(logs[1].Date))

	_, total, err = service.ListWorkLogs(ctx, lead, ListWorkLogsInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}
