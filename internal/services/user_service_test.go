package services

import (
	"context"
	"testing"

	"github.com/employeest/employeest-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Delete(t *testing.T) {
	env := newTestEnv(t)
	service := NewUserService(env.users)
	ctx := context.Background()

	admin := env.user(t, "admin", models.RoleAdmin)
	owner := env.user(t, "owner", models.RoleOwner)
	dev := env.user(t, "dev", models.RoleEmployee)
	project := env.project(t, owner, "Apollo")
	task := env.task(t, project.ID, "Build", assignedTo(dev))

	assert.ErrorIs(t, service.Delete(ctx, owner, dev.ID), ErrAdminOnly)
	assert.ErrorIs(t, service.Delete(ctx, admin, admin.ID), ErrCannotDeleteYourself)
	assert.ErrorIs(t, service.Delete(ctx, admin, owner.ID), ErrUserOwnsResources)
	assert.ErrorIs(t, service.Delete(ctx, admin, 999), ErrUserNotFound)

	require.NoError(t, service.Delete(ctx, admin, dev.ID))

	_, err := service.Get(ctx, dev.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	var reloaded models.Task
	require.NoError(t, env.db.First(&reloaded, task.ID).Error)
	assert.Nil(t, reloaded.AssigneeID)
}

func TestUserService_ChangeRoleAndResolveCaller(t *testing.T) {
	env := newTestEnv(t)
	service := NewUserService(env.users)
	ctx := context.Background()

	dev := env.user(t, "dev", models.RoleEmployee)

	_, err := service.ChangeRole(ctx, dev.ID, "boss")
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = service.ChangeRole(ctx, 999, models.RoleAdmin)
	assert.ErrorIs(t, err, ErrUserNotFound)

	updated, err := service.ChangeRole(ctx, dev.ID, models.RoleTopEmployee)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTopEmployee, updated.Role)

	caller, err := service.ResolveCaller(ctx, dev.ID)
	require.NoError(t, err)
	assert.Equal(t, dev.ID, caller.ID)
	assert.True(t, caller.IsStaff())
}

func TestUserService_List(t *testing.T) {
	env := newTestEnv(t)
	service := NewUserService(env.users)
	ctx := context.Background()

	env.user(t, "a", models.RoleEmployee)
	env.user(t, "b", models.RoleEmployee)
	env.user(t, "c", models.RoleOwner)

	role := models.RoleEmployee
	users, total, err := service.List(ctx, ListUsersInput{Role: &role, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, users, 1)
	assert.Equal(t, "a", users[0].Username)

	bad := models.UserRole("boss")
	_, _, err = service.List(ctx, ListUsersInput{Role: &bad})
	assert.ErrorIs(t, err, ErrInvalidRole)
}
