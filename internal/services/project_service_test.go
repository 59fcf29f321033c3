package services

import (
	"context"
	"testing"

	"github.com/employeest/employeest-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_CRUD(t *testing.T) {
	env := newTestEnv(t)
	service := NewProjectService(env.projects, env.teams)
	ctx := context.Background()

	owner := env.user(t, "owner", models.RoleOwner)
	other := env.user(t, "other", models.RoleEmployee)

	_, err := service.CreateProject(ctx, owner, CreateProjectInput{Name: " "})
	assert.ErrorIs(t, err, ErrProjectNameRequired)

	_, err = service.CreateProject(ctx, owner, CreateProjectInput{Name: "Apollo", TeamID: ptr(uint64(42))})
	assert.ErrorIs(t, err, ErrTeamMissing)

	project, err := service.CreateProject(ctx, owner, CreateProjectInput{Name: "Apollo", Description: "moon"})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, project.OwnerID)
	assert.Equal(t, "owner", project.Owner.Username)

	read, err := service.GetProject(ctx, other, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apollo", read.Name)

	_, err = service.UpdateProject(ctx, other, project.ID, UpdateProjectInput{Name: ptr("Mine")})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := service.UpdateProject(ctx, owner, project.ID, UpdateProjectInput{Name: ptr("Artemis")})
	require.NoError(t, err)
	assert.Equal(t, "Artemis", updated.Name)
	assert.Equal(t, "moon", updated.Description)

	projects, total, err := service.ListProjects(ctx, ListProjectsInput{Search: "artem"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, projects, 1)

	env.task(t, project.ID, "Build")

	assert.ErrorIs(t, service.DeleteProject(ctx, other, project.ID), ErrForbidden)
	require.NoError(t, service.DeleteProject(ctx, owner, project.ID))

	_, err = service.GetProject(ctx, owner, project.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	var tasks int64
	require.NoError(t, env.db.Model(&models.Task{}).Count(&tasks).Error)
	assert.Zero(t, tasks)
}
