package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/employeest/employeest-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_DeleteDetachesReferences(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	teams := NewTeamRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner", models.RoleOwner)
	dev := seedUser(t, db, "dev", models.RoleEmployee)
	project := seedProject(t, db, owner.ID, "Apollo")

	team := &models.Team{Name: "Core", OwnerID: owner.ID, InviteCode: "aaaa-bbbb-cccc"}
	require.NoError(t, teams.Create(ctx, team))
	require.NoError(t, users.SetTeam(ctx, dev.ID, &team.ID))

	task := seedTask(t, db, project.ID, "Design", withAssignee(dev.ID))
	log := seedWorkLog(t, db, dev.ID, &task.ID, nil)

	require.NoError(t, users.Delete(ctx, dev.ID))

	_, err := users.FindByID(ctx, dev.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	exists, err := users.Exists(ctx, dev.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	var stored models.Task
	require.NoError(t, db.First(&stored, task.ID).Error)
	assert.Nil(t, stored.AssigneeID)
	assert.Equal(t, models.TaskStatusTodo, stored.Status)

	var storedLog models.WorkLog
	require.NoError(t, db.First(&storedLog, log.ID).Error)
	assert.Equal(t, dev.ID, storedLog.UserID)

	var deleted models.User
	require.NoError(t, db.Unscoped().First(&deleted, dev.ID).Error)
	assert.Nil(t, deleted.TeamID)
	assert.True(t, deleted.DeletedAt.Valid)
}

func TestUserRepository_CountOwnerships(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	teams := NewTeamRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner", models.RoleOwner)
	seedProject(t, db, owner.ID, "Apollo")
	seedProject(t, db, owner.ID, "Gemini")
	require.NoError(t, teams.Create(ctx, &models.Team{Name: "Core", OwnerID: owner.ID, InviteCode: "code"}))

	projects, ownedTeams, err := users.CountOwnerships(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), projects)
	assert.Equal(t, int64(1), ownedTeams)
}

func TestUserRepository_List(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	seedUser(t, db, "owner", models.RoleOwner)
	seedUser(t, db, "dev1", models.RoleEmployee)
	seedUser(t, db, "dev2", models.RoleEmployee)

	role := models.RoleEmployee
	list, total, err := users.List(ctx, UserFilter{Role: &role, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 1)
	assert.Equal(t, "dev1", list[0].Username)
}

func TestUserRepository_SetRole(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "dev", models.RoleEmployee)
	require.NoError(t, users.SetRole(ctx, user.ID, models.RoleAdmin))

	reloaded, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, reloaded.Role)
}
