package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/employeest/employeest-api/internal/chart"
	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/policy"
	"github.com/employeest/employeest-api/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsService_ProjectStatusDistribution(t *testing.T) {
	env := newTestEnv(t)
	service := NewStatisticsService(env.tasks, env.projects, &fakeRenderer{})
	ctx := context.Background()

	owner := env.user(t, "owner", models.RoleOwner)
	viewer := env.user(t, "viewer", models.RoleEmployee)
	project := env.project(t, owner, "Apollo")
	empty := env.project(t, owner, "Gemini")

	env.task(t, project.ID, "a")
	env.task(t, project.ID, "b")
	env.task(t, project.ID, "c", doneAt(fixedNow, nil))

	rollup, err := service.ProjectStatusDistribution(ctx, viewer, project.ID)
	require.NoError(t, err)
	assert.Equal(t, chart.Pie, rollup.Kind)
	assert.Equal(t, "Task Status Distribution for Apollo", rollup.Title)
	assert.Equal(t, []string{"DONE", "TODO"}, rollup.Series.Labels())
	assert.Equal(t, []int64{1, 2}, rollup.Series.Values())

	_, err = service.ProjectStatusDistribution(ctx, owner, empty.ID)
	assert.ErrorIs(t, err, ErrNoProjectTasks)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = service.ProjectStatusDistribution(ctx, owner, 999)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestStatisticsService_ProjectVelocity(t *testing.T) {
	env := newTestEnv(t)
	service := NewStatisticsService(env.tasks, env.projects, &fakeRenderer{})
	service.now = fixedClock
	ctx := context.Background()

	owner := env.user(t, "owner", models.RoleOwner)
	other := env.user(t, "other", models.RoleOwner)
	project := env.project(t, owner, "Apollo")

	_, err := service.ProjectVelocity(ctx, owner, project.ID)
	assert.ErrorIs(t, err, ErrNoVelocityData)

	// 2024-06-10 and 2024-06-12 fall in ISO week 24, 2024-06-03 in week 23.
	env.task(t, project.ID, "a", doneAt(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC), ptr(3)))
	env.task(t, project.ID, "b", doneAt(time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC), ptr(5)))
	env.task(t, project.ID, "c", doneAt(time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC), ptr(2)))
	env.task(t, project.ID, "unestimated", doneAt(time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC), nil))
	env.task(t, project.ID, "stale", doneAt(time.Date(2023, 1, 3, 9, 0, 0, 0, time.UTC), ptr(13)))

	rollup, err := service.ProjectVelocity(ctx, owner, project.ID)
	require.NoError(t, err)
	assert.Equal(t, chart.Line, rollup.Kind)
	assert.Equal(t, "Velocity for Project: Apollo", rollup.Title)
	assert.Equal(t, []string{"2024-W23", "2024-W24"}, rollup.Series.Labels())
	assert.Equal(t, []int64{2, 8}, rollup.Series.Values())

	_, err = service.ProjectVelocity(ctx, other, project.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestStatisticsService_BusinessMonthlyStoryPoints(t *testing.T) {
	env := newTestEnv(t)
	service := NewStatisticsService(env.tasks, env.projects, &fakeRenderer{})
	service.now = fixedClock
	ctx := context.Background()

	owner := env.user(t, "owner", models.RoleOwner)
	admin := env.user(t, "admin", models.RoleAdmin)
	employee := env.user(t, "employee", models.RoleEmployee)

	_, err := service.BusinessMonthlyStoryPoints(ctx, employee)
	assert.ErrorIs(t, err, ErrBusinessStatsDenied)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = service.BusinessMonthlyStoryPoints(ctx, owner)
	assert.ErrorIs(t, err, ErrNoBusinessData)

	first := env.project(t, owner, "Apollo")
	second := env.project(t, admin, "Gemini")
	env.task(t, first.ID, "a", doneAt(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), ptr(3)))
	env.task(t, second.ID, "b", doneAt(time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), ptr(4)))
	env.task(t, second.ID, "c", doneAt(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), ptr(1)))

	for name, caller := range map[string]policy.Caller{"owner": owner, "admin": admin} {
		rollup, err := service.BusinessMonthlyStoryPoints(ctx, caller)
		require.NoError(t, err, name)
		assert.Equal(t, chart.Bar, rollup.Kind)
		assert.Equal(t, []string{"2024-02", "2024-05"}, rollup.Series.Labels())
		assert.Equal(t, []int64{1, 7}, rollup.Series.Values())
	}
}

func TestStatisticsService_PersonalMonthlyCompletions(t *testing.T) {
	env := newTestEnv(t)
	service := NewStatisticsService(env.tasks, env.projects, &fakeRenderer{})
	service.now = fixedClock
	ctx := context.Background()

	owner := env.user(t, "owner", models.RoleOwner)
	dev := env.user(t, "dev", models.RoleEmployee)
	project := env.project(t, owner, "Apollo")

	_, err := service.PersonalMonthlyCompletions(ctx, dev)
	assert.ErrorIs(t, err, ErrNoPersonalData)

	env.task(t, project.ID, "a", assignedTo(dev), doneAt(time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC), nil))
	env.task(t, project.ID, "b", assignedTo(dev), doneAt(time.Date(2024, 4, 9, 0, 0, 0, 0, time.UTC), ptr(2)))
	env.task(t, project.ID, "c", assignedTo(owner), doneAt(time.Date(2024, 4, 9, 0, 0, 0, 0, time.UTC), nil))
	env.task(t, project.ID, "open", assignedTo(dev))

	rollup, err := service.PersonalMonthlyCompletions(ctx, dev)
	require.NoError(t, err)
	assert.Equal(t, "My Completed Tasks", rollup.DatasetLabel)
	assert.Equal(t, []string{"2024-04"}, rollup.Series.Labels())
	assert.Equal(t, []int64{2}, rollup.Series.Values())
}

func TestStatisticsService_RenderChart(t *testing.T) {
	env := newTestEnv(t)
	renderer := &fakeRenderer{url: "https://charts.example.com/chart/render/abc"}
	service := NewStatisticsService(env.tasks, env.projects, renderer)
	ctx := context.Background()

	rollup := Rollup{Title: "Default", Kind: chart.Pie, Series: stats.Series{{Label: "TODO", Value: 2}}}

	url, err := service.RenderChart(ctx, rollup, "")
	require.NoError(t, err)
	assert.Equal(t, renderer.url, url)
	assert.Equal(t, "Default", renderer.last.Options.Plugins.Title.Text)

	_, err = service.RenderChart(ctx, rollup, "Custom")
	require.NoError(t, err)
	assert.Equal(t, "Custom", renderer.last.Options.Plugins.Title.Text)

	renderer.err = errors.New("connection refused")
	_, err = service.RenderChart(ctx, rollup, "")
	assert.ErrorIs(t, err, ErrChartUnavailable)
	assert.ErrorIs(t, err, ErrExternalService)
	assert.NotErrorIs(t, err, ErrNoData)
}
