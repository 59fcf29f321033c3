package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/employeest/employeest-api/internal/chart"
	"github.com/employeest/employeest-api/internal/constants"
	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/policy"
	"github.com/employeest/employeest-api/internal/repository"
	"github.com/employeest/employeest-api/internal/stats"
	"gorm.io/gorm"
)

// Rollup is a reduced series together with the way it is charted.
type Rollup struct {
	Title        string       `json:"title"`
	Kind         chart.Kind   `json:"kind"`
	DatasetLabel string       `json:"dataset_label,omitempty"`
	Series       stats.Series `json:"series"`
}

// StatisticsService computes rollups over tasks and renders them as charts.
type StatisticsService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	renderer    chart.Renderer
	now         func() time.Time
}

func NewStatisticsService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, renderer chart.Renderer) *StatisticsService {
	return &StatisticsService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		renderer:    renderer,
		now:         utcNow,
	}
}

// ProjectStatusDistribution counts a project's tasks per status.
func (s *StatisticsService) ProjectStatusDistribution(ctx context.Context, caller policy.Caller, projectID uint64) (Rollup, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return Rollup{}, err
	}
	if err := policy.Authorize(caller, policy.ForProject(*project), policy.CanRead); err != nil {
		return Rollup{}, err
	}

	rows, err := s.taskRepo.CountByStatus(ctx, repository.TaskScope{ProjectID: &project.ID})
	if err != nil {
		return Rollup{}, fmt.Errorf("failed to count tasks: %w", err)
	}

	series, err := stats.StatusDistribution(rows)
	if errors.Is(err, stats.ErrNoData) {
		return Rollup{}, ErrNoProjectTasks
	}
	if err != nil {
		return Rollup{}, err
	}

	return Rollup{
		Title:  fmt.Sprintf("Task Status Distribution for %s", project.Name),
		Kind:   chart.Pie,
		Series: series,
	}, nil
}

// ProjectVelocity sums completed story points per ISO week over the
// trailing velocity window. Only the project owner may see it.
func (s *StatisticsService) ProjectVelocity(ctx context.Context, caller policy.Caller, projectID uint64) (Rollup, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return Rollup{}, err
	}
	if err := policy.Authorize(caller, policy.ForProject(*project), policy.CanWrite); err != nil {
		return Rollup{}, err
	}

	tasks, err := s.taskRepo.ListCompleted(ctx, repository.CompletedFilter{
		ProjectID:          &project.ID,
		UpdatedSince:       stats.Since(s.now(), constants.VelocityWindow),
		RequireStoryPoints: true,
	})
	if err != nil {
		return Rollup{}, fmt.Errorf("failed to list completed tasks: %w", err)
	}

	series, err := stats.WeeklySum(storyPointSamples(tasks))
	if errors.Is(err, stats.ErrNoData) {
		return Rollup{}, ErrNoVelocityData
	}
	if err != nil {
		return Rollup{}, err
	}

	return Rollup{
		Title:        fmt.Sprintf("Velocity for Project: %s", project.Name),
		Kind:         chart.Line,
		DatasetLabel: "Project Velocity (Story Points per Week)",
		Series:       series,
	}, nil
}

// BusinessMonthlyStoryPoints sums completed story points per month across
// every project. It is restricted to owners and administrators.
func (s *StatisticsService) BusinessMonthlyStoryPoints(ctx context.Context, caller policy.Caller) (Rollup, error) {
	if !caller.CanViewBusinessStatistics() {
		return Rollup{}, ErrBusinessStatsDenied
	}

	tasks, err := s.taskRepo.ListCompleted(ctx, repository.CompletedFilter{
		UpdatedSince:       stats.Since(s.now(), constants.YearWindow),
		RequireStoryPoints: true,
	})
	if err != nil {
		return Rollup{}, fmt.Errorf("failed to list completed tasks: %w", err)
	}

	series, err := stats.MonthlySum(storyPointSamples(tasks))
	if errors.Is(err, stats.ErrNoData) {
		return Rollup{}, ErrNoBusinessData
	}
	if err != nil {
		return Rollup{}, err
	}

	return Rollup{
		Title:        "Monthly Completed Story Points (Last Year)",
		Kind:         chart.Bar,
		DatasetLabel: "Completed Story Points",
		Series:       series,
	}, nil
}

// PersonalMonthlyCompletions counts the caller's completed tasks per month.
func (s *StatisticsService) PersonalMonthlyCompletions(ctx context.Context, caller policy.Caller) (Rollup, error) {
	tasks, err := s.taskRepo.ListCompleted(ctx, repository.CompletedFilter{
		AssigneeID:   &caller.ID,
		UpdatedSince: stats.Since(s.now(), constants.YearWindow),
	})
	if err != nil {
		return Rollup{}, fmt.Errorf("failed to list completed tasks: %w", err)
	}

	times := make([]time.Time, len(tasks))
	for i, t := range tasks {
		times[i] = t.UpdatedAt
	}

	series, err := stats.MonthlyCount(times)
	if errors.Is(err, stats.ErrNoData) {
		return Rollup{}, ErrNoPersonalData
	}
	if err != nil {
		return Rollup{}, err
	}

	return Rollup{
		Title:        "My Monthly Task Completions (Last Year)",
		Kind:         chart.Line,
		DatasetLabel: "My Completed Tasks",
		Series:       series,
	}, nil
}

// RenderChart turns a rollup into the URL of a rendered image. A non-empty
// title replaces the rollup's own.
func (s *StatisticsService) RenderChart(ctx context.Context, rollup Rollup, title string) (string, error) {
	if title == "" {
		title = rollup.Title
	}

	cfg, err := chart.Build(chart.Spec{
		Kind:         rollup.Kind,
		Title:        title,
		DatasetLabel: rollup.DatasetLabel,
		Series:       rollup.Series,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build chart: %w", err)
	}

	url, err := s.renderer.Render(ctx, cfg)
	if err != nil {
		log.Printf("chart rendering failed: %v", err)
		return "", ErrChartUnavailable
	}
	return url, nil
}

func (s *StatisticsService) findProject(ctx context.Context, projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func storyPointSamples(tasks []models.Task) []stats.Sample {
	samples := make([]stats.Sample, 0, len(tasks))
	for _, t := range tasks {
		if t.StoryPoints == nil {
			continue
		}
		samples = append(samples, stats.Sample{At: t.UpdatedAt, Value: int64(*t.StoryPoints)})
	}
	return samples
}
