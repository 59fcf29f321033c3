package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/employeest/employeest-api/internal/lifecycle"
	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/policy"
	"github.com/stretchr/testify/suite"
)

type TaskServiceTestSuite struct {
	suite.Suite
	env      testEnv
	service  *TaskService
	owner    policy.Caller
	assignee policy.Caller
	stranger policy.Caller
	staff    policy.Caller
	project  *models.Project
	ctx      context.Context
}

func (s *TaskServiceTestSuite) SetupTest() {
	s.env = newTestEnv(s.T())
	s.service = NewTaskService(s.env.tasks, s.env.projects, s.env.users, nil)
	s.service.now = fixedClock
	s.ctx = context.Background()

	s.owner = s.env.user(s.T(), "owner", models.RoleOwner)
	s.assignee = s.env.user(s.T(), "dev", models.RoleEmployee)
	s.stranger = s.env.user(s.T(), "stranger", models.RoleEmployee)
	s.staff = s.env.user(s.T(), "lead", models.RoleTopEmployee)
	s.project = s.env.project(s.T(), s.owner, "Apollo")
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}

func (s *TaskServiceTestSuite) TestCreateTask() {
	task, err := s.service.CreateTask(s.ctx, s.owner, CreateTaskInput{
		ProjectID:   s.project.ID,
		Name:        "  Design  ",
		AssigneeID:  &s.assignee.ID,
		StoryPoints: ptr(3),
	})
	s.Require().NoError(err)

	s.Equal("Design", task.Name)
	s.Equal(models.TaskStatusTodo, task.Status)
	s.Equal("Apollo", task.Project.Name)
	s.Require().NotNil(task.Assignee)
	s.Equal("dev", task.Assignee.Username)
}

func (s *TaskServiceTestSuite) TestCreateTask_Validation() {
	tests := []struct {
		name   string
		caller policy.Caller
		input  CreateTaskInput
		want   error
	}{
		{"missing name", s.owner, CreateTaskInput{ProjectID: s.project.ID}, ErrTaskNameRequired},
		{"missing project", s.owner, CreateTaskInput{ProjectID: 999, Name: "x"}, ErrProjectMissing},
		{"missing assignee", s.owner, CreateTaskInput{ProjectID: s.project.ID, Name: "x", AssigneeID: ptr(uint64(999))}, ErrAssigneeMissing},
		{"negative points", s.owner, CreateTaskInput{ProjectID: s.project.ID, Name: "x", StoryPoints: ptr(-1)}, ErrNegativeStoryPoints},
		{"negative estimation", s.owner, CreateTaskInput{ProjectID: s.project.ID, Name: "x", EstimationHours: ptr(-0.5)}, ErrNegativeEstimation},
		{"initial status", s.owner, CreateTaskInput{ProjectID: s.project.ID, Name: "x", Status: models.TaskStatusDone}, ErrStatusNotEditable},
		{"not the owner", s.stranger, CreateTaskInput{ProjectID: s.project.ID, Name: "x"}, ErrForbidden},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.CreateTask(s.ctx, tt.caller, tt.input)
			s.ErrorIs(err, tt.want)
		})
	}

	_, err := s.service.CreateTask(s.ctx, s.owner, CreateTaskInput{ProjectID: s.project.ID, Name: "x", AssigneeID: ptr(uint64(999))})
	s.ErrorIs(err, ErrValidation)
}

func (s *TaskServiceTestSuite) TestCreateTask_StaffMayCreateAnywhere() {
	_, err := s.service.CreateTask(s.ctx, s.staff, CreateTaskInput{ProjectID: s.project.ID, Name: "x"})
	s.NoError(err)
}

func (s *TaskServiceTestSuite) TestGetTask_ReadPolicy() {
	task := s.env.task(s.T(), s.project.ID, "Build", assignedTo(s.assignee))

	for _, caller := range []policy.Caller{s.owner, s.assignee, s.staff} {
		got, err := s.service.GetTask(s.ctx, caller, task.ID)
		s.Require().NoError(err)
		s.Equal(task.ID, got.ID)
	}

	_, err := s.service.GetTask(s.ctx, s.stranger, task.ID)
	s.ErrorIs(err, ErrForbidden)

	_, err = s.service.GetTask(s.ctx, s.owner, 999)
	s.ErrorIs(err, ErrNotFound)
}

func (s *TaskServiceTestSuite) TestUpdateTask_StaffCannotWrite() {
	task := s.env.task(s.T(), s.project.ID, "Build")

	_, err := s.service.UpdateTask(s.ctx, s.staff, task.ID, UpdateTaskInput{Name: ptr("Renamed")})
	s.ErrorIs(err, ErrForbidden)

	_, err = s.service.UpdateTask(s.ctx, s.stranger, task.ID, UpdateTaskInput{Name: ptr("Renamed")})
	s.ErrorIs(err, ErrForbidden)
}

func (s *TaskServiceTestSuite) TestUpdateTask_Fields() {
	task := s.env.task(s.T(), s.project.ID, "Build", assignedTo(s.assignee), func(t *models.Task) {
		t.StoryPoints = ptr(5)
	})

	updated, err := s.service.UpdateTask(s.ctx, s.assignee, task.ID, UpdateTaskInput{
		Description:      ptr("details"),
		ClearStoryPoints: true,
		Status:           ptr(models.TaskStatusTodo),
	})
	s.Require().NoError(err)

	s.Equal("details", updated.Description)
	s.Nil(updated.StoryPoints)
	s.Equal(models.TaskStatusTodo, updated.Status)
	s.Equal(uint(2), updated.Version)
}

func (s *TaskServiceTestSuite) TestUpdateTask_StatusIsNotEditable() {
	task := s.env.task(s.T(), s.project.ID, "Build")

	_, err := s.service.UpdateTask(s.ctx, s.owner, task.ID, UpdateTaskInput{Status: ptr(models.TaskStatusDone)})
	s.ErrorIs(err, ErrStatusNotEditable)

	reloaded, err := s.env.tasks.FindByID(s.ctx, task.ID)
	s.Require().NoError(err)
	s.Equal(models.TaskStatusTodo, reloaded.Status)
}

func (s *TaskServiceTestSuite) TestTransition_Lifecycle() {
	task := s.env.task(s.T(), s.project.ID, "Build", assignedTo(s.assignee))

	_, err := s.service.Transition(s.ctx, s.assignee, task.ID, lifecycle.MarkAsDone)
	s.ErrorIs(err, ErrInvalidTransition)

	started, err := s.service.Transition(s.ctx, s.assignee, task.ID, lifecycle.StartProgress)
	s.Require().NoError(err)
	s.Equal(models.TaskStatusInProgress, started.Status)
	s.Require().NotNil(started.StartedAt)
	s.Nil(started.CompletedAt)

	_, err = s.service.Transition(s.ctx, s.assignee, task.ID, lifecycle.StartProgress)
	s.ErrorIs(err, ErrInvalidTransition)

	done, err := s.service.Transition(s.ctx, s.owner, task.ID, lifecycle.MarkAsDone)
	s.Require().NoError(err)
	s.Equal(models.TaskStatusDone, done.Status)
	s.Require().NotNil(done.CompletedAt)
	s.True(done.CompletedAt.Equal(fixedNow))

	_, err = s.service.Transition(s.ctx, s.owner, task.ID, lifecycle.MarkAsDone)
	s.ErrorIs(err, ErrInvalidTransition)
}

func (s *TaskServiceTestSuite) TestTransition_Denied() {
	task := s.env.task(s.T(), s.project.ID, "Build")

	_, err := s.service.Transition(s.ctx, s.staff, task.ID, lifecycle.StartProgress)
	s.ErrorIs(err, ErrForbidden)

	reloaded, err := s.env.tasks.FindByID(s.ctx, task.ID)
	s.Require().NoError(err)
	s.Equal(models.TaskStatusTodo, reloaded.Status)
}

func (s *TaskServiceTestSuite) TestTransition_ConcurrentStartHasOneWinner() {
	task := s.env.task(s.T(), s.project.ID, "Build")

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.Transition(s.ctx, s.owner, task.ID, lifecycle.StartProgress)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrInvalidTransition):
				rejected++
			}
		}()
	}
	wg.Wait()

	s.Equal(1, succeeded)
	s.Equal(workers-1, rejected)

	reloaded, err := s.env.tasks.FindByID(s.ctx, task.ID)
	s.Require().NoError(err)
	s.Equal(models.TaskStatusInProgress, reloaded.Status)
	s.Equal(uint(2), reloaded.Version)
}

func (s *TaskServiceTestSuite) TestOverwriteStatus() {
	a := s.env.task(s.T(), s.project.ID, "a")
	b := s.env.task(s.T(), s.project.ID, "b")

	updated, err := s.service.OverwriteStatus(s.ctx, []uint64{a.ID, b.ID, a.ID}, models.TaskStatusDone)
	s.Require().NoError(err)
	s.Equal(int64(2), updated)

	reloaded, err := s.env.tasks.FindByID(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(models.TaskStatusDone, reloaded.Status)
	s.NotNil(reloaded.CompletedAt)

	_, err = s.service.OverwriteStatus(s.ctx, []uint64{a.ID}, "ARCHIVED")
	s.ErrorIs(err, ErrInvalidStatus)

	_, err = s.service.OverwriteStatus(s.ctx, nil, models.TaskStatusTodo)
	s.ErrorIs(err, ErrNoTaskIDs)
}

func (s *TaskServiceTestSuite) TestListTasks_Visibility() {
	s.env.task(s.T(), s.project.ID, "mine", assignedTo(s.assignee))
	s.env.task(s.T(), s.project.ID, "other")

	tasks, total, err := s.service.ListTasks(s.ctx, s.assignee, ListTasksInput{})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(tasks, 1)
	s.Equal("mine", tasks[0].Name)

	_, total, err = s.service.ListTasks(s.ctx, s.stranger, ListTasksInput{})
	s.Require().NoError(err)
	s.Zero(total)

	_, total, err = s.service.ListTasks(s.ctx, s.staff, ListTasksInput{})
	s.Require().NoError(err)
	s.Equal(int64(2), total)

	_, _, err = s.service.ListTasks(s.ctx, s.owner, ListTasksInput{Statuses: []models.TaskStatus{"NOPE"}})
	s.ErrorIs(err, ErrInvalidStatus)
}

func (s *TaskServiceTestSuite) TestDeleteTask() {
	task := s.env.task(s.T(), s.project.ID, "Build")

	s.ErrorIs(s.service.DeleteTask(s.ctx, s.stranger, task.ID), ErrForbidden)
	s.Require().NoError(s.service.DeleteTask(s.ctx, s.owner, task.ID))

	_, err := s.service.GetTask(s.ctx, s.owner, task.ID)
	s.ErrorIs(err, ErrTaskNotFound)
}

func (s *TaskServiceTestSuite) TestGenerateDrafts_NotConfigured() {
	_, err := s.service.GenerateDrafts(s.ctx, s.owner, s.project.ID, "write docs")
	s.ErrorIs(err, ErrAIServiceNotConfigured)
	s.ErrorIs(err, ErrUnavailable)

	_, err = s.service.GenerateDrafts(s.ctx, s.stranger, s.project.ID, "write docs")
	s.ErrorIs(err, ErrForbidden)
}

func (s *TaskServiceTestSuite) TestGenerateDrafts() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {
					"role": "assistant",
					"content": "` + "```json" + `\n[{\"name\":\"Write docs\",\"description\":\"API docs\",\"deadline\":\"2024-06-20\",\"story_points\":3},{\"name\":\"Old\",\"deadline\":\"2020-01-01\",\"story_points\":-2},{\"name\":\"  \"}]\n` + "```" + `"
				}
			}]
		}`))
	}))
	defer server.Close()

	s.service.aiService = NewAIService("test-key", server.URL)

	drafts, err := s.service.GenerateDrafts(s.ctx, s.owner, s.project.ID, "Please write the docs by Thursday")
	s.Require().NoError(err)
	s.Require().Len(drafts, 2)

	s.Equal("Write docs", drafts[0].Name)
	s.Require().NotNil(drafts[0].Deadline)
	s.Equal("2024-06-20", drafts[0].Deadline.Format("2006-01-02"))
	s.Equal(3, *drafts[0].StoryPoints)

	s.Equal("Old", drafts[1].Name)
	s.Nil(drafts[1].Deadline)
	s.Nil(drafts[1].StoryPoints)
}

func (s *TaskServiceTestSuite) TestGenerateDrafts_UpstreamFailure() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s.service.aiService = NewAIService("test-key", server.URL)

	_, err := s.service.GenerateDrafts(s.ctx, s.owner, s.project.ID, "anything")
	s.ErrorIs(err, ErrAIRequestFailed)
	s.ErrorIs(err, ErrExternalService)
}
