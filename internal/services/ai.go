package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/employeest/employeest-api/internal/constants"
	"github.com/employeest/employeest-api/internal/utils"
	"github.com/sashabaranov/go-openai"
)

type AIService struct {
	client *openai.Client
	model  string
}

// GeneratedTask is a task suggestion. Nothing is stored until the caller
// creates it through the task endpoints.
type GeneratedTask struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	StoryPoints *int       `json:"story_points"`
}

// rawGeneratedTask mirrors the JSON the model is asked to return.
type rawGeneratedTask struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	StoryPoints *int   `json:"story_points"`
}

// NewAIService creates a client for the OpenAI API. An empty baseURL keeps
// the public endpoint.
func NewAIService(apiKey, baseURL string) *AIService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.GPT4o,
	}
}

// GenerateTasksFromText extracts task suggestions for a project from free text
func (s *AIService) GenerateTasksFromText(ctx context.Context, projectName, text string, now time.Time) ([]GeneratedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`You extract actionable tasks for the project %q from the text below.

Today is %s.

Text:
%s

Return a JSON array of at most %d tasks in this shape:
[
  {
    "name": "short task name",
    "description": "what has to be done",
    "deadline": "YYYY-MM-DD",
    "story_points": 3
  }
]

Rules:
- Return [] when the text contains no tasks
- deadline is null when the text gives no deadline
- story_points is a non-negative integer estimate, or null
- Convert relative dates ("tomorrow", "next week") into calendar dates
- Return JSON only, without commentary`, projectName, utils.FormatDate(now), text, constants.MaxAIGeneratedTasks)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var raw []rawGeneratedTask
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	tasks := make([]GeneratedTask, 0, len(raw))
	for _, r := range raw {
		task := GeneratedTask{
			Name:        strings.TrimSpace(r.Name),
			Description: r.Description,
			StoryPoints: r.StoryPoints,
		}
		// An unparseable deadline is dropped rather than failing the batch.
		if deadline, err := utils.ParseOptionalDate(r.Deadline); err == nil {
			task.Deadline = deadline
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

// stripCodeFence removes a ```json fence around the model output.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
