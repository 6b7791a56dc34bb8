package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/aussiebroadwan/workintel/pkg/idx"
)

const maxTaskTitleLength = 300

// TaskInput creates a task. Zero values take defaults.
type TaskInput struct {
	Title     string
	Source    string
	SourceURL string
	Priority  domain.TaskPriority
	DueAt     *time.Time
}

// TaskPatch updates a task; nil fields are left alone.
type TaskPatch struct {
	Title    *string
	Status   *domain.TaskStatus
	Priority *domain.TaskPriority
	DueAt    *time.Time
}

// TaskService keeps tasks in process memory only. They are lost on
// restart and not shared between instances.
type TaskService struct {
	Briefs *BriefService
	Clock  Clock

	mu    sync.Mutex
	tasks map[string][]*domain.Task // by user
}

func NewTaskService(briefs *BriefService, clock Clock) *TaskService {
	return &TaskService{Briefs: briefs, Clock: clock, tasks: make(map[string][]*domain.Task)}
}

// List returns the user's tasks, optionally filtered by status, oldest
// first.
func (s *TaskService) List(userID string, status domain.TaskStatus) ([]domain.Task, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Task, 0, len(s.tasks[userID]))
	for _, t := range s.tasks[userID] {
		if status == "" || t.Status == status {
			out = append(out, *t)
		}
	}
	return out, nil
}

// Create adds a task in the todo state.
func (s *TaskService) Create(userID string, in TaskInput) (domain.Task, error) {
	t, err := s.newTask(userID, in)
	if err != nil {
		return domain.Task{}, err
	}
	s.mu.Lock()
	s.tasks[userID] = append(s.tasks[userID], &t)
	s.mu.Unlock()
	return t, nil
}

// Update applies patch to one of the user's tasks. Tasks of other users
// are reported as not found.
func (s *TaskService) Update(userID, taskID string, patch TaskPatch) (domain.Task, error) {
	if patch.Title != nil {
		title, err := taskTitle(*patch.Title)
		if err != nil {
			return domain.Task{}, err
		}
		patch.Title = &title
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return domain.Task{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *patch.Status)
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return domain.Task{}, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *patch.Priority)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(userID, taskID)
	if t == nil {
		return domain.Task{}, ErrTaskNotFound
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.DueAt != nil {
		due := patch.DueAt.UTC()
		t.DueAt = &due
	}
	t.UpdatedAt = s.Clock.now()
	return *t, nil
}

// Delete removes one of the user's tasks.
func (s *TaskService) Delete(userID, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.tasks[userID]
	i := slices.IndexFunc(list, func(t *domain.Task) bool { return t.ID == taskID })
	if i < 0 {
		return ErrTaskNotFound
	}
	s.tasks[userID] = slices.Delete(list, i, i+1)
	return nil
}

// FromBrief turns the brief's Jira tasks and review requests into tasks,
// skipping anything whose source URL is already tracked. Returns the
// tasks it created.
func (s *TaskService) FromBrief(ctx context.Context, userID string, opts BriefOptions) ([]domain.Task, error) {
	b, err := s.Briefs.Generate(ctx, userID, opts)
	if err != nil {
		return nil, err
	}

	var candidates []TaskInput
	for _, j := range b.JiraTasks {
		candidates = append(candidates, TaskInput{
			Title:     j.Key + ": " + j.Summary,
			Source:    "jira",
			SourceURL: j.URL,
			Priority:  jiraPriority(j.Priority),
			DueAt:     j.DueAt,
		})
	}
	for _, pr := range b.PullRequests {
		if pr.Role != domain.PRRoleReviewRequested {
			continue
		}
		candidates = append(candidates, TaskInput{
			Title:     fmt.Sprintf("Review %s#%d: %s", pr.Repo, pr.Number, pr.Title),
			Source:    "github",
			SourceURL: pr.URL,
			Priority:  domain.PriorityMedium,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	for _, t := range s.tasks[userID] {
		if t.SourceURL != "" {
			seen[t.SourceURL] = true
		}
	}

	created := []domain.Task{}
	for _, in := range candidates {
		if in.SourceURL == "" || seen[in.SourceURL] {
			continue
		}
		t, err := s.newTask(userID, in)
		if err != nil {
			continue
		}
		seen[in.SourceURL] = true
		s.tasks[userID] = append(s.tasks[userID], &t)
		created = append(created, t)
	}
	return created, nil
}

func (s *TaskService) find(userID, taskID string) *domain.Task {
	for _, t := range s.tasks[userID] {
		if t.ID == taskID {
			return t
		}
	}
	return nil
}

func (s *TaskService) newTask(userID string, in TaskInput) (domain.Task, error) {
	title, err := taskTitle(in.Title)
	if err != nil {
		return domain.Task{}, err
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return domain.Task{}, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, priority)
	}
	source := strings.TrimSpace(in.Source)
	if source == "" {
		source = "manual"
	}

	now := s.Clock.now()
	t := domain.Task{
		ID:        idx.New().String(),
		UserID:    userID,
		Title:     title,
		Source:    source,
		SourceURL: strings.TrimSpace(in.SourceURL),
		Status:    domain.TaskTodo,
		Priority:  priority,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.DueAt != nil {
		due := in.DueAt.UTC()
		t.DueAt = &due
	}
	return t, nil
}

func taskTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(title) > maxTaskTitleLength {
		return "", fmt.Errorf("%w: title is too long", ErrInvalidInput)
	}
	return title, nil
}

// jiraPriority maps Jira's default scheme onto task priorities.
func jiraPriority(p string) domain.TaskPriority {
	switch strings.ToLower(p) {
	case "highest", "high", "critical", "blocker":
		return domain.PriorityHigh
	case "low", "lowest", "trivial", "minor":
		return domain.PriorityLow
	}
	return domain.PriorityMedium
}
