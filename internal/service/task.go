package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/atinyakov/ProjectTracker/internal/apperrors"
	"github.com/atinyakov/ProjectTracker/internal/models"
)

// OwnedProjectFinder resolves a project by id scoped to its owner.
// The TaskService uses it to gate every task operation on project ownership.
type OwnedProjectFinder interface {
	FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*models.Project, error)
}

// TaskRepository defines the persistence operations needed by the TaskService.
// All lookups are scoped to a project id.
type TaskRepository interface {
	// FindAllByProject retrieves all tasks of a project in ascending id order.
	FindAllByProject(ctx context.Context, projectID int64) ([]models.Task, error)
	// FindByIDAndProject retrieves a task by id scoped to the project id,
	// or apperrors.ErrNotFound.
	FindByIDAndProject(ctx context.Context, id, projectID int64) (*models.Task, error)
	// Create inserts a new task into the project.
	Create(ctx context.Context, projectID int64, title string, description *string, status models.TaskStatus, dueDate *models.Date) (*models.Task, error)
	// Update replaces the mutable fields of a task, or apperrors.ErrNotFound.
	Update(ctx context.Context, id, projectID int64, title string, description *string, status models.TaskStatus, dueDate *models.Date) (*models.Task, error)
	// Delete removes a task from the project, or apperrors.ErrNotFound.
	Delete(ctx context.Context, id, projectID int64) error
}

// TaskInput carries the mutable fields of a task. Status is the raw string
// from the request; empty means the TODO default.
type TaskInput struct {
	Title       string
	Description *string
	Status      string
	DueDate     *models.Date
}

// TaskService implements task management. Every operation first resolves
// the parent project scoped to the calling account, so a task is only ever
// reachable through its owning project's owner.
type TaskService struct {
	// projects gates all task operations on project ownership.
	projects OwnedProjectFinder
	// tasks is the underlying persistence repository.
	tasks TaskRepository
}

// NewTaskService constructs a TaskService with the provided project finder
// and task repository.
func NewTaskService(projects OwnedProjectFinder, tasks TaskRepository) *TaskService {
	return &TaskService{projects: projects, tasks: tasks}
}

// List returns all tasks of an owned project, oldest first.
func (s *TaskService) List(ctx context.Context, ownerID, projectID int64) ([]models.Task, error) {
	project, err := s.projects.FindByIDAndOwner(ctx, projectID, ownerID)
	if err != nil {
		return nil, err
	}
	return s.tasks.FindAllByProject(ctx, project.ID)
}

// Create validates the input and inserts a new task into an owned project.
// A task created without an explicit status starts as TODO.
func (s *TaskService) Create(ctx context.Context, ownerID, projectID int64, in TaskInput) (*models.Task, error) {
	project, err := s.projects.FindByIDAndOwner(ctx, projectID, ownerID)
	if err != nil {
		return nil, err
	}
	title, description, status, err := validateTaskInput(in)
	if err != nil {
		return nil, err
	}
	return s.tasks.Create(ctx, project.ID, title, description, status, in.DueDate)
}

// Update validates the input and replaces the mutable fields of a task in
// an owned project. The task must belong to the named project; otherwise
// the result is apperrors.ErrNotFound.
func (s *TaskService) Update(ctx context.Context, ownerID, projectID, taskID int64, in TaskInput) (*models.Task, error) {
	project, err := s.projects.FindByIDAndOwner(ctx, projectID, ownerID)
	if err != nil {
		return nil, err
	}
	title, description, status, err := validateTaskInput(in)
	if err != nil {
		return nil, err
	}
	return s.tasks.Update(ctx, taskID, project.ID, title, description, status, in.DueDate)
}

// Delete removes a task from an owned project, or fails with
// apperrors.ErrNotFound.
func (s *TaskService) Delete(ctx context.Context, ownerID, projectID, taskID int64) error {
	project, err := s.projects.FindByIDAndOwner(ctx, projectID, ownerID)
	if err != nil {
		return err
	}
	return s.tasks.Delete(ctx, taskID, project.ID)
}

func validateTaskInput(in TaskInput) (string, *string, models.TaskStatus, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return "", nil, "", fmt.Errorf("%w: task title cannot be blank", apperrors.ErrInvalidInput)
	}
	if len(title) > 200 {
		return "", nil, "", fmt.Errorf("%w: task title must be at most 200 characters", apperrors.ErrInvalidInput)
	}
	description, err := normalizeDescription(in.Description)
	if err != nil {
		return "", nil, "", err
	}
	status, err := models.ParseTaskStatus(in.Status)
	if err != nil {
		return "", nil, "", fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return title, description, status, nil
}
