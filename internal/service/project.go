package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/atinyakov/ProjectTracker/internal/apperrors"
	"github.com/atinyakov/ProjectTracker/internal/models"
)

// ProjectRepository defines the persistence operations needed by the ProjectService.
// Lookup, update and delete are scoped to an owner id in a single query so
// that "not yours" and "does not exist" are the same outcome.
type ProjectRepository interface {
	// FindAllByOwner retrieves all projects of an owner in ascending id order.
	FindAllByOwner(ctx context.Context, ownerID int64) ([]models.Project, error)
	// FindByIDAndOwner retrieves a project by id scoped to the owner id,
	// or apperrors.ErrNotFound.
	FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*models.Project, error)
	// Create inserts a new project for the owner.
	Create(ctx context.Context, ownerID int64, name string, description *string) (*models.Project, error)
	// Update replaces name and description of an owned project,
	// or apperrors.ErrNotFound.
	Update(ctx context.Context, id, ownerID int64, name string, description *string) (*models.Project, error)
	// Delete removes an owned project and, transitively, its tasks,
	// or apperrors.ErrNotFound.
	Delete(ctx context.Context, id, ownerID int64) error
}

// ProjectInput carries the mutable fields of a project.
type ProjectInput struct {
	Name        string
	Description *string
}

// ProjectService implements project management scoped to the owning account.
type ProjectService struct {
	// repo is the underlying persistence repository.
	repo ProjectRepository
}

// NewProjectService constructs a ProjectService with the provided repository.
func NewProjectService(repo ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo}
}

// List returns all projects of the owner, oldest first.
func (s *ProjectService) List(ctx context.Context, ownerID int64) ([]models.Project, error) {
	return s.repo.FindAllByOwner(ctx, ownerID)
}

// Get returns a single owned project, or apperrors.ErrNotFound.
func (s *ProjectService) Get(ctx context.Context, ownerID, projectID int64) (*models.Project, error) {
	return s.repo.FindByIDAndOwner(ctx, projectID, ownerID)
}

// Create validates the input and inserts a new project for the owner.
func (s *ProjectService) Create(ctx context.Context, ownerID int64, in ProjectInput) (*models.Project, error) {
	name, description, err := validateProjectInput(in)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, ownerID, name, description)
}

// Update validates the input and replaces the mutable fields of an owned
// project, or fails with apperrors.ErrNotFound.
func (s *ProjectService) Update(ctx context.Context, ownerID, projectID int64, in ProjectInput) (*models.Project, error) {
	name, description, err := validateProjectInput(in)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, projectID, ownerID, name, description)
}

// Delete removes an owned project together with all of its tasks,
// or fails with apperrors.ErrNotFound.
func (s *ProjectService) Delete(ctx context.Context, ownerID, projectID int64) error {
	return s.repo.Delete(ctx, projectID, ownerID)
}

func validateProjectInput(in ProjectInput) (string, *string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", nil, fmt.Errorf("%w: project name cannot be blank", apperrors.ErrInvalidInput)
	}
	if len(name) > 150 {
		return "", nil, fmt.Errorf("%w: project name must be at most 150 characters", apperrors.ErrInvalidInput)
	}
	description, err := normalizeDescription(in.Description)
	if err != nil {
		return "", nil, err
	}
	return name, description, nil
}

// normalizeDescription trims an optional description and collapses a blank
// one to absent.
func normalizeDescription(description *string) (*string, error) {
	if description == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > 1000 {
		return nil, fmt.Errorf("%w: description must be at most 1000 characters", apperrors.ErrInvalidInput)
	}
	return &trimmed, nil
}
