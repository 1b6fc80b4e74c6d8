package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/ProjectTracker/internal/apperrors"
	"github.com/atinyakov/ProjectTracker/internal/models"
)

// PostgresProjectRepository implements project persistence against a PostgreSQL database.
// Every read and write is scoped to an owner id in a single query, so a
// project that exists but belongs to someone else is indistinguishable
// from one that does not exist.
type PostgresProjectRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresProjectRepository creates a new PostgresProjectRepository using the provided *sql.DB.
func NewPostgresProjectRepository(db *sql.DB) *PostgresProjectRepository {
	return &PostgresProjectRepository{DB: db}
}

// FindAllByOwner fetches all projects owned by the given account,
// ordered by ascending id (creation order).
func (r *PostgresProjectRepository) FindAllByOwner(ctx context.Context, ownerID int64) ([]models.Project, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, description, owner_id FROM projects WHERE owner_id = $1 ORDER BY id ASC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// FindByIDAndOwner retrieves a single project by id scoped to the owner id.
// Returns apperrors.ErrNotFound when the project does not exist or is
// owned by a different account.
func (r *PostgresProjectRepository) FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*models.Project, error) {
	var p models.Project
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, description, owner_id FROM projects WHERE id = $1 AND owner_id = $2
	`, id, ownerID).Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find project: %w", err)
	}
	return &p, nil
}

// Create inserts a new project for the given owner and returns it with its
// generated id.
func (r *PostgresProjectRepository) Create(ctx context.Context, ownerID int64, name string, description *string) (*models.Project, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO projects (name, description, owner_id) VALUES ($1, $2, $3) RETURNING id
	`, name, description, ownerID).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &models.Project{ID: id, Name: name, Description: description, OwnerID: ownerID}, nil
}

// Update replaces the name and description of a project, scoped to the
// owner id. Returns apperrors.ErrNotFound when no owned project matches.
func (r *PostgresProjectRepository) Update(ctx context.Context, id, ownerID int64, name string, description *string) (*models.Project, error) {
	var p models.Project
	err := r.DB.QueryRowContext(ctx, `
		UPDATE projects SET name = $1, description = $2
		 WHERE id = $3 AND owner_id = $4
		 RETURNING id, name, description, owner_id
	`, name, description, id, ownerID).Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return &p, nil
}

// Delete removes a project owned by the given account. The schema cascades
// the delete to all tasks of the project in the same statement.
// Returns apperrors.ErrNotFound when no owned project matches.
func (r *PostgresProjectRepository) Delete(ctx context.Context, id, ownerID int64) error {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM projects WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
