package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/ProjectTracker/internal/apperrors"
	"github.com/atinyakov/ProjectTracker/internal/models"
)

// PostgresTaskRepository implements task persistence against a PostgreSQL database.
// All queries are scoped to a project id; callers resolve project ownership
// before touching tasks.
type PostgresTaskRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresTaskRepository creates a new PostgresTaskRepository using the provided *sql.DB.
func NewPostgresTaskRepository(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{DB: db}
}

// FindAllByProject fetches all tasks of the given project, ordered by
// ascending id (creation order).
func (r *PostgresTaskRepository) FindAllByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, title, description, status, due_date, project_id FROM tasks
		 WHERE project_id = $1 ORDER BY id ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// FindByIDAndProject retrieves a single task by id scoped to the project id.
// Returns apperrors.ErrNotFound when no such task exists in that project.
func (r *PostgresTaskRepository) FindByIDAndProject(ctx context.Context, id, projectID int64) (*models.Task, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, title, description, status, due_date, project_id FROM tasks
		 WHERE id = $1 AND project_id = $2
	`, id, projectID)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	return task, err
}

// Create inserts a new task into the given project and returns it with its
// generated id.
func (r *PostgresTaskRepository) Create(ctx context.Context, projectID int64, title string, description *string, status models.TaskStatus, dueDate *models.Date) (*models.Task, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO tasks (title, description, status, due_date, project_id)
		VALUES ($1, $2, $3, $4, $5) RETURNING id
	`, title, description, string(status), dueDateArg(dueDate), projectID).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &models.Task{
		ID:          id,
		Title:       title,
		Description: description,
		Status:      status,
		DueDate:     dueDate,
		ProjectID:   projectID,
	}, nil
}

// Update replaces the mutable fields of a task, scoped to the project id.
// Returns apperrors.ErrNotFound when no such task exists in that project.
func (r *PostgresTaskRepository) Update(ctx context.Context, id, projectID int64, title string, description *string, status models.TaskStatus, dueDate *models.Date) (*models.Task, error) {
	row := r.DB.QueryRowContext(ctx, `
		UPDATE tasks SET title = $1, description = $2, status = $3, due_date = $4
		 WHERE id = $5 AND project_id = $6
		 RETURNING id, title, description, status, due_date, project_id
	`, title, description, string(status), dueDateArg(dueDate), id, projectID)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	return task, err
}

// Delete removes a task from the given project.
// Returns apperrors.ErrNotFound when no such task exists in that project.
func (r *PostgresTaskRepository) Delete(ctx context.Context, id, projectID int64) error {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM tasks WHERE id = $1 AND project_id = $2
	`, id, projectID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanTask.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		task    models.Task
		status  string
		dueDate sql.NullTime
	)
	err := row.Scan(&task.ID, &task.Title, &task.Description, &status, &dueDate, &task.ProjectID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	task.Status = models.TaskStatus(status)
	if dueDate.Valid {
		d := models.DateOf(dueDate.Time)
		task.DueDate = &d
	}
	return &task, nil
}

// dueDateArg converts an optional Date into a driver-friendly value.
func dueDateArg(d *models.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}
