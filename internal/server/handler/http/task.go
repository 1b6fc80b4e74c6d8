package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/atinyakov/ProjectTracker/internal/models"
	"github.com/atinyakov/ProjectTracker/internal/service"
)

// TaskService defines the interface for task operations required by the
// TaskHandler. Every operation resolves project ownership first.
type TaskService interface {
	List(ctx context.Context, ownerID, projectID int64) ([]models.Task, error)
	Create(ctx context.Context, ownerID, projectID int64, in service.TaskInput) (*models.Task, error)
	Update(ctx context.Context, ownerID, projectID, taskID int64, in service.TaskInput) (*models.Task, error)
	Delete(ctx context.Context, ownerID, projectID, taskID int64) error
}

// TaskHandler handles HTTP requests for task management within a project.
type TaskHandler struct {
	// TaskService performs the underlying task operations.
	TaskService TaskService
}

// taskRequest represents the JSON payload for creating or updating a task.
type taskRequest struct {
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Status      string       `json:"status"`
	DueDate     *models.Date `json:"dueDate"`
}

// taskResponse is the JSON shape of a task.
type taskResponse struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Status      models.TaskStatus `json:"status"`
	DueDate     *models.Date      `json:"dueDate"`
	ProjectID   int64             `json:"projectId"`
}

func toTaskResponse(t *models.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		DueDate:     t.DueDate,
		ProjectID:   t.ProjectID,
	}
}

// List handles GET /api/projects/{projectID}/tasks.
// It responds with the project's tasks in creation order, or 404 when the
// project is not owned by the caller.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r)
	if !ok {
		return
	}

	projectID, err := pathID(r, "projectID")
	if err != nil {
		writeError(w, err)
		return
	}

	tasks, err := h.TaskService.List(r.Context(), account.ID, projectID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, toTaskResponse(&tasks[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Create handles POST /api/projects/{projectID}/tasks.
// A task created without an explicit status starts as TODO.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r)
	if !ok {
		return
	}

	projectID, err := pathID(r, "projectID")
	if err != nil {
		writeError(w, err)
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w)
		return
	}

	task, err := h.TaskService.Create(r.Context(), account.ID, projectID, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

// Update handles PUT /api/projects/{projectID}/tasks/{taskID}.
// The task must belong to the named project.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r)
	if !ok {
		return
	}

	projectID, err := pathID(r, "projectID")
	if err != nil {
		writeError(w, err)
		return
	}
	taskID, err := pathID(r, "taskID")
	if err != nil {
		writeError(w, err)
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w)
		return
	}

	task, err := h.TaskService.Update(r.Context(), account.ID, projectID, taskID, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

// Delete handles DELETE /api/projects/{projectID}/tasks/{taskID}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r)
	if !ok {
		return
	}

	projectID, err := pathID(r, "projectID")
	if err != nil {
		writeError(w, err)
		return
	}
	taskID, err := pathID(r, "taskID")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.TaskService.Delete(r.Context(), account.ID, projectID, taskID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
