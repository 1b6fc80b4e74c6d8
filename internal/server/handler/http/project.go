package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/atinyakov/ProjectTracker/internal/apperrors"
	"github.com/atinyakov/ProjectTracker/internal/models"
	"github.com/atinyakov/ProjectTracker/internal/service"
	"github.com/go-chi/chi/v5"
)

// ProjectService defines the interface for project operations required by
// the ProjectHandler. Every operation is scoped to the owning account.
type ProjectService interface {
	List(ctx context.Context, ownerID int64) ([]models.Project, error)
	Get(ctx context.Context, ownerID, projectID int64) (*models.Project, error)
	Create(ctx context.Context, ownerID int64, in service.ProjectInput) (*models.Project, error)
	Update(ctx context.Context, ownerID, projectID int64, in service.ProjectInput) (*models.Project, error)
	Delete(ctx context.Context, ownerID, projectID int64) error
}

// ProjectHandler handles HTTP requests for project management.
type ProjectHandler struct {
	// ProjectService performs the underlying project operations.
	ProjectService ProjectService
}

// projectRequest represents the JSON payload for creating or updating a project.
type projectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// projectResponse is the JSON shape of a project.
type projectResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func toProjectResponse(p *models.Project) projectResponse {
	return projectResponse{ID: p.ID, Name: p.Name, Description: p.Description}
}

// List handles GET /api/projects.
// It responds with the caller's projects in creation order.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r)
	if !ok {
		return
	}

	projects, err := h.ProjectService.List(r.Context(), account.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]projectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, toProjectResponse(&projects[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Create handles POST /api/projects.
// It expects a JSON body with "name" and optional "description" and
// responds with 201 and the created project.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r)
	if !ok {
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w)
		return
	}

	project, err := h.ProjectService.Create(r.Context(), account.ID, service.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProjectResponse(project))
}

// Get handles GET /api/projects/{projectID}.
// A project that does not exist and one owned by another account respond
// identically with 404.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r)
	if !ok {
		return
	}

	projectID, err := pathID(r, "projectID")
	if err != nil {
		writeError(w, err)
		return
	}

	project, err := h.ProjectService.Get(r.Context(), account.ID, projectID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectResponse(project))
}

// Update handles PUT /api/projects/{projectID}.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r)
	if !ok {
		return
	}

	projectID, err := pathID(r, "projectID")
	if err != nil {
		writeError(w, err)
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w)
		return
	}

	project, err := h.ProjectService.Update(r.Context(), account.ID, projectID, service.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectResponse(project))
}

// Delete handles DELETE /api/projects/{projectID}.
// Deleting a project also deletes all of its tasks.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r)
	if !ok {
		return
	}

	projectID, err := pathID(r, "projectID")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.ProjectService.Delete(r.Context(), account.ID, projectID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathID parses a numeric id from the URL. Identifiers are numeric, so a
// path segment that is not a number cannot name any resource and reports
// the same not-found as a nonexistent id.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, apperrors.ErrNotFound
	}
	return id, nil
}
