package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/atinyakov/ProjectTracker/internal/apperrors"
	"github.com/atinyakov/ProjectTracker/internal/models"
	"github.com/atinyakov/ProjectTracker/internal/service"
	"github.com/atinyakov/ProjectTracker/internal/token"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// memoryStore is an in-memory resource store backing the full router in
// tests. It mirrors the repository contracts, including owner-scoped
// lookups and the project-to-task cascade on delete.
type memoryStore struct {
	mu            sync.Mutex
	accounts      map[string]*models.Account
	projects      map[int64]*models.Project
	tasks         map[int64]*models.Task
	nextAccountID int64
	nextProjectID int64
	nextTaskID    int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		accounts: make(map[string]*models.Account),
		projects: make(map[int64]*models.Project),
		tasks:    make(map[int64]*models.Task),
	}
}

func (s *memoryStore) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account, ok := s.accounts[username]; ok {
		return account, nil
	}
	return nil, apperrors.ErrNotFound
}

func (s *memoryStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.accounts[username]
	return ok, nil
}

func (s *memoryStore) Create(ctx context.Context, username string, passwordHash []byte) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[username]; ok {
		return nil, apperrors.ErrConflict
	}
	s.nextAccountID++
	account := &models.Account{ID: s.nextAccountID, Username: username, PasswordHash: passwordHash}
	s.accounts[username] = account
	return account, nil
}

func (s *memoryStore) FindAllByOwner(ctx context.Context, ownerID int64) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Project
	for _, p := range s.projects {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryStore) FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.projects[id]; ok && p.OwnerID == ownerID {
		clone := *p
		return &clone, nil
	}
	return nil, apperrors.ErrNotFound
}

func (s *memoryStore) CreateProject(ctx context.Context, ownerID int64, name string, description *string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextProjectID++
	p := &models.Project{ID: s.nextProjectID, Name: name, Description: description, OwnerID: ownerID}
	s.projects[p.ID] = p
	clone := *p
	return &clone, nil
}

func (s *memoryStore) UpdateProject(ctx context.Context, id, ownerID int64, name string, description *string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok || p.OwnerID != ownerID {
		return nil, apperrors.ErrNotFound
	}
	p.Name = name
	p.Description = description
	clone := *p
	return &clone, nil
}

func (s *memoryStore) DeleteProject(ctx context.Context, id, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok || p.OwnerID != ownerID {
		return apperrors.ErrNotFound
	}
	delete(s.projects, id)
	// cascade: a task cannot outlive its project
	for taskID, task := range s.tasks {
		if task.ProjectID == id {
			delete(s.tasks, taskID)
		}
	}
	return nil
}

func (s *memoryStore) FindAllByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Task
	for _, task := range s.tasks {
		if task.ProjectID == projectID {
			out = append(out, *task)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryStore) FindByIDAndProject(ctx context.Context, id, projectID int64) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if task, ok := s.tasks[id]; ok && task.ProjectID == projectID {
		clone := *task
		return &clone, nil
	}
	return nil, apperrors.ErrNotFound
}

func (s *memoryStore) CreateTask(ctx context.Context, projectID int64, title string, description *string, status models.TaskStatus, dueDate *models.Date) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTaskID++
	task := &models.Task{ID: s.nextTaskID, Title: title, Description: description, Status: status, DueDate: dueDate, ProjectID: projectID}
	s.tasks[task.ID] = task
	clone := *task
	return &clone, nil
}

func (s *memoryStore) UpdateTask(ctx context.Context, id, projectID int64, title string, description *string, status models.TaskStatus, dueDate *models.Date) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok || task.ProjectID != projectID {
		return nil, apperrors.ErrNotFound
	}
	task.Title = title
	task.Description = description
	task.Status = status
	task.DueDate = dueDate
	clone := *task
	return &clone, nil
}

func (s *memoryStore) DeleteTask(ctx context.Context, id, projectID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok || task.ProjectID != projectID {
		return apperrors.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// projectStore and taskStore adapt memoryStore to the repository
// interfaces whose method names collide on Create/Update/Delete.
type projectStore struct{ *memoryStore }

func (s projectStore) Create(ctx context.Context, ownerID int64, name string, description *string) (*models.Project, error) {
	return s.CreateProject(ctx, ownerID, name, description)
}
func (s projectStore) Update(ctx context.Context, id, ownerID int64, name string, description *string) (*models.Project, error) {
	return s.UpdateProject(ctx, id, ownerID, name, description)
}
func (s projectStore) Delete(ctx context.Context, id, ownerID int64) error {
	return s.DeleteProject(ctx, id, ownerID)
}

type taskStore struct{ *memoryStore }

func (s taskStore) Create(ctx context.Context, projectID int64, title string, description *string, status models.TaskStatus, dueDate *models.Date) (*models.Task, error) {
	return s.CreateTask(ctx, projectID, title, description, status, dueDate)
}
func (s taskStore) Update(ctx context.Context, id, projectID int64, title string, description *string, status models.TaskStatus, dueDate *models.Date) (*models.Task, error) {
	return s.UpdateTask(ctx, id, projectID, title, description, status, dueDate)
}
func (s taskStore) Delete(ctx context.Context, id, projectID int64) error {
	return s.DeleteTask(ctx, id, projectID)
}

const apiTestSecret = "this-is-a-very-long-test-secret-key-1234567890"

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	store := newMemoryStore()
	tokens, err := token.New([]byte(apiTestSecret), time.Hour)
	if err != nil {
		t.Fatalf("token.New returned error: %v", err)
	}

	authService := service.NewAuthService(store, tokens, bcrypt.MinCost)
	projectService := service.NewProjectService(projectStore{store})
	taskService := service.NewTaskService(projectStore{store}, taskStore{store})

	return NewRouter(
		&AuthHandler{AuthService: authService},
		&ProjectHandler{ProjectService: projectService},
		&TaskHandler{TaskService: taskService},
		tokens,
		store,
		zap.NewNop(),
	)
}

func doJSON(t *testing.T, router http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response body %q: %v", rec.Body.String(), err)
	}
}

func registerAndGetToken(t *testing.T, router http.Handler, username, password string) string {
	t.Helper()

	rec := doJSON(t, router, "POST", "/api/auth/register", "", map[string]string{
		"username": username,
		"password": password,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %q: status = %d; want 201 (body %q)", username, rec.Code, rec.Body.String())
	}
	var resp tokenResponse
	decodeBody(t, rec, &resp)
	if resp.Token == "" {
		t.Fatalf("register %q: empty token", username)
	}
	return resp.Token
}

func TestAPI_RegisterAndLogin(t *testing.T) {
	router := newTestServer(t)

	registerAndGetToken(t, router, "alice", "password123")

	// duplicate registration of the same trimmed username
	rec := doJSON(t, router, "POST", "/api/auth/register", "", map[string]string{
		"username": "  alice ",
		"password": "password123",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate register: status = %d; want 400", rec.Code)
	}

	rec = doJSON(t, router, "POST", "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "password123",
	})
	if rec.Code != http.StatusOK {
		t.Errorf("login: status = %d; want 200", rec.Code)
	}

	rec = doJSON(t, router, "POST", "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login: status = %d; want 401", rec.Code)
	}
}

func TestAPI_ProtectedEndpointsRequireToken(t *testing.T) {
	router := newTestServer(t)

	for _, path := range []string{"/api/projects", "/api/projects/1", "/api/projects/1/tasks"} {
		rec := doJSON(t, router, "GET", path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: status = %d; want 401", path, rec.Code)
		}
	}

	// garbage token
	rec := doJSON(t, router, "GET", "/api/projects", "not-a-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("GET with garbage token: status = %d; want 401", rec.Code)
	}
}

func TestAPI_ProjectAndTaskLifecycle(t *testing.T) {
	router := newTestServer(t)
	tok := registerAndGetToken(t, router, "alice", "password123")

	// create a project
	rec := doJSON(t, router, "POST", "/api/projects", tok, map[string]any{
		"name":        "Alpha",
		"description": "  main delivery  ",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project: status = %d (body %q)", rec.Code, rec.Body.String())
	}
	var project projectResponse
	decodeBody(t, rec, &project)
	if project.Description == nil || *project.Description != "main delivery" {
		t.Errorf("description = %v; want trimmed %q", project.Description, "main delivery")
	}

	// a task created without a status starts as TODO
	rec = doJSON(t, router, "POST", fmt.Sprintf("/api/projects/%d/tasks", project.ID), tok, map[string]any{
		"title": "Build",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create task: status = %d (body %q)", rec.Code, rec.Body.String())
	}
	var task taskResponse
	decodeBody(t, rec, &task)
	if task.Status != models.StatusTodo {
		t.Errorf("task status = %q; want TODO", task.Status)
	}
	if task.ProjectID != project.ID {
		t.Errorf("task projectId = %d; want %d", task.ProjectID, project.ID)
	}

	// full update with status and due date
	rec = doJSON(t, router, "PUT", fmt.Sprintf("/api/projects/%d/tasks/%d", project.ID, task.ID), tok, map[string]any{
		"title":   "Build v2",
		"status":  "DONE",
		"dueDate": "2026-11-30",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update task: status = %d (body %q)", rec.Code, rec.Body.String())
	}
	var updated taskResponse
	decodeBody(t, rec, &updated)
	if updated.Status != models.StatusDone || updated.Title != "Build v2" {
		t.Errorf("unexpected updated task: %+v", updated)
	}
	if updated.DueDate == nil || updated.DueDate.String() != "2026-11-30" {
		t.Errorf("dueDate = %v; want 2026-11-30", updated.DueDate)
	}

	// listing is scoped to the owner and ordered by id
	rec = doJSON(t, router, "GET", "/api/projects", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list projects: status = %d", rec.Code)
	}
	var projects []projectResponse
	decodeBody(t, rec, &projects)
	if len(projects) != 1 || projects[0].ID != project.ID {
		t.Errorf("unexpected project list: %+v", projects)
	}

	// deleting the project cascades to its tasks
	rec = doJSON(t, router, "DELETE", fmt.Sprintf("/api/projects/%d", project.ID), tok, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete project: status = %d", rec.Code)
	}
	rec = doJSON(t, router, "GET", fmt.Sprintf("/api/projects/%d/tasks", project.ID), tok, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("list tasks of deleted project: status = %d; want 404", rec.Code)
	}
	rec = doJSON(t, router, "GET", "/api/projects", tok, nil)
	var remaining []projectResponse
	decodeBody(t, rec, &remaining)
	if len(remaining) != 0 {
		t.Errorf("projects after delete = %+v; want none", remaining)
	}
}

// Another account probing an existing project id gets the same 404 as for
// an id that names nothing.
func TestAPI_CrossTenantIsolation(t *testing.T) {
	router := newTestServer(t)
	aliceToken := registerAndGetToken(t, router, "alice", "password123")
	bobToken := registerAndGetToken(t, router, "bob", "password123")

	rec := doJSON(t, router, "POST", "/api/projects", aliceToken, map[string]any{"name": "Alpha"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project: status = %d", rec.Code)
	}
	var project projectResponse
	decodeBody(t, rec, &project)

	probes := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"read", "GET", fmt.Sprintf("/api/projects/%d", project.ID), nil},
		{"update", "PUT", fmt.Sprintf("/api/projects/%d", project.ID), map[string]any{"name": "Hijack"}},
		{"delete", "DELETE", fmt.Sprintf("/api/projects/%d", project.ID), nil},
		{"list tasks", "GET", fmt.Sprintf("/api/projects/%d/tasks", project.ID), nil},
		{"create task", "POST", fmt.Sprintf("/api/projects/%d/tasks", project.ID), map[string]any{"title": "Sneak"}},
	}

	for _, probe := range probes {
		t.Run(probe.name, func(t *testing.T) {
			existing := doJSON(t, router, probe.method, probe.path, bobToken, probe.body)
			if existing.Code != http.StatusNotFound {
				t.Fatalf("probe of alice's project: status = %d; want 404", existing.Code)
			}

			nonexistentPath := replaceProjectID(probe.path, project.ID, 99999)
			nonexistent := doJSON(t, router, probe.method, nonexistentPath, bobToken, probe.body)
			if nonexistent.Code != http.StatusNotFound {
				t.Fatalf("probe of nonexistent project: status = %d; want 404", nonexistent.Code)
			}
			if existing.Body.String() != nonexistent.Body.String() {
				t.Errorf("responses differ: %q vs %q", existing.Body.String(), nonexistent.Body.String())
			}
		})
	}

	// alice still sees her project untouched
	rec = doJSON(t, router, "GET", fmt.Sprintf("/api/projects/%d", project.ID), aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("owner read after probes: status = %d; want 200", rec.Code)
	}
	var got projectResponse
	decodeBody(t, rec, &got)
	if got.Name != "Alpha" {
		t.Errorf("project name = %q; want %q", got.Name, "Alpha")
	}
}

func replaceProjectID(path string, oldID, newID int64) string {
	return strings.Replace(path, fmt.Sprintf("/projects/%d", oldID), fmt.Sprintf("/projects/%d", newID), 1)
}
