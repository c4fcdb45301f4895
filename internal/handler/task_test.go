package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/itsupport/helpdesk-api/internal/model"
	"github.com/itsupport/helpdesk-api/internal/repo"
	"github.com/itsupport/helpdesk-api/internal/service"
	"github.com/itsupport/helpdesk-api/tests"
)

func setupHandler(t *testing.T) (*TaskHandler, func()) {
	pool, cleanup := tests.SetupTestDB(t)

	taskRepo := repo.NewTaskRepo(pool)
	taskService := service.NewTaskService(taskRepo)
	logger := zap.NewNop()
	handler := NewTaskHandler(taskService, logger)

	return handler, cleanup
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func createTask(t *testing.T, handler *TaskHandler, task model.Task) model.Task {
	t.Helper()

	body, _ := json.Marshal(task)
	req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler.Create(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created model.Task
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	return created
}

func TestTaskHandler_Create(t *testing.T) {
	handler, cleanup := setupHandler(t)
	defer cleanup()

	tests := []struct {
		name          string
		body          interface{}
		wantCode      int
		checkResponse func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "successful creation",
			body: model.Task{
				Description: "Printer down",
				Requester:   "Alice",
				Urgency:     model.UrgencyUrgent,
				Category:    model.CategorySupport,
			},
			wantCode: http.StatusCreated,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var task model.Task
				json.NewDecoder(w.Body).Decode(&task)
				assert.NotEmpty(t, task.ID)
				assert.Equal(t, model.StatusPending, task.Status)
				assert.Nil(t, task.ResolvedAt)
				assert.Contains(t, w.Header().Get("Location"), "/tasks/")
			},
		},
		{
			name:     "empty body",
			body:     nil,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "missing requester",
			body: model.Task{
				Description: "Printer down",
				Urgency:     model.UrgencyUrgent,
				Category:    model.CategorySupport,
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown urgency",
			body: map[string]string{
				"description": "Printer down",
				"requester":   "Alice",
				"urgency":     "WHENEVER",
				"category":    "SUPPORT",
			},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body []byte
			if tt.body != nil {
				body, _ = json.Marshal(tt.body)
			}

			req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			handler.Create(w, req)

			assert.Equal(t, tt.wantCode, w.Code)

			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

func TestTaskHandler_Get(t *testing.T) {
	handler, cleanup := setupHandler(t)
	defer cleanup()

	created := createTask(t, handler, model.Task{
		Description: "Get test",
		Requester:   "Alice",
		Urgency:     model.UrgencyImportant,
		Category:    model.CategoryExpansion,
	})

	t.Run("get existing task", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tasks/"+created.ID, nil)
		req = withURLParam(req, "id", created.ID)

		w := httptest.NewRecorder()
		handler.Get(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var task model.Task
		json.NewDecoder(w.Body).Decode(&task)
		assert.Equal(t, created.ID, task.ID)
	})

	t.Run("get non-existing task", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tasks/missing", nil)
		req = withURLParam(req, "id", "missing")

		w := httptest.NewRecorder()
		handler.Get(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTaskHandler_List(t *testing.T) {
	handler, cleanup := setupHandler(t)
	defer cleanup()

	urgencies := []model.UrgencyLevel{
		model.UrgencyNotImportant, model.UrgencyNotUrgent,
		model.UrgencyImportant, model.UrgencyUrgent,
	}
	for i, u := range urgencies {
		createTask(t, handler, model.Task{
			Description: fmt.Sprintf("Task %d", i),
			Requester:   "Seed",
			Urgency:     u,
			Category:    model.CategorySupport,
		})
	}

	t.Run("list all tasks ordered by urgency", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		w := httptest.NewRecorder()
		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var tasks []model.Task
		json.NewDecoder(w.Body).Decode(&tasks)
		require.Len(t, tasks, 4)
		assert.Equal(t, model.UrgencyUrgent, tasks[0].Urgency)
		assert.Equal(t, model.UrgencyNotImportant, tasks[3].Urgency)
	})

	t.Run("filter by urgency", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tasks?urgency=URGENT", nil)
		w := httptest.NewRecorder()
		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var tasks []model.Task
		json.NewDecoder(w.Body).Decode(&tasks)
		require.Len(t, tasks, 1)
		assert.Equal(t, model.UrgencyUrgent, tasks[0].Urgency)
	})

	t.Run("search by requester", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tasks?search=seed", nil)
		w := httptest.NewRecorder()
		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var tasks []model.Task
		json.NewDecoder(w.Body).Decode(&tasks)
		assert.Len(t, tasks, 4)
	})

	t.Run("invalid status filter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tasks?status=DONE", nil)
		w := httptest.NewRecorder()
		handler.List(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid dateFrom", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tasks?dateFrom=yesterday", nil)
		w := httptest.NewRecorder()
		handler.List(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTaskHandler_Update(t *testing.T) {
	handler, cleanup := setupHandler(t)
	defer cleanup()

	created := createTask(t, handler, model.Task{
		Description: "Original",
		Requester:   "Alice",
		Urgency:     model.UrgencyNotUrgent,
		Category:    model.CategorySupport,
	})

	t.Run("resolve sets resolvedAt", func(t *testing.T) {
		body := []byte(`{"status":"RESOLVED"}`)

		req := httptest.NewRequest(http.MethodPut, "/tasks/"+created.ID, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req = withURLParam(req, "id", created.ID)

		w := httptest.NewRecorder()
		handler.Update(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var updated model.Task
		json.NewDecoder(w.Body).Decode(&updated)
		assert.Equal(t, model.StatusResolved, updated.Status)
		require.NotNil(t, updated.ResolvedAt)
		assert.Equal(t, "Original", updated.Description, "omitted fields keep their value")
	})

	t.Run("reopen clears resolvedAt", func(t *testing.T) {
		body := []byte(`{"status":"PENDING"}`)

		req := httptest.NewRequest(http.MethodPut, "/tasks/"+created.ID, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req = withURLParam(req, "id", created.ID)

		w := httptest.NewRecorder()
		handler.Update(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var updated model.Task
		json.NewDecoder(w.Body).Decode(&updated)
		assert.Equal(t, model.StatusPending, updated.Status)
		assert.Nil(t, updated.ResolvedAt)
	})

	t.Run("update non-existing task", func(t *testing.T) {
		body := []byte(`{"description":"ghost"}`)

		req := httptest.NewRequest(http.MethodPut, "/tasks/missing", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req = withURLParam(req, "id", "missing")

		w := httptest.NewRecorder()
		handler.Update(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTaskHandler_Delete(t *testing.T) {
	handler, cleanup := setupHandler(t)
	defer cleanup()

	created := createTask(t, handler, model.Task{
		Description: "To delete",
		Requester:   "Alice",
		Urgency:     model.UrgencyNotImportant,
		Category:    model.CategoryCentralProjects,
	})

	t.Run("successful delete", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/tasks/"+created.ID, nil)
		req = withURLParam(req, "id", created.ID)

		w := httptest.NewRecorder()
		handler.Delete(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]string
		json.NewDecoder(w.Body).Decode(&resp)
		assert.Equal(t, "Task deleted successfully", resp["message"])
	})

	t.Run("delete non-existing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/tasks/missing", nil)
		req = withURLParam(req, "id", "missing")

		w := httptest.NewRecorder()
		handler.Delete(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTaskHandler_Stats(t *testing.T) {
	handler, cleanup := setupHandler(t)
	defer cleanup()

	for i := 0; i < 3; i++ {
		createTask(t, handler, model.Task{
			Description: fmt.Sprintf("Pending %d", i),
			Requester:   "Seed",
			Urgency:     model.UrgencyUrgent,
			Category:    model.CategorySupport,
		})
	}
	resolvedTask := createTask(t, handler, model.Task{
		Description: "Resolved one",
		Requester:   "Seed",
		Urgency:     model.UrgencyNotUrgent,
		Category:    model.CategoryMonitoring,
	})

	body := []byte(`{"status":"RESOLVED"}`)
	req := httptest.NewRequest(http.MethodPut, "/tasks/"+resolvedTask.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParam(req, "id", resolvedTask.ID)
	w := httptest.NewRecorder()
	handler.Update(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/tasks/stats", nil)
	w = httptest.NewRecorder()
	handler.Stats(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stats model.TaskStats
	require.NoError(t, json.NewDecoder(w.Body).Decode(&stats))
	assert.Equal(t, 4, stats.TotalTasks)
	assert.Equal(t, 3, stats.PendingTasks)
	assert.Equal(t, 1, stats.ResolvedTasks)
	assert.Equal(t, 3, stats.UrgentTasks)
	require.Len(t, stats.TasksByCategory, 1)
	assert.Equal(t, model.CategorySupport, stats.TasksByCategory[0].Category)
	assert.Equal(t, 3, stats.TasksByCategory[0].Count)
	require.Len(t, stats.TasksByUrgency, 1)
	assert.Equal(t, 3, stats.TasksByUrgency[0].Count)
	assert.Len(t, stats.RecentTasks, 3)
}
