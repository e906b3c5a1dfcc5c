package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/taskboard/internal/middleware"
	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/task"
)

// --- モック定義 ---

type mockTaskService struct {
	createFn func(ctx context.Context, userID string, in task.CreateInput) (*model.Task, error)
	listFn   func(ctx context.Context, userID, path string) ([]*model.Task, error)
}

func (m *mockTaskService) Create(ctx context.Context, userID string, in task.CreateInput) (*model.Task, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, in)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskService) List(ctx context.Context, userID, path string) ([]*model.Task, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, path)
	}
	return nil, errors.New("not implemented")
}

func signedInRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.ContextWithIdentity(req.Context(), model.Identity{
		ID:        "u1",
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Smith",
	}))
}

// --- CreateTask ---

func TestCreateTask_Success_Returns201(t *testing.T) {
	dueDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	svc := &mockTaskService{
		createFn: func(ctx context.Context, userID string, in task.CreateInput) (*model.Task, error) {
			if userID != "u1" {
				t.Errorf("userID = %q, want %q", userID, "u1")
			}
			if in.PathName != "/add_task" {
				t.Errorf("PathName = %q, want %q", in.PathName, "/add_task")
			}
			return &model.Task{
				ID:          "task-1",
				UserID:      userID,
				TaskName:    in.TaskName,
				DueDate:     dueDate,
				Description: in.Description,
				CreatedAt:   time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
			}, nil
		},
	}
	h := NewTaskHandler(svc)

	body := `{"task_name":"買い物リストを作る","due_date":"01-15-2024","description":"週末の分","path_name":"/add_task"}`
	req := signedInRequest(http.MethodPost, "/api/tasks", body)
	w := httptest.NewRecorder()

	h.CreateTask(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var got taskResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.ID != "task-1" {
		t.Errorf("id = %q, want %q", got.ID, "task-1")
	}
	if got.TaskName != "買い物リストを作る" {
		t.Errorf("task_name = %q, want %q", got.TaskName, "買い物リストを作る")
	}
	if got.DueDate != "01-15-2024" {
		t.Errorf("due_date = %q, want %q", got.DueDate, "01-15-2024")
	}
}

func TestCreateTask_NoIdentity_Returns401(t *testing.T) {
	h := NewTaskHandler(&mockTaskService{})

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	h.CreateTask(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestCreateTask_InvalidJSON_Returns400(t *testing.T) {
	h := NewTaskHandler(&mockTaskService{})

	req := signedInRequest(http.MethodPost, "/api/tasks", `{invalid`)
	w := httptest.NewRecorder()

	h.CreateTask(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	var body middleware.ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Code != "INVALID_REQUEST" {
		t.Errorf("code = %q, want %q", body.Code, "INVALID_REQUEST")
	}
}

func TestCreateTask_ValidationError_Returns400WithFields(t *testing.T) {
	svc := &mockTaskService{
		createFn: func(ctx context.Context, userID string, in task.CreateInput) (*model.Task, error) {
			return nil, model.NewValidationFailedError([]model.FieldError{
				{Field: "task_name", Constraint: "3文字以上100文字以内で入力してください。"},
			})
		},
	}
	h := NewTaskHandler(svc)

	req := signedInRequest(http.MethodPost, "/api/tasks", `{"task_name":"ab","due_date":"01-15-2024"}`)
	w := httptest.NewRecorder()

	h.CreateTask(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	var body middleware.ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Code != model.ErrCodeValidationFailed {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeValidationFailed)
	}
	if len(body.Fields) != 1 || body.Fields[0].Field != "task_name" {
		t.Errorf("fields = %+v, want task_name violation", body.Fields)
	}
}

func TestCreateTask_InvalidDueDate_Returns400(t *testing.T) {
	svc := &mockTaskService{
		createFn: func(ctx context.Context, userID string, in task.CreateInput) (*model.Task, error) {
			return nil, model.NewInvalidDueDateError(in.DueDate)
		},
	}
	h := NewTaskHandler(svc)

	req := signedInRequest(http.MethodPost, "/api/tasks", `{"task_name":"有効な名前","due_date":"2024-01-15"}`)
	w := httptest.NewRecorder()

	h.CreateTask(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	var body middleware.ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Code != model.ErrCodeInvalidDueDate {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeInvalidDueDate)
	}
}

func TestCreateTask_StorageFailure_Returns500(t *testing.T) {
	svc := &mockTaskService{
		createFn: func(ctx context.Context, userID string, in task.CreateInput) (*model.Task, error) {
			return nil, model.NewStorageFailureError()
		},
	}
	h := NewTaskHandler(svc)

	req := signedInRequest(http.MethodPost, "/api/tasks", `{"task_name":"有効な名前","due_date":"01-15-2024"}`)
	w := httptest.NewRecorder()

	h.CreateTask(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusInternalServerError)
	}

	var body middleware.ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Code != model.ErrCodeStorageFailure {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeStorageFailure)
	}
}

// --- ListTasks ---

func TestListTasks_Success_ReturnsTasksInOrder(t *testing.T) {
	svc := &mockTaskService{
		listFn: func(ctx context.Context, userID, path string) ([]*model.Task, error) {
			if path != "/add_task" {
				t.Errorf("path = %q, want %q", path, "/add_task")
			}
			return []*model.Task{
				{ID: "t1", TaskName: "先のタスク", DueDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
				{ID: "t2", TaskName: "後のタスク", DueDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
			}, nil
		},
	}
	h := NewTaskHandler(svc)

	req := signedInRequest(http.MethodGet, "/api/tasks?path=/add_task", "")
	w := httptest.NewRecorder()

	h.ListTasks(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body taskListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Tasks) != 2 {
		t.Fatalf("tasks count = %d, want 2", len(body.Tasks))
	}
	if body.Tasks[0].ID != "t1" || body.Tasks[1].ID != "t2" {
		t.Errorf("task order = [%s, %s], want [t1, t2]", body.Tasks[0].ID, body.Tasks[1].ID)
	}
	if body.Tasks[0].DueDate != "01-10-2024" {
		t.Errorf("due_date = %q, want %q", body.Tasks[0].DueDate, "01-10-2024")
	}
}

func TestListTasks_Empty_ReturnsEmptyArray(t *testing.T) {
	svc := &mockTaskService{
		listFn: func(ctx context.Context, userID, path string) ([]*model.Task, error) {
			return nil, nil
		},
	}
	h := NewTaskHandler(svc)

	req := signedInRequest(http.MethodGet, "/api/tasks", "")
	w := httptest.NewRecorder()

	h.ListTasks(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	// tasksはnullではなく空配列で返す
	bodyStr := w.Body.String()
	if !strings.Contains(bodyStr, `"tasks":[]`) {
		t.Errorf("body = %s, want tasks to be an empty array", bodyStr)
	}
}

func TestListTasks_NoIdentity_Returns401(t *testing.T) {
	h := NewTaskHandler(&mockTaskService{})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	w := httptest.NewRecorder()

	h.ListTasks(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestListTasks_ServiceError_Returns500(t *testing.T) {
	svc := &mockTaskService{
		listFn: func(ctx context.Context, userID, path string) ([]*model.Task, error) {
			return nil, errors.New("db connection lost")
		},
	}
	h := NewTaskHandler(svc)

	req := signedInRequest(http.MethodGet, "/api/tasks", "")
	w := httptest.NewRecorder()

	h.ListTasks(w, req)

	if w.Result().StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusInternalServerError)
	}
}
