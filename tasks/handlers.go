package tasks

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/apperror"
	"github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/auth"
)

// TaskHandlers exposes the TaskService over HTTP. All routes assume the
// JWT middleware has already placed the authenticated user id in the
// request context.
type TaskHandlers struct {
	service *TaskService
}

// NewTaskHandlers creates a new TaskHandlers instance.
func NewTaskHandlers(service *TaskService) *TaskHandlers {
	return &TaskHandlers{service: service}
}

// RegisterRoutes mounts the task routes on the given router.
func (h *TaskHandlers) RegisterRoutes(router chi.Router) {
	router.Get("/", h.handleList)
	router.Post("/", h.handleCreate)
	router.Get("/{id}", h.handleGet)
	router.Put("/{id}", h.handleUpdate)
	router.Delete("/{id}", h.handleDelete)
}

// handleList godoc
// @Summary List tasks
// @Description Lists the authenticated user's tasks, newest first.
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param per_page query int false "Page size (default 20, max 100)"
// @Param status query string false "Filter: all, completed, or pending"
// @Success 200 {object} tasks.TaskListResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 422 {object} apperror.ErrorResponse
// @Router /tasks [get]
func (h *TaskHandlers) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthenticationError("user not authenticated", nil))
		return
	}

	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 20)
	status := r.URL.Query().Get("status")

	resp, err := h.service.List(r.Context(), userID, page, perPage, status)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCreate godoc
// @Summary Create a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param taskBody body tasks.CreateTaskRequest true "Task details"
// @Success 201 {object} tasks.Task
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 422 {object} apperror.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthenticationError("user not authenticated", nil))
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}
	defer r.Body.Close()

	if err := checkRequest(req); err != nil {
		auth.WriteError(w, r, err)
		return
	}

	task, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// handleGet godoc
// @Summary Get a task
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task id"
// @Success 200 {object} tasks.Task
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandlers) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthenticationError("user not authenticated", nil))
		return
	}

	taskID, err := pathID(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	task, err := h.service.Get(r.Context(), taskID, userID)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// handleUpdate godoc
// @Summary Update a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task id"
// @Param taskBody body tasks.UpdateTaskRequest true "Fields to update"
// @Success 200 {object} tasks.Task
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Failure 422 {object} apperror.ErrorResponse
// @Router /tasks/{id} [put]
func (h *TaskHandlers) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthenticationError("user not authenticated", nil))
		return
	}

	taskID, err := pathID(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}
	defer r.Body.Close()

	if err := checkRequest(req); err != nil {
		auth.WriteError(w, r, err)
		return
	}

	task, err := h.service.Update(r.Context(), taskID, userID, req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// handleDelete godoc
// @Summary Delete a task
// @Tags Tasks
// @Security BearerAuth
// @Param id path int true "Task id"
// @Success 204 "Task deleted"
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthenticationError("user not authenticated", nil))
		return
	}

	taskID, err := pathID(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), taskID, userID); err != nil {
		auth.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		return 0, apperror.NewBadRequestError("task id must be a positive integer", err)
	}
	return id, nil
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}
