package http

import (
	"net/http"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/aussiebroadwan/workintel/internal/workintel/service"
	"github.com/aussiebroadwan/workintel/pkg/httpx"
	sdk "github.com/aussiebroadwan/workintel/pkg/workintelsdk"
)

// TasksHandler serves the per-user task list. Tasks live in memory only.
type TasksHandler struct {
	TaskService *service.TaskService
}

// HandleList handles GET /api/tasks
//
//	@Summary		My tasks
//	@Tags			Tasks
//	@Produce		json
//	@Param			status	query		string	false	"todo, in_progress or done"
//	@Success		200		{object}	workintelsdk.TaskListResponse
//	@Failure		400		{object}	workintelsdk.ErrorResponse	"invalid status"
//	@Security		SessionCookie
//	@Router			/api/tasks [get]
func (h *TasksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	status := domain.TaskStatus(r.URL.Query().Get("status"))

	tasks, err := h.TaskService.List(httpx.UserIDFromContext(r.Context()), status)
	if err != nil {
		writeServiceError(w, r, err, "list tasks")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sdk.TaskListResponse{Tasks: mapSlice(tasks, toTask)})
}

// HandleCreate handles POST /api/tasks
//
//	@Summary		Add a task
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Param			request	body		workintelsdk.CreateTaskRequest	true	"title, source, source_url, priority, due_at"
//	@Success		201		{object}	workintelsdk.Task
//	@Failure		400		{object}	workintelsdk.ErrorResponse	"empty title, invalid priority"
//	@Security		SessionCookie
//	@Router			/api/tasks [post]
func (h *TasksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req sdk.CreateTaskRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w, err)
		return
	}

	task, err := h.TaskService.Create(httpx.UserIDFromContext(r.Context()), service.TaskInput{
		Title:     req.Title,
		Source:    req.Source,
		SourceURL: req.SourceURL,
		Priority:  domain.TaskPriority(req.Priority),
		DueAt:     req.DueAt,
	})
	if err != nil {
		writeServiceError(w, r, err, "create task")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toTask(task))
}

// HandleUpdate handles PATCH /api/tasks/{id}
//
//	@Summary		Update a task
//	@Description	Only the fields present in the body change.
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Task ID"
//	@Param			request	body		workintelsdk.UpdateTaskRequest	true	"title, status, priority, due_at"
//	@Success		200		{object}	workintelsdk.Task
//	@Failure		400		{object}	workintelsdk.ErrorResponse	"invalid status or priority"
//	@Failure		404		{object}	workintelsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/api/tasks/{id} [patch]
func (h *TasksHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req sdk.UpdateTaskRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w, err)
		return
	}

	patch := service.TaskPatch{Title: req.Title, DueAt: req.DueAt}
	if req.Status != nil {
		s := domain.TaskStatus(*req.Status)
		patch.Status = &s
	}
	if req.Priority != nil {
		p := domain.TaskPriority(*req.Priority)
		patch.Priority = &p
	}

	task, err := h.TaskService.Update(httpx.UserIDFromContext(r.Context()), id, patch)
	if err != nil {
		writeServiceError(w, r, err, "update task")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTask(task))
}

// HandleDelete handles DELETE /api/tasks/{id}
//
//	@Summary		Delete a task
//	@Tags			Tasks
//	@Param			id	path	string	true	"Task ID"
//	@Success		204
//	@Failure		404	{object}	workintelsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/api/tasks/{id} [delete]
func (h *TasksHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.TaskService.Delete(httpx.UserIDFromContext(r.Context()), id); err != nil {
		writeServiceError(w, r, err, "delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleFromBrief handles POST /api/tasks/from-brief
//
//	@Summary		Tasks from the brief
//	@Description	Adds a task for each open Jira issue and review request in the current brief, skipping sources already tracked.
//	@Tags			Tasks
//	@Produce		json
//	@Success		200	{object}	workintelsdk.TaskListResponse	"the tasks created"
//	@Security		SessionCookie
//	@Router			/api/tasks/from-brief [post]
func (h *TasksHandler) HandleFromBrief(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.TaskService.FromBrief(r.Context(), httpx.UserIDFromContext(r.Context()), service.BriefOptions{})
	if err != nil {
		writeServiceError(w, r, err, "tasks from brief")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sdk.TaskListResponse{Tasks: mapSlice(tasks, toTask)})
}
