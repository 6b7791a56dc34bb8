package workintelsdk

import (
	"context"
	"net/http"
	"net/url"
)

// GetBrief returns today's brief; refresh bypasses the server cache.
func (c *Client) GetBrief(ctx context.Context, refresh bool) (*Brief, error) {
	path := "/api/brief"
	if refresh {
		path += "?refresh=1"
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var brief Brief
	if err := decodeJSON(resp, &brief, http.StatusOK); err != nil {
		return nil, err
	}

	return &brief, nil
}

// ============================================================================
// Tasks
// ============================================================================

// ListTasks returns the caller's tasks, optionally filtered by status.
func (c *Client) ListTasks(ctx context.Context, status string) ([]Task, error) {
	path := "/api/tasks"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var out TaskListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return out.Tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/tasks", req)
	if err != nil {
		return nil, err
	}

	var task Task
	if err := decodeJSON(resp, &task, http.StatusCreated); err != nil {
		return nil, err
	}

	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (*Task, error) {
	resp, err := c.doJSON(ctx, http.MethodPatch, "/api/tasks/"+url.PathEscape(id), req)
	if err != nil {
		return nil, err
	}

	var task Task
	if err := decodeJSON(resp, &task, http.StatusOK); err != nil {
		return nil, err
	}

	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// TasksFromBrief turns the current brief's Jira issues and review requests
// into tasks and returns the ones created.
func (c *Client) TasksFromBrief(ctx context.Context) ([]Task, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/tasks/from-brief", nil, nil)
	if err != nil {
		return nil, err
	}

	var out TaskListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return out.Tasks, nil
}
