package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type createTaskBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	IsTeam      bool   `json:"is_team"`
	AssignedTo  string `json:"assigned_to,omitempty"`
}

// CreateTask issues a team-wide or personal task.
func (c *Client) CreateTask(ctx context.Context, tgID int64, task NewTask) error {
	body := createTaskBody{
		Title:       task.Title,
		Description: task.Description,
		Deadline:    task.Deadline.UTC().Format(time.RFC3339),
		IsTeam:      task.IsTeam,
	}
	if !task.IsTeam {
		body.AssignedTo = task.AssignedTo
	}
	return c.do(ctx, request{op: "tasks.create", method: http.MethodPost, path: "/tasks", query: caller(tgID), body: body}, nil)
}

// MyTasks lists tasks assigned to the caller.
func (c *Client) MyTasks(ctx context.Context, tgID int64) ([]Task, error) {
	var tasks []Task
	err := c.do(ctx, request{op: "tasks.my", method: http.MethodGet, path: "/tasks", query: caller(tgID)}, &tasks)
	return tasks, err
}

// IssuedTasks lists tasks created by the caller.
func (c *Client) IssuedTasks(ctx context.Context, tgID int64) ([]Task, error) {
	var tasks []Task
	err := c.do(ctx, request{op: "tasks.issued", method: http.MethodGet, path: "/tasks/issued", query: caller(tgID)}, &tasks)
	return tasks, err
}

// DeleteTask removes a task issued by the caller.
func (c *Client) DeleteTask(ctx context.Context, tgID int64, taskID uint) error {
	path := fmt.Sprintf("/tasks/%d", taskID)
	return c.do(ctx, request{op: "tasks.delete", method: http.MethodDelete, path: path, query: caller(tgID)}, nil)
}

type statusBody struct {
	Status         TaskStatus `json:"status"`
	CompletionText string     `json:"completion_text,omitempty"`
}

// UpdateTaskStatus moves a task to status. An empty report is omitted.
func (c *Client) UpdateTaskStatus(ctx context.Context, tgID int64, taskID uint, status TaskStatus, report string) error {
	path := fmt.Sprintf("/tasks/%d/status", taskID)
	body := statusBody{Status: status, CompletionText: report}
	return c.do(ctx, request{op: "tasks.status", method: http.MethodPut, path: path, query: caller(tgID), body: body}, nil)
}
