package client

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/url"

	"github.com/pxp/n8nctl/internal/workflow"
)

// workflowPath returns the public API path of a single workflow.
func workflowPath(id string) string {
	return "/api/v1/workflows/" + url.PathEscape(id)
}

func (c *Client) checkTarget(id string) error {
	if c.baseURL == "" {
		return &Error{Kind: KindInvalidInput, Detail: "base URL is required"}
	}
	if id == "" {
		return &Error{Kind: KindInvalidInput, Detail: "workflow ID is required"}
	}
	return nil
}

// GetWorkflow fetches one workflow definition.
func (c *Client) GetWorkflow(ctx context.Context, id string) (workflow.Workflow, error) {
	if err := c.checkTarget(id); err != nil {
		return nil, err
	}

	return c.roundTrip(func() (*http.Response, error) {
		return c.get(ctx, workflowPath(id))
	})
}

// UpdateWorkflow replaces a workflow definition and returns the server's
// confirmation document.
func (c *Client) UpdateWorkflow(ctx context.Context, id string, wf workflow.Workflow) (workflow.Workflow, error) {
	if err := c.checkTarget(id); err != nil {
		return nil, err
	}

	body, err := encode(wf)
	if err != nil {
		return nil, &Error{Kind: KindDecode, Detail: "cannot encode workflow", Err: err}
	}

	return c.roundTrip(func() (*http.Response, error) {
		return c.put(ctx, workflowPath(id), body)
	})
}

// UpdateWorkflowFromFile reads a workflow document from path and sends it.
// Nothing is sent when the file is missing, unreadable or malformed.
func (c *Client) UpdateWorkflowFromFile(ctx context.Context, id, path string) (workflow.Workflow, error) {
	if err := c.checkTarget(id); err != nil {
		return nil, err
	}

	wf, err := LoadInput(path)
	if err != nil {
		return nil, err
	}
	return c.UpdateWorkflow(ctx, id, wf)
}

// LoadInput reads a local workflow document, classifying failures as
// KindInputNotFound or KindDecode.
func LoadInput(path string) (workflow.Workflow, error) {
	if path == "" {
		return nil, &Error{Kind: KindInputNotFound, Path: path, Err: fs.ErrNotExist}
	}

	wf, err := workflow.ReadFile(path)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, &Error{Kind: KindInputNotFound, Path: path, Err: err}
		}
		return nil, &Error{Kind: KindDecode, Detail: "invalid JSON in input file", Path: path, Err: err}
	}
	return wf, nil
}
