package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/seodraft/internal/db"
	"github.com/hpungsan/seodraft/internal/errors"
	"github.com/hpungsan/seodraft/internal/ops"
	"github.com/hpungsan/seodraft/internal/pipeline"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	pipeline *pipeline.Pipeline
	store    *db.Store
}

// NewHandlers creates a new Handlers instance. p may be nil when generation
// is not configured.
func NewHandlers(p *pipeline.Pipeline, store *db.Store) *Handlers {
	return &Handlers{pipeline: p, store: store}
}

// Request types for each tool

// GenerateRequest represents the arguments for post_generate.
type GenerateRequest struct {
	Keyword string `json:"keyword"`
}

// DraftsRequest represents the arguments for post_drafts.
type DraftsRequest struct {
	Limit int `json:"limit,omitempty"`
}

// FetchRequest represents the arguments for post_fetch.
type FetchRequest struct {
	ID          any  `json:"id"`
	IncludeHTML bool `json:"include_html,omitempty"`
}

// EnqueueRequest represents the arguments for queue_enqueue.
type EnqueueRequest struct {
	Keyword     string `json:"keyword"`
	Platform    string `json:"platform,omitempty"`
	ScheduledAt string `json:"scheduled_at"`
}

// QueueListRequest represents the arguments for queue_list.
type QueueListRequest struct {
	Status string `json:"status,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// Handler implementations

// HandleGenerate handles the post_generate tool call.
func (h *Handlers) HandleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GenerateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	result, err := ops.Generate(ctx, h.pipeline, ops.GenerateInput{Keyword: input.Keyword})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDrafts handles the post_drafts tool call.
func (h *Handlers) HandleDrafts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DraftsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	result, err := ops.ListDrafts(ctx, h.store, ops.ListDraftsInput{Limit: input.Limit})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleFetch handles the post_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	result, err := ops.GetPost(ctx, h.store, ops.GetPostInput{
		ID:          idString(input.ID),
		IncludeHTML: input.IncludeHTML,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleEnqueue handles the queue_enqueue tool call.
func (h *Handlers) HandleEnqueue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[EnqueueRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	result, err := ops.Enqueue(ctx, h.store, ops.EnqueueInput{
		Keyword:     input.Keyword,
		Platform:    input.Platform,
		ScheduledAt: input.ScheduledAt,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleQueueList handles the queue_list tool call.
func (h *Handlers) HandleQueueList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[QueueListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	result, err := ops.ListQueue(ctx, h.store, ops.ListQueueInput{
		Status: input.Status,
		Limit:  input.Limit,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleHealth handles the health_check tool call.
func (h *Handlers) HandleHealth(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Health(ctx, h.store)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Storage and unknown errors never carry details, which may hold SQL or paths.
func errorResult(err error) *mcp.CallToolResult {
	dErr := errors.From(err)

	errorObj := map[string]any{
		"code":    dErr.Code,
		"message": dErr.Message,
	}
	if dErr.Code != errors.ErrStorage && dErr.Code != errors.ErrUnknown && dErr.Details != nil {
		errorObj["details"] = dErr.Details
	}

	content, _ := json.Marshal(map[string]any{"error": errorObj})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
