package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/google/uuid"
)

const (
	// DefaultRemoteTimeout bounds one remote call including reading the response.
	DefaultRemoteTimeout = 3 * time.Second

	// RequestIDHeader carries the correlation id of a remote call.
	RequestIDHeader = "X-Request-ID"

	maxResponseBytes = 8 << 20
)

// RemoteAdapter calls a flowgraph API over HTTP. Responses are checked against the result schemas
// before they are trusted.
type RemoteAdapter struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewRemoteAdapter creates an adapter for the API at baseURL. A nil client uses a fresh
// http.Client; a non-positive timeout uses DefaultRemoteTimeout.
func NewRemoteAdapter(logger *slog.Logger, baseURL string, client *http.Client, timeout time.Duration) *RemoteAdapter {
	if client == nil {
		client = &http.Client{}
	}

	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}

	return &RemoteAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		timeout: timeout,
		logger:  logger.With("module", "remote_adapter"),
	}
}

func (a *RemoteAdapter) Name() string {
	return "remote"
}

func (a *RemoteAdapter) Validate(ctx context.Context, workflowID string, g *models.Graph, opts models.ValidateOptions) (*models.ValidationResult, error) {
	var result models.ValidationResult

	body := models.ValidateGraphRequest{Graph: g, Options: &opts}

	err := a.do(ctx, "validate", workflowID, http.MethodPost,
		"/workflows/"+url.PathEscape(workflowID)+"/validate", body,
		models.ValidationResultSchema, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (a *RemoteAdapter) ExecutionOrder(ctx context.Context, workflowID string, g *models.Graph) (*models.ExecutionOrderResult, error) {
	var result models.ExecutionOrderResult

	body := models.ExecutionOrderRequest{Graph: g}

	err := a.do(ctx, "execution-order", workflowID, http.MethodPost,
		"/workflows/"+url.PathEscape(workflowID)+"/execution-order", body,
		models.ExecutionOrderResultSchema, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (a *RemoteAdapter) CheckPortCompatibility(ctx context.Context, source, target models.PortType) (*models.CompatibilityResult, error) {
	var result models.CompatibilityResult

	query := url.Values{}
	query.Set("source", string(source))
	query.Set("target", string(target))

	err := a.do(ctx, "compatibility", "", http.MethodGet,
		"/port-types/compatibility?"+query.Encode(), nil,
		models.CompatibilityResultSchema, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (a *RemoteAdapter) do(ctx context.Context, op, workflowID, method, path string, body any, schema string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	fail := func(status int, err error) error {
		return &RemoteError{Op: op, WorkflowID: workflowID, StatusCode: status, Err: err}
	}

	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fail(0, fmt.Errorf("failed to encode request: %w", err))
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fail(0, err)
	}

	requestID := uuid.New().String()

	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fail(0, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fail(resp.StatusCode, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}

	err = models.ValidateJSON(schema, data)
	if err != nil {
		return fail(resp.StatusCode, err)
	}

	err = json.Unmarshal(data, out)
	if err != nil {
		return fail(resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}

	a.logger.DebugContext(ctx, "Remote call succeeded",
		"op", op,
		"workflow_id", workflowID,
		"request_id", requestID,
	)

	return nil
}
