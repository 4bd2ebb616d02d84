// Package web provides the HTTP endpoints of the flowgraph validation service.
package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dukex/flowgraph/pkg/compat"
	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/registry"
	"github.com/dukex/flowgraph/pkg/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	validationService *services.Validation
	workflowService   *services.Workflow
	validator         *validator.Validate
	registry          *registry.Registry
	matrix            *compat.Matrix
}

func NewAPIHandlers(
	validationService *services.Validation,
	workflowService *services.Workflow,
	validator *validator.Validate,
	registry *registry.Registry,
	matrix *compat.Matrix,
) *APIHandlers {
	return &APIHandlers{
		validationService: validationService,
		workflowService:   workflowService,
		validator:         validator,
		registry:          registry,
		matrix:            matrix,
	}
}

// Routes mounts every endpoint on app.
func (h *APIHandlers) Routes(app *fiber.App) {
	w := app.Group("/workflows")
	w.Get("/", h.GetWorkflows)
	w.Post("/:id/validate", h.ValidateGraph)
	w.Post("/:id/execution-order", h.GetExecutionOrder)
	w.Get("/:id/graph", h.GetGraph)
	w.Put("/:id/graph", h.SaveGraph)
	w.Delete("/:id/graph", h.DeleteGraph)

	p := app.Group("/port-types")
	p.Get("/", h.GetPortTypes)
	p.Get("/compatibility", h.CheckPortCompatibility)

	app.Get("/node-types", h.GetNodeTypes)
	app.Get("/health", h.HealthCheck)
}

func (h *APIHandlers) ValidateGraph(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req models.ValidateGraphRequest
	if err := h.decode(c, models.ValidateGraphRequestSchema, &req); err != nil {
		return badRequest(c, err.Error())
	}

	opts := models.DefaultValidateOptions()
	if req.Options != nil {
		opts = *req.Options
	}

	result := h.validationService.ValidateGraph(c.Context(), models.GraphRef{WorkflowID: id, Graph: req.Graph}, opts)
	if issue, ok := unavailable(result.Issues); ok {
		return invalidGraph(c, issue.Message)
	}

	return c.JSON(result)
}

func (h *APIHandlers) GetExecutionOrder(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req models.ExecutionOrderRequest
	if err := h.decode(c, models.ExecutionOrderRequestSchema, &req); err != nil {
		return badRequest(c, err.Error())
	}

	result := h.validationService.GetExecutionOrder(c.Context(), models.GraphRef{WorkflowID: id, Graph: req.Graph})
	if issue, ok := unavailable(result.Issues); ok {
		return invalidGraph(c, issue.Message)
	}

	return c.JSON(result)
}

func (h *APIHandlers) CheckPortCompatibility(c fiber.Ctx) error {
	source := c.Query("source")
	target := c.Query("target")

	if source == "" || target == "" {
		return badRequest(c, "Both source and target port types are required")
	}

	result := h.validationService.CheckPortCompatibility(c.Context(), models.PortType(source), models.PortType(target))

	return c.JSON(result)
}

func (h *APIHandlers) GetPortTypes(c fiber.Ctx) error {
	return c.JSON(TransformPortTypes(h.matrix))
}

func (h *APIHandlers) GetNodeTypes(c fiber.Ctx) error {
	return c.JSON(h.registry.NodeTypes())
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.workflowService.Workflows(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	response := make([]WorkflowSummary, 0, len(workflows))
	for _, workflow := range workflows {
		response = append(response, TransformWorkflowSummary(workflow))
	}

	return c.JSON(response)
}

func (h *APIHandlers) GetGraph(c fiber.Ctx) error {
	workflow, err := h.workflowService.Graph(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) SaveGraph(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req models.SaveGraphRequest
	if err := h.decode(c, models.SaveGraphRequestSchema, &req); err != nil {
		return badRequest(c, err.Error())
	}

	workflow, err := h.workflowService.SaveGraph(c.Context(), id, req.Name, req.Graph)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) DeleteGraph(c fiber.Ctx) error {
	err := h.workflowService.DeleteGraph(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	registryCheck, regOk := h.registry.HealthCheck()
	repositoryCheck, repOk := h.workflowService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Flowgraph API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if regOk && repOk {
		status = "healthy"
		message = "Flowgraph API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"registry":   registryCheck,
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

// decode checks the raw body against schema, then decodes it into req and applies its struct rules.
func (h *APIHandlers) decode(c fiber.Ctx, schema string, req any) error {
	body := c.Body()

	if err := models.ValidateJSON(schema, body); err != nil {
		return err
	}

	if err := json.Unmarshal(body, req); err != nil {
		return err
	}

	return h.validator.Struct(req)
}

// unavailable returns the synthetic issue of a degraded result. With an inline graph and the local
// engine, degradation only happens for graphs the engine refuses to read.
func unavailable(issues []models.ValidationIssue) (models.ValidationIssue, bool) {
	for _, issue := range issues {
		if issue.Kind == models.IssueValidationUnavailable {
			return issue, true
		}
	}

	return models.ValidationIssue{}, false
}
