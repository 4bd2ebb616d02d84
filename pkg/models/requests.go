package models

// ValidateGraphRequest is the body of POST /workflows/:id/validate. Nil Options means every check.
type ValidateGraphRequest struct {
	Graph   *Graph           `json:"graph"             validate:"required"`
	Options *ValidateOptions `json:"options,omitempty"`
}

// ExecutionOrderRequest is the body of POST /workflows/:id/execution-order.
type ExecutionOrderRequest struct {
	Graph *Graph `json:"graph" validate:"required"`
}

// ValidateGraphRequestSchema describes the JSON shape of a ValidateGraphRequest.
const ValidateGraphRequestSchema = `{
	"type": "object",
	"required": ["graph"],
	"properties": {
		"graph": ` + GraphSchema + `,
		"options": {
			"type": ["object", "null"],
			"properties": {
				"include_warnings": {"type": "boolean"},
				"validate_connections": {"type": "boolean"},
				"check_cycles": {"type": "boolean"}
			}
		}
	}
}`

// ExecutionOrderRequestSchema describes the JSON shape of an ExecutionOrderRequest.
const ExecutionOrderRequestSchema = `{
	"type": "object",
	"required": ["graph"],
	"properties": {
		"graph": ` + GraphSchema + `
	}
}`

// SaveGraphRequest is the body of PUT /workflows/:id/graph. An empty Name keeps the stored name.
type SaveGraphRequest struct {
	Name  string `json:"name,omitempty" validate:"omitempty,max=200"`
	Graph *Graph `json:"graph"          validate:"required"`
}

// SaveGraphRequestSchema describes the JSON shape of a SaveGraphRequest.
const SaveGraphRequestSchema = `{
	"type": "object",
	"required": ["graph"],
	"properties": {
		"name": {"type": "string"},
		"graph": ` + GraphSchema + `
	}
}`
