package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrSchemaViolation indicates a JSON document does not match its expected shape.
var ErrSchemaViolation = errors.New("document does not match schema")

const portSchema = `{
	"type": "object",
	"required": ["id", "port_type"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"name": {"type": "string"},
		"port_type": {"type": "string", "minLength": 1},
		"required": {"type": "boolean"},
		"accepts_multiple": {"type": "boolean"}
	}
}`

// GraphSchema describes the JSON shape of a graph snapshot.
const GraphSchema = `{
	"type": "object",
	"required": ["nodes"],
	"properties": {
		"nodes": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "node_type"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"node_type": {"type": "string", "minLength": 1},
					"category": {"type": "string"},
					"inputs": {"type": ["array", "null"], "items": ` + portSchema + `},
					"outputs": {"type": ["array", "null"], "items": ` + portSchema + `}
				}
			}
		},
		"edges": {
			"type": ["array", "null"],
			"items": {
				"type": "object",
				"required": ["id", "source_node_id", "source_port_id", "target_node_id", "target_port_id"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"source_node_id": {"type": "string"},
					"source_port_id": {"type": "string"},
					"target_node_id": {"type": "string"},
					"target_port_id": {"type": "string"}
				}
			}
		}
	}
}`

const issueSchema = `{
	"type": "object",
	"required": ["kind", "severity", "message"],
	"properties": {
		"kind": {"type": "string"},
		"severity": {"enum": ["error", "warning", "info"]},
		"message": {"type": "string"},
		"node_id": {"type": "string"},
		"edge_id": {"type": "string"},
		"node_ids": {"type": "array", "items": {"type": "string"}}
	}
}`

// ValidationResultSchema describes the JSON shape of a ValidationResult.
const ValidationResultSchema = `{
	"type": "object",
	"required": ["valid", "issues", "stats"],
	"properties": {
		"valid": {"type": "boolean"},
		"issues": {"type": ["array", "null"], "items": ` + issueSchema + `},
		"stats": {
			"type": "object",
			"required": ["total_nodes", "connected_nodes", "isolated_nodes"],
			"properties": {
				"total_nodes": {"type": "integer", "minimum": 0},
				"connected_nodes": {"type": "integer", "minimum": 0},
				"isolated_nodes": {"type": "integer", "minimum": 0}
			}
		}
	}
}`

// ExecutionOrderResultSchema describes the JSON shape of an ExecutionOrderResult.
const ExecutionOrderResultSchema = `{
	"type": "object",
	"required": ["order", "parallel_groups", "has_cycles"],
	"properties": {
		"order": {"type": ["array", "null"], "items": {"type": "string"}},
		"parallel_groups": {
			"type": ["array", "null"],
			"items": {"type": "array", "items": {"type": "string"}}
		},
		"has_cycles": {"type": "boolean"},
		"cycle_nodes": {"type": "array", "items": {"type": "string"}},
		"issues": {"type": "array", "items": ` + issueSchema + `}
	}
}`

// CompatibilityResultSchema describes the JSON shape of a CompatibilityResult.
const CompatibilityResultSchema = `{
	"type": "object",
	"required": ["compatible", "reason"],
	"properties": {
		"compatible": {"type": "boolean"},
		"reason": {"type": "string"}
	}
}`

// ValidateJSON checks a raw JSON document against one of the schemas above.
func ValidateJSON(schema string, document []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(document),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaViolation, err)
	}

	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}

	return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(details, "; "))
}
