// Package models defines the graph snapshot, port and result types shared by the validation engine.
package models

// PortType identifies the kind of value a port carries. The set is open: new domains register
// additional types in the compatibility registry instead of extending this file.
type PortType string

// Built-in port types.
const (
	PortTypeAny       PortType = "any"
	PortTypeImage     PortType = "image"
	PortTypeVideo     PortType = "video"
	PortTypeAudio     PortType = "audio"
	PortTypeText      PortType = "text"
	PortTypePrompt    PortType = "prompt"
	PortTypeStyle     PortType = "style"
	PortTypeCharacter PortType = "character"
	PortTypeRoom      PortType = "room"
	PortTypeMoodboard PortType = "moodboard"
	PortTypePost      PortType = "post"
	PortTypeMask      PortType = "mask"
)

// Port represents a typed connection point on a node.
type Port struct {
	ID              string   `json:"id"               validate:"required"`
	Name            string   `json:"name"`
	PortType        PortType `json:"port_type"        validate:"required"`
	Required        bool     `json:"required"`
	AcceptsMultiple bool     `json:"accepts_multiple"`
}

// PortDirection represents the direction of data flow for a port.
type PortDirection string

const (
	PortDirectionInput  PortDirection = "input"
	PortDirectionOutput PortDirection = "output"
)

// ParsePortID parses a port address in format "{node_id}:{port_id}" into components.
func ParsePortID(portID string) (string, string, bool) {
	for i := range len(portID) {
		if portID[i] == ':' {
			return portID[:i], portID[i+1:], true
		}
	}

	return "", "", false
}

// MakePortID creates a port address from node ID and port ID.
func MakePortID(nodeID, portID string) string {
	return nodeID + ":" + portID
}
