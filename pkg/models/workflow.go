// Package models defines the core domain models for the IntelliFlow workflow builder.
package models

import "time"

// Workflow represents a stored component graph built in the visual editor.
// Edges are cosmetic: execution dispatches on node type, not on connectivity.
type Workflow struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"        validate:"required,min=1"`
	Description string          `json:"description"`
	Nodes       []*WorkflowNode `json:"nodes"`
	Edges       []*WorkflowEdge `json:"edges"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Active      bool            `json:"is_active"`
}

// Position is the node placement on the canvas. Display-only.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// WorkflowNode is one typed component instance in a workflow graph.
// Data holds the raw component configuration as produced by the editor.
type WorkflowNode struct {
	ID       string         `json:"id"       validate:"required"`
	Type     string         `json:"type"     validate:"required"`
	Position Position       `json:"position"`
	Data     map[string]any `json:"data"`
}

// WorkflowEdge connects two nodes on the canvas.
type WorkflowEdge struct {
	ID     string `json:"id"`
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
	Type   string `json:"type,omitempty"`
}

// DefaultEdgeType is the editor's default edge style tag.
const DefaultEdgeType = "smoothstep"

// NodesByType returns the workflow's nodes with the given component type,
// preserving node array order.
func (w *Workflow) NodesByType(componentType string) []*WorkflowNode {
	var nodes []*WorkflowNode

	for _, node := range w.Nodes {
		if node.Type == componentType {
			nodes = append(nodes, node)
		}
	}

	return nodes
}
