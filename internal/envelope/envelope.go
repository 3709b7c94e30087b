package envelope

import (
	"github.com/confmgrlabs/goadapter/internal/document"
)

const (
	// AdapterType identifies this adapter family in every envelope,
	// regardless of operation or resource type.
	AdapterType = "Microsoft.DSC.Adapters/Go"
	// MetadataNamespace is the key under which operation metadata is nested.
	MetadataNamespace = "Microsoft.DSC"
)

// Envelope is the single top-level JSON object written to stdout by every
// adapter invocation.
type Envelope struct {
	Type     string           `json:"type"`
	Metadata Metadata         `json:"metadata"`
	Result   []ResourceResult `json:"result"`
}

// Metadata nests operation metadata under the adapter's namespace key.
type Metadata struct {
	Namespace OperationMetadata `json:"Microsoft.DSC"`
}

// OperationMetadata records which operation produced the envelope.
type OperationMetadata struct {
	Operation string `json:"operation"`
}

// ResourceResult describes one resource instance touched by the operation.
// The result array preserves invocation/enumeration order.
type ResourceResult struct {
	Type   string `json:"type"`
	Result any    `json:"result"`
}

// GetResult is the per-resource payload for Get and Export.
type GetResult struct {
	ActualState document.Document `json:"actualState"`
}

// SetResult is the per-resource payload for Set.
type SetResult struct {
	ChangedProperties []string          `json:"changedProperties"`
	ActualState       document.Document `json:"actualState"`
}

// TestResult is the per-resource payload for Test.
type TestResult struct {
	InDesiredState      bool              `json:"inDesiredState"`
	ActualState         document.Document `json:"actualState"`
	DifferingProperties []string          `json:"differingProperties"`
}

// New builds an envelope for the given operation and resource results.
func New(operation string, results []ResourceResult) *Envelope {
	return &Envelope{
		Type:     AdapterType,
		Metadata: Metadata{Namespace: OperationMetadata{Operation: operation}},
		Result:   results,
	}
}
