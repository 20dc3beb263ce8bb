package serve

import (
	"encoding/json"

	"github.com/praetorian-inc/schematic/pkg/solver"
)

// Request represents an incoming NDJSON request
type Request struct {
	Type    string          `json:"type"` // "solve" | "solve_batch" | "close"
	Payload json.RawMessage `json:"payload"`
}

// SolvePayload is the payload for "solve" requests
type SolvePayload struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

// SolveBatchPayload is the payload for "solve_batch" requests
type SolveBatchPayload struct {
	Items []solver.ContentItem `json:"items"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"` // "ready" | "solve" | "solve_batch" | "decode" | "unknown"
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version string `json:"version"`
}
