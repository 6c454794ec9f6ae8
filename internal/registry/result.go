package registry

import (
	"encoding/json"
	"time"

	"github.com/draftsmith-io/draftsmith/internal/schema"
)

// Kind classifies an invocation outcome.
type Kind string

// Outcome kinds.
const (
	KindOK          Kind = "ok"
	KindValidation  Kind = "validation"
	KindUnknownTool Kind = "unknown_tool"
	KindRender      Kind = "render"
)

// Result is the complete outcome of one tool invocation. It is created per
// call, returned to the caller, handed to the observer, and then forgotten —
// the registry keeps no record of it.
//
// Success and Kind agree: Success is true exactly when Kind is KindOK.
// Errors carries every field-level failure for validation outcomes, a single
// soft entry for unknown tools, and a single opaque entry for render faults
// (the underlying cause is logged, not returned — a render fault is a bug in
// a tool, not something the caller can fix).
type Result struct {
	Tool     string              `json:"tool"`
	ID       string              `json:"id"`
	Success  bool                `json:"success"`
	Kind     Kind                `json:"kind"`
	Output   string              `json:"output,omitempty"`
	Errors   []schema.FieldError `json:"errors,omitempty"`
	Duration time.Duration       `json:"-"`
}

// MarshalJSON emits Duration in milliseconds under duration_ms.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	return json.Marshal(struct {
		alias
		DurationMS int64 `json:"duration_ms"`
	}{alias(r), r.Duration.Milliseconds()})
}
