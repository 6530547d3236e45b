package plugin

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Plugin is a decode plugin: it turns a ready source (plus an optional index
// artifact) into a clip handle. Implementations live outside this module.
type Plugin interface {
	// Name returns the unique plugin identifier, e.g. "ffms2.Source".
	Name() string

	// Open decodes the source described by the input into a clip handle.
	Open(ctx context.Context, input Input) (Output, error)

	// Validate checks if the keyword arguments are acceptable for this plugin.
	Validate(kwargs map[string]interface{}) error
}

// Input contains the parameters for opening one source.
type Input struct {
	RequestID     uuid.UUID              // request ID for log correlation
	SourcePath    string                 // input media or script path
	SequencePaths []string               // expanded image run, image plugins only
	IndexPath     string                 // sidecar index artifact, empty when not required
	OutputIndex   *int                   // wanted script output, nil selects the first
	Kwargs        map[string]interface{} // plugin keyword arguments, already merged
}

// Output contains the results of opening one source.
type Output struct {
	Clip             *Clip
	AvailableOutputs []int // script outputs in declaration order, nil otherwise
	SelectedOutput   int   // index chosen from AvailableOutputs, 0 otherwise
}

// NoOutputError reports that a script exposed no usable output, or that the
// wanted output index was not among the discovered ones.
type NoOutputError struct {
	Script    string
	Wanted    *int
	Available []int
}

func (e *NoOutputError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("no video output found in %q", e.Script)
	}
	avail := make([]string, len(e.Available))
	for i, n := range e.Available {
		avail[i] = fmt.Sprint(n)
	}
	wanted := "?"
	if e.Wanted != nil {
		wanted = fmt.Sprint(*e.Wanted)
	}
	return fmt.Sprintf("wanted output index %s not found in %q, available outputs: %s",
		wanted, e.Script, strings.Join(avail, ","))
}
