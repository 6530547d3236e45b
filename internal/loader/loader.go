// Package loader adapts ready sources to decode plugin invocations, one
// loader per decode path. Loader failures are captured into the outcome
// rather than propagated so a bad source never takes down a batch.
package loader

import (
	"context"

	types "ClipForge/pkg"
	"ClipForge/pkg/plugin"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Input describes one ready source handed to a loader. Kwargs arrive already
// merged (explicit over configured over built-in).
type Input struct {
	RequestID   uuid.UUID
	SourcePath  string
	IndexPath   string
	OutputIndex *int
	Kwargs      map[string]interface{}
	Logger      *zap.Logger
}

// Outcome is the uniform result of one load attempt.
type Outcome struct {
	Clip             *plugin.Clip
	OK               bool
	Err              error
	AvailableOutputs []int
	SelectedOutput   *int
}

type Loader interface {
	Load(ctx context.Context, in Input) Outcome
}

// ForKind maps each source kind to its loader over the given decode plugin.
// Adding a kind means extending this table, not branching elsewhere.
func ForKind(kind types.SourceKind, p plugin.Plugin) (Loader, bool) {
	switch kind {
	case types.KindScript:
		return &Script{plugin: p}, true
	case types.KindMpeg2:
		return &Mpeg2{plugin: p}, true
	case types.KindFfms2:
		return &Ffms2{plugin: p}, true
	case types.KindNative:
		return &Native{plugin: p}, true
	case types.KindImage:
		return &Image{plugin: p}, true
	default:
		return nil, false
	}
}

func failed(err error) Outcome {
	return Outcome{Err: err}
}

func succeeded(out plugin.Output) Outcome {
	o := Outcome{Clip: out.Clip, OK: true, AvailableOutputs: out.AvailableOutputs}
	if len(out.AvailableOutputs) > 0 {
		sel := out.SelectedOutput
		o.SelectedOutput = &sel
	}
	return o
}

func cloneKwargs(kwargs map[string]interface{}) map[string]interface{} {
	cloned := make(map[string]interface{}, len(kwargs))
	for k, v := range kwargs {
		cloned[k] = v
	}
	return cloned
}
