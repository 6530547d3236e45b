package source

import (
	"path/filepath"
	"strings"

	"ClipForge/pkg/plugin"

	"github.com/google/uuid"
)

// Result is the record produced for one requested path. It is immutable once
// returned and owned solely by the caller; nothing in the dispatcher keeps a
// reference. IsError implies Clip is nil; SelectedOutput, when set, appears
// in AvailableOutputs.
type Result struct {
	RequestID        uuid.UUID
	Clip             *plugin.Clip
	IsError          bool
	Log              string
	LogError         string
	FailedExecPath   string
	SelectedOutput   *int
	AvailableOutputs []int
	Label            string
	SourcePath       string
	SourceExt        string
	FormatHints      map[string]interface{}
}

// maxLabelStem keeps labels readable in narrow UIs downstream.
const maxLabelStem = 27

// Label derives the short display name for a path: stem plus extension,
// truncated from the left with a tilde when the stem runs long. Truncation
// counts runes so a multibyte stem is never cut mid-character.
func Label(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := []rune(strings.TrimSuffix(base, ext))
	if len(stem) <= maxLabelStem {
		return string(stem) + ext
	}
	return "~" + string(stem[len(stem)-maxLabelStem:]) + ext
}
