package source

import (
	"path/filepath"
	"strings"

	types "ClipForge/pkg"
)

// Classifier maps a path's lower-cased extension to its plugin map entry.
// Classification is pure table lookup: no filesystem access, deterministic
// and total over all inputs.
type Classifier struct {
	byExt map[string]types.PluginMapEntry
}

// NewClassifier builds the extension table. When two entries claim the same
// extension the earlier one wins, matching the plugin map's declaration
// order.
func NewClassifier(entries []types.PluginMapEntry) *Classifier {
	byExt := make(map[string]types.PluginMapEntry)
	for _, entry := range entries {
		for _, ext := range entry.Extensions {
			if _, taken := byExt[ext]; !taken {
				byExt[ext] = entry
			}
		}
	}
	return &Classifier{byExt: byExt}
}

// Classify returns the source kind for a path, KindUnknown when no entry
// claims its extension.
func (c *Classifier) Classify(path string) types.SourceKind {
	if entry, ok := c.Lookup(path); ok {
		return entry.Kind
	}
	return types.KindUnknown
}

// Lookup returns the plugin map entry claiming the path's extension.
func (c *Classifier) Lookup(path string) (types.PluginMapEntry, bool) {
	entry, ok := c.byExt[Ext(path)]
	return entry, ok
}

// Ext returns a path's extension lower-cased and without the dot.
func Ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
