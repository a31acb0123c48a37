// Package resolve decides which editor codec and format pairing to use for a
// model file, from its path and (when available) its parsed content. Content
// shape outranks the extension for the ambiguous .json suffix; unambiguous
// suffixes are authoritative. Rules are evaluated in fixed priority order and
// the first match wins.
package resolve

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Codec and format ids from the editor's fixed catalog.
const (
	CodecProject      = "project"
	CodecBedrock      = "bedrock"
	CodecJavaBlock    = "java_block"
	CodecOptiFineEnt  = "optifine_entity"
	CodecOptiFinePart = "optifine_part"

	FormatFree         = "free"
	FormatBedrock      = "bedrock"
	FormatJavaBlock    = "java_block"
	FormatOptiFineEnt  = "optifine_entity"
	FormatOptiFinePart = "optifine_part"
)

// File suffixes recognized by the resolver.
const (
	SuffixProject  = ".bbmodel"
	SuffixGeometry = ".geo.json"
	SuffixJSON     = ".json"
	SuffixEntity   = ".jem"
	SuffixPart     = ".jpm"
)

// Binding pairs a format id with the codec that loads it.
type Binding struct {
	FormatID string `json:"format_id"`
	CodecID  string `json:"codec_id"`
}

// CapabilityError indicates a path requires a codec this editor build does
// not expose. It is raised, never silently defaulted, because the legacy
// suffix families have no safe fallback.
type CapabilityError struct {
	Path    string
	CodecID string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("resolve: %s requires codec %q which is not available", e.Path, e.CodecID)
}

// Resolver selects bindings against a fixed set of available codecs.
type Resolver struct {
	available map[string]struct{}
}

// New creates a resolver that treats the given codec ids as available.
func New(codecIDs ...string) *Resolver {
	available := make(map[string]struct{}, len(codecIDs))
	for _, id := range codecIDs {
		available[id] = struct{}{}
	}
	return &Resolver{available: available}
}

// Resolve picks the binding for a path and its parsed content. Content may be
// nil when the file was unreadable or not valid JSON; resolution then falls
// back to extension rules alone. The only failure mode is CapabilityError for
// the legacy entity/part suffixes; everything else resolves, unresolvable
// inputs landing on the generic project binding.
func (r *Resolver) Resolve(path string, content map[string]any) (Binding, error) {
	name := strings.ToLower(filepath.Base(path))

	// Native project files, either by suffix or an explicit internal format
	// tag written by the editor.
	if strings.HasSuffix(name, SuffixProject) || modelFormatTag(content) != "" {
		formatID := modelFormatTag(content)
		if formatID == "" {
			formatID = FormatFree
		}
		return Binding{FormatID: formatID, CodecID: CodecProject}, nil
	}

	// Bedrock geometry: the compound suffix is checked against the full
	// filename so "model.geo.json" is never mistaken for plain .json.
	if strings.HasSuffix(name, SuffixGeometry) || hasKey(content, "minecraft:geometry") || hasKey(content, "format_version") {
		return Binding{FormatID: FormatBedrock, CodecID: CodecBedrock}, nil
	}

	// Java block/item models share the .json suffix with unrelated formats,
	// so the content shape decides.
	if strings.HasSuffix(name, SuffixJSON) && (hasKey(content, "elements") || hasKey(content, "textures")) {
		return Binding{FormatID: FormatJavaBlock, CodecID: CodecJavaBlock}, nil
	}

	if strings.HasSuffix(name, SuffixEntity) {
		return r.legacyBinding(path, FormatOptiFineEnt, CodecOptiFineEnt)
	}
	if strings.HasSuffix(name, SuffixPart) {
		return r.legacyBinding(path, FormatOptiFinePart, CodecOptiFinePart)
	}

	return Binding{FormatID: FormatFree, CodecID: CodecProject}, nil
}

func (r *Resolver) legacyBinding(path, formatID, codecID string) (Binding, error) {
	if _, ok := r.available[codecID]; !ok {
		return Binding{}, &CapabilityError{Path: path, CodecID: codecID}
	}
	return Binding{FormatID: formatID, CodecID: codecID}, nil
}

func modelFormatTag(content map[string]any) string {
	meta, ok := content["meta"].(map[string]any)
	if !ok {
		return ""
	}
	tag, _ := meta["model_format"].(string)
	return tag
}

func hasKey(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}
