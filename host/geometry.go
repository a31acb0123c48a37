package host

import (
	"encoding/json"
	"fmt"
)

// GeometryKind tags the shape of a compiled geometry result.
type GeometryKind string

const (
	// GeometryText is pre-serialized JSON text produced by the editor codec.
	GeometryText GeometryKind = "text"
	// GeometryStructured is an in-memory JSON value not yet serialized.
	GeometryStructured GeometryKind = "structured"
)

// GeometryOutput is the normalized result of compiling project geometry.
// Editor codecs return either serialized text or a structured value; callers
// see one tagged type and render it through Render.
type GeometryOutput struct {
	Kind  GeometryKind
	Text  string
	Value any
}

// TextOutput wraps pre-serialized geometry JSON.
func TextOutput(text string) GeometryOutput {
	return GeometryOutput{Kind: GeometryText, Text: text}
}

// StructuredOutput wraps an unserialized geometry value.
func StructuredOutput(value any) GeometryOutput {
	return GeometryOutput{Kind: GeometryStructured, Value: value}
}

// Render serializes the output to JSON text. Text outputs are returned
// unchanged; structured outputs are marshaled, indented when pretty is set.
func (o GeometryOutput) Render(pretty bool) (string, error) {
	switch o.Kind {
	case GeometryText:
		return o.Text, nil
	case GeometryStructured:
		var (
			data []byte
			err  error
		)
		if pretty {
			data, err = json.MarshalIndent(o.Value, "", "\t")
		} else {
			data, err = json.Marshal(o.Value)
		}
		if err != nil {
			return "", fmt.Errorf("host: render geometry: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("host: render geometry: unknown kind %q", o.Kind)
	}
}
