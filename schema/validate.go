package schema

import (
	"fmt"
	"math"
	"slices"
)

// Validate checks raw arguments against the declared parameter set.
//
// On success the returned map contains every declared parameter that was
// either supplied or carries a default; types are coerced where JSON decoding
// is lossy (float64 -> integer for whole numbers). Unknown argument names and
// type mismatches produce error diagnostics; validation never partially
// applies defaults when it fails.
func Validate(specs Object, raw map[string]any) (map[string]any, Result) {
	result := Result{Diagnostics: make([]Diagnostic, 0)}
	validated := make(map[string]any, len(specs))

	for name := range raw {
		if _, ok := specs[name]; !ok {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Param:    name,
				Code:     "UNKNOWN_PARAM",
				Severity: SeverityError,
				Message:  fmt.Sprintf("Unknown parameter %q", name),
			})
		}
	}

	for _, name := range specs.ParamNames() {
		spec := specs[name]
		value, supplied := raw[name]
		if !supplied {
			if spec.Required {
				result.Diagnostics = append(result.Diagnostics, Diagnostic{
					Param:    name,
					Code:     "REQUIRED_PARAM",
					Severity: SeverityError,
					Message:  fmt.Sprintf("Parameter %q is required", name),
				})
				continue
			}
			if spec.Default != nil {
				validated[name] = spec.Default
			}
			continue
		}

		coerced, diag := checkValue(name, spec, value)
		if diag != nil {
			result.Diagnostics = append(result.Diagnostics, *diag)
			continue
		}
		validated[name] = coerced
	}

	if result.HasErrors() {
		return nil, result
	}
	return validated, result
}

func checkValue(name string, spec ParamSpec, value any) (any, *Diagnostic) {
	if !isValidType(spec.Type) {
		return nil, &Diagnostic{
			Param:    name,
			Code:     "INVALID_SPEC_TYPE",
			Severity: SeverityError,
			Message:  fmt.Sprintf("Parameter %q declares unsupported type %q", name, spec.Type),
		}
	}

	switch spec.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, typeMismatch(name, spec.Type, value)
		}
		if len(spec.Enum) > 0 && !slices.Contains(spec.Enum, s) {
			return nil, &Diagnostic{
				Param:    name,
				Code:     "ENUM_MISMATCH",
				Severity: SeverityError,
				Message:  fmt.Sprintf("Parameter %q must be one of %v, got %q", name, spec.Enum, s),
			}
		}
		return s, nil

	case TypeBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, typeMismatch(name, spec.Type, value)
		}
		return b, nil

	case TypeInteger:
		switch n := value.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case float64:
			if n != math.Trunc(n) {
				return nil, typeMismatch(name, spec.Type, value)
			}
			return int(n), nil
		}
		return nil, typeMismatch(name, spec.Type, value)

	case TypeFloat:
		switch n := value.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		}
		return nil, typeMismatch(name, spec.Type, value)

	case TypeArray:
		items, ok := value.([]any)
		if !ok {
			// JSON decoding always yields []any; typed slices show up when a
			// caller invokes the registry directly from Go.
			if strs, isStrs := value.([]string); isStrs {
				items = make([]any, len(strs))
				for i, s := range strs {
					items[i] = s
				}
			} else {
				return nil, typeMismatch(name, spec.Type, value)
			}
		}
		if spec.Items != nil {
			out := make([]any, len(items))
			for i, item := range items {
				coerced, diag := checkValue(fmt.Sprintf("%s[%d]", name, i), *spec.Items, item)
				if diag != nil {
					return nil, diag
				}
				out[i] = coerced
			}
			return out, nil
		}
		return items, nil

	case TypeObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return nil, typeMismatch(name, spec.Type, value)
		}
		return obj, nil
	}

	return nil, typeMismatch(name, spec.Type, value)
}

func typeMismatch(name, want string, got any) *Diagnostic {
	return &Diagnostic{
		Param:    name,
		Code:     "TYPE_MISMATCH",
		Severity: SeverityError,
		Message:  fmt.Sprintf("Parameter %q must be %s, got %T", name, want, got),
	}
}
