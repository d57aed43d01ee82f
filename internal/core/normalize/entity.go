package normalize

import "github.com/costasur/portal-clientes/internal/core/domain"

// Unwrap flattens a record that may carry its fields under "attributes",
// keeping the wrapper-level id and documentId when the inner map lacks them.
func Unwrap(e domain.Entity) domain.Entity {
	attrs, ok := e["attributes"].(map[string]any)
	if !ok {
		return e
	}
	out := make(domain.Entity, len(attrs)+2)
	for k, v := range attrs {
		out[k] = v
	}
	if _, ok := out["id"]; !ok {
		if id, ok := e["id"]; ok {
			out["id"] = id
		}
	}
	if _, ok := out["documentId"]; !ok {
		if doc, ok := e["documentId"]; ok {
			out["documentId"] = doc
		}
	}
	return out
}

// relation wrappers observed across backend versions, outermost first.
var idPaths = []string{"", "attributes", "data", "data.attributes"}

// NumericID extracts the numeric id of a record or relation reference,
// whichever nesting level carries it.
func NumericID(v any) (int, bool) {
	for _, p := range idPaths {
		if n, ok := Number(Lookup(v, join(p, "id"))); ok {
			return int(n), true
		}
	}
	return 0, false
}

// DocumentID extracts the stable documentId of a record or relation
// reference, or "" when absent.
func DocumentID(v any) string {
	for _, p := range idPaths {
		if s := String(v, join(p, "documentId")); s != "" {
			return s
		}
	}
	return ""
}

func join(prefix, field string) string {
	if prefix == "" {
		return field
	}
	return prefix + "." + field
}
