package normalize

import "strings"

// fileRefKind tags the known file-reference shapes. A reference the backend
// returns is exactly one of these; anything else resolves to absent.
type fileRefKind int

const (
	refNone       fileRefKind = iota
	refBare                   // "http://x/f.png" or "/uploads/f.png"
	refDirect                 // {url: "..."}
	refPopulated              // {data: {attributes: {url: "..."}}}
	refAttributed             // {attributes: {url: "..."}}
	refList                   // [ref, ...], first element wins
)

func classifyFileRef(ref any) fileRefKind {
	switch v := ref.(type) {
	case string:
		if v != "" {
			return refBare
		}
	case map[string]any:
		if String(v, "url") != "" {
			return refDirect
		}
		if String(v, "data.attributes.url") != "" {
			return refPopulated
		}
		if String(v, "attributes.url") != "" {
			return refAttributed
		}
	case []any:
		if len(v) > 0 {
			return refList
		}
	}
	return refNone
}

// ResolveFileURL extracts one absolute URL from a file reference in any of
// the known shapes, or "" when none matches. Relative paths are prefixed with
// base.
func ResolveFileURL(ref any, base string) string {
	switch classifyFileRef(ref) {
	case refBare:
		return absolutize(ref.(string), base)
	case refDirect:
		return absolutize(String(ref, "url"), base)
	case refPopulated:
		return absolutize(String(ref, "data.attributes.url"), base)
	case refAttributed:
		return absolutize(String(ref, "attributes.url"), base)
	case refList:
		return ResolveFileURL(ref.([]any)[0], base)
	}
	return ""
}

func absolutize(u, base string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return strings.TrimSuffix(base, "/") + u
}
