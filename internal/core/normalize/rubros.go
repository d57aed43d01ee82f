package normalize

import (
	"sort"
	"strconv"

	"github.com/costasur/portal-clientes/internal/core/domain"
)

// rubroLabels maps backend field names to display labels. The key set is
// fixed: a field qualifies as a rubro only when its name appears here and its
// value is numeric.
var rubroLabels = map[string]string{
	"demolicion":                          "Demolición",
	"movimientoSuelos":                    "Movimiento de suelos",
	"hormigonArmado":                      "Hormigón armado",
	"albanileriaMamposteria":              "Albañilería (Mamposteria)",
	"albanileriaContrapisosCarpetas":      "Albañilería (Contrapisos y carpeta)",
	"albanileriaRevoquesExteriorInterior": "Albañilería (Revoques exterior e interior)",
	"albanileriaTerminacion":              "Albañilería de terminación",
	"carpinteriaExterior":                 "Carpintería exterior",
	"carpinteriaInterior":                 "Carpintería interior",
	"electricista":                        "Electricista",
	"plomeria":                            "Plomería",
	"yesera":                              "Yesería",
	"revestimientoExterior":               "Revestimiento exterior",
	"pintor":                              "Pintura",
	"soladosRevestimientos":               "Solados y revestimientos",
	"aireAcondicionado":                   "Aire acondicionado",
	"mueblesCocinaPlacard":                "Muebles de cocina y placard",
	"marmoleria":                          "Marmolería",
	"cortinasEnrollar":                    "Cortinas de enrollar",
	"ascensores":                          "Ascensores",
	"hererria":                            "Herrería",
	"porteros":                            "Porteros",
	"aislacion":                           "Aislación (membrana)",
	"parquizacion":                        "Parquización",
	"mediasombras":                        "Mediasombras",
	"ajustesPuertasTapas":                 "Ajustes de puertas y tapas",
	"varios":                              "Varios",
}

// maxWalkDepth bounds the recursive walks against pathological nesting.
const maxWalkDepth = 16

// ExtractRubros scans an obra record at every nesting depth for known rubro
// keys with numeric values and returns the breakdown sorted descending by
// percentage. The same key found at several depths is collected once per
// occurrence; ties keep encounter order. Map keys are visited in sorted order
// so the result is deterministic.
func ExtractRubros(obra any) []domain.Rubro {
	var rubros []domain.Rubro
	var walk func(v any, depth int)
	walk = func(v any, depth int) {
		if depth > maxWalkDepth {
			return
		}
		switch node := v.(type) {
		case map[string]any:
			for _, key := range sortedKeys(node) {
				val := node[key]
				if label, known := rubroLabels[key]; known {
					if pct, ok := Number(val); ok {
						rubros = append(rubros, domain.Rubro{Nombre: label, Porcentaje: pct})
					}
				}
				walk(val, depth+1)
			}
		case []any:
			for _, elem := range node {
				walk(elem, depth+1)
			}
		}
	}
	walk(obra, 0)

	sort.SliceStable(rubros, func(i, j int) bool {
		return rubros[i].Porcentaje > rubros[j].Porcentaje
	})
	return rubros
}

// ExtractAvanceTotal returns the obra's total completion percentage. A
// top-level numeric avanceTotal wins; otherwise the first nested occurrence
// (depth-first, sorted key order) with a numeric or numeric-string value is
// used. Absence is not an error: the result is 0.
func ExtractAvanceTotal(obra any) float64 {
	if m, ok := obra.(map[string]any); ok {
		if n, ok := m["avanceTotal"].(float64); ok {
			return n
		}
	}

	var found *float64
	var walk func(v any, depth int)
	walk = func(v any, depth int) {
		if found != nil || depth > maxWalkDepth {
			return
		}
		switch node := v.(type) {
		case map[string]any:
			if raw, ok := node["avanceTotal"]; ok {
				if n, numeric := Number(raw); numeric {
					found = &n
					return
				}
			}
			for _, key := range sortedKeys(node) {
				walk(node[key], depth+1)
			}
		case []any:
			for _, elem := range node {
				walk(elem, depth+1)
			}
		}
	}
	walk(obra, 0)

	if found == nil {
		return 0
	}
	return *found
}

// ExtractRenders returns the obra's render gallery. An existing renders
// collection (array, or {data: [...]}) is trusted exclusively; only when no
// collection exists are the numbered renders1..renders5 fields consulted.
func ExtractRenders(obra domain.Entity, base string) []domain.Render {
	if raw, ok := obra["renders"]; ok && raw != nil {
		if arr, ok := raw.([]any); ok {
			return rendersFromCollection(arr, base)
		}
		if data, ok := Lookup(raw, "data").([]any); ok {
			return rendersFromCollection(data, base)
		}
	}

	var renders []domain.Render
	for i := 1; i <= 5; i++ {
		ref, ok := obra["renders"+strconv.Itoa(i)]
		if !ok {
			continue
		}
		if url := ResolveFileURL(ref, base); url != "" {
			renders = append(renders, domain.Render{
				ID:     i,
				URL:    url,
				Nombre: "Render " + strconv.Itoa(i),
			})
		}
	}
	return renders
}

func rendersFromCollection(items []any, base string) []domain.Render {
	renders := make([]domain.Render, 0, len(items))
	for i, item := range items {
		id, ok := NumericID(item)
		if !ok {
			id = i + 1
		}
		nombre := String(item, "nombre")
		if nombre == "" {
			nombre = String(item, "attributes.nombre")
		}
		if nombre == "" {
			nombre = "Render " + strconv.Itoa(i+1)
		}
		renders = append(renders, domain.Render{
			ID:     id,
			URL:    ResolveFileURL(item, base),
			Nombre: nombre,
		})
	}
	return renders
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
