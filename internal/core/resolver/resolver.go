// Package resolver computes which obras and departamentos belong to a
// cliente. The backend offers no single reliable relation endpoint and
// relation population differs across environments, so ownership is
// reconstructed from already-fetched listings through an ordered chain of
// pure candidate strategies, evaluated until one yields a non-empty result.
package resolver

import (
	"github.com/costasur/portal-clientes/internal/core/domain"
	"github.com/costasur/portal-clientes/internal/core/normalize"
)

// ResolveClientObras filters allObras down to those belonging to cliente.
//
// When the cliente record embeds an obras relation, matching goes by
// documentId first and falls back to the numeric id (ids may differ between
// differently-populated responses). Without an embedded relation, candidate
// obras are derived from the departamentos join. An empty result is a valid,
// displayable state, never an error.
func ResolveClientObras(cliente domain.Cliente, allObras, allDepartamentos []domain.Entity) []domain.Entity {
	var strategies []func() []domain.Entity

	if len(cliente.Obras) > 0 {
		strategies = []func() []domain.Entity{
			func() []domain.Entity {
				return filterByDocumentID(allObras, documentIDSet(cliente.Obras))
			},
			func() []domain.Entity {
				return filterByNumericID(allObras, numericIDSet(cliente.Obras))
			},
		}
	} else {
		owned := clientDepartamentos(cliente, allDepartamentos)
		strategies = []func() []domain.Entity{
			func() []domain.Entity {
				return filterByDocumentID(allObras, relationDocumentIDSet(owned, "obra"))
			},
			func() []domain.Entity {
				return filterByNumericID(allObras, relationNumericIDSet(owned, "obra"))
			},
		}
	}

	for _, s := range strategies {
		if matched := s(); len(matched) > 0 {
			return matched
		}
	}
	return []domain.Entity{}
}

// ResolveClientDepartamentosInObra keeps a departamento iff its obra relation
// matches the target obra by documentId AND its cliente relation matches the
// target cliente by documentId. No numeric-id fallback exists for this
// filter; no match yields an empty list.
func ResolveClientDepartamentosInObra(cliente domain.Cliente, obra domain.Entity, allDepartamentos []domain.Entity) []domain.Entity {
	obraDoc := normalize.DocumentID(obra)
	result := []domain.Entity{}
	if obraDoc == "" || cliente.DocumentID == "" {
		return result
	}
	for _, depto := range allDepartamentos {
		flat := normalize.Unwrap(depto)
		if normalize.DocumentID(flat["obra"]) != obraDoc {
			continue
		}
		if normalize.DocumentID(flat["cliente"]) != cliente.DocumentID {
			continue
		}
		result = append(result, depto)
	}
	return result
}

// clientDepartamentos selects the departamentos whose cliente relation points
// at the given cliente, by numeric id or documentId.
func clientDepartamentos(cliente domain.Cliente, all []domain.Entity) []domain.Entity {
	var owned []domain.Entity
	for _, depto := range all {
		rel := normalize.Unwrap(depto)["cliente"]
		if rel == nil {
			continue
		}
		if id, ok := normalize.NumericID(rel); ok && id == cliente.ID {
			owned = append(owned, depto)
			continue
		}
		if doc := normalize.DocumentID(rel); doc != "" && doc == cliente.DocumentID {
			owned = append(owned, depto)
		}
	}
	return owned
}

func documentIDSet(refs []domain.Entity) map[string]struct{} {
	set := make(map[string]struct{}, len(refs))
	for _, r := range refs {
		if doc := normalize.DocumentID(r); doc != "" {
			set[doc] = struct{}{}
		}
	}
	return set
}

func numericIDSet(refs []domain.Entity) map[int]struct{} {
	set := make(map[int]struct{}, len(refs))
	for _, r := range refs {
		if id, ok := normalize.NumericID(r); ok {
			set[id] = struct{}{}
		}
	}
	return set
}

func relationDocumentIDSet(records []domain.Entity, field string) map[string]struct{} {
	set := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if doc := normalize.DocumentID(normalize.Unwrap(rec)[field]); doc != "" {
			set[doc] = struct{}{}
		}
	}
	return set
}

func relationNumericIDSet(records []domain.Entity, field string) map[int]struct{} {
	set := make(map[int]struct{}, len(records))
	for _, rec := range records {
		if id, ok := normalize.NumericID(normalize.Unwrap(rec)[field]); ok {
			set[id] = struct{}{}
		}
	}
	return set
}

func filterByDocumentID(obras []domain.Entity, set map[string]struct{}) []domain.Entity {
	var matched []domain.Entity
	for _, obra := range obras {
		if _, ok := set[normalize.DocumentID(obra)]; ok {
			matched = append(matched, obra)
		}
	}
	return matched
}

func filterByNumericID(obras []domain.Entity, set map[int]struct{}) []domain.Entity {
	var matched []domain.Entity
	for _, obra := range obras {
		if id, ok := normalize.NumericID(obra); ok {
			if _, member := set[id]; member {
				matched = append(matched, obra)
			}
		}
	}
	return matched
}
