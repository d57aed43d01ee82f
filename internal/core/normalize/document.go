package normalize

import "github.com/costasur/portal-clientes/internal/core/domain"

// Candidate locations for departamento attachments. The ordering tolerates
// schema drift between backend versions and must not be reordered: the first
// location yielding a resolvable URL wins.
var (
	planoPaths  = []string{"plano", "attributes.plano", "plano.data", "archivos.plano"}
	boletoPaths = []string{"boleto", "attributes.boleto", "boleto.data", "documentos.boleto"}
)

// ResolvePlano locates the floor-plan attachment of a departamento, or ""
// when no known location resolves.
func ResolvePlano(depto domain.Entity, base string) string {
	return resolveDocument(depto, planoPaths, base)
}

// ResolveBoleto locates the purchase-agreement attachment of a departamento,
// or "" when no known location resolves.
func ResolveBoleto(depto domain.Entity, base string) string {
	return resolveDocument(depto, boletoPaths, base)
}

func resolveDocument(depto domain.Entity, paths []string, base string) string {
	for _, p := range paths {
		if url := ResolveFileURL(Lookup(depto, p), base); url != "" {
			return url
		}
	}
	return ""
}
