package domain

// Entity is a raw backend record of unknown shape. The backend nests fields
// flat, under "attributes", or under "data.attributes" depending on how the
// endpoint was populated; the normalize package reconciles the variants.
//
// Entity is an alias, not a defined type: normalization walks records and
// their nested values with map[string]any assertions, and those must keep
// matching when callers hand records around under the Entity name.
type Entity = map[string]any

// Rubro is a construction trade with its completion percentage.
type Rubro struct {
	Nombre     string  `json:"nombre"`
	Porcentaje float64 `json:"porcentaje"`
}

// Render is an image asset visualizing an obra or departamento.
type Render struct {
	ID     int    `json:"id"`
	URL    string `json:"url"`
	Nombre string `json:"nombre"`
}

// ObraResumen is the display projection used by the obra listing.
type ObraResumen struct {
	ID          int     `json:"id"`
	DocumentID  string  `json:"documentId"`
	Nombre      string  `json:"nombre"`
	Direccion   string  `json:"direccion"`
	Descripcion string  `json:"descripcion"`
	Estado      string  `json:"estado"`
	ImagenURL   string  `json:"imagenUrl,omitempty"`
	AvanceTotal float64 `json:"avanceTotal"`
}

// ObraDetalle is the full display projection for a single obra.
type ObraDetalle struct {
	ObraResumen
	FechaInicio          string   `json:"fechaInicio,omitempty"`
	FechaEntregaEstimada string   `json:"fechaEntregaEstimada,omitempty"`
	Rubros               []Rubro  `json:"rubros"`
	Renders              []Render `json:"renders"`
}

// DepartamentoView is the display projection for a unit within an obra.
type DepartamentoView struct {
	ID         int      `json:"id"`
	DocumentID string   `json:"documentId"`
	Numero     string   `json:"numero"`
	Precio     float64  `json:"precio,omitempty"`
	Estado     string   `json:"estado"`
	PlanoURL   string   `json:"planoUrl,omitempty"`
	BoletoURL  string   `json:"boletoUrl,omitempty"`
	Renders    []Render `json:"renders,omitempty"`
}

// Consulta is a support inquiry submitted by the client.
type Consulta struct {
	Nombre       string `json:"nombre"`
	DNI          string `json:"dni,omitempty"`
	Asunto       string `json:"asunto"`
	Mensaje      string `json:"mensaje"`
	TipoConsulta string `json:"tipoConsulta"`
}
