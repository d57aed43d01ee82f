package ports

import "context"

type CreateConsultaInput struct {
	Nombre       string
	DNI          string
	Asunto       string
	Mensaje      string
	TipoConsulta string
}

type ConsultaService interface {
	Create(ctx context.Context, sess *Session, in CreateConsultaInput) error
}
