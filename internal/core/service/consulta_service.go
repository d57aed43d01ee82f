package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/costasur/portal-clientes/internal/core/domain"
	"github.com/costasur/portal-clientes/internal/core/ports"
)

var consultaTipos = map[string]struct{}{
	"general":        {},
	"obra":           {},
	"departamento":   {},
	"administrativa": {},
}

// ConsultaService submits support inquiries to the backend.
type ConsultaService struct {
	gateway  ports.ContentGateway
	activity ports.ActivityPublisher
	log      zerolog.Logger
}

func NewConsultaService(gateway ports.ContentGateway, activity ports.ActivityPublisher, log zerolog.Logger) *ConsultaService {
	return &ConsultaService{gateway: gateway, activity: activity, log: log}
}

// Create validates the form locally and forwards it as a backend consulta
// record. Empty nombre falls back to the session's cliente.
func (s *ConsultaService) Create(ctx context.Context, sess *ports.Session, in ports.CreateConsultaInput) error {
	if sess == nil {
		return domain.ErrNotAuthenticated
	}

	nombre := strings.TrimSpace(in.Nombre)
	if nombre == "" {
		nombre = sess.Cliente.Nombre
	}
	if nombre == "" {
		return &domain.ValidationError{Field: "nombre", Reason: "es obligatorio"}
	}
	if strings.TrimSpace(in.Asunto) == "" {
		return &domain.ValidationError{Field: "asunto", Reason: "es obligatorio"}
	}
	if strings.TrimSpace(in.Mensaje) == "" {
		return &domain.ValidationError{Field: "mensaje", Reason: "es obligatorio"}
	}
	tipo := in.TipoConsulta
	if tipo == "" {
		tipo = "general"
	}
	if _, ok := consultaTipos[tipo]; !ok {
		return &domain.ValidationError{Field: "tipoConsulta", Reason: "tipo desconocido"}
	}

	data := map[string]any{
		"nombre":       nombre,
		"dni":          in.DNI,
		"asunto":       strings.TrimSpace(in.Asunto),
		"mensaje":      strings.TrimSpace(in.Mensaje),
		"tipoConsulta": tipo,
		"cliente":      sess.Cliente.DocumentID,
	}
	if _, err := s.gateway.CreateConsulta(ctx, sess.BackendToken, data); err != nil {
		return err
	}

	s.activity.Publish(ports.ActivityEvent{
		Type:              ports.ActivityConsulta,
		UserID:            sess.User.ID,
		Username:          sess.User.Username,
		ClienteDocumentID: sess.Cliente.DocumentID,
		Detail:            tipo,
		OccurredAt:        time.Now().UTC(),
	})
	s.log.Info().Str("tipo", tipo).Str("cliente", sess.Cliente.DocumentID).Msg("consulta created")
	return nil
}
