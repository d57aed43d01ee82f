package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/costasur/portal-clientes/internal/core/domain"
	"github.com/costasur/portal-clientes/internal/core/normalize"
	"github.com/costasur/portal-clientes/internal/core/ports"
	"github.com/costasur/portal-clientes/internal/core/resolver"
)

// ObraService fetches full listings from the backend, resolves the subset
// belonging to the session's cliente, and projects records into display
// structures.
type ObraService struct {
	gateway   ports.ContentGateway
	assetBase string
	log       zerolog.Logger
}

func NewObraService(gateway ports.ContentGateway, assetBase string, log zerolog.Logger) *ObraService {
	return &ObraService{gateway: gateway, assetBase: assetBase, log: log}
}

func (s *ObraService) ListObras(ctx context.Context, sess *ports.Session) ([]domain.ObraResumen, error) {
	owned, err := s.resolveObras(ctx, sess)
	if err != nil {
		return nil, err
	}

	resumen := make([]domain.ObraResumen, 0, len(owned))
	for _, obra := range owned {
		resumen = append(resumen, s.resumenFromEntity(obra))
	}
	return resumen, nil
}

func (s *ObraService) GetObra(ctx context.Context, sess *ports.Session, documentID string) (*domain.ObraDetalle, error) {
	owned, err := s.resolveObras(ctx, sess)
	if err != nil {
		return nil, err
	}

	for _, obra := range owned {
		if normalize.DocumentID(obra) != documentID {
			continue
		}
		flat := normalize.Unwrap(obra)
		detalle := &domain.ObraDetalle{
			ObraResumen:          s.resumenFromEntity(obra),
			FechaInicio:          normalize.String(flat, "fecha_inicio"),
			FechaEntregaEstimada: normalize.String(flat, "fecha_entrega_estimada"),
			Rubros:               normalize.ExtractRubros(flat),
			Renders:              normalize.ExtractRenders(flat, s.assetBase),
		}
		return detalle, nil
	}
	return nil, domain.ErrObraNotFound
}

func (s *ObraService) ListDepartamentos(ctx context.Context, sess *ports.Session, obraDocumentID string) ([]domain.DepartamentoView, error) {
	owned, deptos, err := s.resolveObrasAndDepartamentos(ctx, sess)
	if err != nil {
		return nil, err
	}

	var target domain.Entity
	for _, obra := range owned {
		if normalize.DocumentID(obra) == obraDocumentID {
			target = obra
			break
		}
	}
	if target == nil {
		return nil, domain.ErrObraNotFound
	}

	if deptos == nil {
		deptos, err = s.gateway.ListDepartamentos(ctx, sess.BackendToken)
		if err != nil {
			return nil, err
		}
	}
	matched := resolver.ResolveClientDepartamentosInObra(sess.Cliente, target, deptos)

	views := make([]domain.DepartamentoView, 0, len(matched))
	for _, depto := range matched {
		views = append(views, s.departamentoView(depto))
	}
	return views, nil
}

// resolveObras runs the association resolver over fresh listings.
func (s *ObraService) resolveObras(ctx context.Context, sess *ports.Session) ([]domain.Entity, error) {
	owned, _, err := s.resolveObrasAndDepartamentos(ctx, sess)
	return owned, err
}

// resolveObrasAndDepartamentos also returns the departamentos listing when the
// resolution fetched one, so callers needing it do not fetch it again. The
// listing is only fetched when the cliente record carries no embedded obras
// relation, since only the join strategies consume it; a nil second result
// means it was never fetched.
func (s *ObraService) resolveObrasAndDepartamentos(ctx context.Context, sess *ports.Session) ([]domain.Entity, []domain.Entity, error) {
	obras, err := s.gateway.ListObras(ctx, sess.BackendToken)
	if err != nil {
		return nil, nil, err
	}

	var deptos []domain.Entity
	if len(sess.Cliente.Obras) == 0 {
		deptos, err = s.gateway.ListDepartamentos(ctx, sess.BackendToken)
		if err != nil {
			return nil, nil, err
		}
	}

	return resolver.ResolveClientObras(sess.Cliente, obras, deptos), deptos, nil
}

func (s *ObraService) resumenFromEntity(obra domain.Entity) domain.ObraResumen {
	flat := normalize.Unwrap(obra)
	id, _ := normalize.NumericID(obra)
	imagen := normalize.ResolveFileURL(flat["imagen_principal"], s.assetBase)
	if imagen == "" && flat["imagen_principal"] != nil {
		s.log.Debug().Str("obra", normalize.String(flat, "nombre")).Msg("imagen_principal present but unresolvable")
	}
	return domain.ObraResumen{
		ID:          id,
		DocumentID:  normalize.DocumentID(obra),
		Nombre:      normalize.String(flat, "nombre"),
		Direccion:   normalize.String(flat, "direccion"),
		Descripcion: normalize.String(flat, "descripcion"),
		Estado:      normalize.String(flat, "estado"),
		ImagenURL:   imagen,
		AvanceTotal: normalize.ExtractAvanceTotal(flat),
	}
}

func (s *ObraService) departamentoView(depto domain.Entity) domain.DepartamentoView {
	flat := normalize.Unwrap(depto)
	id, _ := normalize.NumericID(depto)

	numero := normalize.String(flat, "numero")
	if numero == "" {
		numero = normalize.String(flat, "nombre")
	}
	precio, ok := normalize.Number(flat["precio_total"])
	if !ok {
		precio, _ = normalize.Number(flat["precio"])
	}

	return domain.DepartamentoView{
		ID:         id,
		DocumentID: normalize.DocumentID(depto),
		Numero:     numero,
		Precio:     precio,
		Estado:     normalize.String(flat, "estado"),
		PlanoURL:   normalize.ResolvePlano(flat, s.assetBase),
		BoletoURL:  normalize.ResolveBoleto(flat, s.assetBase),
		Renders:    normalize.ExtractRenders(flat, s.assetBase),
	}
}
