package ports

import (
	"context"

	"github.com/costasur/portal-clientes/internal/core/domain"
)

// ObraService projects the cliente's obras and departamentos into
// display-ready structures.
type ObraService interface {
	ListObras(ctx context.Context, sess *Session) ([]domain.ObraResumen, error)
	GetObra(ctx context.Context, sess *Session, documentID string) (*domain.ObraDetalle, error)
	ListDepartamentos(ctx context.Context, sess *Session, obraDocumentID string) ([]domain.DepartamentoView, error)
}
