package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/costasur/portal-clientes/internal/core/domain"
	"github.com/costasur/portal-clientes/internal/core/ports"
)

// ObraHandler serves the cliente's obras and their departamentos.
type ObraHandler struct {
	obras ports.ObraService
}

func NewObraHandler(obras ports.ObraService) *ObraHandler {
	return &ObraHandler{obras: obras}
}

type obrasResponse struct {
	Obras []domain.ObraResumen `json:"obras"`
}

type departamentosResponse struct {
	Departamentos []domain.DepartamentoView `json:"departamentos"`
}

// List handles GET /v1/obras.
//
// @Summary      List the cliente's obras
// @Tags         obras
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  obrasResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/obras [get]
func (h *ObraHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	obras, err := h.obras.ListObras(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, obrasResponse{Obras: obras})
}

// Get handles GET /v1/obras/:documentId.
//
// @Summary      Get an obra with its rubros, avance, and renders
// @Tags         obras
// @Produce      json
// @Security     BearerAuth
// @Param        documentId  path      string  true  "Obra documentId"
// @Success      200         {object}  domain.ObraDetalle
// @Failure      404         {object}  map[string]string
// @Router       /v1/obras/{documentId} [get]
func (h *ObraHandler) Get(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	detalle, err := h.obras.GetObra(c.Request().Context(), sess, c.Param("documentId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detalle)
}

// ListDepartamentos handles GET /v1/obras/:documentId/departamentos.
//
// @Summary      List the cliente's departamentos within an obra
// @Tags         obras
// @Produce      json
// @Security     BearerAuth
// @Param        documentId  path      string  true  "Obra documentId"
// @Success      200         {object}  departamentosResponse
// @Failure      404         {object}  map[string]string
// @Router       /v1/obras/{documentId}/departamentos [get]
func (h *ObraHandler) ListDepartamentos(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	deptos, err := h.obras.ListDepartamentos(c.Request().Context(), sess, c.Param("documentId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, departamentosResponse{Departamentos: deptos})
}
