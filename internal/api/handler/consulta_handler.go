package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/costasur/portal-clientes/internal/api/metrics"
	"github.com/costasur/portal-clientes/internal/core/ports"
)

// ConsultaHandler accepts support inquiries.
type ConsultaHandler struct {
	consultas ports.ConsultaService
}

func NewConsultaHandler(consultas ports.ConsultaService) *ConsultaHandler {
	return &ConsultaHandler{consultas: consultas}
}

type createConsultaRequest struct {
	Nombre       string `json:"nombre"`
	DNI          string `json:"dni"`
	Asunto       string `json:"asunto" validate:"required"`
	Mensaje      string `json:"mensaje" validate:"required"`
	TipoConsulta string `json:"tipoConsulta"`
}

// Create handles POST /v1/consultas.
//
// @Summary      Submit a support inquiry
// @Tags         consultas
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  createConsultaRequest  true  "Consulta"
// @Success      201
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /v1/consultas [post]
func (h *ConsultaHandler) Create(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createConsultaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = h.consultas.Create(c.Request().Context(), sess, ports.CreateConsultaInput{
		Nombre:       req.Nombre,
		DNI:          req.DNI,
		Asunto:       req.Asunto,
		Mensaje:      req.Mensaje,
		TipoConsulta: req.TipoConsulta,
	})
	if err != nil {
		return err
	}

	metrics.ConsultasCreatedTotal.Inc()
	return c.NoContent(http.StatusCreated)
}
