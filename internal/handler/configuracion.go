package handler

import (
	"net/http"

	"liquidaciontextil/internal/dto"
	"liquidaciontextil/internal/service"

	"github.com/gin-gonic/gin"
)

type ConfiguracionHandler struct{ svc service.ConfiguracionService }

func NewConfiguracionHandler(svc service.ConfiguracionService) *ConfiguracionHandler {
	return &ConfiguracionHandler{svc: svc}
}

// Obtener godoc
// @Summary      Configuración de la empresa
// @Tags         configuracion
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.ConfiguracionResponse
// @Router       /v1/configuracion [get]
func (h *ConfiguracionHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Obtener(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary      Actualizar configuración
// @Tags         configuracion
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.ActualizarConfiguracionRequest true "Campos a modificar"
// @Success      200  {object} dto.ConfiguracionResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/configuracion [put]
func (h *ConfiguracionHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarConfiguracionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SiguienteNumero godoc
// @Summary      Próximo número de liquidación
// @Description  Vista previa; no consume el número.
// @Tags         configuracion
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.SiguienteNumeroResponse
// @Router       /v1/configuracion/siguiente-numero [get]
func (h *ConfiguracionHandler) SiguienteNumero(c *gin.Context) {
	resp, err := h.svc.SiguienteNumero(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
