package handler

import (
	"fmt"
	"net/http"

	"liquidaciontextil/internal/dto"
	"liquidaciontextil/internal/service"

	"github.com/gin-gonic/gin"
)

type LiquidacionesHandler struct{ svc service.LiquidacionService }

func NewLiquidacionesHandler(svc service.LiquidacionService) *LiquidacionesHandler {
	return &LiquidacionesHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear liquidación
// @Description  Reserva el siguiente número global. Estado inicial borrador salvo que se indique otro.
// @Tags         liquidaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CrearLiquidacionRequest true "Cabecera de la liquidación"
// @Success      201  {object} dto.LiquidacionResponse
// @Failure      404  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/liquidaciones [post]
func (h *LiquidacionesHandler) Crear(c *gin.Context) {
	var req dto.CrearLiquidacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar liquidaciones
// @Description  Más recientes primero, con resumen del cliente y totales.
// @Tags         liquidaciones
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.LiquidacionResumen
// @Router       /v1/liquidaciones [get]
func (h *LiquidacionesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID godoc
// @Summary      Detalle de liquidación
// @Tags         liquidaciones
// @Produce      json
// @Security     BearerAuth
// @Param        liquidacionId path     string true "UUID de la liquidación"
// @Success      200  {object} dto.LiquidacionResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/liquidaciones/{liquidacionId} [get]
func (h *LiquidacionesHandler) ObtenerPorID(c *gin.Context) {
	id, ok := uuidParam(c, "liquidacionId")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary      Actualizar liquidación
// @Tags         liquidaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        liquidacionId path     string                           true "UUID de la liquidación"
// @Param        body body     dto.ActualizarLiquidacionRequest true "Campos a modificar"
// @Success      200  {object} dto.LiquidacionResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/liquidaciones/{liquidacionId} [put]
func (h *LiquidacionesHandler) Actualizar(c *gin.Context) {
	id, ok := uuidParam(c, "liquidacionId")
	if !ok {
		return
	}
	var req dto.ActualizarLiquidacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarEstado godoc
// @Summary      Cambiar estado
// @Description  Fija cualquiera de borrador, en_proceso o finalizada.
// @Tags         liquidaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        liquidacionId path     string                      true "UUID de la liquidación"
// @Param        body body     dto.ActualizarEstadoRequest true "Nuevo estado"
// @Success      200  {object} dto.LiquidacionResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/liquidaciones/{liquidacionId}/estado [patch]
func (h *LiquidacionesHandler) ActualizarEstado(c *gin.Context) {
	id, ok := uuidParam(c, "liquidacionId")
	if !ok {
		return
	}
	var req dto.ActualizarEstadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarEstado(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar liquidación
// @Description  Elimina la liquidación con sus rollos y espigas. No permitido si está finalizada.
// @Tags         liquidaciones
// @Produce      json
// @Security     BearerAuth
// @Param        liquidacionId path     string true "UUID de la liquidación"
// @Success      200  {object} dto.MensajeResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/liquidaciones/{liquidacionId} [delete]
func (h *LiquidacionesHandler) Eliminar(c *gin.Context) {
	id, ok := uuidParam(c, "liquidacionId")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MensajeResponse{Message: "Liquidación eliminada exitosamente"})
}

// DescargarPDF godoc
// @Summary      PDF de la liquidación
// @Tags         liquidaciones
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        liquidacionId path     string true "UUID de la liquidación"
// @Success      200  {file}   binary
// @Failure      404  {object} apierror.APIError
// @Router       /v1/liquidaciones/{liquidacionId}/pdf [get]
func (h *LiquidacionesHandler) DescargarPDF(c *gin.Context) {
	id, ok := uuidParam(c, "liquidacionId")
	if !ok {
		return
	}
	pdf, numero, err := h.svc.GenerarPDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="liquidacion_%s.pdf"`, numero))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Enviar godoc
// @Summary      Enviar liquidación por email
// @Description  Encola el envío del PDF. Sin email en el cuerpo se usa el del cliente.
// @Tags         liquidaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        liquidacionId path     string                       true  "UUID de la liquidación"
// @Param        body body     dto.EnviarLiquidacionRequest false "Destinatario alternativo"
// @Success      202  {object} dto.EnvioEncoladoResponse
// @Failure      404  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/liquidaciones/{liquidacionId}/enviar [post]
func (h *LiquidacionesHandler) Enviar(c *gin.Context) {
	id, ok := uuidParam(c, "liquidacionId")
	if !ok {
		return
	}
	var req dto.EnviarLiquidacionRequest
	if !bindOptional(c, &req) {
		return
	}
	resp, err := h.svc.EnviarPorEmail(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}
