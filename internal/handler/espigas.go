package handler

import (
	"net/http"

	"liquidaciontextil/internal/dto"
	"liquidaciontextil/internal/service"

	"github.com/gin-gonic/gin"
)

type EspigasHandler struct{ svc service.EspigaService }

func NewEspigasHandler(svc service.EspigaService) *EspigasHandler {
	return &EspigasHandler{svc: svc}
}

// Crear godoc
// @Summary      Agregar espiga
// @Tags         espigas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        rolloId path     string                 true "UUID del rollo"
// @Param        body    body     dto.CrearEspigaRequest true "Medidas de la espiga"
// @Success      201     {object} dto.EspigaResponse
// @Failure      404     {object} apierror.APIError
// @Failure      409     {object} apierror.APIError
// @Router       /v1/rollos/{rolloId}/espigas [post]
func (h *EspigasHandler) Crear(c *gin.Context) {
	rolloID, ok := uuidParam(c, "rolloId")
	if !ok {
		return
	}
	var req dto.CrearEspigaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), rolloID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar godoc
// @Summary      Actualizar espiga
// @Description  distribucion_tallas omitida o null la conserva; {} la elimina.
// @Tags         espigas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        rolloId  path     string                      true "UUID del rollo"
// @Param        espigaId path     string                      true "UUID de la espiga"
// @Param        body     body     dto.ActualizarEspigaRequest true "Campos a modificar"
// @Success      200      {object} dto.EspigaResponse
// @Failure      404      {object} apierror.APIError
// @Failure      409      {object} apierror.APIError
// @Router       /v1/rollos/{rolloId}/espigas/{espigaId} [put]
func (h *EspigasHandler) Actualizar(c *gin.Context) {
	rolloID, ok := uuidParam(c, "rolloId")
	if !ok {
		return
	}
	id, ok := uuidParam(c, "espigaId")
	if !ok {
		return
	}
	var req dto.ActualizarEspigaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), rolloID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar espiga
// @Description  Renumera las espigas siguientes del rollo.
// @Tags         espigas
// @Produce      json
// @Security     BearerAuth
// @Param        rolloId  path     string true "UUID del rollo"
// @Param        espigaId path     string true "UUID de la espiga"
// @Success      200      {object} dto.MensajeResponse
// @Failure      404      {object} apierror.APIError
// @Failure      409      {object} apierror.APIError
// @Router       /v1/rollos/{rolloId}/espigas/{espigaId} [delete]
func (h *EspigasHandler) Eliminar(c *gin.Context) {
	rolloID, ok := uuidParam(c, "rolloId")
	if !ok {
		return
	}
	id, ok := uuidParam(c, "espigaId")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), rolloID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MensajeResponse{Message: "Espiga eliminada exitosamente"})
}
