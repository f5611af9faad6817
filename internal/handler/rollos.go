package handler

import (
	"net/http"

	"liquidaciontextil/internal/dto"
	"liquidaciontextil/internal/service"

	"github.com/gin-gonic/gin"
)

type RollosHandler struct{ svc service.RolloService }

func NewRollosHandler(svc service.RolloService) *RollosHandler {
	return &RollosHandler{svc: svc}
}

// Crear godoc
// @Summary      Agregar rollo
// @Description  Numera el rollo al final de la liquidación. El primer rollo pasa la liquidación a en_proceso.
// @Tags         rollos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        liquidacionId path     string                true "UUID de la liquidación"
// @Param        body          body     dto.CrearRolloRequest true "Datos del rollo"
// @Success      201           {object} dto.RolloResponse
// @Failure      404           {object} apierror.APIError
// @Failure      409           {object} apierror.APIError
// @Router       /v1/liquidaciones/{liquidacionId}/rollos [post]
func (h *RollosHandler) Crear(c *gin.Context) {
	liqID, ok := uuidParam(c, "liquidacionId")
	if !ok {
		return
	}
	var req dto.CrearRolloRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), liqID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar godoc
// @Summary      Actualizar rollo
// @Tags         rollos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        liquidacionId path     string                     true "UUID de la liquidación"
// @Param        rolloId       path     string                     true "UUID del rollo"
// @Param        body          body     dto.ActualizarRolloRequest true "Campos a modificar"
// @Success      200           {object} dto.RolloResponse
// @Failure      404           {object} apierror.APIError
// @Failure      409           {object} apierror.APIError
// @Router       /v1/liquidaciones/{liquidacionId}/rollos/{rolloId} [put]
func (h *RollosHandler) Actualizar(c *gin.Context) {
	liqID, ok := uuidParam(c, "liquidacionId")
	if !ok {
		return
	}
	id, ok := uuidParam(c, "rolloId")
	if !ok {
		return
	}
	var req dto.ActualizarRolloRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), liqID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar rollo
// @Description  Elimina el rollo con sus espigas y renumera los rollos siguientes.
// @Tags         rollos
// @Produce      json
// @Security     BearerAuth
// @Param        liquidacionId path     string true "UUID de la liquidación"
// @Param        rolloId       path     string true "UUID del rollo"
// @Success      200           {object} dto.MensajeResponse
// @Failure      404           {object} apierror.APIError
// @Failure      409           {object} apierror.APIError
// @Router       /v1/liquidaciones/{liquidacionId}/rollos/{rolloId} [delete]
func (h *RollosHandler) Eliminar(c *gin.Context) {
	liqID, ok := uuidParam(c, "liquidacionId")
	if !ok {
		return
	}
	id, ok := uuidParam(c, "rolloId")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), liqID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MensajeResponse{Message: "Rollo eliminado exitosamente"})
}

// Duplicar godoc
// @Summary      Duplicar rollo
// @Description  Copia el rollo y sus espigas al final de la liquidación.
// @Tags         rollos
// @Produce      json
// @Security     BearerAuth
// @Param        liquidacionId path     string true "UUID de la liquidación"
// @Param        rolloId       path     string true "UUID del rollo origen"
// @Success      201           {object} dto.RolloResponse
// @Failure      404           {object} apierror.APIError
// @Failure      409           {object} apierror.APIError
// @Router       /v1/liquidaciones/{liquidacionId}/rollos/{rolloId}/duplicar [post]
func (h *RollosHandler) Duplicar(c *gin.Context) {
	liqID, ok := uuidParam(c, "liquidacionId")
	if !ok {
		return
	}
	id, ok := uuidParam(c, "rolloId")
	if !ok {
		return
	}
	resp, err := h.svc.Duplicar(c.Request.Context(), liqID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
