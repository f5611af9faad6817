// Package lifecycle holds the liquidación state machine:
//
//	borrador ──(primer rollo)──► en_proceso ──(manual)──► finalizada
//
// Automatic transitions are computed by Transicion; the explicit status
// endpoint may set any valid estado. Guards decide whether the rollo/espiga
// subtree or the liquidación itself may change.
package lifecycle

import (
	"liquidaciontextil/internal/apierror"
	"liquidaciontextil/internal/model"
)

// Evento is something that happened to a liquidación and may move its estado.
type Evento string

const (
	// EventoPrimerRollo: the rollo count went from 0 to 1.
	EventoPrimerRollo Evento = "primer_rollo"
)

const (
	MsgFinalizadaModificar = "No se puede modificar una liquidación finalizada"
	MsgFinalizadaEliminar  = "No se puede eliminar una liquidación finalizada"
)

// Transicion returns the estado after ev. Events that do not apply leave it unchanged.
func Transicion(actual model.EstadoLiquidacion, ev Evento) model.EstadoLiquidacion {
	switch {
	case ev == EventoPrimerRollo && actual == model.EstadoBorrador:
		return model.EstadoEnProceso
	default:
		return actual
	}
}

// EstadoValido reports whether s is one of the three known estados.
func EstadoValido(s string) bool {
	switch model.EstadoLiquidacion(s) {
	case model.EstadoBorrador, model.EstadoEnProceso, model.EstadoFinalizada:
		return true
	}
	return false
}

// VerificarModificable gates every create/update/delete of rollos and espigas.
func VerificarModificable(estado model.EstadoLiquidacion) error {
	if estado == model.EstadoFinalizada {
		return apierror.Conflict(MsgFinalizadaModificar)
	}
	return nil
}

// VerificarEliminable gates deletion of the liquidación itself.
func VerificarEliminable(estado model.EstadoLiquidacion) error {
	if estado == model.EstadoFinalizada {
		return apierror.Conflict(MsgFinalizadaEliminar)
	}
	return nil
}
