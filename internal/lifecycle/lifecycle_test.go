package lifecycle

import (
	"testing"

	"liquidaciontextil/internal/apierror"
	"liquidaciontextil/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransicion_PrimerRolloDesdeBorrador(t *testing.T) {
	assert.Equal(t, model.EstadoEnProceso, Transicion(model.EstadoBorrador, EventoPrimerRollo))
}

func TestTransicion_PrimerRolloNoRetrocede(t *testing.T) {
	assert.Equal(t, model.EstadoEnProceso, Transicion(model.EstadoEnProceso, EventoPrimerRollo))
	assert.Equal(t, model.EstadoFinalizada, Transicion(model.EstadoFinalizada, EventoPrimerRollo))
}

func TestTransicion_EventoDesconocido(t *testing.T) {
	assert.Equal(t, model.EstadoBorrador, Transicion(model.EstadoBorrador, Evento("otro")))
}

func TestEstadoValido(t *testing.T) {
	for _, s := range []string{"borrador", "en_proceso", "finalizada"} {
		assert.True(t, EstadoValido(s), s)
	}
	for _, s := range []string{"", "anulada", "FINALIZADA"} {
		assert.False(t, EstadoValido(s), s)
	}
}

func TestVerificarModificable(t *testing.T) {
	assert.NoError(t, VerificarModificable(model.EstadoBorrador))
	assert.NoError(t, VerificarModificable(model.EstadoEnProceso))

	err := VerificarModificable(model.EstadoFinalizada)
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))
	assert.Contains(t, err.Error(), "finalizada")
}

func TestVerificarEliminable(t *testing.T) {
	assert.NoError(t, VerificarEliminable(model.EstadoEnProceso))

	err := VerificarEliminable(model.EstadoFinalizada)
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))
	assert.Equal(t, MsgFinalizadaEliminar, err.Error())
}
