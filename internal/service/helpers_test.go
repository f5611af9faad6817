package service

import (
	"context"
	"testing"

	"liquidaciontextil/internal/apierror"
	"liquidaciontextil/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func assertKind(t *testing.T, err error, k apierror.Kind, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, k), "want kind %s, got %v", k, err)
	if msg != "" {
		assert.Equal(t, msg, err.Error())
	}
}

func (f *fixture) cliente(t *testing.T, nombre string) uuid.UUID {
	t.Helper()
	c, err := f.clienteSvc.Crear(context.Background(), dto.CrearClienteRequest{Nombre: nombre})
	require.NoError(t, err)
	return uuid.MustParse(c.ID)
}

func (f *fixture) liquidacion(t *testing.T, clienteID uuid.UUID) uuid.UUID {
	t.Helper()
	l, err := f.liquidacionSvc.Crear(context.Background(), dto.CrearLiquidacionRequest{
		Fecha:     "2024-03-15",
		ClienteID: clienteID.String(),
	})
	require.NoError(t, err)
	return uuid.MustParse(l.ID)
}

func (f *fixture) rollo(t *testing.T, liqID uuid.UUID, metros string) dto.RolloResponse {
	t.Helper()
	r, err := f.rolloSvc.Crear(context.Background(), liqID, dto.CrearRolloRequest{
		ColorTela:       "Azul rey",
		ColorHex:        "#1E3A8A",
		MetrosIniciales: dec(metros),
	})
	require.NoError(t, err)
	return r
}

func (f *fixture) espiga(t *testing.T, rolloID string, largo string, capas int) dto.EspigaResponse {
	t.Helper()
	e, err := f.espigaSvc.Crear(context.Background(), uuid.MustParse(rolloID), dto.CrearEspigaRequest{
		LargoTrazo:  dec(largo),
		NumeroCapas: capas,
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) finalizar(t *testing.T, liqID uuid.UUID) {
	t.Helper()
	_, err := f.liquidacionSvc.ActualizarEstado(context.Background(), liqID, dto.ActualizarEstadoRequest{Estado: "finalizada"})
	require.NoError(t, err)
}
