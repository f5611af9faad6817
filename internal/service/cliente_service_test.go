package service

import (
	"context"
	"testing"

	"liquidaciontextil/internal/apierror"
	"liquidaciontextil/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCliente_Crear_EmailDuplicado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.clienteSvc.Crear(ctx, dto.CrearClienteRequest{Nombre: "Confecciones Andes", Email: ptr("ventas@andes.co")})
	require.NoError(t, err)

	_, err = f.clienteSvc.Crear(ctx, dto.CrearClienteRequest{Nombre: "Otra", Email: ptr("ventas@andes.co")})
	assertKind(t, err, apierror.KindConflict, "Ya existe un cliente con ese email")
	assert.Len(t, f.store.clientes, 1)
}

func TestCliente_Actualizar(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a, err := f.clienteSvc.Crear(ctx, dto.CrearClienteRequest{Nombre: "Confecciones Andes", Email: ptr("a@andes.co")})
	require.NoError(t, err)
	_, err = f.clienteSvc.Crear(ctx, dto.CrearClienteRequest{Nombre: "Textiles del Sur", Email: ptr("b@sur.co")})
	require.NoError(t, err)
	id := uuid.MustParse(a.ID)

	// keeping its own email is not a conflict
	got, err := f.clienteSvc.Actualizar(ctx, id, dto.ActualizarClienteRequest{Email: ptr("a@andes.co"), Telefono: ptr("300 1234")})
	require.NoError(t, err)
	assert.Equal(t, "300 1234", *got.Telefono)
	assert.Equal(t, "Confecciones Andes", got.Nombre)

	_, err = f.clienteSvc.Actualizar(ctx, id, dto.ActualizarClienteRequest{Email: ptr("b@sur.co")})
	assertKind(t, err, apierror.KindConflict, "Ya existe un cliente con ese email")

	_, err = f.clienteSvc.Actualizar(ctx, uuid.New(), dto.ActualizarClienteRequest{Nombre: ptr("Nadie")})
	assertKind(t, err, apierror.KindNotFound, "Cliente no encontrado")
}

func TestCliente_EmailVacio(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.clienteSvc.Crear(ctx, dto.CrearClienteRequest{Nombre: "Confecciones Andes", Email: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, a.Email)
	b, err := f.clienteSvc.Crear(ctx, dto.CrearClienteRequest{Nombre: "Textiles del Sur", Email: ptr("  ")})
	require.NoError(t, err)
	assert.Nil(t, b.Email)

	c, err := f.clienteSvc.Crear(ctx, dto.CrearClienteRequest{Nombre: "Hilos Norte", Email: ptr("ventas@norte.co")})
	require.NoError(t, err)
	require.NotNil(t, c.Email)

	got, err := f.clienteSvc.Actualizar(ctx, uuid.MustParse(c.ID), dto.ActualizarClienteRequest{Email: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, got.Email)
	assert.Nil(t, f.store.clientes[uuid.MustParse(c.ID)].Email)
}

func TestCliente_Eliminar_ConLiquidaciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cli := f.cliente(t, "Confecciones Andes")
	f.liquidacion(t, cli)
	f.liquidacion(t, cli)

	err := f.clienteSvc.Eliminar(ctx, cli)
	assertKind(t, err, apierror.KindConflict, "No se puede eliminar el cliente porque tiene 2 liquidación(es) asociada(s)")

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, int64(2), apiErr.Meta["liquidaciones"])
	assert.Len(t, f.store.clientes, 1)
}

func TestCliente_Eliminar(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cli := f.cliente(t, "Confecciones Andes")

	require.NoError(t, f.clienteSvc.Eliminar(ctx, cli))
	assert.Empty(t, f.store.clientes)

	err := f.clienteSvc.Eliminar(ctx, cli)
	assertKind(t, err, apierror.KindNotFound, "Cliente no encontrado")
}

func TestCliente_Listar_Agregados(t *testing.T) {
	f := newFixture()
	andes := f.cliente(t, "Confecciones Andes")
	f.cliente(t, "Bordados Caribe")

	liq := f.liquidacion(t, andes)
	r := f.rollo(t, liq, "100")
	f.espiga(t, r.ID, "2.6", 5)
	otra := f.liquidacion(t, andes)
	r2 := f.rollo(t, otra, "20")
	f.espiga(t, r2.ID, "0.5", 3)

	list, err := f.clienteSvc.Listar(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Bordados Caribe", list[0].Nombre)
	assert.Equal(t, 0, list[0].LiquidacionesCount)
	assertDecimal(t, "0", list[0].MetrosProcesados)

	assert.Equal(t, "Confecciones Andes", list[1].Nombre)
	assert.Equal(t, 2, list[1].LiquidacionesCount)
	assertDecimal(t, "14.5", list[1].MetrosProcesados)
}

func TestCliente_ObtenerPorID_Detalle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cli := f.cliente(t, "Confecciones Andes")

	_, err := f.liquidacionSvc.Crear(ctx, dto.CrearLiquidacionRequest{Fecha: "2024-01-10", ClienteID: cli.String()})
	require.NoError(t, err)
	reciente, err := f.liquidacionSvc.Crear(ctx, dto.CrearLiquidacionRequest{Fecha: "2024-02-20", ClienteID: cli.String()})
	require.NoError(t, err)
	r := f.rollo(t, uuid.MustParse(reciente.ID), "100")
	f.espiga(t, r.ID, "2.6", 5)

	d, err := f.clienteSvc.ObtenerPorID(ctx, cli)
	require.NoError(t, err)
	require.Len(t, d.Liquidaciones, 2)
	assert.Equal(t, "2024-02-20", d.Liquidaciones[0].Fecha)
	assertDecimal(t, "13", d.Liquidaciones[0].ConsumoTotal)
	assertDecimal(t, "87", d.Liquidaciones[0].Diferencia)
	assert.Equal(t, "2024-01-10", d.Liquidaciones[1].Fecha)

	_, err = f.clienteSvc.ObtenerPorID(ctx, uuid.New())
	assertKind(t, err, apierror.KindNotFound, "Cliente no encontrado")
}
