package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"liquidaciontextil/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Cliente{},
		&model.Liquidacion{},
		&model.Rollo{},
		&model.Espiga{},
		&model.Configuracion{},
	))
	return db
}

func seedLiquidacion(t *testing.T, db *gorm.DB, numero string) (*model.Cliente, *model.Liquidacion) {
	t.Helper()
	ctx := context.Background()
	c := &model.Cliente{Nombre: "Confecciones Sol"}
	require.NoError(t, NewClienteRepository(db).Create(ctx, nil, c))
	l := &model.Liquidacion{
		Numero:    numero,
		Fecha:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ClienteID: c.ID,
		Estado:    model.EstadoBorrador,
	}
	require.NoError(t, NewLiquidacionRepository(db).Create(ctx, nil, l))
	return c, l
}

func seedRollos(t *testing.T, db *gorm.DB, liquidacionID uuid.UUID, colores ...string) []model.Rollo {
	t.Helper()
	repo := NewRolloRepository(db)
	out := make([]model.Rollo, 0, len(colores))
	for i, color := range colores {
		r := model.Rollo{
			LiquidacionID:   liquidacionID,
			Numero:          i + 1,
			ColorTela:       color,
			ColorHex:        "#000000",
			MetrosIniciales: decimal.NewFromInt(50),
		}
		require.NoError(t, repo.Create(context.Background(), nil, &r))
		out = append(out, r)
	}
	return out
}

func numerosRollos(t *testing.T, db *gorm.DB, liquidacionID uuid.UUID) map[string]int {
	t.Helper()
	var rollos []model.Rollo
	require.NoError(t, db.Where("liquidacion_id = ?", liquidacionID).Find(&rollos).Error)
	out := make(map[string]int, len(rollos))
	for _, r := range rollos {
		out[r.ColorTela] = r.Numero
	}
	return out
}

func TestRolloRepo_CompactarTrasEliminarIntermedio(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_, liq := seedLiquidacion(t, db, "000001")
	rollos := seedRollos(t, db, liq.ID, "azul", "rojo", "verde", "negro")
	repo := NewRolloRepository(db)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := repo.Delete(ctx, tx, rollos[1].ID); err != nil {
			return err
		}
		n, err := repo.Compactar(ctx, tx, liq.ID, rollos[1].Numero)
		assert.Equal(t, int64(2), n)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"azul": 1, "verde": 2, "negro": 3}, numerosRollos(t, db, liq.ID))
}

func TestRolloRepo_CompactarUltimoNoTocaNada(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_, liq := seedLiquidacion(t, db, "000001")
	rollos := seedRollos(t, db, liq.ID, "azul", "rojo")
	repo := NewRolloRepository(db)

	require.NoError(t, repo.Delete(ctx, nil, rollos[1].ID))
	n, err := repo.Compactar(ctx, nil, liq.ID, 2)
	require.NoError(t, err)

	assert.Zero(t, n)
	assert.Equal(t, map[string]int{"azul": 1}, numerosRollos(t, db, liq.ID))
}

func TestRolloRepo_CompactarNoAfectaOtraLiquidacion(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c, liqA := seedLiquidacion(t, db, "000001")
	liqB := &model.Liquidacion{Numero: "000002", Fecha: time.Now(), ClienteID: c.ID, Estado: model.EstadoBorrador}
	require.NoError(t, NewLiquidacionRepository(db).Create(ctx, nil, liqB))
	rollosA := seedRollos(t, db, liqA.ID, "a1", "a2", "a3")
	seedRollos(t, db, liqB.ID, "b1", "b2", "b3")
	repo := NewRolloRepository(db)

	require.NoError(t, repo.Delete(ctx, nil, rollosA[0].ID))
	_, err := repo.Compactar(ctx, nil, liqA.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"a2": 1, "a3": 2}, numerosRollos(t, db, liqA.ID))
	assert.Equal(t, map[string]int{"b1": 1, "b2": 2, "b3": 3}, numerosRollos(t, db, liqB.ID))
}

func TestRolloRepo_MaxNumero(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_, liq := seedLiquidacion(t, db, "000001")
	repo := NewRolloRepository(db)

	n, err := repo.MaxNumero(ctx, nil, liq.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	seedRollos(t, db, liq.ID, "azul", "rojo", "verde")
	n, err = repo.MaxNumero(ctx, nil, liq.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRolloRepo_NumeroDuplicadoRechazado(t *testing.T) {
	db := newTestDB(t)
	_, liq := seedLiquidacion(t, db, "000001")
	seedRollos(t, db, liq.ID, "azul")

	dup := &model.Rollo{LiquidacionID: liq.ID, Numero: 1, ColorTela: "rojo", ColorHex: "#FF0000"}
	err := NewRolloRepository(db).Create(context.Background(), nil, dup)
	assert.Error(t, err)
}

func TestRolloRepo_FindEnLiquidacionOtroPadre(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_, liq := seedLiquidacion(t, db, "000001")
	rollos := seedRollos(t, db, liq.ID, "azul")

	_, err := NewRolloRepository(db).FindEnLiquidacion(ctx, nil, uuid.New(), rollos[0].ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	got, err := NewRolloRepository(db).FindEnLiquidacion(ctx, nil, liq.ID, rollos[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "azul", got.ColorTela)
}

func TestEspigaRepo_CompactarYTallas(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_, liq := seedLiquidacion(t, db, "000001")
	rollo := seedRollos(t, db, liq.ID, "azul")[0]
	repo := NewEspigaRepository(db)

	espigas := make([]model.Espiga, 3)
	for i := range espigas {
		espigas[i] = model.Espiga{
			RolloID:     rollo.ID,
			Numero:      i + 1,
			LargoTrazo:  decimal.NewFromInt(int64(i + 2)),
			NumeroCapas: 1,
		}
	}
	espigas[2].SetTallas(map[string]int{"S": 4, "M": 6})
	require.NoError(t, repo.CreateBatch(ctx, nil, espigas))

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		if err := repo.Delete(ctx, tx, espigas[0].ID); err != nil {
			return err
		}
		_, err := repo.Compactar(ctx, tx, rollo.ID, 1)
		return err
	}))

	got, err := repo.FindEnRollo(ctx, nil, rollo.ID, espigas[2].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Numero)
	assert.Equal(t, map[string]int{"S": 4, "M": 6}, got.Tallas())

	n, err := repo.MaxNumero(ctx, nil, rollo.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLiquidacionRepo_FindDetalleOrdenado(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_, liq := seedLiquidacion(t, db, "000001")

	// inserted out of order on purpose
	for _, n := range []int{3, 1, 2} {
		r := model.Rollo{LiquidacionID: liq.ID, Numero: n, ColorTela: "c", ColorHex: "#111111"}
		require.NoError(t, NewRolloRepository(db).Create(ctx, nil, &r))
		for _, en := range []int{2, 1} {
			e := model.Espiga{RolloID: r.ID, Numero: en, LargoTrazo: decimal.NewFromInt(1), NumeroCapas: 1}
			require.NoError(t, NewEspigaRepository(db).Create(ctx, nil, &e))
		}
	}

	got, err := NewLiquidacionRepository(db).FindDetalle(ctx, nil, liq.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Cliente)
	assert.Equal(t, "Confecciones Sol", got.Cliente.Nombre)
	require.Len(t, got.Rollos, 3)
	for i, r := range got.Rollos {
		assert.Equal(t, i+1, r.Numero)
		require.Len(t, r.Espigas, 2)
		assert.Equal(t, 1, r.Espigas[0].Numero)
		assert.Equal(t, 2, r.Espigas[1].Numero)
	}
}

func TestLiquidacionRepo_DeleteEnCascada(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_, liq := seedLiquidacion(t, db, "000001")
	rollos := seedRollos(t, db, liq.ID, "azul", "rojo")
	e := model.Espiga{RolloID: rollos[0].ID, Numero: 1, LargoTrazo: decimal.NewFromInt(5), NumeroCapas: 2}
	require.NoError(t, NewEspigaRepository(db).Create(ctx, nil, &e))

	require.NoError(t, NewLiquidacionRepository(db).Delete(ctx, nil, liq.ID))

	var nRollos, nEspigas, nLiq int64
	db.Model(&model.Rollo{}).Count(&nRollos)
	db.Model(&model.Espiga{}).Count(&nEspigas)
	db.Model(&model.Liquidacion{}).Count(&nLiq)
	assert.Zero(t, nRollos)
	assert.Zero(t, nEspigas)
	assert.Zero(t, nLiq)
}

func TestLiquidacionRepo_UpdateEstado(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_, liq := seedLiquidacion(t, db, "000001")
	repo := NewLiquidacionRepository(db)

	require.NoError(t, repo.UpdateEstado(ctx, nil, liq.ID, model.EstadoEnProceso))

	got, err := repo.FindByID(ctx, nil, liq.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoEnProceso, got.Estado)
}

func TestClienteRepo_CountLiquidacionesYDetalle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c, _ := seedLiquidacion(t, db, "000001")
	older := &model.Liquidacion{Numero: "000002", Fecha: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), ClienteID: c.ID, Estado: model.EstadoBorrador}
	require.NoError(t, NewLiquidacionRepository(db).Create(ctx, nil, older))
	repo := NewClienteRepository(db)

	n, err := repo.CountLiquidaciones(ctx, nil, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	det, err := repo.FindDetalle(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, det.Liquidaciones, 2)
	assert.Equal(t, "000001", det.Liquidaciones[0].Numero)
	assert.Equal(t, "000002", det.Liquidaciones[1].Numero)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Liquidaciones, 2)
}

func TestClienteRepo_FindByEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	email := "compras@sol.co"
	repo := NewClienteRepository(db)
	require.NoError(t, repo.Create(ctx, nil, &model.Cliente{Nombre: "Sol", Email: &email}))

	got, err := repo.FindByEmail(ctx, nil, email)
	require.NoError(t, err)
	assert.Equal(t, "Sol", got.Nombre)

	_, err = repo.FindByEmail(ctx, nil, "otro@sol.co")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestConfiguracionRepo_CreacionPerezosaUnica(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewConfiguracionRepository(db)
	defaults := model.Configuracion{NombreEmpresa: "RED W & GOLD S.A.S"}

	first, err := repo.Get(ctx, nil, defaults)
	require.NoError(t, err)
	assert.Equal(t, model.ConfiguracionID, first.ID)
	assert.Equal(t, 1, first.SiguienteNumero)
	assert.Equal(t, "RED W & GOLD S.A.S", first.NombreEmpresa)

	first.SiguienteNumero = 8
	first.PrefijoLiquidacion = "LQ-"
	require.NoError(t, repo.Update(ctx, nil, first))

	err = db.Transaction(func(tx *gorm.DB) error {
		got, err := repo.GetForUpdate(ctx, tx, model.Configuracion{NombreEmpresa: "otro"})
		if err != nil {
			return err
		}
		assert.Equal(t, 8, got.SiguienteNumero)
		assert.Equal(t, "LQ-", got.PrefijoLiquidacion)
		assert.Equal(t, "RED W & GOLD S.A.S", got.NombreEmpresa)
		return nil
	})
	require.NoError(t, err)

	var n int64
	db.Model(&model.Configuracion{}).Count(&n)
	assert.Equal(t, int64(1), n)
}
