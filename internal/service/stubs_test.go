package service

import (
	"context"
	"sort"
	"time"

	"liquidaciontextil/internal/model"
	"liquidaciontextil/internal/repository"
	"liquidaciontextil/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── In-memory store ───────────────────────────────────────────────────────────

// memStore backs every stub repository. Rows are stored by value without their
// associations; detail reads assemble fresh trees the way the preloads do.
type memStore struct {
	clientes      map[uuid.UUID]model.Cliente
	liquidaciones map[uuid.UUID]model.Liquidacion
	rollos        map[uuid.UUID]model.Rollo
	espigas       map[uuid.UUID]model.Espiga
	config        *model.Configuracion
	clock         time.Time
}

func newMemStore() *memStore {
	return &memStore{
		clientes:      make(map[uuid.UUID]model.Cliente),
		liquidaciones: make(map[uuid.UUID]model.Liquidacion),
		rollos:        make(map[uuid.UUID]model.Rollo),
		espigas:       make(map[uuid.UUID]model.Espiga),
		clock:         time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp so created_at ordering is deterministic.
func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) espigasDe(rolloID uuid.UUID) []model.Espiga {
	out := []model.Espiga{}
	for _, e := range m.espigas {
		if e.RolloID == rolloID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Numero < out[j].Numero })
	return out
}

func (m *memStore) rollosDe(liqID uuid.UUID) []model.Rollo {
	out := []model.Rollo{}
	for _, r := range m.rollos {
		if r.LiquidacionID == liqID {
			r.Espigas = m.espigasDe(r.ID)
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Numero < out[j].Numero })
	return out
}

func (m *memStore) liquidacionDetalle(l model.Liquidacion) *model.Liquidacion {
	if c, ok := m.clientes[l.ClienteID]; ok {
		l.Cliente = &c
	}
	l.Rollos = m.rollosDe(l.ID)
	return &l
}

// ── Cliente ───────────────────────────────────────────────────────────────────

type stubClienteRepo struct{ s *memStore }

func (r *stubClienteRepo) Create(_ context.Context, _ *gorm.DB, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Email != nil {
		for _, other := range r.s.clientes {
			if other.Email != nil && *other.Email == *c.Email {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	c.CreatedAt = r.s.tick()
	c.UpdatedAt = c.CreatedAt
	r.s.clientes[c.ID] = *c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.s.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *stubClienteRepo) FindByEmail(_ context.Context, _ *gorm.DB, email string) (*model.Cliente, error) {
	for _, c := range r.s.clientes {
		if c.Email != nil && *c.Email == email {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubClienteRepo) FindDetalle(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.s.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for _, l := range r.s.liquidaciones {
		if l.ClienteID == id {
			l.Rollos = r.s.rollosDe(l.ID)
			c.Liquidaciones = append(c.Liquidaciones, l)
		}
	}
	sort.Slice(c.Liquidaciones, func(i, j int) bool {
		a, b := c.Liquidaciones[i], c.Liquidaciones[j]
		if !a.Fecha.Equal(b.Fecha) {
			return a.Fecha.After(b.Fecha)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return &c, nil
}

func (r *stubClienteRepo) List(_ context.Context) ([]model.Cliente, error) {
	out := make([]model.Cliente, 0, len(r.s.clientes))
	for _, c := range r.s.clientes {
		for _, l := range r.s.liquidaciones {
			if l.ClienteID == c.ID {
				l.Rollos = r.s.rollosDe(l.ID)
				c.Liquidaciones = append(c.Liquidaciones, l)
			}
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *stubClienteRepo) LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID, _ string) (*model.Cliente, error) {
	return r.FindByID(ctx, tx, id)
}

func (r *stubClienteRepo) CountLiquidaciones(_ context.Context, _ *gorm.DB, id uuid.UUID) (int64, error) {
	var n int64
	for _, l := range r.s.liquidaciones {
		if l.ClienteID == id {
			n++
		}
	}
	return n, nil
}

func (r *stubClienteRepo) Update(_ context.Context, _ *gorm.DB, c *model.Cliente) error {
	c.UpdatedAt = r.s.tick()
	c.Liquidaciones = nil
	r.s.clientes[c.ID] = *c
	return nil
}

func (r *stubClienteRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.s.clientes, id)
	return nil
}

func (r *stubClienteRepo) DB() *gorm.DB { return nil }

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// ── Liquidacion ───────────────────────────────────────────────────────────────

type stubLiquidacionRepo struct{ s *memStore }

func (r *stubLiquidacionRepo) Create(_ context.Context, _ *gorm.DB, l *model.Liquidacion) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	for _, other := range r.s.liquidaciones {
		if other.Numero == l.Numero {
			return gorm.ErrDuplicatedKey
		}
	}
	l.CreatedAt = r.s.tick()
	l.UpdatedAt = l.CreatedAt
	row := *l
	row.Cliente, row.Rollos = nil, nil
	r.s.liquidaciones[l.ID] = row
	return nil
}

func (r *stubLiquidacionRepo) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Liquidacion, error) {
	l, ok := r.s.liquidaciones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &l, nil
}

func (r *stubLiquidacionRepo) FindDetalle(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Liquidacion, error) {
	l, ok := r.s.liquidaciones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.s.liquidacionDetalle(l), nil
}

func (r *stubLiquidacionRepo) List(_ context.Context) ([]model.Liquidacion, error) {
	out := make([]model.Liquidacion, 0, len(r.s.liquidaciones))
	for _, l := range r.s.liquidaciones {
		out = append(out, *r.s.liquidacionDetalle(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubLiquidacionRepo) LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Liquidacion, error) {
	return r.FindByID(ctx, tx, id)
}

func (r *stubLiquidacionRepo) Update(_ context.Context, _ *gorm.DB, l *model.Liquidacion) error {
	l.UpdatedAt = r.s.tick()
	row := *l
	row.Cliente, row.Rollos = nil, nil
	r.s.liquidaciones[l.ID] = row
	return nil
}

func (r *stubLiquidacionRepo) UpdateEstado(_ context.Context, _ *gorm.DB, id uuid.UUID, estado model.EstadoLiquidacion) error {
	l, ok := r.s.liquidaciones[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	l.Estado = estado
	r.s.liquidaciones[id] = l
	return nil
}

func (r *stubLiquidacionRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	for rid, rollo := range r.s.rollos {
		if rollo.LiquidacionID != id {
			continue
		}
		for eid, e := range r.s.espigas {
			if e.RolloID == rid {
				delete(r.s.espigas, eid)
			}
		}
		delete(r.s.rollos, rid)
	}
	delete(r.s.liquidaciones, id)
	return nil
}

func (r *stubLiquidacionRepo) DB() *gorm.DB { return nil }

var _ repository.LiquidacionRepository = (*stubLiquidacionRepo)(nil)

// ── Rollo ─────────────────────────────────────────────────────────────────────

type stubRolloRepo struct{ s *memStore }

func (r *stubRolloRepo) Create(_ context.Context, _ *gorm.DB, rollo *model.Rollo) error {
	if rollo.ID == uuid.Nil {
		rollo.ID = uuid.New()
	}
	for _, other := range r.s.rollos {
		if other.LiquidacionID == rollo.LiquidacionID && other.Numero == rollo.Numero {
			return gorm.ErrDuplicatedKey
		}
	}
	rollo.CreatedAt = r.s.tick()
	row := *rollo
	row.Espigas = nil
	r.s.rollos[rollo.ID] = row
	return nil
}

func (r *stubRolloRepo) FindEnLiquidacion(_ context.Context, _ *gorm.DB, liquidacionID, id uuid.UUID) (*model.Rollo, error) {
	rollo, ok := r.s.rollos[id]
	if !ok || rollo.LiquidacionID != liquidacionID {
		return nil, gorm.ErrRecordNotFound
	}
	rollo.Espigas = r.s.espigasDe(id)
	return &rollo, nil
}

func (r *stubRolloRepo) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Rollo, error) {
	rollo, ok := r.s.rollos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &rollo, nil
}

func (r *stubRolloRepo) MaxNumero(_ context.Context, _ *gorm.DB, liquidacionID uuid.UUID) (int, error) {
	n := 0
	for _, rollo := range r.s.rollos {
		if rollo.LiquidacionID == liquidacionID && rollo.Numero > n {
			n = rollo.Numero
		}
	}
	return n, nil
}

func (r *stubRolloRepo) Update(_ context.Context, _ *gorm.DB, rollo *model.Rollo) error {
	row := *rollo
	row.Espigas = nil
	r.s.rollos[rollo.ID] = row
	return nil
}

func (r *stubRolloRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	for eid, e := range r.s.espigas {
		if e.RolloID == id {
			delete(r.s.espigas, eid)
		}
	}
	delete(r.s.rollos, id)
	return nil
}

func (r *stubRolloRepo) Compactar(_ context.Context, _ *gorm.DB, liquidacionID uuid.UUID, eliminado int) (int64, error) {
	var n int64
	for id, rollo := range r.s.rollos {
		if rollo.LiquidacionID == liquidacionID && rollo.Numero > eliminado {
			rollo.Numero--
			r.s.rollos[id] = rollo
			n++
		}
	}
	return n, nil
}

var _ repository.RolloRepository = (*stubRolloRepo)(nil)

// ── Espiga ────────────────────────────────────────────────────────────────────

type stubEspigaRepo struct{ s *memStore }

func (r *stubEspigaRepo) Create(_ context.Context, _ *gorm.DB, e *model.Espiga) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	for _, other := range r.s.espigas {
		if other.RolloID == e.RolloID && other.Numero == e.Numero {
			return gorm.ErrDuplicatedKey
		}
	}
	e.CreatedAt = r.s.tick()
	r.s.espigas[e.ID] = *e
	return nil
}

func (r *stubEspigaRepo) CreateBatch(ctx context.Context, tx *gorm.DB, espigas []model.Espiga) error {
	for i := range espigas {
		if err := r.Create(ctx, tx, &espigas[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *stubEspigaRepo) FindEnRollo(_ context.Context, _ *gorm.DB, rolloID, id uuid.UUID) (*model.Espiga, error) {
	e, ok := r.s.espigas[id]
	if !ok || e.RolloID != rolloID {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (r *stubEspigaRepo) MaxNumero(_ context.Context, _ *gorm.DB, rolloID uuid.UUID) (int, error) {
	n := 0
	for _, e := range r.s.espigas {
		if e.RolloID == rolloID && e.Numero > n {
			n = e.Numero
		}
	}
	return n, nil
}

func (r *stubEspigaRepo) Update(_ context.Context, _ *gorm.DB, e *model.Espiga) error {
	r.s.espigas[e.ID] = *e
	return nil
}

func (r *stubEspigaRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.s.espigas, id)
	return nil
}

func (r *stubEspigaRepo) Compactar(_ context.Context, _ *gorm.DB, rolloID uuid.UUID, eliminado int) (int64, error) {
	var n int64
	for id, e := range r.s.espigas {
		if e.RolloID == rolloID && e.Numero > eliminado {
			e.Numero--
			r.s.espigas[id] = e
			n++
		}
	}
	return n, nil
}

var _ repository.EspigaRepository = (*stubEspigaRepo)(nil)

// ── Configuracion ─────────────────────────────────────────────────────────────

type stubConfiguracionRepo struct {
	s       *memStore
	creates int
}

func (r *stubConfiguracionRepo) Get(_ context.Context, _ *gorm.DB, defaults model.Configuracion) (*model.Configuracion, error) {
	if r.s.config == nil {
		defaults.ID = model.ConfiguracionID
		if defaults.SiguienteNumero < 1 {
			defaults.SiguienteNumero = 1
		}
		r.s.config = &defaults
		r.creates++
	}
	c := *r.s.config
	return &c, nil
}

func (r *stubConfiguracionRepo) GetForUpdate(ctx context.Context, tx *gorm.DB, defaults model.Configuracion) (*model.Configuracion, error) {
	return r.Get(ctx, tx, defaults)
}

func (r *stubConfiguracionRepo) Update(_ context.Context, _ *gorm.DB, c *model.Configuracion) error {
	c.ID = model.ConfiguracionID
	row := *c
	r.s.config = &row
	return nil
}

func (r *stubConfiguracionRepo) DB() *gorm.DB { return nil }

var _ repository.ConfiguracionRepository = (*stubConfiguracionRepo)(nil)

// ── Encolador ─────────────────────────────────────────────────────────────────

type stubEncolador struct {
	enviados []worker.EnvioLiquidacionPayload
	err      error
}

func (e *stubEncolador) EnqueueEnvioLiquidacion(_ context.Context, p worker.EnvioLiquidacionPayload) error {
	if e.err != nil {
		return e.err
	}
	e.enviados = append(e.enviados, p)
	return nil
}

var _ Encolador = (*stubEncolador)(nil)

// ── Fixture ───────────────────────────────────────────────────────────────────

// fixture wires every service over one memStore.
type fixture struct {
	store    *memStore
	clientes *stubClienteRepo
	liqs     *stubLiquidacionRepo
	rollos   *stubRolloRepo
	espigas  *stubEspigaRepo
	config   *stubConfiguracionRepo
	envios   *stubEncolador

	clienteSvc     ClienteService
	liquidacionSvc LiquidacionService
	rolloSvc       RolloService
	espigaSvc      EspigaService
	configSvc      ConfiguracionService
}

func newFixture() *fixture {
	s := newMemStore()
	f := &fixture{
		store:    s,
		clientes: &stubClienteRepo{s: s},
		liqs:     &stubLiquidacionRepo{s: s},
		rollos:   &stubRolloRepo{s: s},
		espigas:  &stubEspigaRepo{s: s},
		config:   &stubConfiguracionRepo{s: s},
		envios:   &stubEncolador{},
	}
	defaults := model.Configuracion{NombreEmpresa: "RED W & GOLD S.A.S", SiguienteNumero: 1}
	num := NewNumerador(f.config, f.rollos, f.espigas, defaults)

	f.clienteSvc = NewClienteService(f.clientes, 0)
	f.liquidacionSvc = NewLiquidacionService(f.liqs, f.clientes, f.config, num, f.envios, defaults, nil, 0)
	f.rolloSvc = NewRolloService(f.liqs, f.rollos, f.espigas, num, nil, 0)
	f.espigaSvc = NewEspigaService(f.liqs, f.rollos, f.espigas, num, 0)
	f.configSvc = NewConfiguracionService(f.config, defaults, 0)
	return f
}
