package service

import (
	"context"
	"sort"

	"github.com/Neakz-star/La-Desesperanza/internal/model"
	"github.com/Neakz-star/La-Desesperanza/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repositories. The *Tx methods ignore the nil tx that runTx passes
// when DB() is nil.

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	out := make([]model.Usuario, 0, len(r.usuarios))
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	if _, ok := r.usuarios[u.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.usuarios, id)
	return nil
}

func (r *stubUsuarioRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Usuario, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubUsuarioRepo) UpdateSaldoTx(_ *gorm.DB, id uuid.UUID, saldo decimal.Decimal) error {
	u, ok := r.usuarios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Saldo = saldo
	return nil
}

func (r *stubUsuarioRepo) DB() *gorm.DB { return nil }

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) FindByNombre(_ context.Context, nombre string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.Nombre == nombre {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) ListActivos(_ context.Context) ([]model.Producto, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		if p.Activo && p.Stock > 0 {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *stubProductoRepo) ListAll(_ context.Context) ([]model.Producto, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	if _, ok := r.productos[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.productos, id)
	return nil
}

func (r *stubProductoRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductoRepo) DescontarStockTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock -= cantidad
	if p.Stock <= 0 {
		p.Activo = false
	}
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

type stubCompraRepo struct {
	compras  map[uuid.UUID]*model.Compra
	detalles []*model.DetalleCompra
	tickets  map[uuid.UUID]*model.Ticket // by compra id

	// For resolving preload-style lookups in FindByID.
	usuarios  *stubUsuarioRepo
	productos *stubProductoRepo
}

func newStubCompraRepo(usuarios *stubUsuarioRepo, productos *stubProductoRepo) *stubCompraRepo {
	return &stubCompraRepo{
		compras:   make(map[uuid.UUID]*model.Compra),
		tickets:   make(map[uuid.UUID]*model.Ticket),
		usuarios:  usuarios,
		productos: productos,
	}
}

func (r *stubCompraRepo) CreateTx(_ *gorm.DB, c *model.Compra) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.compras[c.ID] = c
	return nil
}

func (r *stubCompraRepo) CreateDetalleTx(_ *gorm.DB, d *model.DetalleCompra) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.detalles = append(r.detalles, d)
	return nil
}

func (r *stubCompraRepo) CreateTicketTx(_ *gorm.DB, t *model.Ticket) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tickets[t.CompraID] = t
	return nil
}

func (r *stubCompraRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Compra, error) {
	c, ok := r.compras[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *c
	out.Detalles = r.detallesDe(id)
	if r.usuarios != nil {
		if u, ok := r.usuarios.usuarios[c.UsuarioID]; ok {
			out.Usuario = u
		}
	}
	if t, ok := r.tickets[id]; ok {
		out.Ticket = t
	}
	return &out, nil
}

func (r *stubCompraRepo) FindByIDAndUsuario(ctx context.Context, id, usuarioID uuid.UUID) (*model.Compra, error) {
	c, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UsuarioID != usuarioID {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCompraRepo) ListByUsuario(_ context.Context, usuarioID uuid.UUID) ([]model.Compra, error) {
	var out []model.Compra
	for id, c := range r.compras {
		if c.UsuarioID == usuarioID {
			cc := *c
			cc.Detalles = r.detallesDe(id)
			out = append(out, cc)
		}
	}
	return out, nil
}

func (r *stubCompraRepo) ListAll(_ context.Context) ([]model.Compra, error) {
	var out []model.Compra
	for id, c := range r.compras {
		cc := *c
		cc.Detalles = r.detallesDe(id)
		if r.usuarios != nil {
			if u, ok := r.usuarios.usuarios[c.UsuarioID]; ok {
				cc.Usuario = u
			}
		}
		out = append(out, cc)
	}
	return out, nil
}

func (r *stubCompraRepo) FindTicketByCompra(_ context.Context, compraID uuid.UUID) (*model.Ticket, error) {
	t, ok := r.tickets[compraID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *stubCompraRepo) FindTicketByCompraAndUsuario(_ context.Context, compraID, usuarioID uuid.UUID) (*model.Ticket, error) {
	t, ok := r.tickets[compraID]
	if !ok || t.UsuarioID != usuarioID {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *stubCompraRepo) DB() *gorm.DB { return nil }

func (r *stubCompraRepo) detallesDe(compraID uuid.UUID) []model.DetalleCompra {
	var out []model.DetalleCompra
	for _, d := range r.detalles {
		if d.CompraID == compraID {
			dd := *d
			if r.productos != nil {
				if p, ok := r.productos.productos[d.ProductoID]; ok {
					dd.Producto = p
				}
			}
			out = append(out, dd)
		}
	}
	return out
}

var _ repository.CompraRepository = (*stubCompraRepo)(nil)
