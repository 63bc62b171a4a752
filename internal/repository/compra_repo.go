package repository

import (
	"context"

	"github.com/Neakz-star/La-Desesperanza/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompraRepository defines the data access contract for orders, their line
// items and tickets. Orders are written only inside the checkout transaction.
type CompraRepository interface {
	CreateTx(tx *gorm.DB, c *model.Compra) error
	CreateDetalleTx(tx *gorm.DB, d *model.DetalleCompra) error
	CreateTicketTx(tx *gorm.DB, t *model.Ticket) error

	FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error)
	FindByIDAndUsuario(ctx context.Context, id, usuarioID uuid.UUID) (*model.Compra, error)
	ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]model.Compra, error)
	ListAll(ctx context.Context) ([]model.Compra, error)
	FindTicketByCompra(ctx context.Context, compraID uuid.UUID) (*model.Ticket, error)
	FindTicketByCompraAndUsuario(ctx context.Context, compraID, usuarioID uuid.UUID) (*model.Ticket, error)

	DB() *gorm.DB
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) CreateTx(tx *gorm.DB, c *model.Compra) error {
	return tx.Create(c).Error
}

func (r *compraRepo) CreateDetalleTx(tx *gorm.DB, d *model.DetalleCompra) error {
	return tx.Create(d).Error
}

func (r *compraRepo) CreateTicketTx(tx *gorm.DB, t *model.Ticket) error {
	return tx.Create(t).Error
}

func (r *compraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	// Ticket must come along: the receipt worker renders from this load.
	err := r.db.WithContext(ctx).
		Preload("Usuario").Preload("Detalles.Producto").Preload("Ticket").
		First(&c, id).Error
	return &c, err
}

func (r *compraRepo) FindByIDAndUsuario(ctx context.Context, id, usuarioID uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto").
		Where("id = ? AND usuario_id = ?", id, usuarioID).
		First(&c).Error
	return &c, err
}

func (r *compraRepo) ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]model.Compra, error) {
	var compras []model.Compra
	err := r.db.WithContext(ctx).
		Preload("Detalles").
		Where("usuario_id = ?", usuarioID).
		Order("created_at DESC").
		Find(&compras).Error
	return compras, err
}

func (r *compraRepo) ListAll(ctx context.Context) ([]model.Compra, error) {
	var compras []model.Compra
	err := r.db.WithContext(ctx).
		Preload("Usuario").Preload("Detalles").
		Order("created_at DESC").
		Find(&compras).Error
	return compras, err
}

func (r *compraRepo) FindTicketByCompra(ctx context.Context, compraID uuid.UUID) (*model.Ticket, error) {
	var t model.Ticket
	err := r.db.WithContext(ctx).Where("compra_id = ?", compraID).First(&t).Error
	return &t, err
}

func (r *compraRepo) FindTicketByCompraAndUsuario(ctx context.Context, compraID, usuarioID uuid.UUID) (*model.Ticket, error) {
	var t model.Ticket
	err := r.db.WithContext(ctx).
		Where("compra_id = ? AND usuario_id = ?", compraID, usuarioID).
		First(&t).Error
	return &t, err
}

func (r *compraRepo) DB() *gorm.DB { return r.db }
