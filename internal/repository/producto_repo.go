package repository

import (
	"context"

	"github.com/Neakz-star/La-Desesperanza/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductoRepository defines the data access contract for catalog items.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByNombre(ctx context.Context, nombre string) (*model.Producto, error)
	// ListActivos returns the public catalog: activo AND stock > 0, by name.
	ListActivos(ctx context.Context) ([]model.Producto, error)
	// ListAll returns every product regardless of state (admin back-office).
	ListAll(ctx context.Context) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Used inside the checkout transaction — callers must pass the tx instance.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error)
	DescontarStockTx(tx *gorm.DB, id uuid.UUID, cantidad int) error

	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productoRepo) FindByNombre(ctx context.Context, nombre string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("nombre = ?", nombre).First(&p).Error
	return &p, err
}

func (r *productoRepo) ListActivos(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("activo = true AND stock > 0").
		Order("nombre ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) ListAll(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Producto{}, id).Error
}

func (r *productoRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error
	return &p, err
}

// DescontarStockTx decrements stock and deactivates the product when the
// remaining stock is <= 0 (catalog invariant).
func (r *productoRepo) DescontarStockTx(tx *gorm.DB, id uuid.UUID, cantidad int) error {
	if err := tx.Model(&model.Producto{}).Where("id = ?", id).
		Update("stock", gorm.Expr("stock - ?", cantidad)).Error; err != nil {
		return err
	}
	return tx.Model(&model.Producto{}).
		Where("id = ? AND stock <= 0", id).
		Update("activo", false).Error
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
