package repository

import (
	"context"

	"github.com/Neakz-star/La-Desesperanza/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UsuarioRepository defines the data access contract for accounts.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByUsername(ctx context.Context, username string) (*model.Usuario, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	List(ctx context.Context) ([]model.Usuario, error)
	Update(ctx context.Context, u *model.Usuario) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Used inside transactions — callers must pass the tx instance.
	// FindByIDForUpdateTx takes a row lock so a concurrent checkout and
	// top-up on the same user serialize on the balance.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Usuario, error)
	UpdateSaldoTx(tx *gorm.DB, id uuid.UUID, saldo decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) FindByUsername(ctx context.Context, username string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	return &u, err
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).First(&u, id).Error
	return &u, err
}

func (r *usuarioRepo) List(ctx context.Context) ([]model.Usuario, error) {
	var users []model.Usuario
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error
	return users, err
}

func (r *usuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *usuarioRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Usuario{}, id).Error
}

func (r *usuarioRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, id).Error
	return &u, err
}

func (r *usuarioRepo) UpdateSaldoTx(tx *gorm.DB, id uuid.UUID, saldo decimal.Decimal) error {
	return tx.Model(&model.Usuario{}).Where("id = ?", id).Update("saldo", saldo).Error
}

func (r *usuarioRepo) DB() *gorm.DB { return r.db }
