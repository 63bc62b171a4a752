package service

import (
	"context"
	"errors"

	"github.com/Neakz-star/La-Desesperanza/internal/apierror"
	"github.com/Neakz-star/La-Desesperanza/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// maxSaldo caps any account balance at 999,999,999,999.
var maxSaldo = decimal.NewFromInt(999_999_999_999)

// SaldoService implements the balance ledger: read and top-up. Debits happen
// only through checkout.
type SaldoService struct {
	usuarioRepo repository.UsuarioRepository
}

func NewSaldoService(usuarioRepo repository.UsuarioRepository) *SaldoService {
	return &SaldoService{usuarioRepo: usuarioRepo}
}

// Obtener returns the current balance of the user.
func (s *SaldoService) Obtener(ctx context.Context, usuarioID uuid.UUID) (decimal.Decimal, error) {
	usuario, err := s.usuarioRepo.FindByID(ctx, usuarioID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, apierror.E(apierror.KindNotFound, "Usuario no encontrado")
	}
	if err != nil {
		return decimal.Zero, err
	}
	return usuario.Saldo, nil
}

// Agregar credits monto to the balance. The amount must be strictly positive
// and the resulting balance may not exceed the ledger ceiling. The row is
// locked so a concurrent checkout cannot interleave with the credit.
func (s *SaldoService) Agregar(ctx context.Context, usuarioID uuid.UUID, monto decimal.Decimal) (anterior, nuevo decimal.Decimal, err error) {
	if monto.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Zero,
			apierror.E(apierror.KindInvalidInput, "El monto debe ser mayor a 0")
	}

	err = runTx(ctx, s.usuarioRepo.DB(), func(tx *gorm.DB) error {
		usuario, txErr := s.usuarioRepo.FindByIDForUpdateTx(tx, usuarioID)
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return apierror.E(apierror.KindNotFound, "Usuario no encontrado")
		}
		if txErr != nil {
			return txErr
		}

		anterior = usuario.Saldo
		nuevo = anterior.Add(monto)
		if nuevo.GreaterThan(maxSaldo) {
			return apierror.E(apierror.KindLimitExceeded, "El saldo no puede superar 999999999999")
		}
		return s.usuarioRepo.UpdateSaldoTx(tx, usuarioID, nuevo)
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return anterior, nuevo, nil
}
