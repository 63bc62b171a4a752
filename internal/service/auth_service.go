package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Neakz-star/La-Desesperanza/internal/apierror"
	"github.com/Neakz-star/La-Desesperanza/internal/dto"
	"github.com/Neakz-star/La-Desesperanza/internal/model"
	"github.com/Neakz-star/La-Desesperanza/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

// AuthService handles registration, login and the admin user back-office.
// Passwords are stored as bcrypt hashes, never in clear.
type AuthService struct {
	usuarioRepo repository.UsuarioRepository
}

func NewAuthService(usuarioRepo repository.UsuarioRepository) *AuthService {
	return &AuthService{usuarioRepo: usuarioRepo}
}

// Register creates a new non-admin account. Username is trimmed before the
// length check; duplicates are rejected with a conflict.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*model.Usuario, error) {
	username := strings.TrimSpace(req.Username)
	if len(username) < 3 {
		return nil, apierror.E(apierror.KindInvalidInput, "El usuario debe tener al menos 3 caracteres")
	}
	if len(req.Password) < 6 {
		return nil, apierror.E(apierror.KindInvalidInput, "La contraseña debe tener al menos 6 caracteres")
	}

	_, err := s.usuarioRepo.FindByUsername(ctx, username)
	if err == nil {
		return nil, apierror.E(apierror.KindConflict, "El usuario ya existe")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	usuario := &model.Usuario{
		Username:     username,
		PasswordHash: string(hash),
		Admin:        false,
	}
	if err := s.usuarioRepo.Create(ctx, usuario); err != nil {
		return nil, err
	}
	return usuario, nil
}

// Login verifies credentials. The error message never says which of the two
// was wrong.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*model.Usuario, error) {
	username := strings.TrimSpace(req.Username)

	usuario, err := s.usuarioRepo.FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.E(apierror.KindUnauthenticated, "Usuario o contraseña incorrectos")
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.E(apierror.KindUnauthenticated, "Usuario o contraseña incorrectos")
	}
	return usuario, nil
}

// Perfil returns the account backing a session.
func (s *AuthService) Perfil(ctx context.Context, usuarioID uuid.UUID) (*model.Usuario, error) {
	usuario, err := s.usuarioRepo.FindByID(ctx, usuarioID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.E(apierror.KindNotFound, "Usuario no encontrado")
	}
	if err != nil {
		return nil, err
	}
	return usuario, nil
}

// ─── Admin back-office ───────────────────────────────────────────────────────

func (s *AuthService) ListarUsuarios(ctx context.Context) ([]dto.UsuarioAdminResponse, error) {
	usuarios, err := s.usuarioRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UsuarioAdminResponse, 0, len(usuarios))
	for _, u := range usuarios {
		out = append(out, dto.UsuarioAdminResponse{
			ID:       u.ID.String(),
			Username: u.Username,
			Admin:    u.Admin,
		})
	}
	return out, nil
}

// ToggleAdmin flips the admin flag of a user.
func (s *AuthService) ToggleAdmin(ctx context.Context, usuarioID uuid.UUID) (*dto.ToggleAdminResponse, error) {
	usuario, err := s.usuarioRepo.FindByID(ctx, usuarioID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.E(apierror.KindNotFound, "Usuario no encontrado")
	}
	if err != nil {
		return nil, err
	}

	usuario.Admin = !usuario.Admin
	if err := s.usuarioRepo.Update(ctx, usuario); err != nil {
		return nil, err
	}
	return &dto.ToggleAdminResponse{ID: usuario.ID.String(), Admin: usuario.Admin}, nil
}

// EliminarUsuario removes an account permanently.
func (s *AuthService) EliminarUsuario(ctx context.Context, usuarioID uuid.UUID) error {
	_, err := s.usuarioRepo.FindByID(ctx, usuarioID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.E(apierror.KindNotFound, "Usuario no encontrado")
	}
	if err != nil {
		return err
	}
	return s.usuarioRepo.Delete(ctx, usuarioID)
}
