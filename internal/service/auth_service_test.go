package service

import (
	"context"
	"testing"

	"github.com/Neakz-star/La-Desesperanza/internal/apierror"
	"github.com/Neakz-star/La-Desesperanza/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterGuardaHashNoPassword(t *testing.T) {
	usuarios := newStubUsuarioRepo()
	svc := NewAuthService(usuarios)

	usuario, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "  maria  ",
		Password: "secreto1",
	})
	require.NoError(t, err)

	assert.Equal(t, "maria", usuario.Username)
	assert.False(t, usuario.Admin)
	assert.NotEqual(t, "secreto1", usuario.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte("secreto1")))
}

func TestRegisterUsernameCorto(t *testing.T) {
	svc := NewAuthService(newStubUsuarioRepo())

	_, err := svc.Register(context.Background(), dto.RegisterRequest{Username: "ab", Password: "secreto1"})
	require.Error(t, err)
	assert.Equal(t, apierror.KindInvalidInput, apierror.KindOf(err))
}

func TestRegisterPasswordCorta(t *testing.T) {
	svc := NewAuthService(newStubUsuarioRepo())

	_, err := svc.Register(context.Background(), dto.RegisterRequest{Username: "maria", Password: "abc"})
	require.Error(t, err)
	assert.Equal(t, apierror.KindInvalidInput, apierror.KindOf(err))
}

func TestRegisterDuplicado(t *testing.T) {
	svc := NewAuthService(newStubUsuarioRepo())

	_, err := svc.Register(context.Background(), dto.RegisterRequest{Username: "maria", Password: "secreto1"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), dto.RegisterRequest{Username: "maria", Password: "otraclave"})
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
}

func TestLogin(t *testing.T) {
	svc := NewAuthService(newStubUsuarioRepo())
	_, err := svc.Register(context.Background(), dto.RegisterRequest{Username: "maria", Password: "secreto1"})
	require.NoError(t, err)

	usuario, err := svc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "secreto1"})
	require.NoError(t, err)
	assert.Equal(t, "maria", usuario.Username)

	// Wrong password and unknown user yield the same classified error.
	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "equivocada"})
	assert.Equal(t, apierror.KindUnauthenticated, apierror.KindOf(err))
	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "secreto1"})
	assert.Equal(t, apierror.KindUnauthenticated, apierror.KindOf(err))
}

func TestToggleAdmin(t *testing.T) {
	usuarios := newStubUsuarioRepo()
	svc := NewAuthService(usuarios)

	usuario, err := svc.Register(context.Background(), dto.RegisterRequest{Username: "maria", Password: "secreto1"})
	require.NoError(t, err)

	resp, err := svc.ToggleAdmin(context.Background(), usuario.ID)
	require.NoError(t, err)
	assert.True(t, resp.Admin)

	resp, err = svc.ToggleAdmin(context.Background(), usuario.ID)
	require.NoError(t, err)
	assert.False(t, resp.Admin)
}

func TestEliminarUsuarioInexistente(t *testing.T) {
	svc := NewAuthService(newStubUsuarioRepo())

	err := svc.EliminarUsuario(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}
