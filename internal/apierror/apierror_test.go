package apierror

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfClasificado(t *testing.T) {
	err := E(KindConflict, "El usuario ya existe")
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, http.StatusConflict, StatusOf(err))

	wrapped := fmt.Errorf("registro: %w", err)
	assert.Equal(t, KindConflict, KindOf(wrapped))
}

func TestKindOfFallaDeConexion(t *testing.T) {
	// Shape a Postgres/Redis dial failure takes through the drivers.
	dial := &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}

	assert.Equal(t, KindUnavailable, KindOf(dial))
	assert.Equal(t, http.StatusServiceUnavailable, StatusOf(dial))

	wrapped := fmt.Errorf("consulta saldo: %w", dial)
	assert.Equal(t, http.StatusServiceUnavailable, StatusOf(wrapped))

	reset := fmt.Errorf("redis: %w", syscall.ECONNRESET)
	assert.Equal(t, KindUnavailable, KindOf(reset))
}

func TestKindOfErrorSinClasificar(t *testing.T) {
	err := errors.New("algo salió mal")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
}
