//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/Neakz-star/La-Desesperanza/internal/config"
	"github.com/Neakz-star/La-Desesperanza/internal/infra"
	"github.com/Neakz-star/La-Desesperanza/internal/realtime"
	"github.com/Neakz-star/La-Desesperanza/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

// cliente is an HTTP client with its own cookie jar, i.e. its own session.
type cliente struct {
	t   *testing.T
	srv *httptest.Server
	c   *http.Client
}

func newCliente(t *testing.T, srv *httptest.Server) *cliente {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &cliente{t: t, srv: srv, c: &http.Client{Jar: jar}}
}

func (cl *cliente) do(method, path string, body any) *http.Response {
	cl.t.Helper()
	var buf *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(cl.t, err)
		buf = bytes.NewBuffer(b)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, cl.srv.URL+path, buf)
	require.NoError(cl.t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := cl.c.Do(req)
	require.NoError(cl.t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

func setupServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("panaderia_test"),
		tcPostgres.WithUsername("panaderia"),
		tcPostgres.WithPassword("panaderia"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:            8000,
		Env:             "test",
		DatabaseURL:     pgURL,
		RedisURL:        rdURL,
		SessionTTLHours: 24,
		TrustedTotal:    true,
		WorkerPoolSize:  1,
		NombreNegocio:   "La Desesperanza",
		PDFStoragePath:  t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hub := realtime.NewHub(rdb)
	go hub.Run(context.Background())

	r := router.New(cfg, db, rdb, hub)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, db
}

// newAdmin registers an account, promotes it in the database and logs back in
// so the fresh session carries the admin flag.
func newAdmin(t *testing.T, srv *httptest.Server, db *gorm.DB) *cliente {
	t.Helper()
	admin := newCliente(t, srv)
	resp := admin.do("POST", "/register", map[string]string{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	require.NoError(t, db.Exec(`UPDATE usuarios SET admin = true WHERE username = 'admin'`).Error)

	resp = admin.do("POST", "/login", map[string]string{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	return admin
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_CicloCompleto(t *testing.T) {
	srv, db := setupServer(t)

	// Admin crea un producto
	admin := newAdmin(t, srv, db)
	resp := admin.do("POST", "/admin/productos", map[string]any{
		"nombre": "Concha",
		"tipo":   "pan dulce",
		"precio": "30.00",
		"stock":  5,
		"activo": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)

	// Cliente se registra, carga saldo y compra
	cl := newCliente(t, srv)
	resp = cl.do("POST", "/register", map[string]string{"username": "maria", "password": "secreto1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = cl.do("POST", "/saldo/agregar", map[string]any{"monto": "100.00"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = cl.do("POST", "/carrito/comprar", map[string]any{
		"items": []map[string]any{{"id": prod.ID, "quantity": 2}},
		"total": "60.00",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var compra struct {
		CompraID    string `json:"compraId"`
		NuevoSaldo  string `json:"nuevoSaldo"`
		NumeroVenta string `json:"numeroVenta"`
	}
	decodeJSON(t, resp, &compra)
	assert.Equal(t, "40.00", compra.NuevoSaldo)
	assert.Contains(t, compra.NumeroVenta, compra.CompraID)

	// El stock bajó en el catálogo
	resp = cl.do("GET", "/productos/"+prod.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, resp, &p)
	assert.Equal(t, 3, p.Stock)

	// El ticket pertenece al comprador
	resp = cl.do("GET", "/carrito/ticket/"+compra.CompraID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ticket struct {
		NumeroVenta string `json:"numeroVenta"`
		Username    string `json:"username"`
	}
	decodeJSON(t, resp, &ticket)
	assert.Equal(t, compra.NumeroVenta, ticket.NumeroVenta)
	assert.Equal(t, "maria", ticket.Username)

	// Otro cliente no puede verlo
	otro := newCliente(t, srv)
	resp = otro.do("POST", "/register", map[string]string{"username": "pedro", "password": "secreto1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = otro.do("GET", "/carrito/ticket/"+compra.CompraID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_RegistroDuplicado(t *testing.T) {
	srv, _ := setupServer(t)
	cl := newCliente(t, srv)

	resp := cl.do("POST", "/register", map[string]string{"username": "maria", "password": "secreto1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = cl.do("POST", "/register", map[string]string{"username": "maria", "password": "otraclave"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_SaldoInsuficiente(t *testing.T) {
	srv, db := setupServer(t)

	admin := newAdmin(t, srv, db)
	resp := admin.do("POST", "/admin/productos", map[string]any{
		"nombre": "Rosca", "tipo": "pan dulce", "precio": "50.00", "stock": 2, "activo": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)

	cl := newCliente(t, srv)
	resp = cl.do("POST", "/register", map[string]string{"username": "pobre", "password": "secreto1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = cl.do("POST", "/carrito/comprar", map[string]any{
		"items": []map[string]any{{"id": prod.ID, "quantity": 1}},
		"total": "50.00",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// El stock quedó intacto
	resp = cl.do("GET", "/productos/"+prod.ID, nil)
	var p struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, resp, &p)
	assert.Equal(t, 2, p.Stock)
}

func TestE2E_CarritoPorSesion(t *testing.T) {
	srv, _ := setupServer(t)

	a := newCliente(t, srv)
	b := newCliente(t, srv)

	resp := a.do("POST", "/carrito/agregar", map[string]any{
		"id": "p1", "nombre": "Concha", "precio": "30.00", "cantidad": 2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// La sesión de B no ve el carrito de A.
	resp = b.do("GET", "/carrito", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var carritoB []any
	decodeJSON(t, resp, &carritoB)
	assert.Empty(t, carritoB)

	resp = a.do("GET", "/carrito", nil)
	var carritoA []any
	decodeJSON(t, resp, &carritoA)
	assert.Len(t, carritoA, 1)
}
