package handler

import (
	"net/http"

	"github.com/Neakz-star/La-Desesperanza/internal/dto"
	"github.com/Neakz-star/La-Desesperanza/internal/middleware"
	"github.com/Neakz-star/La-Desesperanza/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CarritoHandler exposes the session-scoped cart. Each browser session gets
// its own cart; visitors without a session yet are issued an anonymous sid
// so the cart survives until login.
type CarritoHandler struct {
	carrito session.CarritoStore
	ttl     int // cookie lifetime in seconds
}

func NewCarritoHandler(carrito session.CarritoStore, ttlSeconds int) *CarritoHandler {
	return &CarritoHandler{carrito: carrito, ttl: ttlSeconds}
}

// sid returns the request's session id, minting an anonymous one when the
// visitor has none.
func (h *CarritoHandler) sid(c *gin.Context) string {
	if sid := c.GetString(middleware.SIDKey); sid != "" {
		return sid
	}
	sid := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, sid, h.ttl, "/", "", false, true)
	return sid
}

func (h *CarritoHandler) Listar(c *gin.Context) {
	items, err := h.carrito.Listar(c.Request.Context(), h.sid(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *CarritoHandler) Agregar(c *gin.Context) {
	var req dto.AgregarCarritoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	items, err := h.carrito.Agregar(c.Request.Context(), h.sid(c), dto.CarritoItem{
		ID:       req.ID,
		Nombre:   req.Nombre,
		Precio:   req.Precio,
		Cantidad: req.Cantidad,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CarritoResponse{Mensaje: "Producto agregado al carrito", Carrito: items})
}

func (h *CarritoHandler) Eliminar(c *gin.Context) {
	items, err := h.carrito.Eliminar(c.Request.Context(), h.sid(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CarritoResponse{Mensaje: "Producto eliminado del carrito", Carrito: items})
}

func (h *CarritoHandler) Vaciar(c *gin.Context) {
	if err := h.carrito.Vaciar(c.Request.Context(), h.sid(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CarritoResponse{Mensaje: "Carrito vaciado", Carrito: []dto.CarritoItem{}})
}

// Total sums precio × cantidad over the cart lines.
func (h *CarritoHandler) Total(c *gin.Context) {
	items, err := h.carrito.Listar(c.Request.Context(), h.sid(c))
	if err != nil {
		respondError(c, err)
		return
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Precio.Mul(decimal.NewFromInt(int64(it.Cantidad))))
	}
	c.JSON(http.StatusOK, dto.CarritoTotalResponse{Total: total})
}
