package handler

import (
	"net/http"

	"github.com/Neakz-star/La-Desesperanza/internal/dto"
	"github.com/Neakz-star/La-Desesperanza/internal/middleware"
	"github.com/Neakz-star/La-Desesperanza/internal/service"
	"github.com/Neakz-star/La-Desesperanza/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ComprasHandler struct {
	svc     *service.CompraService
	carrito session.CarritoStore
}

func NewComprasHandler(svc *service.CompraService, carrito session.CarritoStore) *ComprasHandler {
	return &ComprasHandler{svc: svc, carrito: carrito}
}

// Comprar godoc
// @Summary Finalizar compra
// @Tags compras
// @Accept json
// @Produce json
// @Param body body dto.ComprarRequest true "Carrito"
// @Success 200 {object} dto.ComprarResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /carrito/comprar [post]
func (h *ComprasHandler) Comprar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.ComprarRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Comprar(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	// The purchased cart is spent; clearing it is best effort.
	if sid := c.GetString(middleware.SIDKey); sid != "" {
		if err := h.carrito.Vaciar(c.Request.Context(), sid); err != nil {
			log.Warn().Err(err).Msg("cart clear after purchase failed")
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ComprasHandler) Historial(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Historial(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ComprasHandler) Detalle(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	compraID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	data, _ := middleware.GetSession(c)
	resp, err := h.svc.Detalle(c.Request.Context(), compraID, userID, data.Admin)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ComprasHandler) Ticket(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	compraID, ok := parseIDParam(c, "compraId")
	if !ok {
		return
	}
	data, _ := middleware.GetSession(c)
	resp, err := h.svc.Ticket(c.Request.Context(), compraID, userID, data.Admin)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarTodas is the admin view over every purchase.
func (h *ComprasHandler) ListarTodas(c *gin.Context) {
	resp, err := h.svc.ListarTodas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
