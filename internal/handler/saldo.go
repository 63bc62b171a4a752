package handler

import (
	"net/http"

	"github.com/Neakz-star/La-Desesperanza/internal/dto"
	"github.com/Neakz-star/La-Desesperanza/internal/service"

	"github.com/gin-gonic/gin"
)

type SaldoHandler struct{ svc *service.SaldoService }

func NewSaldoHandler(svc *service.SaldoService) *SaldoHandler {
	return &SaldoHandler{svc: svc}
}

// Obtener godoc
// @Summary Saldo actual del usuario
// @Tags saldo
// @Produce json
// @Success 200 {object} dto.SaldoResponse
// @Failure 401 {object} apierror.APIError
// @Router /saldo [get]
func (h *SaldoHandler) Obtener(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	saldo, err := h.svc.Obtener(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SaldoResponse{Saldo: saldo.StringFixed(2)})
}

// Agregar godoc
// @Summary Cargar saldo
// @Tags saldo
// @Accept json
// @Produce json
// @Param body body dto.AgregarSaldoRequest true "Monto a cargar"
// @Success 200 {object} dto.AgregarSaldoResponse
// @Failure 400 {object} apierror.APIError
// @Router /saldo/agregar [post]
func (h *SaldoHandler) Agregar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.AgregarSaldoRequest
	if !bindAndValidate(c, &req) {
		return
	}

	anterior, nuevo, err := h.svc.Agregar(c.Request.Context(), userID, req.Monto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AgregarSaldoResponse{
		Success:       true,
		Mensaje:       "Saldo agregado con éxito",
		SaldoAnterior: anterior.StringFixed(2),
		MontoAgregado: req.Monto.StringFixed(2),
		NuevoSaldo:    nuevo.StringFixed(2),
	})
}
