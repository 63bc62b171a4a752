package handler

import (
	"net/http"

	"github.com/Neakz-star/La-Desesperanza/internal/dto"
	"github.com/Neakz-star/La-Desesperanza/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductosHandler struct{ svc *service.ProductoService }

func NewProductosHandler(svc *service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

// ── Public catalog ───────────────────────────────────────────────────────────

// Listar godoc
// @Summary Catálogo de productos activos
// @Tags productos
// @Produce json
// @Success 200 {array} dto.ProductoResponse
// @Router /productos [get]
func (h *ProductosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.ListarActivos(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PorTemporada godoc
// @Summary Catálogo agrupado por temporada
// @Tags productos
// @Produce json
// @Success 200 {array} dto.TemporadaGroup
// @Router /productos/por-temporada [get]
func (h *ProductosHandler) PorTemporada(c *gin.Context) {
	resp, err := h.svc.ListarPorTemporada(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Obtener(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Admin back-office ────────────────────────────────────────────────────────

func (h *ProductosHandler) ListarTodos(c *gin.Context) {
	resp, err := h.svc.ListarTodos(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.GuardarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductosHandler) Actualizar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.GuardarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) ToggleActivo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ToggleActivo(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Eliminar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "Producto eliminado"})
}

// ValidarImagenURL checks an external image URL before the admin saves it.
func (h *ProductosHandler) ValidarImagenURL(c *gin.Context) {
	var req dto.ValidateImageURLRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ValidarImagenURL(req.ImageURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EjemplosImagenes returns curated image URLs for the admin product form.
func (h *ProductosHandler) EjemplosImagenes(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ExampleImagesResponse{
		Mensaje: "URLs de ejemplo para imagenes de productos",
		Examples: []dto.ExampleImage{
			{
				Name:        "Pan artesanal",
				URL:         "https://images.unsplash.com/photo-1509440159596-0249088772ff?w=600",
				Description: "Hogaza de pan rustico",
			},
			{
				Name:        "Croissants",
				URL:         "https://images.unsplash.com/photo-1555507036-ab1f4038808a?w=600",
				Description: "Croissants recien horneados",
			},
			{
				Name:        "Pastel de chocolate",
				URL:         "https://images.unsplash.com/photo-1578985545062-69928b1d9587?w=600",
				Description: "Rebanada de pastel de chocolate",
			},
			{
				Name:        "Concha",
				URL:         "https://images.unsplash.com/photo-1588195538326-c5b1e9f80a1b?w=600",
				Description: "Pan dulce tradicional",
			},
		},
		Instructions: []string{
			"Usa la URL directa de la imagen, no la pagina que la contiene",
			"La URL debe comenzar con http:// o https://",
			"De preferencia que termine en .jpg, .png o .webp",
		},
	})
}
