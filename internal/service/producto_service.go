package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/Neakz-star/La-Desesperanza/internal/apierror"
	"github.com/Neakz-star/La-Desesperanza/internal/dto"
	"github.com/Neakz-star/La-Desesperanza/internal/model"
	"github.com/Neakz-star/La-Desesperanza/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// TemporadaGeneral is the fallback bucket for products without a season.
	TemporadaGeneral = "General"

	catalogoCacheKey = "cache:productos:activos"
	catalogoCacheTTL = 60 * time.Second
)

// ProductoService covers the public catalog and the admin product CRUD.
// The active-catalog listing is cached in Redis for a minute; every catalog
// mutation invalidates the cache.
type ProductoService struct {
	productoRepo repository.ProductoRepository
	rdb          *redis.Client
}

func NewProductoService(productoRepo repository.ProductoRepository, rdb *redis.Client) *ProductoService {
	return &ProductoService{productoRepo: productoRepo, rdb: rdb}
}

// ─── Public catalog ──────────────────────────────────────────────────────────

// ListarActivos returns the purchasable catalog, cache-first.
func (s *ProductoService) ListarActivos(ctx context.Context) ([]dto.ProductoResponse, error) {
	if s.rdb != nil {
		if b, err := s.rdb.Get(ctx, catalogoCacheKey).Bytes(); err == nil {
			var cached []dto.ProductoResponse
			if json.Unmarshal(b, &cached) == nil {
				return cached, nil
			}
		}
	}

	productos, err := s.productoRepo.ListActivos(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductoResponse, 0, len(productos))
	for _, p := range productos {
		out = append(out, toProductoResponse(&p))
	}

	if s.rdb != nil {
		if b, err := json.Marshal(out); err == nil {
			if err := s.rdb.Set(ctx, catalogoCacheKey, b, catalogoCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("catalog cache write failed")
			}
		}
	}
	return out, nil
}

// ListarPorTemporada groups the active catalog by season. Groups keep the
// order in which seasons first appear in the name-sorted catalog, except
// "General", which always comes last.
func (s *ProductoService) ListarPorTemporada(ctx context.Context) ([]dto.TemporadaGroup, error) {
	productos, err := s.ListarActivos(ctx)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string][]dto.ProductoResponse)
	var orden []string
	for _, p := range productos {
		temporada := TemporadaGeneral
		if p.Temporada != nil && strings.TrimSpace(*p.Temporada) != "" {
			temporada = strings.TrimSpace(*p.Temporada)
		}
		if _, seen := buckets[temporada]; !seen && temporada != TemporadaGeneral {
			orden = append(orden, temporada)
		}
		buckets[temporada] = append(buckets[temporada], p)
	}

	grupos := make([]dto.TemporadaGroup, 0, len(buckets))
	for _, temporada := range orden {
		grupos = append(grupos, dto.TemporadaGroup{Temporada: temporada, Productos: buckets[temporada]})
	}
	if general, ok := buckets[TemporadaGeneral]; ok {
		grupos = append(grupos, dto.TemporadaGroup{Temporada: TemporadaGeneral, Productos: general})
	}
	return grupos, nil
}

// ─── Admin CRUD ──────────────────────────────────────────────────────────────

func (s *ProductoService) ListarTodos(ctx context.Context) ([]dto.ProductoResponse, error) {
	productos, err := s.productoRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductoResponse, 0, len(productos))
	for _, p := range productos {
		out = append(out, toProductoResponse(&p))
	}
	return out, nil
}

func (s *ProductoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	producto, err := s.productoRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.E(apierror.KindNotFound, "Producto no encontrado")
	}
	if err != nil {
		return nil, err
	}
	resp := toProductoResponse(producto)
	return &resp, nil
}

// Crear adds a catalog item. A product created with stock 0 starts inactive
// regardless of the requested flag.
func (s *ProductoService) Crear(ctx context.Context, req dto.GuardarProductoRequest) (*dto.ProductoResponse, error) {
	if err := validarProducto(req); err != nil {
		return nil, err
	}

	_, err := s.productoRepo.FindByNombre(ctx, strings.TrimSpace(req.Nombre))
	if err == nil {
		return nil, apierror.E(apierror.KindConflict, "Ya existe un producto con ese nombre")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	producto := &model.Producto{
		Nombre:      strings.TrimSpace(req.Nombre),
		Descripcion: req.Descripcion,
		Tipo:        req.Tipo,
		Precio:      req.Precio,
		Stock:       req.Stock,
		Img:         req.Img,
		Temporada:   req.Temporada,
		Activo:      req.Activo && req.Stock > 0,
	}
	if err := s.productoRepo.Create(ctx, producto); err != nil {
		return nil, err
	}
	s.invalidarCache(ctx)
	resp := toProductoResponse(producto)
	return &resp, nil
}

// Actualizar replaces the editable fields. Dropping stock to 0 deactivates
// the product.
func (s *ProductoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.GuardarProductoRequest) (*dto.ProductoResponse, error) {
	if err := validarProducto(req); err != nil {
		return nil, err
	}

	producto, err := s.productoRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.E(apierror.KindNotFound, "Producto no encontrado")
	}
	if err != nil {
		return nil, err
	}

	producto.Nombre = strings.TrimSpace(req.Nombre)
	producto.Descripcion = req.Descripcion
	producto.Tipo = req.Tipo
	producto.Precio = req.Precio
	producto.Stock = req.Stock
	producto.Img = req.Img
	producto.Temporada = req.Temporada
	producto.Activo = req.Activo && req.Stock > 0

	if err := s.productoRepo.Update(ctx, producto); err != nil {
		return nil, err
	}
	s.invalidarCache(ctx)
	resp := toProductoResponse(producto)
	return &resp, nil
}

// ToggleActivo flips visibility. Activating a product without stock is
// rejected; it would break the catalog invariant.
func (s *ProductoService) ToggleActivo(ctx context.Context, id uuid.UUID) (*dto.ToggleActivoResponse, error) {
	producto, err := s.productoRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.E(apierror.KindNotFound, "Producto no encontrado")
	}
	if err != nil {
		return nil, err
	}

	if !producto.Activo && producto.Stock <= 0 {
		return nil, apierror.E(apierror.KindInvalidInput, "No se puede activar un producto sin stock")
	}

	producto.Activo = !producto.Activo
	if err := s.productoRepo.Update(ctx, producto); err != nil {
		return nil, err
	}
	s.invalidarCache(ctx)
	return &dto.ToggleActivoResponse{ID: producto.ID.String(), Activo: producto.Activo}, nil
}

func (s *ProductoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	_, err := s.productoRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.E(apierror.KindNotFound, "Producto no encontrado")
	}
	if err != nil {
		return err
	}
	if err := s.productoRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidarCache(ctx)
	return nil
}

// ValidarImagenURL checks that an external image URL is usable before the
// admin saves it: http(s) only, no Google search result links, and a warning
// when the path has no recognizable image extension.
func (s *ProductoService) ValidarImagenURL(rawURL string) (*dto.ValidateImageURLResponse, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, apierror.E(apierror.KindInvalidInput, "La URL debe comenzar con http:// o https://")
	}

	if strings.Contains(u.Host, "google.com") && strings.Contains(rawURL, "url?sa=i") {
		return nil, apierror.E(apierror.KindInvalidInput,
			"Esa es una URL de busqueda de Google, no una imagen. Abre la imagen y copia su direccion directa")
	}

	extensiones := []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}
	path := strings.ToLower(u.Path)
	tieneExtension := false
	for _, ext := range extensiones {
		if strings.HasSuffix(path, ext) {
			tieneExtension = true
			break
		}
	}

	resp := &dto.ValidateImageURLResponse{
		ImageURL: rawURL,
		Valid:    true,
	}
	if tieneExtension {
		resp.Mensaje = "URL de imagen valida"
	} else {
		resp.Mensaje = "La URL no termina en una extension de imagen conocida; verifica que cargue correctamente"
		resp.Warning = true
	}
	return resp, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func validarProducto(req dto.GuardarProductoRequest) error {
	if len(strings.TrimSpace(req.Nombre)) < 3 {
		return apierror.E(apierror.KindInvalidInput, "El nombre debe tener al menos 3 caracteres")
	}
	if req.Precio.LessThanOrEqual(decimal.Zero) {
		return apierror.E(apierror.KindInvalidInput, "El precio debe ser mayor a 0")
	}
	if req.Stock < 0 {
		return apierror.E(apierror.KindInvalidInput, "El stock no puede ser negativo")
	}
	return nil
}

func (s *ProductoService) invalidarCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, catalogoCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}

func toProductoResponse(p *model.Producto) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:          p.ID.String(),
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Tipo:        p.Tipo,
		Precio:      p.Precio,
		Stock:       p.Stock,
		Img:         p.Img,
		Temporada:   p.Temporada,
		Activo:      p.Activo,
	}
}
