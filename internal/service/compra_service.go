package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Neakz-star/La-Desesperanza/internal/apierror"
	"github.com/Neakz-star/La-Desesperanza/internal/dto"
	"github.com/Neakz-star/La-Desesperanza/internal/model"
	"github.com/Neakz-star/La-Desesperanza/internal/repository"
	"github.com/Neakz-star/La-Desesperanza/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const fechaFormato = "02/01/2006 15:04"

// lineaResuelta is a cart line after catalog resolution: the product it maps
// to and the unit price that will be charged and snapshotted.
type lineaResuelta struct {
	producto *model.Producto
	cantidad int
	precio   decimal.Decimal
}

// CompraService implements checkout and purchase history.
//
// Checkout validates everything before writing anything: line resolution,
// stock and balance checks all happen first, so a failed purchase leaves no
// partial order behind. The write phase then runs in a single transaction
// with the user and product rows locked, re-checking stock and balance under
// the locks before debiting.
type CompraService struct {
	usuarioRepo  repository.UsuarioRepository
	productoRepo repository.ProductoRepository
	compraRepo   repository.CompraRepository
	dispatcher   *worker.Dispatcher
	// trustedTotal keeps the legacy behavior of charging the client-sent
	// total. With it off, the total is recomputed from catalog prices.
	trustedTotal bool
	negocio      string
}

func NewCompraService(
	usuarioRepo repository.UsuarioRepository,
	productoRepo repository.ProductoRepository,
	compraRepo repository.CompraRepository,
	dispatcher *worker.Dispatcher,
	trustedTotal bool,
	negocio string,
) *CompraService {
	return &CompraService{
		usuarioRepo:  usuarioRepo,
		productoRepo: productoRepo,
		compraRepo:   compraRepo,
		dispatcher:   dispatcher,
		trustedTotal: trustedTotal,
		negocio:      negocio,
	}
}

// Comprar executes the checkout for usuarioID with the submitted cart.
func (s *CompraService) Comprar(ctx context.Context, usuarioID uuid.UUID, req dto.ComprarRequest) (*dto.ComprarResponse, error) {
	if len(req.Items) == 0 {
		return nil, apierror.E(apierror.KindInvalidInput, "El carrito está vacío")
	}

	lineas, err := s.resolverLineas(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	total := s.calcularTotal(req.Total, lineas)

	// Pre-flight balance check against the unlocked row; re-checked under
	// the row lock inside the transaction.
	usuario, err := s.usuarioRepo.FindByID(ctx, usuarioID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.E(apierror.KindNotFound, "Usuario no encontrado")
	}
	if err != nil {
		return nil, err
	}
	if usuario.Saldo.LessThan(total) {
		return nil, apierror.Ef(apierror.KindInsufficientBalance,
			"Saldo insuficiente. Tu saldo: $%s, Total: $%s",
			usuario.Saldo.StringFixed(2), total.StringFixed(2))
	}

	var (
		compra        model.Compra
		ticket        model.Ticket
		saldoAnterior decimal.Decimal
		nuevoSaldo    decimal.Decimal
	)

	err = runTx(ctx, s.compraRepo.DB(), func(tx *gorm.DB) error {
		// Lock the buyer's row and re-check the balance.
		u, txErr := s.usuarioRepo.FindByIDForUpdateTx(tx, usuarioID)
		if txErr != nil {
			return txErr
		}
		if u.Saldo.LessThan(total) {
			return apierror.Ef(apierror.KindInsufficientBalance,
				"Saldo insuficiente. Tu saldo: $%s, Total: $%s",
				u.Saldo.StringFixed(2), total.StringFixed(2))
		}
		saldoAnterior = u.Saldo
		nuevoSaldo = saldoAnterior.Sub(total)

		// Lock each product row and re-check stock before decrementing.
		for _, l := range lineas {
			p, txErr := s.productoRepo.FindByIDForUpdateTx(tx, l.producto.ID)
			if txErr != nil {
				return txErr
			}
			if p.Stock < l.cantidad {
				return apierror.Ef(apierror.KindInsufficientStock,
					"Stock insuficiente para %s. Disponible: %d", p.Nombre, p.Stock)
			}
		}

		compra = model.Compra{UsuarioID: usuarioID, Total: total}
		if txErr := s.compraRepo.CreateTx(tx, &compra); txErr != nil {
			return txErr
		}

		for _, l := range lineas {
			detalle := model.DetalleCompra{
				CompraID:       compra.ID,
				ProductoID:     l.producto.ID,
				Cantidad:       l.cantidad,
				PrecioUnitario: l.precio,
			}
			if txErr := s.compraRepo.CreateDetalleTx(tx, &detalle); txErr != nil {
				return txErr
			}
			if txErr := s.productoRepo.DescontarStockTx(tx, l.producto.ID, l.cantidad); txErr != nil {
				return txErr
			}
		}

		ticket = model.Ticket{
			CompraID:    compra.ID,
			UsuarioID:   usuarioID,
			TotalPagar:  total,
			NumeroVenta: generarNumeroVenta(compra.ID),
		}
		if txErr := s.compraRepo.CreateTicketTx(tx, &ticket); txErr != nil {
			return txErr
		}

		return s.usuarioRepo.UpdateSaldoTx(tx, usuarioID, nuevoSaldo)
	})
	if err != nil {
		return nil, err
	}

	// Post-commit: receipt rendering is async and must not fail the sale.
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueTicket(ctx, compra.ID.String()); err != nil {
			log.Warn().Str("compra_id", compra.ID.String()).Err(err).Msg("ticket enqueue failed")
		}
	}

	return &dto.ComprarResponse{
		Mensaje:         "Compra realizada con éxito",
		CompraID:        compra.ID.String(),
		Total:           total,
		SaldoAnterior:   saldoAnterior.StringFixed(2),
		NuevoSaldo:      nuevoSaldo.StringFixed(2),
		SaldoDescontado: total.StringFixed(2),
		NumeroVenta:     ticket.NumeroVenta,
	}, nil
}

// resolverLineas maps each submitted line to a catalog product, by id when
// present and by exact name otherwise, and validates quantity and stock.
func (s *CompraService) resolverLineas(ctx context.Context, items []dto.ItemCompraRequest) ([]lineaResuelta, error) {
	lineas := make([]lineaResuelta, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, apierror.E(apierror.KindInvalidInput, "La cantidad debe ser mayor a 0")
		}

		var (
			producto *model.Producto
			err      error
		)
		switch {
		case item.ID != "":
			id, parseErr := uuid.Parse(item.ID)
			if parseErr != nil {
				return nil, apierror.Ef(apierror.KindInvalidInput, "Producto inválido: %s", item.ID)
			}
			producto, err = s.productoRepo.FindByID(ctx, id)
		case strings.TrimSpace(item.Name) != "":
			producto, err = s.productoRepo.FindByNombre(ctx, strings.TrimSpace(item.Name))
		default:
			return nil, apierror.E(apierror.KindInvalidInput, "Cada producto necesita un id o un nombre")
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			etiqueta := item.Name
			if etiqueta == "" {
				etiqueta = item.ID
			}
			// A cart line pointing at a missing product is bad input, not a 404.
		return nil, apierror.Ef(apierror.KindInvalidInput, "Producto no encontrado: %s", etiqueta)
		}
		if err != nil {
			return nil, err
		}
		if !producto.Activo {
			return nil, apierror.Ef(apierror.KindInvalidInput, "Producto no encontrado: %s", producto.Nombre)
		}
		if producto.Stock < item.Quantity {
			return nil, apierror.Ef(apierror.KindInsufficientStock,
				"Stock insuficiente para %s. Disponible: %d", producto.Nombre, producto.Stock)
		}

		lineas = append(lineas, lineaResuelta{
			producto: producto,
			cantidad: item.Quantity,
			precio:   producto.Precio,
		})
	}
	return lineas, nil
}

// calcularTotal picks the amount to charge: the client total in trusted mode
// (when present and positive), the catalog-priced sum otherwise.
func (s *CompraService) calcularTotal(reqTotal decimal.Decimal, lineas []lineaResuelta) decimal.Decimal {
	if s.trustedTotal && reqTotal.GreaterThan(decimal.Zero) {
		return reqTotal
	}
	total := decimal.Zero
	for _, l := range lineas {
		total = total.Add(l.precio.Mul(decimal.NewFromInt(int64(l.cantidad))))
	}
	return total
}

// generarNumeroVenta builds the sale number from the order id plus the last
// six digits of a nanosecond timestamp.
func generarNumeroVenta(compraID uuid.UUID) string {
	return fmt.Sprintf("V-%s-%06d", compraID, time.Now().UnixNano()%1_000_000)
}

// ─── History ─────────────────────────────────────────────────────────────────

// Historial lists the user's purchases, newest first.
func (s *CompraService) Historial(ctx context.Context, usuarioID uuid.UUID) ([]dto.HistorialItem, error) {
	compras, err := s.compraRepo.ListByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistorialItem, 0, len(compras))
	for _, c := range compras {
		out = append(out, dto.HistorialItem{
			ID:             c.ID.String(),
			Total:          c.Total,
			Fecha:          c.CreatedAt.Format(fechaFormato),
			TotalProductos: totalUnidades(c.Detalles),
		})
	}
	return out, nil
}

// Detalle returns one purchase with its lines. Non-admins only see their own.
func (s *CompraService) Detalle(ctx context.Context, compraID, usuarioID uuid.UUID, admin bool) (*dto.CompraDetalleResponse, error) {
	var (
		compra *model.Compra
		err    error
	)
	if admin {
		compra, err = s.compraRepo.FindByID(ctx, compraID)
	} else {
		compra, err = s.compraRepo.FindByIDAndUsuario(ctx, compraID, usuarioID)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.E(apierror.KindNotFound, "Compra no encontrada")
	}
	if err != nil {
		return nil, err
	}

	resp := &dto.CompraDetalleResponse{
		Compra: dto.CompraInfo{
			ID:    compra.ID.String(),
			Total: compra.Total,
			Fecha: compra.CreatedAt.Format(fechaFormato),
		},
		Detalles: make([]dto.DetalleInfo, 0, len(compra.Detalles)),
	}
	if compra.Usuario != nil {
		resp.Compra.Username = compra.Usuario.Username
	}
	for _, d := range compra.Detalles {
		info := dto.DetalleInfo{
			Cantidad:   d.Cantidad,
			ProductoID: d.ProductoID.String(),
			Precio:     d.PrecioUnitario,
			Subtotal:   d.PrecioUnitario.Mul(decimal.NewFromInt(int64(d.Cantidad))),
		}
		if d.Producto != nil {
			info.Nombre = d.Producto.Nombre
		}
		resp.Detalles = append(resp.Detalles, info)
	}
	return resp, nil
}

// Ticket returns the printable receipt of a purchase. Non-admins only see
// their own.
func (s *CompraService) Ticket(ctx context.Context, compraID, usuarioID uuid.UUID, admin bool) (*dto.TicketResponse, error) {
	var (
		ticket *model.Ticket
		err    error
	)
	if admin {
		ticket, err = s.compraRepo.FindTicketByCompra(ctx, compraID)
	} else {
		ticket, err = s.compraRepo.FindTicketByCompraAndUsuario(ctx, compraID, usuarioID)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.E(apierror.KindNotFound, "Ticket no encontrado")
	}
	if err != nil {
		return nil, err
	}

	compra, err := s.compraRepo.FindByID(ctx, compraID)
	if err != nil {
		return nil, err
	}

	resp := &dto.TicketResponse{
		Negocio:     s.negocio,
		NumeroVenta: ticket.NumeroVenta,
		Fecha:       ticket.CreatedAt.Format(fechaFormato),
		Productos:   make([]dto.TicketProducto, 0, len(compra.Detalles)),
		Total:       ticket.TotalPagar,
	}
	if compra.Usuario != nil {
		resp.Username = compra.Usuario.Username
	}
	for _, d := range compra.Detalles {
		tp := dto.TicketProducto{
			Precio:   d.PrecioUnitario,
			Cantidad: d.Cantidad,
			Subtotal: d.PrecioUnitario.Mul(decimal.NewFromInt(int64(d.Cantidad))),
		}
		if d.Producto != nil {
			tp.Nombre = d.Producto.Nombre
		}
		resp.Productos = append(resp.Productos, tp)
	}
	return resp, nil
}

// ListarTodas lists every purchase for the admin back-office.
func (s *CompraService) ListarTodas(ctx context.Context) ([]dto.AdminCompraItem, error) {
	compras, err := s.compraRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AdminCompraItem, 0, len(compras))
	for _, c := range compras {
		item := dto.AdminCompraItem{
			ID:             c.ID.String(),
			UsuarioID:      c.UsuarioID.String(),
			Total:          c.Total,
			Fecha:          c.CreatedAt.Format(fechaFormato),
			TotalProductos: totalUnidades(c.Detalles),
		}
		if c.Usuario != nil {
			item.Username = c.Usuario.Username
		}
		out = append(out, item)
	}
	return out, nil
}

func totalUnidades(detalles []model.DetalleCompra) int {
	total := 0
	for _, d := range detalles {
		total += d.Cantidad
	}
	return total
}
