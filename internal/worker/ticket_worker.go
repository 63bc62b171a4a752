package worker

import (
	"context"
	"fmt"

	"github.com/Neakz-star/La-Desesperanza/internal/config"
	"github.com/Neakz-star/La-Desesperanza/internal/infra"
	"github.com/Neakz-star/La-Desesperanza/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TicketWorker renders the PDF receipt of a purchase and mails it to the
// customer when both SMTP and a customer email are available.
type TicketWorker struct {
	compraRepo repository.CompraRepository
	mailer     *infra.Mailer
	cfg        *config.Config
}

func NewTicketWorker(compraRepo repository.CompraRepository, mailer *infra.Mailer, cfg *config.Config) *TicketWorker {
	return &TicketWorker{compraRepo: compraRepo, mailer: mailer, cfg: cfg}
}

func (w *TicketWorker) Process(ctx context.Context, job TicketJob) error {
	compraID, err := uuid.Parse(job.CompraID)
	if err != nil {
		return fmt.Errorf("bad compra id %q: %w", job.CompraID, err)
	}
	compra, err := w.compraRepo.FindByID(ctx, compraID)
	if err != nil {
		return fmt.Errorf("load compra: %w", err)
	}

	pdfPath, err := infra.GenerateTicketPDF(w.cfg.NombreNegocio, compra, w.cfg.PDFStoragePath)
	if err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	log.Info().Str("compra_id", compra.ID.String()).Str("pdf", pdfPath).Msg("ticket PDF generated")

	if w.mailer == nil || !w.mailer.Enabled() {
		return nil
	}
	if compra.Usuario == nil || compra.Usuario.Email == nil || *compra.Usuario.Email == "" {
		return nil
	}

	subject := fmt.Sprintf("%s - Comprobante %s", w.cfg.NombreNegocio, compra.Ticket.NumeroVenta)
	body := fmt.Sprintf("Hola %s,\n\nAdjuntamos el comprobante de tu compra por $%s.\n\n¡Gracias por elegirnos!",
		compra.Usuario.Username, compra.Total.StringFixed(2))
	if err := w.mailer.SendTicket(*compra.Usuario.Email, subject, body, pdfPath); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	log.Info().Str("compra_id", compra.ID.String()).Msg("ticket emailed")
	return nil
}
