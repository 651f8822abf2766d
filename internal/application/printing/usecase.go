package printing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/restobar-api/internal/application/dto"
	"github.com/jhoicas/restobar-api/internal/domain"
	"github.com/jhoicas/restobar-api/internal/domain/entity"
	domainprinting "github.com/jhoicas/restobar-api/internal/domain/printing"
	"github.com/jhoicas/restobar-api/internal/domain/repository"
)

// PrintOrderInput parámetros de una impresión de pedido.
type PrintOrderInput struct {
	OrderID      string
	BranchID     string // sucursal del usuario (JWT)
	IsSuperadmin bool
	DryRun       bool // arma y renderiza los trabajos pero no los encola
}

// PrintOrderUseCase arma los documentos de un pedido y los publica en la cola de cada impresora.
type PrintOrderUseCase struct {
	orderRepo    repository.OrderRepository
	branchRepo   repository.BranchRepository
	printerRepo  repository.PrinterRepository
	categoryRepo repository.CategoryRepository
	renderer     domainprinting.Renderer
	dispatcher   PrintDispatcher
	pollTimeout  time.Duration
	log          zerolog.Logger
}

// NewPrintOrderUseCase construye el caso de uso.
func NewPrintOrderUseCase(
	orderRepo repository.OrderRepository,
	branchRepo repository.BranchRepository,
	printerRepo repository.PrinterRepository,
	categoryRepo repository.CategoryRepository,
	renderer domainprinting.Renderer,
	dispatcher PrintDispatcher,
	pollTimeout time.Duration,
	log zerolog.Logger,
) *PrintOrderUseCase {
	if pollTimeout <= 0 {
		pollTimeout = 20 * time.Second
	}
	return &PrintOrderUseCase{
		orderRepo:    orderRepo,
		branchRepo:   branchRepo,
		printerRepo:  printerRepo,
		categoryRepo: categoryRepo,
		renderer:     renderer,
		dispatcher:   dispatcher,
		pollTimeout:  pollTimeout,
		log:          log.With().Str("component", "printing").Logger(),
	}
}

// PrintOrder rutea y renderiza los documentos del pedido. Sin configuración de impresión no hay trabajos.
func (uc *PrintOrderUseCase) PrintOrder(ctx context.Context, in PrintOrderInput) (*dto.PrintOrderResponse, error) {
	if in.OrderID == "" {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !in.IsSuperadmin && order.BranchID != in.BranchID {
		return nil, domain.ErrForbidden
	}

	resp := &dto.PrintOrderResponse{OrderID: order.ID, Jobs: []dto.PrintJobDTO{}}

	cfg, err := uc.printerRepo.GetConfig(ctx, order.BranchID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		uc.log.Debug().Str("branch_id", order.BranchID).Msg("sucursal sin configuración de impresión")
		return resp, nil
	}
	printers, err := uc.printerRepo.ListByBranch(ctx, order.BranchID)
	if err != nil {
		return nil, err
	}
	categories, err := uc.categoryRepo.ListByBranch(ctx, order.BranchID)
	if err != nil {
		return nil, err
	}
	branchName := ""
	if branch, err := uc.branchRepo.GetByID(ctx, order.BranchID); err != nil {
		return nil, err
	} else if branch != nil {
		branchName = branch.Name
	}

	jobs, err := domainprinting.BuildPrintJobs(domainprinting.RouteInput{
		Order:      order,
		Config:     *cfg,
		Printers:   printers,
		Categories: categories,
		BranchName: branchName,
		IsDineIn:   order.IsDineIn(),
	}, uc.renderer)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		uc.log.Debug().Str("order_id", order.ID).Msg("pedido sin trabajos de impresión")
		return resp, nil
	}

	now := time.Now().UTC()
	queued := make([]dto.QueuedPrintJob, 0, len(jobs))
	for _, j := range jobs {
		q := dto.QueuedPrintJob{
			JobID:      uuid.New().String(),
			BranchID:   order.BranchID,
			OrderID:    order.ID,
			Kind:       string(j.Kind),
			PrinterID:  j.PrinterID,
			Label:      j.Label,
			Payload:    j.Payload,
			EnqueuedAt: now,
		}
		queued = append(queued, q)
		resp.Jobs = append(resp.Jobs, toPrintJobDTO(q))
	}

	if in.DryRun {
		return resp, nil
	}
	if err := uc.dispatcher.Enqueue(ctx, queued); err != nil {
		return nil, fmt.Errorf("encolar trabajos pedido %d: %w", order.Number, err)
	}
	resp.Dispatched = true
	uc.log.Info().
		Str("order_id", order.ID).
		Int("order_number", order.Number).
		Int("jobs", len(queued)).
		Msg("trabajos de impresión encolados")
	return resp, nil
}

// NextJob entrega al agente el próximo trabajo de una impresora de su sucursal. nil si la cola está vacía.
func (uc *PrintOrderUseCase) NextJob(ctx context.Context, printerID, branchID string, isSuperadmin bool) (*dto.QueuedPrintJob, error) {
	if printerID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !isSuperadmin {
		printers, err := uc.printerRepo.ListByBranch(ctx, branchID)
		if err != nil {
			return nil, err
		}
		if !containsPrinter(printers, printerID) {
			return nil, domain.ErrNotFound
		}
	}
	return uc.dispatcher.Next(ctx, printerID, uc.pollTimeout)
}

func containsPrinter(list []entity.Printer, id string) bool {
	for _, p := range list {
		if p.ID == id {
			return true
		}
	}
	return false
}

func toPrintJobDTO(q dto.QueuedPrintJob) dto.PrintJobDTO {
	return dto.PrintJobDTO{
		JobID:     q.JobID,
		Kind:      q.Kind,
		PrinterID: q.PrinterID,
		Label:     q.Label,
		Bytes:     len(q.Payload),
	}
}
