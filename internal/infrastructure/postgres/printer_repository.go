package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/restobar-api/internal/domain/entity"
	"github.com/jhoicas/restobar-api/internal/domain/repository"
)

var (
	_ repository.PrinterRepository  = (*PrinterRepo)(nil)
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
)

// PrinterRepo impresoras y configuración de impresión por sucursal.
type PrinterRepo struct {
	q Querier
}

// NewPrinterRepository construye el adaptador.
func NewPrinterRepository(q Querier) *PrinterRepo {
	return &PrinterRepo{q: q}
}

// ListByBranch lista todas las impresoras de la sucursal, activas o no. El router filtra.
func (r *PrinterRepo) ListByBranch(ctx context.Context, branchID string) ([]entity.Printer, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, branch_id, name, host, port, paper_width, is_active
		FROM printers WHERE branch_id = $1 ORDER BY name`, branchID)
	if err != nil {
		return nil, fmt.Errorf("list printers: %w", err)
	}
	defer rows.Close()
	var out []entity.Printer
	for rows.Next() {
		var p entity.Printer
		if err := rows.Scan(&p.ID, &p.BranchID, &p.Name, &p.Host, &p.Port, &p.PaperWidth, &p.IsActive); err != nil {
			return nil, fmt.Errorf("scan printer: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetConfig devuelve la configuración de impresión o nil si la sucursal no tiene.
// Los flags NULL quedan como ToggleUnset.
func (r *PrinterRepo) GetConfig(ctx context.Context, branchID string) (*entity.PrinterConfig, error) {
	query := `
		SELECT branch_id, ticket_printer_id, ticket_enabled, vale_printer_id, comanda_printer_id,
		       salon_vales_enabled, no_salon_all_in_comanda
		FROM printer_configs WHERE branch_id = $1`
	var (
		c                             entity.PrinterConfig
		ticketID, valeID, comandaID   *string
		salonVales, noSalonAllComanda *bool
	)
	err := r.q.QueryRow(ctx, query, branchID).Scan(
		&c.BranchID, &ticketID, &c.TicketEnabled, &valeID, &comandaID, &salonVales, &noSalonAllComanda,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get printer config: %w", err)
	}
	c.TicketPrinterID = deref(ticketID)
	c.ValePrinterID = deref(valeID)
	c.ComandaPrinterID = deref(comandaID)
	c.SalonValesEnabled = entity.ToggleFromPtr(salonVales)
	c.NoSalonAllInComanda = entity.ToggleFromPtr(noSalonAllComanda)
	return &c, nil
}

// CategoryRepo categorías del menú.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// ListByBranch lista las categorías del menú de la sucursal.
func (r *CategoryRepo) ListByBranch(ctx context.Context, branchID string) ([]entity.MenuCategory, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, branch_id, name, print_treatment
		FROM menu_categories WHERE branch_id = $1 ORDER BY name`, branchID)
	if err != nil {
		return nil, fmt.Errorf("list menu categories: %w", err)
	}
	defer rows.Close()
	var out []entity.MenuCategory
	for rows.Next() {
		var c entity.MenuCategory
		var treatment string
		if err := rows.Scan(&c.ID, &c.BranchID, &c.Name, &treatment); err != nil {
			return nil, fmt.Errorf("scan menu category: %w", err)
		}
		c.PrintTreatment = entity.PrintTreatment(treatment)
		out = append(out, c)
	}
	return out, rows.Err()
}
