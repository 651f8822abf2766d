package cash

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/restobar-api/internal/application/dto"
	"github.com/jhoicas/restobar-api/internal/domain"
	domaincash "github.com/jhoicas/restobar-api/internal/domain/cash"
	"github.com/jhoicas/restobar-api/internal/domain/entity"
	"github.com/jhoicas/restobar-api/internal/domain/repository"
)

// ShiftUseCase ciclo de vida de los turnos de caja: apertura, movimientos manuales, resumen y arqueo.
type ShiftUseCase struct {
	txRunner     CashTxRunner
	registerRepo repository.CashRegisterRepository
	shiftRepo    repository.CashShiftRepository
	movRepo      repository.CashMovementRepository
	log          zerolog.Logger
}

// NewShiftUseCase construye el caso de uso.
func NewShiftUseCase(
	txRunner CashTxRunner,
	registerRepo repository.CashRegisterRepository,
	shiftRepo repository.CashShiftRepository,
	movRepo repository.CashMovementRepository,
	log zerolog.Logger,
) *ShiftUseCase {
	return &ShiftUseCase{
		txRunner:     txRunner,
		registerRepo: registerRepo,
		shiftRepo:    shiftRepo,
		movRepo:      movRepo,
		log:          log.With().Str("component", "cash.shift").Logger(),
	}
}

// OpenShift abre un turno en una caja. Una caja no puede tener dos turnos abiertos.
func (uc *ShiftUseCase) OpenShift(ctx context.Context, viewer domaincash.Viewer, branchID string, in dto.OpenShiftRequest) (*dto.ShiftResponse, error) {
	if in.RegisterID == "" || in.OpeningAmount.LessThan(decimal.Zero) || !domaincash.HasCentPrecision(in.OpeningAmount) {
		return nil, domain.ErrInvalidInput
	}
	register, err := uc.registerRepo.GetByID(ctx, in.RegisterID)
	if err != nil {
		return nil, err
	}
	if err := checkBranch(register, branchID, viewer); err != nil {
		return nil, err
	}
	if !register.IsActive {
		return nil, domain.ErrConflict
	}

	shift := &entity.CashRegisterShift{
		RegisterID:    register.ID,
		OpeningAmount: in.OpeningAmount,
		Status:        entity.ShiftStatusOpen,
		OpenedBy:      viewer.UserID,
		OpenedAt:      time.Now(),
	}
	err = uc.txRunner.RunCash(ctx, func(shiftRepo repository.CashShiftRepository, _ repository.CashMovementRepository) error {
		existing, err := shiftRepo.GetOpenByRegister(ctx, register.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrConflict
		}
		return shiftRepo.Create(ctx, shift)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("shift_id", shift.ID).
		Str("register_id", register.ID).
		Str("opening", shift.OpeningAmount.String()).
		Msg("turno de caja abierto")
	resp := toShiftResponse(shift)
	return &resp, nil
}

// RegisterMovement registra un ingreso o egreso manual en un turno abierto.
func (uc *ShiftUseCase) RegisterMovement(ctx context.Context, viewer domaincash.Viewer, branchID, shiftID string, in dto.ManualMovementRequest) (*dto.MovementDTO, error) {
	if in.Type != entity.CashMovementIncome && in.Type != entity.CashMovementExpense {
		return nil, domain.ErrInvalidInput
	}
	if !in.Amount.GreaterThan(decimal.Zero) || !domaincash.HasCentPrecision(in.Amount) || strings.TrimSpace(in.Concept) == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.authorizeShift(ctx, viewer, branchID, shiftID); err != nil {
		return nil, err
	}

	mov := &entity.CashMovement{
		ShiftID:    shiftID,
		Type:       in.Type,
		Amount:     in.Amount,
		Concept:    strings.TrimSpace(in.Concept),
		RecordedBy: viewer.UserID,
		CreatedAt:  time.Now(),
	}
	err := uc.txRunner.RunCash(ctx, func(shiftRepo repository.CashShiftRepository, movRepo repository.CashMovementRepository) error {
		shift, err := shiftRepo.GetForUpdate(ctx, shiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return domain.ErrNotFound
		}
		if !shift.IsOpen() {
			return domain.ErrShiftClosed
		}
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	out := toMovementDTO(*mov)
	return &out, nil
}

// GetSummary devuelve el resumen de un turno filtrado por las capacidades del usuario sobre la caja.
func (uc *ShiftUseCase) GetSummary(ctx context.Context, viewer domaincash.Viewer, branchID, shiftID string) (*dto.ShiftSummaryResponse, error) {
	shift, err := uc.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, domain.ErrNotFound
	}
	register, err := uc.registerRepo.GetByID(ctx, shift.RegisterID)
	if err != nil {
		return nil, err
	}
	if err := checkBranch(register, branchID, viewer); err != nil {
		return nil, err
	}
	movements, err := uc.movRepo.ListByShift(ctx, shift.ID)
	if err != nil {
		return nil, err
	}

	caps := domaincash.Capabilities(register.Role, viewer)
	resp := &dto.ShiftSummaryResponse{
		Shift:         toShiftResponse(shift),
		RegisterName:  register.Name,
		RegisterRole:  register.Role,
		MovementCount: len(movements),
	}
	for _, c := range []domaincash.Capability{domaincash.CapViewBalance, domaincash.CapViewMovements, domaincash.CapViewMovementCount} {
		if caps.Has(c) {
			resp.Capabilities = append(resp.Capabilities, string(c))
		}
	}
	if caps.Has(domaincash.CapViewBalance) {
		summary := domaincash.Summarize(shift, movements)
		resp.Balance = &summary.Balance
		resp.Totals = &dto.ShiftTotalsDTO{
			Income:     summary.Income,
			Expense:    summary.Expense,
			Deposit:    summary.Deposit,
			Withdrawal: summary.Withdrawal,
		}
	}
	if caps.Has(domaincash.CapViewMovements) {
		resp.Movements = make([]dto.MovementDTO, 0, len(movements))
		for _, m := range movements {
			resp.Movements = append(resp.Movements, toMovementDTO(m))
		}
	}
	return resp, nil
}

// CloseShift cierra el turno con el monto contado. Calcula el saldo esperado, la diferencia y su
// clasificación; un desvío crítico exige observaciones.
func (uc *ShiftUseCase) CloseShift(ctx context.Context, viewer domaincash.Viewer, branchID, shiftID string, in dto.CloseShiftRequest) (*dto.CloseShiftResponse, error) {
	if in.DeclaredAmount.LessThan(decimal.Zero) || !domaincash.HasCentPrecision(in.DeclaredAmount) {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.authorizeShift(ctx, viewer, branchID, shiftID); err != nil {
		return nil, err
	}

	var resp *dto.CloseShiftResponse
	err := uc.txRunner.RunCash(ctx, func(shiftRepo repository.CashShiftRepository, movRepo repository.CashMovementRepository) error {
		shift, err := shiftRepo.GetForUpdate(ctx, shiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return domain.ErrNotFound
		}
		if !shift.IsOpen() {
			return domain.ErrShiftClosed
		}
		movements, err := movRepo.ListByShift(ctx, shiftID)
		if err != nil {
			return err
		}
		expected := domaincash.ComputeBalance(shift, movements)
		difference := in.DeclaredAmount.Sub(expected)
		classification := domaincash.ClassifyDeviation(expected, difference)
		notes := strings.TrimSpace(in.Notes)
		if classification == domaincash.DeviationCritico && notes == "" {
			return domain.ErrInvalidInput
		}

		now := time.Now()
		declared := in.DeclaredAmount
		shift.Status = entity.ShiftStatusClosed
		shift.ClosedBy = viewer.UserID
		shift.ClosedAt = &now
		shift.ExpectedAmount = &expected
		shift.DeclaredAmount = &declared
		shift.Difference = &difference
		shift.Notes = notes
		if err := shiftRepo.Close(ctx, shift); err != nil {
			return err
		}
		resp = &dto.CloseShiftResponse{
			Shift:          toShiftResponse(shift),
			ExpectedAmount: expected,
			DeclaredAmount: declared,
			Difference:     difference,
			Classification: classification,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("shift_id", shiftID).
		Str("expected", resp.ExpectedAmount.String()).
		Str("declared", resp.DeclaredAmount.String()).
		Str("classification", resp.Classification).
		Msg("turno de caja cerrado")
	return resp, nil
}

// authorizeShift verifica que el turno exista y que su caja sea de la sucursal del usuario.
func (uc *ShiftUseCase) authorizeShift(ctx context.Context, viewer domaincash.Viewer, branchID, shiftID string) error {
	shift, err := uc.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return err
	}
	if shift == nil {
		return domain.ErrNotFound
	}
	register, err := uc.registerRepo.GetByID(ctx, shift.RegisterID)
	if err != nil {
		return err
	}
	return checkBranch(register, branchID, viewer)
}
