package cash

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/restobar-api/internal/application/dto"
	"github.com/jhoicas/restobar-api/internal/domain"
	domaincash "github.com/jhoicas/restobar-api/internal/domain/cash"
	"github.com/jhoicas/restobar-api/internal/domain/entity"
	"github.com/jhoicas/restobar-api/internal/domain/repository"
)

// TransferUseCase mueve efectivo entre turnos de caja (alivio, depósito en caja fuerte, retiro final).
type TransferUseCase struct {
	txRunner       CashTxRunner
	registerRepo   repository.CashRegisterRepository
	idempotency    IdempotencyStore // puede ser nil
	idempotencyTTL time.Duration
	log            zerolog.Logger
	now            func() time.Time
}

// NewTransferUseCase construye el caso de uso. idem puede ser nil (sin control de reintentos).
func NewTransferUseCase(
	txRunner CashTxRunner,
	registerRepo repository.CashRegisterRepository,
	idem IdempotencyStore,
	idemTTL time.Duration,
	log zerolog.Logger,
) *TransferUseCase {
	if idemTTL <= 0 {
		idemTTL = 10 * time.Minute
	}
	return &TransferUseCase{
		txRunner:       txRunner,
		registerRepo:   registerRepo,
		idempotency:    idem,
		idempotencyTTL: idemTTL,
		log:            log.With().Str("component", "cash.transfer").Logger(),
		now:            time.Now,
	}
}

// Transfer registra el retiro en el turno origen y la entrada en el destino en una sola transacción.
// Ambos turnos se bloquean en orden de id; el saldo del origen se recalcula bajo bloqueo.
// idempotencyKey vacío desactiva el control de duplicados.
func (uc *TransferUseCase) Transfer(ctx context.Context, viewer domaincash.Viewer, branchID, idempotencyKey string, in dto.TransferRequest) (*dto.TransferResponse, error) {
	if !in.Amount.GreaterThan(decimal.Zero) || !domaincash.HasCentPrecision(in.Amount) || in.SourceShiftID == "" {
		return nil, domain.ErrInvalidInput
	}
	concept := domaincash.ComposeConcept(in.Concept, in.Notes)
	if concept == "" || viewer.UserID == "" {
		return nil, domain.ErrInvalidInput
	}
	destID := ""
	if in.DestShiftID != nil {
		destID = strings.TrimSpace(*in.DestShiftID)
		// null = retiro final; un id en blanco es un error del cliente
		if destID == "" || destID == in.SourceShiftID {
			return nil, domain.ErrInvalidInput
		}
	}

	if uc.idempotency != nil && idempotencyKey != "" {
		key := "transfer:" + viewer.UserID + ":" + idempotencyKey
		ok, err := uc.idempotency.Reserve(ctx, key, uc.idempotencyTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrDuplicateRequest
		}
		resp, err := uc.transfer(ctx, viewer, branchID, destID, concept, in)
		if err != nil {
			if relErr := uc.idempotency.Release(ctx, key); relErr != nil {
				uc.log.Warn().Err(relErr).Str("key", key).Msg("no se pudo liberar la clave de idempotencia")
			}
			return nil, err
		}
		return resp, nil
	}
	return uc.transfer(ctx, viewer, branchID, destID, concept, in)
}

func (uc *TransferUseCase) transfer(ctx context.Context, viewer domaincash.Viewer, branchID, destID, concept string, in dto.TransferRequest) (*dto.TransferResponse, error) {
	transferID := uuid.New().String()
	var (
		plan    domaincash.TransferPlan
		balance decimal.Decimal
	)
	err := uc.txRunner.RunCash(ctx, func(shiftRepo repository.CashShiftRepository, movRepo repository.CashMovementRepository) error {
		ids := []string{in.SourceShiftID}
		if destID != "" {
			ids = append(ids, destID)
		}
		sort.Strings(ids)
		locked := make(map[string]*entity.CashRegisterShift, len(ids))
		for _, id := range ids {
			s, err := shiftRepo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if s == nil {
				return domain.ErrNotFound
			}
			locked[id] = s
		}
		source := locked[in.SourceShiftID]
		sourceRegister, err := uc.registerRepo.GetByID(ctx, source.RegisterID)
		if err != nil {
			return err
		}
		if err := checkBranch(sourceRegister, branchID, viewer); err != nil {
			return err
		}

		req := domaincash.TransferRequest{
			TransferID:  transferID,
			SourceShift: source,
			Amount:      in.Amount,
			Concept:     concept,
			UserID:      viewer.UserID,
			Now:         uc.now(),
		}
		if destID != "" {
			dest := locked[destID]
			destRegister, err := uc.registerRepo.GetByID(ctx, dest.RegisterID)
			if err != nil {
				return err
			}
			if err := checkBranch(destRegister, branchID, viewer); err != nil {
				return err
			}
			req.DestShift = dest
			req.DestRegister = destRegister
		}

		movements, err := movRepo.ListByShift(ctx, source.ID)
		if err != nil {
			return err
		}
		balance = domaincash.ComputeBalance(source, movements)
		plan, err = domaincash.PlanTransfer(req, balance)
		if err != nil {
			return err
		}
		if err := movRepo.Create(ctx, &plan.Withdrawal); err != nil {
			return err
		}
		if plan.Entry != nil {
			if err := movRepo.Create(ctx, plan.Entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			uc.log.Info().
				Str("source_shift_id", in.SourceShiftID).
				Str("amount", in.Amount.String()).
				Str("balance", balance.String()).
				Msg("transferencia rechazada por saldo insuficiente")
		}
		return nil, err
	}

	resp := &dto.TransferResponse{
		TransferID:    transferID,
		WithdrawalID:  plan.Withdrawal.ID,
		Amount:        in.Amount,
		SourceBalance: balance.Sub(in.Amount),
	}
	if plan.Entry != nil {
		id := plan.Entry.ID
		resp.EntryID = &id
	}
	uc.log.Info().
		Str("transfer_id", transferID).
		Str("source_shift_id", in.SourceShiftID).
		Str("dest_shift_id", destID).
		Str("amount", in.Amount.String()).
		Str("user_id", viewer.UserID).
		Msg("transferencia de caja registrada")
	return resp, nil
}
