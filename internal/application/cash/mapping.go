package cash

import (
	"github.com/jhoicas/restobar-api/internal/application/dto"
	"github.com/jhoicas/restobar-api/internal/domain"
	domaincash "github.com/jhoicas/restobar-api/internal/domain/cash"
	"github.com/jhoicas/restobar-api/internal/domain/entity"
)

func toShiftResponse(s *entity.CashRegisterShift) dto.ShiftResponse {
	return dto.ShiftResponse{
		ID:            s.ID,
		RegisterID:    s.RegisterID,
		OpeningAmount: s.OpeningAmount,
		Status:        s.Status,
		OpenedBy:      s.OpenedBy,
		OpenedAt:      s.OpenedAt,
		ClosedAt:      s.ClosedAt,
	}
}

func toMovementDTO(m entity.CashMovement) dto.MovementDTO {
	return dto.MovementDTO{
		ID:         m.ID,
		ShiftID:    m.ShiftID,
		Type:       m.Type,
		Amount:     m.Amount,
		Concept:    m.Concept,
		RecordedBy: m.RecordedBy,
		TransferID: m.TransferID,
		CreatedAt:  m.CreatedAt,
	}
}

// checkBranch verifica que la caja pertenezca a la sucursal del usuario (superadmin ve todas).
func checkBranch(register *entity.CashRegister, branchID string, viewer domaincash.Viewer) error {
	if register == nil {
		return domain.ErrNotFound
	}
	if viewer.IsSuperadmin {
		return nil
	}
	if register.BranchID != branchID {
		return domain.ErrForbidden
	}
	return nil
}
