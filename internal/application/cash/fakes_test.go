package cash_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/restobar-api/internal/domain/entity"
	"github.com/jhoicas/restobar-api/internal/domain/repository"
)

// memStore base en memoria que implementa los repos de caja y el runner transaccional.
// RunCash serializa las llamadas y descarta los cambios si fn devuelve error.
type memStore struct {
	mu        sync.Mutex
	txMu      sync.Mutex
	registers map[string]*entity.CashRegister
	shifts    map[string]*entity.CashRegisterShift
	movements []entity.CashMovement

	failCreateAfter int // si > 0, Create de movimientos falla al llegar a ese número de altas
	creates         int
}

func newMemStore() *memStore {
	return &memStore{
		registers: map[string]*entity.CashRegister{},
		shifts:    map[string]*entity.CashRegisterShift{},
	}
}

func (s *memStore) addRegister(id, branchID, role string) *entity.CashRegister {
	r := &entity.CashRegister{ID: id, BranchID: branchID, Name: "Caja " + id, Role: role, IsActive: true}
	s.registers[id] = r
	return r
}

func (s *memStore) addShift(id, registerID string, opening string, status string) *entity.CashRegisterShift {
	sh := &entity.CashRegisterShift{
		ID:            id,
		RegisterID:    registerID,
		OpeningAmount: decimal.RequireFromString(opening),
		Status:        status,
		OpenedBy:      "u-apertura",
		OpenedAt:      time.Now().Add(-time.Hour),
	}
	s.shifts[id] = sh
	return sh
}

func (s *memStore) addMovement(shiftID, typ, amount string) {
	s.movements = append(s.movements, entity.CashMovement{
		ID:        uuid.New().String(),
		ShiftID:   shiftID,
		Type:      typ,
		Amount:    decimal.RequireFromString(amount),
		Concept:   "seed",
		CreatedAt: time.Now(),
	})
}

func (s *memStore) movementsOf(shiftID string) []entity.CashMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.CashMovement
	for _, m := range s.movements {
		if m.ShiftID == shiftID {
			out = append(out, m)
		}
	}
	return out
}

func (s *memStore) RunCash(ctx context.Context, fn func(repository.CashShiftRepository, repository.CashMovementRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	movSnap := append([]entity.CashMovement(nil), s.movements...)
	shiftSnap := make(map[string]entity.CashRegisterShift, len(s.shifts))
	for k, v := range s.shifts {
		shiftSnap[k] = *v
	}
	s.mu.Unlock()

	if err := fn(shiftRepo{s}, movRepo{s}); err != nil {
		s.mu.Lock()
		s.movements = movSnap
		s.shifts = make(map[string]*entity.CashRegisterShift, len(shiftSnap))
		for k, v := range shiftSnap {
			v := v
			s.shifts[k] = &v
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

type registerRepo struct{ s *memStore }

func (r registerRepo) GetByID(_ context.Context, id string) (*entity.CashRegister, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reg, ok := r.s.registers[id]
	if !ok {
		return nil, nil
	}
	cp := *reg
	return &cp, nil
}

func (r registerRepo) ListByBranch(_ context.Context, branchID string) ([]entity.CashRegister, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.CashRegister
	for _, reg := range r.s.registers {
		if reg.BranchID == branchID {
			out = append(out, *reg)
		}
	}
	return out, nil
}

type shiftRepo struct{ s *memStore }

func (r shiftRepo) Create(_ context.Context, sh *entity.CashRegisterShift) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sh.ID == "" {
		sh.ID = uuid.New().String()
	}
	cp := *sh
	r.s.shifts[sh.ID] = &cp
	return nil
}

func (r shiftRepo) GetByID(_ context.Context, id string) (*entity.CashRegisterShift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sh, ok := r.s.shifts[id]
	if !ok {
		return nil, nil
	}
	cp := *sh
	return &cp, nil
}

func (r shiftRepo) GetForUpdate(ctx context.Context, id string) (*entity.CashRegisterShift, error) {
	return r.GetByID(ctx, id)
}

func (r shiftRepo) GetOpenByRegister(_ context.Context, registerID string) (*entity.CashRegisterShift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sh := range r.s.shifts {
		if sh.RegisterID == registerID && sh.Status == entity.ShiftStatusOpen {
			cp := *sh
			return &cp, nil
		}
	}
	return nil, nil
}

func (r shiftRepo) Close(_ context.Context, sh *entity.CashRegisterShift) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.shifts[sh.ID]; !ok {
		return errors.New("turno inexistente")
	}
	cp := *sh
	r.s.shifts[sh.ID] = &cp
	return nil
}

type movRepo struct{ s *memStore }

var errForcedCreate = errors.New("fallo forzado de insert")

func (r movRepo) Create(_ context.Context, m *entity.CashMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.creates++
	if r.s.failCreateAfter > 0 && r.s.creates >= r.s.failCreateAfter {
		return errForcedCreate
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r movRepo) ListByShift(_ context.Context, shiftID string) ([]entity.CashMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.CashMovement
	for _, m := range r.s.movements {
		if m.ShiftID == shiftID {
			out = append(out, m)
		}
	}
	return out, nil
}

// memIdempotency reemplazo en memoria del store Redis.
type memIdempotency struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newMemIdempotency() *memIdempotency { return &memIdempotency{keys: map[string]bool{}} }

func (m *memIdempotency) Reserve(_ context.Context, key string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

func (m *memIdempotency) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}
