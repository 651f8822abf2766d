package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcash "github.com/jhoicas/restobar-api/internal/application/cash"
	"github.com/jhoicas/restobar-api/internal/application/dto"
	appprinting "github.com/jhoicas/restobar-api/internal/application/printing"
	"github.com/jhoicas/restobar-api/internal/domain/entity"
	domainprinting "github.com/jhoicas/restobar-api/internal/domain/printing"
	"github.com/jhoicas/restobar-api/internal/domain/repository"
	apphttp "github.com/jhoicas/restobar-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/restobar-api/pkg/jwt"
)

// ─── Fakes de caja ──────────────────────────────────────────────────────────

type cashFake struct {
	mu        sync.Mutex
	registers map[string]*entity.CashRegister
	shifts    map[string]*entity.CashRegisterShift
	movements []entity.CashMovement
}

func (f *cashFake) RunCash(_ context.Context, fn func(repository.CashShiftRepository, repository.CashMovementRepository) error) error {
	return fn(fakeShifts{f}, fakeMovements{f})
}

type fakeRegisters struct{ f *cashFake }

func (r fakeRegisters) GetByID(_ context.Context, id string) (*entity.CashRegister, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if reg, ok := r.f.registers[id]; ok {
		cp := *reg
		return &cp, nil
	}
	return nil, nil
}

func (r fakeRegisters) ListByBranch(_ context.Context, branchID string) ([]entity.CashRegister, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []entity.CashRegister
	for _, reg := range r.f.registers {
		if reg.BranchID == branchID {
			out = append(out, *reg)
		}
	}
	return out, nil
}

type fakeShifts struct{ f *cashFake }

func (r fakeShifts) Create(_ context.Context, sh *entity.CashRegisterShift) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if sh.ID == "" {
		sh.ID = uuid.New().String()
	}
	cp := *sh
	r.f.shifts[sh.ID] = &cp
	return nil
}

func (r fakeShifts) GetByID(_ context.Context, id string) (*entity.CashRegisterShift, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if sh, ok := r.f.shifts[id]; ok {
		cp := *sh
		return &cp, nil
	}
	return nil, nil
}

func (r fakeShifts) GetForUpdate(ctx context.Context, id string) (*entity.CashRegisterShift, error) {
	return r.GetByID(ctx, id)
}

func (r fakeShifts) GetOpenByRegister(_ context.Context, registerID string) (*entity.CashRegisterShift, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, sh := range r.f.shifts {
		if sh.RegisterID == registerID && sh.IsOpen() {
			cp := *sh
			return &cp, nil
		}
	}
	return nil, nil
}

func (r fakeShifts) Close(_ context.Context, sh *entity.CashRegisterShift) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	cp := *sh
	r.f.shifts[sh.ID] = &cp
	return nil
}

type fakeMovements struct{ f *cashFake }

func (r fakeMovements) Create(_ context.Context, m *entity.CashMovement) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	r.f.movements = append(r.f.movements, *m)
	return nil
}

func (r fakeMovements) ListByShift(_ context.Context, shiftID string) ([]entity.CashMovement, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []entity.CashMovement
	for _, m := range r.f.movements {
		if m.ShiftID == shiftID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeIdempotency struct {
	mu   sync.Mutex
	keys map[string]bool
}

func (m *fakeIdempotency) Reserve(_ context.Context, key string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

func (m *fakeIdempotency) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}

// ─── Fakes de impresión ─────────────────────────────────────────────────────

type fakeOrders map[string]*entity.Order

func (f fakeOrders) GetByID(_ context.Context, id string) (*entity.Order, error) { return f[id], nil }

type fakeBranches struct{}

func (fakeBranches) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	return &entity.Branch{ID: id, Name: "Sucursal Centro"}, nil
}

type fakePrinters struct {
	printers []entity.Printer
	cfg      *entity.PrinterConfig
}

func (f fakePrinters) ListByBranch(_ context.Context, _ string) ([]entity.Printer, error) {
	return f.printers, nil
}

func (f fakePrinters) GetConfig(_ context.Context, _ string) (*entity.PrinterConfig, error) {
	return f.cfg, nil
}

type fakeCategories []entity.MenuCategory

func (f fakeCategories) ListByBranch(_ context.Context, _ string) ([]entity.MenuCategory, error) {
	return f, nil
}

type textRenderer struct{}

func (textRenderer) Render(kind entity.DocumentKind, doc domainprinting.Document, width int) ([]byte, error) {
	return []byte(fmt.Sprintf("%s#%d/%d", kind, doc.OrderNumber, width)), nil
}

// memQueue cola FIFO por impresora.
type memQueue struct {
	mu     sync.Mutex
	queues map[string][]dto.QueuedPrintJob
}

func (q *memQueue) Enqueue(_ context.Context, jobs []dto.QueuedPrintJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, j := range jobs {
		q.queues[j.PrinterID] = append(q.queues[j.PrinterID], j)
	}
	return nil
}

func (q *memQueue) Next(_ context.Context, printerID string, _ time.Duration) (*dto.QueuedPrintJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	list := q.queues[printerID]
	if len(list) == 0 {
		return nil, nil
	}
	j := list[0]
	q.queues[printerID] = list[1:]
	return &j, nil
}

// ─── App de prueba ──────────────────────────────────────────────────────────

type testEnv struct {
	app   *fiber.App
	cash  *cashFake
	queue *memQueue
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cf := &cashFake{
		registers: map[string]*entity.CashRegister{
			"reg-ventas": {ID: "reg-ventas", BranchID: testBranchID, Name: "Mostrador", Role: entity.RegisterRoleVentas, IsActive: true},
			"reg-alivio": {ID: "reg-alivio", BranchID: testBranchID, Name: "Alivio", Role: entity.RegisterRoleAlivio, IsActive: true},
			"reg-fuerte": {ID: "reg-fuerte", BranchID: testBranchID, Name: "Caja fuerte", Role: entity.RegisterRoleFuerte, IsActive: true},
			"reg-ajena":  {ID: "reg-ajena", BranchID: "otra", Name: "Ajena", Role: entity.RegisterRoleVentas, IsActive: true},
		},
		shifts: map[string]*entity.CashRegisterShift{},
	}
	for id, reg := range map[string]string{"sh-alivio": "reg-alivio", "sh-fuerte": "reg-fuerte", "sh-ajena": "reg-ajena"} {
		cf.shifts[id] = &entity.CashRegisterShift{ID: id, RegisterID: reg, Status: entity.ShiftStatusOpen, OpenedAt: time.Now()}
	}

	orders := fakeOrders{
		"o-1": {
			ID: "o-1", BranchID: testBranchID, Number: 7, ServiceType: entity.ServiceTypeSalon,
			Items: []entity.OrderItem{
				{Name: "Milanesa", Quantity: 1, CategoryID: "cat-cocina", UnitPrice: decimal.NewFromInt(10), Subtotal: decimal.NewFromInt(10)},
				{Name: "Gaseosa", Quantity: 1, CategoryID: "cat-bebida", UnitPrice: decimal.NewFromInt(3), Subtotal: decimal.NewFromInt(3)},
			},
		},
	}
	printers := fakePrinters{
		printers: []entity.Printer{
			{ID: "p-caja", BranchID: testBranchID, IsActive: true, PaperWidth: entity.PaperWidth80},
			{ID: "p-barra", BranchID: testBranchID, IsActive: true, PaperWidth: entity.PaperWidth58},
			{ID: "p-cocina", BranchID: testBranchID, IsActive: true, PaperWidth: entity.PaperWidth80},
		},
		cfg: &entity.PrinterConfig{
			BranchID:         testBranchID,
			TicketPrinterID:  "p-caja",
			TicketEnabled:    true,
			ValePrinterID:    "p-barra",
			ComandaPrinterID: "p-cocina",
		},
	}
	cats := fakeCategories{
		{ID: "cat-cocina", PrintTreatment: entity.PrintTreatmentComanda},
		{ID: "cat-bebida", PrintTreatment: entity.PrintTreatmentVale},
	}
	q := &memQueue{queues: map[string][]dto.QueuedPrintJob{}}

	log := zerolog.Nop()
	regs := fakeRegisters{cf}
	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		Shifts:    appcash.NewShiftUseCase(cf, regs, fakeShifts{cf}, fakeMovements{cf}, log),
		Transfers: appcash.NewTransferUseCase(cf, regs, &fakeIdempotency{keys: map[string]bool{}}, time.Minute, log),
		Printing:  appprinting.NewPrintOrderUseCase(orders, fakeBranches{}, printers, cats, textRenderer{}, q, time.Second, log),
		JWTSecret: testJWTSecret,
		Log:       log,
	})
	return &testEnv{app: app, cash: cf, queue: q}
}

func (e *testEnv) call(t *testing.T, method, path, auth, body string, headers ...string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func errorCode(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var e dto.ErrorResponse
	decode(t, resp, &e)
	return e
}

// ─── Caja ───────────────────────────────────────────────────────────────────

func TestCash_AbrirMovimientoYResumen(t *testing.T) {
	env := newTestEnv(t)
	encargado := tokenForRole(t, "encargado")

	resp := env.call(t, http.MethodPost, "/api/cash/shifts", encargado, `{"register_id":"reg-ventas","opening_amount":1000}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var shift dto.ShiftResponse
	decode(t, resp, &shift)
	require.NotEmpty(t, shift.ID)
	assert.Equal(t, entity.ShiftStatusOpen, shift.Status)
	assert.Equal(t, testUserID, shift.OpenedBy)

	resp = env.call(t, http.MethodPost, "/api/cash/shifts", encargado, `{"register_id":"reg-ventas","opening_amount":10}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errorCode(t, resp).Code)

	resp = env.call(t, http.MethodPost, "/api/cash/shifts/"+shift.ID+"/movements", encargado,
		`{"type":"income","amount":"250.50","concept":"Venta mostrador"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = env.call(t, http.MethodGet, "/api/cash/shifts/"+shift.ID, encargado, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary dto.ShiftSummaryResponse
	decode(t, resp, &summary)
	require.NotNil(t, summary.Balance)
	assert.True(t, decimal.RequireFromString("1250.50").Equal(*summary.Balance))
	assert.Len(t, summary.Movements, 1)
	assert.Equal(t, 1, summary.MovementCount)
}

func TestCash_ValidacionDelBody(t *testing.T) {
	env := newTestEnv(t)
	cajero := tokenForRole(t, "cajero")

	resp := env.call(t, http.MethodPost, "/api/cash/shifts", cajero, `{"register_id":"reg-ventas","opening_amount":-5}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := errorCode(t, resp)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Equal(t, "gte", e.Fields["opening_amount"])

	resp = env.call(t, http.MethodPost, "/api/cash/shifts/sh-alivio/movements", cajero, `{"type":"deposit","amount":10,"concept":"x"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "oneof", errorCode(t, resp).Fields["type"])

	resp = env.call(t, http.MethodPost, "/api/cash/shifts", cajero, `{no es json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", errorCode(t, resp).Code)
}

func TestCash_ResumenRestringidoParaCajero(t *testing.T) {
	env := newTestEnv(t)
	env.cash.movements = append(env.cash.movements, entity.CashMovement{
		ID: "m-1", ShiftID: "sh-fuerte", Type: entity.CashMovementDeposit, Amount: decimal.NewFromInt(500),
	})

	resp := env.call(t, http.MethodGet, "/api/cash/shifts/sh-fuerte", tokenForRole(t, "cajero"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	decode(t, resp, &body)
	assert.NotContains(t, body, "balance")
	assert.NotContains(t, body, "movements")
	assert.EqualValues(t, 1, body["movement_count"])
	assert.Equal(t, []interface{}{"view_movement_count"}, body["capabilities"])
}

func TestCash_TurnoDeOtraSucursalYTurnoInexistente(t *testing.T) {
	env := newTestEnv(t)
	contador := tokenForRole(t, "contador")

	resp := env.call(t, http.MethodGet, "/api/cash/shifts/sh-ajena", contador, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.call(t, http.MethodGet, "/api/cash/shifts/no-existe", contador, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp).Code)
}

func TestCash_CierreYTurnoYaCerrado(t *testing.T) {
	env := newTestEnv(t)
	encargado := tokenForRole(t, "encargado")
	env.cash.shifts["sh-alivio"].OpeningAmount = decimal.NewFromInt(1000)

	resp := env.call(t, http.MethodPost, "/api/cash/shifts/sh-alivio/close", encargado, `{"declared_amount":1000}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.CloseShiftResponse
	decode(t, resp, &out)
	assert.Equal(t, "normal", out.Classification)
	assert.True(t, out.Difference.IsZero())

	resp = env.call(t, http.MethodPost, "/api/cash/shifts/sh-alivio/close", encargado, `{"declared_amount":1000}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "SHIFT_CLOSED", errorCode(t, resp).Code)
}

func TestCash_TransferenciaConClaveDeIdempotencia(t *testing.T) {
	env := newTestEnv(t)
	env.cash.shifts["sh-alivio"].OpeningAmount = decimal.NewFromInt(1000)
	cajero := tokenForRole(t, "cajero")
	body := `{"source_shift_id":"sh-alivio","dest_shift_id":"sh-fuerte","amount":400,"concept":"Depósito"}`

	resp := env.call(t, http.MethodPost, "/api/cash/transfers", cajero, body, apphttp.HeaderIdempotencyKey, "k-1")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.TransferResponse
	decode(t, resp, &out)
	assert.NotEmpty(t, out.TransferID)
	require.NotNil(t, out.EntryID)
	assert.True(t, decimal.NewFromInt(600).Equal(out.SourceBalance))

	resp = env.call(t, http.MethodPost, "/api/cash/transfers", cajero, body, apphttp.HeaderIdempotencyKey, "k-1")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_REQUEST", errorCode(t, resp).Code)

	assert.Len(t, env.cash.movements, 2, "el reintento no debe escribir movimientos")
}

func TestCash_TransferenciaSaldoInsuficiente(t *testing.T) {
	env := newTestEnv(t)
	resp := env.call(t, http.MethodPost, "/api/cash/transfers", tokenForRole(t, "cajero"),
		`{"source_shift_id":"sh-alivio","amount":1,"concept":"Retiro"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_BALANCE", errorCode(t, resp).Code)
	assert.Empty(t, env.cash.movements)
}

func TestCash_AgenteNoOperaCaja(t *testing.T) {
	env := newTestEnv(t)
	resp := env.call(t, http.MethodGet, "/api/cash/shifts/sh-alivio", tokenForRole(t, apphttp.RoleAgente), "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

// ─── Impresión ──────────────────────────────────────────────────────────────

func TestPrinting_ImprimirYConsumirCola(t *testing.T) {
	env := newTestEnv(t)

	resp := env.call(t, http.MethodPost, "/api/orders/o-1/print?dry_run=true", tokenForRole(t, "cajero"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var plan dto.PrintOrderResponse
	decode(t, resp, &plan)
	assert.False(t, plan.Dispatched)
	assert.Len(t, plan.Jobs, 3) // ticket + vale + comanda
	assert.Empty(t, env.queue.queues)

	resp = env.call(t, http.MethodPost, "/api/orders/o-1/print", tokenForRole(t, "cajero"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.PrintOrderResponse
	decode(t, resp, &out)
	assert.True(t, out.Dispatched)

	agente := tokenForRole(t, apphttp.RoleAgente)
	resp = env.call(t, http.MethodGet, "/api/print/queue/p-cocina/next", agente, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var job dto.QueuedPrintJob
	decode(t, resp, &job)
	assert.Equal(t, "comanda", job.Kind)
	assert.Equal(t, "o-1", job.OrderID)
	assert.NotEmpty(t, job.Payload)

	resp = env.call(t, http.MethodGet, "/api/print/queue/p-cocina/next", agente, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = env.call(t, http.MethodGet, "/api/print/queue/p-de-otro-local/next", agente, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestPrinting_PedidoDeOtraSucursal(t *testing.T) {
	env := newTestEnv(t)
	tok := tokenFor(t, pkgjwt.Identity{UserID: testUserID, BranchID: "otra", LocalRole: "cajero"})

	resp := env.call(t, http.MethodPost, "/api/orders/o-1/print", tok, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, resp).Code)

	resp = env.call(t, http.MethodPost, "/api/orders/o-404/print", tok, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
