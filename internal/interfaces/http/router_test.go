package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/payloop-api/internal/application/auth"
	"github.com/jhoicas/payloop-api/internal/application/dto"
	"github.com/jhoicas/payloop-api/internal/application/ledger"
	"github.com/jhoicas/payloop-api/internal/application/ports"
	"github.com/jhoicas/payloop-api/internal/application/usecase"
	"github.com/jhoicas/payloop-api/internal/domain/entity"
	"github.com/jhoicas/payloop-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/payloop-api/internal/interfaces/http"
	"github.com/jhoicas/payloop-api/pkg/config"
	"github.com/jhoicas/payloop-api/pkg/logger"
)

type fakeStatements struct{}

func (fakeStatements) GenerateStatementPDF(_ context.Context, c *entity.Customer, _ entity.Tier, _ time.Time) ([]byte, error) {
	return []byte("%PDF-1.3 " + c.Mobile), nil
}

type fakeLLM struct {
	answer string
	err    error
}

func (f fakeLLM) AnswerLoyaltyQuestion(_ context.Context, _, _ string) (string, error) {
	return f.answer, f.err
}

type testEnv struct {
	app    *fiber.App
	ledger *ledger.Service
	store  *memory.Store
}

func newTestEnv(t *testing.T, llm ports.LLMService) *testEnv {
	t.Helper()
	store := memory.NewStore()
	svc := ledger.NewService(store, ledger.NewNotifier(config.NotificationConfig{}, logger.NewNop()), logger.NewNop())
	require.NoError(t, svc.Load(context.Background()))

	authUC, err := auth.NewAuthUseCase(auth.NewOperatorDirectory(store),
		auth.AdminCredential{Username: "admin", Password: "admin123"},
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	require.NoError(t, err)

	if llm == nil {
		llm = fakeLLM{answer: "Aisha es la clienta con más gasto."}
	}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:        svc,
		AuthUC:        authUC,
		AIUC:          usecase.NewAIUseCase(llm, svc, "fake", time.Second),
		Statements:    fakeStatements{},
		JWTSecret:     testJWTSecret,
		StorageDriver: config.StorageMemory,
		Log:           logger.NewNop(),
	})
	return &testEnv{app: app, ledger: svc, store: store}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rd = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			rd = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHealth_ReportaAlmacenamiento(t *testing.T) {
	env := newTestEnv(t, nil)
	resp := env.do(t, http.MethodGet, "/health", "", nil)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "memory", body["storage"])
	assert.Equal(t, false, body["dirty"])
}

func TestLogin_AdminObtieneToken(t *testing.T) {
	env := newTestEnv(t, nil)
	resp := env.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "admin", Password: "admin123"})

	var out dto.LoginResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, entity.RoleAdmin, out.Operator.Role)

	resp = env.do(t, http.MethodGet, "/api/settings", "Bearer "+out.Token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin_PasswordIncorrecto_Retorna401(t *testing.T) {
	env := newTestEnv(t, nil)
	resp := env.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "admin", Password: "otra"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegister_CajeroPuedeIniciarSesion(t *testing.T) {
	env := newTestEnv(t, nil)
	reg := dto.RegisterRequest{BusinessName: "Tienda Uno", Username: "caja01", Password: "secreto1", ConfirmPassword: "secreto1"}
	resp := env.do(t, http.MethodPost, "/api/auth/register", "", reg)
	var op dto.OperatorResponse
	decodeBody(t, resp, &op)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, entity.RoleCajero, op.Role)

	resp = env.do(t, http.MethodPost, "/api/auth/register", "", reg)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "caja01", Password: "secreto1"})
	var out dto.LoginResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.RoleCajero, out.Operator.Role)
}

func TestRegister_PasswordsNoCoinciden_Retorna400(t *testing.T) {
	env := newTestEnv(t, nil)
	reg := dto.RegisterRequest{BusinessName: "Tienda", Username: "caja02", Password: "secreto1", ConfirmPassword: "secreto2"}
	resp := env.do(t, http.MethodPost, "/api/auth/register", "", reg)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSettle_ClienteExistenteAcreditaCambio(t *testing.T) {
	env := newTestEnv(t, nil)
	req := map[string]interface{}{
		"mobile": "7654321098", "pin": "7654",
		"bill_amount": 1000, "amount_tendered": 1500, "redeem_points": false,
	}
	resp := env.do(t, http.MethodPost, "/api/transactions", tokenForRole(t, "cajero"), req)

	var out dto.SettleResponse
	decodeBody(t, resp, &out)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.False(t, out.Breakdown.NewCustomer)
	assert.Equal(t, "1000", out.Breakdown.FinalBill.String())
	assert.Equal(t, int64(500), out.Breakdown.NetPointsChange)
	assert.Equal(t, "earn", out.Breakdown.EntryType)
	assert.Equal(t, int64(850), out.Customer.Points)
	assert.True(t, out.Persisted)
	assert.Equal(t, "Sent", out.Notification.Status)
	assert.Contains(t, out.Notification.Message, "Priya Mehta")
	assert.Len(t, env.store.Audits(), 1)
}

func TestSettle_ClienteNuevoRecibeBienvenida(t *testing.T) {
	env := newTestEnv(t, nil)
	req := map[string]interface{}{
		"mobile": "9000000001", "name": "Nuevo Cliente", "pin": "1234",
		"bill_amount": "500", "amount_tendered": "600",
	}
	resp := env.do(t, http.MethodPost, "/api/transactions", tokenForRole(t, "cajero"), req)

	var out dto.SettleResponse
	decodeBody(t, resp, &out)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, out.Breakdown.NewCustomer)
	assert.Equal(t, int64(100), out.Customer.Points)
	assert.Contains(t, out.Notification.Message, "Welcome to PayLoop")

	c, err := env.ledger.Customer("9000000001")
	require.NoError(t, err)
	assert.Equal(t, "1234", c.PIN)
}

func TestSettle_MontoInsuficiente_Retorna422ConFaltante(t *testing.T) {
	env := newTestEnv(t, nil)
	req := map[string]interface{}{
		"mobile": "6543210987", "pin": "6543",
		"bill_amount": 950, "amount_tendered": 100,
	}
	before := env.ledger.Version()
	resp := env.do(t, http.MethodPost, "/api/transactions", tokenForRole(t, "cajero"), req)

	var out dto.InsufficientTenderResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_TENDER", out.Code)
	assert.Equal(t, "850.00", out.Shortfall)
	assert.Equal(t, before, env.ledger.Version())
}

func TestSettle_PINIncorrecto_Retorna401(t *testing.T) {
	env := newTestEnv(t, nil)
	req := map[string]interface{}{
		"mobile": "9876543210", "pin": "0000",
		"bill_amount": 100, "amount_tendered": 100,
	}
	resp := env.do(t, http.MethodPost, "/api/transactions", tokenForRole(t, "cajero"), req)

	var out dto.ErrorResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "PIN_MISMATCH", out.Code)
}

func TestSettle_MontoNoNumerico_Retorna400(t *testing.T) {
	env := newTestEnv(t, nil)
	body := `{"mobile":"9876543210","pin":"9876","bill_amount":"abc","amount_tendered":100}`
	resp := env.do(t, http.MethodPost, "/api/transactions", tokenForRole(t, "cajero"), body)

	var out dto.ErrorResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MALFORMED", out.Code)
}

func TestSettle_MontoExcesivo_Retorna400(t *testing.T) {
	env := newTestEnv(t, nil)
	before := env.ledger.Version()
	body := `{"mobile":"6543210987","pin":"6543","bill_amount":0,"amount_tendered":"10000000000000000000"}`
	resp := env.do(t, http.MethodPost, "/api/transactions", tokenForRole(t, "cajero"), body)

	var out dto.ErrorResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MALFORMED", out.Code)
	assert.Equal(t, before, env.ledger.Version())
}

func TestSettle_SinToken_Retorna401(t *testing.T) {
	env := newTestEnv(t, nil)
	resp := env.do(t, http.MethodPost, "/api/transactions", "", map[string]interface{}{"mobile": "9876543210"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestQuote_NoModificaLedger(t *testing.T) {
	env := newTestEnv(t, nil)
	before := env.ledger.Version()
	req := map[string]interface{}{
		"mobile": "9876543210", "pin": "9876",
		"bill_amount": 10000, "amount_tendered": 1000, "redeem_points": true,
	}
	resp := env.do(t, http.MethodPost, "/api/transactions/quote", tokenForRole(t, "cajero"), req)

	var out dto.SettlementBreakdown
	decodeBody(t, resp, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Platinum", out.EffectiveTier)
	assert.Equal(t, "1500", out.TierDiscount.String())
	assert.Equal(t, "7500", out.PointsRedeemed.String())
	assert.Equal(t, "1000", out.FinalBill.String())
	assert.Equal(t, before, env.ledger.Version())
	assert.Empty(t, env.ledger.Notifications())
}

func TestCustomers_ListaYDetalleSinPIN(t *testing.T) {
	env := newTestEnv(t, nil)
	tok := tokenForRole(t, "cajero")

	resp := env.do(t, http.MethodGet, "/api/customers", tok, nil)
	var list []dto.CustomerResponse
	decodeBody(t, resp, &list)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, list, 5)

	resp = env.do(t, http.MethodGet, "/api/customers?q=7654", tok, nil)
	decodeBody(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Priya Mehta", list[0].Name)

	resp = env.do(t, http.MethodGet, "/api/customers/9876543210", tok, nil)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(raw), `"pin"`)
	var detail dto.CustomerResponse
	require.NoError(t, json.Unmarshal(raw, &detail))
	assert.Len(t, detail.History, 3)
	assert.Equal(t, "Platinum", detail.EffectiveTier)

	resp = env.do(t, http.MethodGet, "/api/customers/1111111111", tok, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestVerifyPIN_Casos(t *testing.T) {
	env := newTestEnv(t, nil)
	tok := tokenForRole(t, "cajero")

	resp := env.do(t, http.MethodPost, "/api/customers/9876543210/verify-pin", tok, dto.VerifyPINRequest{PIN: "9876"})
	var ok dto.VerifyPINResponse
	decodeBody(t, resp, &ok)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, ok.Exists)
	require.NotNil(t, ok.Customer)
	assert.Equal(t, "Aisha Sharma", ok.Customer.Name)

	resp = env.do(t, http.MethodPost, "/api/customers/9876543210/verify-pin", tok, dto.VerifyPINRequest{PIN: "1111"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/customers/9000000009/verify-pin", tok, dto.VerifyPINRequest{PIN: "1111"})
	var nuevo dto.VerifyPINResponse
	decodeBody(t, resp, &nuevo)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, nuevo.Exists)

	resp = env.do(t, http.MethodPost, "/api/customers/123/verify-pin", tok, dto.VerifyPINRequest{PIN: "1111"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatement_DevuelvePDF(t *testing.T) {
	env := newTestEnv(t, nil)
	resp := env.do(t, http.MethodGet, "/api/customers/8765432109/statement.pdf", tokenForRole(t, "cajero"), nil)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestAudit_ListaAsientosDelCliente(t *testing.T) {
	env := newTestEnv(t, nil)
	tok := tokenForRole(t, "cajero")
	req := map[string]interface{}{"mobile": "7654321098", "pin": "7654", "bill_amount": 100, "amount_tendered": 200}
	resp := env.do(t, http.MethodPost, "/api/transactions", tok, req)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/customers/7654321098/audit", tok, nil)
	var list []dto.AuditEntryDTO
	decodeBody(t, resp, &list)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list, 1)
	assert.Equal(t, int64(100), list[0].NetPoints)
	assert.Equal(t, int64(450), list[0].PointsAfter)
}

func TestHistoryYNotificaciones_MasRecientePrimero(t *testing.T) {
	env := newTestEnv(t, nil)
	tok := tokenForRole(t, "cajero")
	req := map[string]interface{}{"mobile": "6543210987", "pin": "6543", "bill_amount": 100, "amount_tendered": 150}
	resp := env.do(t, http.MethodPost, "/api/transactions", tok, req)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/api/history", tok, nil)
	var history []dto.HistoryEntryDTO
	decodeBody(t, resp, &history)
	require.Len(t, history, 11)
	assert.Equal(t, "6543210987", history[0].Mobile)
	assert.Equal(t, "Karan Singh", history[0].Name)

	resp = env.do(t, http.MethodGet, "/api/notifications", tok, nil)
	var logs []dto.NotificationDTO
	decodeBody(t, resp, &logs)
	require.Len(t, logs, 1)
	assert.Equal(t, "6543210987", logs[0].RecipientMobile)
}

func TestSettings_CajeroNoPuedeActualizar(t *testing.T) {
	env := newTestEnv(t, nil)
	in := map[string]interface{}{
		"spending_tiers": map[string]int{"platinum": 1, "gold": 1, "silver": 1, "bronze": 0},
		"points_tiers":   map[string]int{"platinum": 1, "gold": 1, "silver": 1, "bronze": 0},
		"discounts":      map[string]int{"platinum": 1, "gold": 1, "silver": 1, "bronze": 0},
	}
	resp := env.do(t, http.MethodPut, "/api/settings", tokenForRole(t, "cajero"), in)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSettings_AdminActualizaYReclasifica(t *testing.T) {
	env := newTestEnv(t, nil)
	in := map[string]interface{}{
		"spending_tiers": map[string]int{"platinum": 100000, "gold": 50000, "silver": 2000, "bronze": 0},
		"points_tiers":   map[string]int{"platinum": 10000, "gold": 5000, "silver": 200, "bronze": 0},
		"discounts":      map[string]int{"platinum": 20, "gold": 10, "silver": 5, "bronze": 0},
	}
	resp := env.do(t, http.MethodPut, "/api/settings", tokenForRole(t, "admin"), in)
	var out dto.UpdateSettingsResponse
	decodeBody(t, resp, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.Persisted)
	assert.Equal(t, "20", out.Settings.Discounts.Platinum.String())

	c, err := env.ledger.Customer("9876543210")
	require.NoError(t, err)
	assert.Equal(t, entity.TierGold, c.SpendingTier)
	assert.Len(t, c.History, 3)
}

func TestSettings_NoMonotona_Retorna400(t *testing.T) {
	env := newTestEnv(t, nil)
	in := map[string]interface{}{
		"spending_tiers": map[string]int{"platinum": 100, "gold": 5000, "silver": 2000, "bronze": 0},
		"points_tiers":   map[string]int{"platinum": 5000, "gold": 1000, "silver": 200, "bronze": 0},
		"discounts":      map[string]int{"platinum": 15, "gold": 10, "silver": 5, "bronze": 0},
	}
	resp := env.do(t, http.MethodPut, "/api/settings", tokenForRole(t, "admin"), in)
	var out dto.ErrorResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", out.Code)
}

func TestAnalytics_StatsYSummary(t *testing.T) {
	env := newTestEnv(t, nil)
	tok := tokenForRole(t, "cajero")

	resp := env.do(t, http.MethodGet, "/api/analytics/stats", tok, nil)
	var stats dto.StatsResponse
	decodeBody(t, resp, &stats)
	assert.Equal(t, 5, stats.TotalCustomers)
	assert.Equal(t, "83450", stats.TotalRevenue.String())
	assert.Equal(t, int64(10280), stats.ActivePoints)

	resp = env.do(t, http.MethodGet, "/api/analytics/summary", tok, nil)
	var sum dto.AnalyticsSummaryResponse
	decodeBody(t, resp, &sum)
	assert.Equal(t, 10, sum.TotalTransactions)
	assert.Equal(t, "8345", sum.AverageOrderValue.String())
	require.Len(t, sum.TopCustomers, 5)
	assert.Equal(t, "Aisha Sharma", sum.TopCustomers[0].Name)
}

func TestExportCSV_UnaLineaPorCliente(t *testing.T) {
	env := newTestEnv(t, nil)
	resp := env.do(t, http.MethodGet, "/api/export/customers.csv", tokenForRole(t, "cajero"), nil)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Name,Mobile,TotalSpent,Points,SpendingTier,PointsTier", lines[0])
}

func TestAIAnalyze_Casos(t *testing.T) {
	env := newTestEnv(t, nil)
	tok := tokenForRole(t, "cajero")

	resp := env.do(t, http.MethodPost, "/api/ai/analyze", tok, dto.AIAnalyzeRequest{Question: "¿Quién gasta más?"})
	var out dto.AIAnalyzeResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "fake", out.Provider)
	assert.NotEmpty(t, out.Answer)

	resp = env.do(t, http.MethodPost, "/api/ai/analyze", tok, dto.AIAnalyzeRequest{Question: "  "})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAIAnalyze_ProveedorCaido_Retorna503(t *testing.T) {
	env := newTestEnv(t, fakeLLM{err: ports.ErrLLMUnavailable})
	before := env.ledger.Version()
	resp := env.do(t, http.MethodPost, "/api/ai/analyze", tokenForRole(t, "admin"), dto.AIAnalyzeRequest{Question: "resumen"})
	var out dto.ErrorResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "AI_UNAVAILABLE", out.Code)
	assert.Equal(t, before, env.ledger.Version())
}

func TestResetDemo_SoloAdmin(t *testing.T) {
	env := newTestEnv(t, nil)
	req := map[string]interface{}{"mobile": "9000000001", "name": "Temporal", "pin": "1234", "bill_amount": 10, "amount_tendered": 10}
	resp := env.do(t, http.MethodPost, "/api/transactions", tokenForRole(t, "cajero"), req)
	resp.Body.Close()
	require.Len(t, env.ledger.Customers(), 6)

	resp = env.do(t, http.MethodPost, "/api/admin/reset-demo", tokenForRole(t, "cajero"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/admin/reset-demo", tokenForRole(t, "admin"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, env.ledger.Customers(), 5)
	assert.Empty(t, env.ledger.Notifications())
}
