package integration

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cafebudget/internal/budget"
	"cafebudget/internal/events"
	"cafebudget/internal/handlers"
	"cafebudget/internal/logger"
	"cafebudget/internal/middleware"
	"cafebudget/internal/services"
	"cafebudget/internal/testutil"
	"cafebudget/internal/validator"
)

// testNow is mid-June 2025, so 2025-06 is the ongoing month and budgets can
// be created up to 2025-09.
var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Recorder *events.Recorder
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	engine := budget.NewEngine(budget.DefaultPolicy(), func() time.Time { return testNow })
	recorder := &events.Recorder{}

	auditService := services.NewAuditService(db)
	h := &handlers.Handlers{
		Overall:        handlers.NewOverallBudgetHandler(services.NewOverallBudgetService(db, engine, recorder), auditService),
		Category:       handlers.NewCategoryBudgetHandler(services.NewCategoryBudgetService(db, engine, recorder), auditService),
		Payroll:        handlers.NewPayrollBudgetHandler(services.NewPayrollBudgetService(db, engine, recorder), auditService),
		Company:        handlers.NewCompanyBudgetHandler(services.NewCompanyBudgetService(db, engine, recorder), auditService),
		Reconciliation: handlers.NewReconciliationHandler(services.NewReconciliationService(db, engine, recorder), auditService),
		Employee:       handlers.NewEmployeeHandler(services.NewEmployeeService(db)),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	handlers.RegisterRoutes(router.Group("/api/v1"), h)

	return &testApp{DB: db, Router: router, Recorder: recorder}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// mustRequest fails the test unless the response has the expected status.
func (app *testApp) mustRequest(t *testing.T, method, path, body string, status int) map[string]interface{} {
	t.Helper()
	rec := app.request(method, path, body)
	if rec.Code != status {
		t.Fatalf("%s %s: expected %d, got %d: %s", method, path, status, rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// errorCode extracts error.code from an error envelope.
func errorCode(t *testing.T, body map[string]interface{}) string {
	t.Helper()
	envelope, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected an error envelope, got %v", body)
	}
	code, _ := envelope["code"].(string)
	return code
}

// expectError fails the test unless the request is rejected with status and code.
func (app *testApp) expectError(t *testing.T, method, path, body string, status int, code string) map[string]interface{} {
	t.Helper()
	result := app.mustRequest(t, method, path, body, status)
	if got := errorCode(t, result); got != code {
		t.Fatalf("%s %s: expected error code %s, got %s", method, path, code, got)
	}
	return result["error"].(map[string]interface{})
}

// resourceID returns the id of the resource stored under key in a response.
func resourceID(t *testing.T, body map[string]interface{}, key string) string {
	t.Helper()
	res, ok := body[key].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no %q object: %v", key, body)
	}
	return res["id"].(string)
}
