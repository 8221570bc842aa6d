package services

import (
	"context"
	"testing"

	"cafebudget/internal/models"
	"cafebudget/internal/testutil"
)

func TestAuditServiceLog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db)

	svc.Log(context.Background(), AuditEntry{
		Actor:        "manager",
		Action:       "CREATE_OVERALL_BUDGET",
		ResourceType: ResourceOverallBudget,
		ResourceID:   "0190a8a0-0000-7000-8000-000000000000",
		Month:        "2025-06",
		IPAddress:    "10.0.0.1",
		Changes:      map[string]any{"amount": "1000"},
	})
	svc.Log(context.Background(), AuditEntry{Action: "FINALIZE_BUDGETS", ResourceType: ResourceMonth, Month: "2025-06"})

	var logs []models.AuditLog
	testutil.AssertNoError(t, db.Order("id").Find(&logs).Error)
	if len(logs) != 2 {
		t.Fatalf("expected 2 audit rows, got %d", len(logs))
	}
	if logs[0].Actor != "manager" || logs[0].Changes != `{"amount":"1000"}` {
		t.Errorf("unexpected first audit row %+v", logs[0])
	}
	if logs[1].Actor != "anonymous" || logs[1].ResourceID != "" {
		t.Errorf("expected anonymous finalize entry, got %+v", logs[1])
	}
}
