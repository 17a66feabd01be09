package payroll

import (
	"context"
	"os"
	"testing"

	"github.com/schoolops/payroll-ledger-go/internal/domain/payroll"
	"github.com/schoolops/payroll-ledger-go/internal/domain/session"
	"github.com/schoolops/payroll-ledger-go/internal/pkg/database"
	"github.com/schoolops/payroll-ledger-go/internal/pkg/timeutil"
	"github.com/schoolops/payroll-ledger-go/internal/repository/postgresql"
	ledgersvc "github.com/schoolops/payroll-ledger-go/internal/service/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinutesToHours(t *testing.T) {
	assert.True(t, MinutesToHours(60).Equal(decimal.NewFromInt(1)))
	assert.True(t, MinutesToHours(135).Equal(decimal.RequireFromString("2.25")))
	assert.True(t, MinutesToHours(390).Equal(decimal.RequireFromString("6.5")))
	assert.True(t, MinutesToHours(705).Equal(decimal.RequireFromString("11.75")))
	assert.True(t, MinutesToHours(10).Equal(decimal.RequireFromString("0.17")))
	assert.True(t, MinutesToHours(0).IsZero())
}

func TestApprovedAmount(t *testing.T) {
	wage := decimal.RequireFromString("5.00")

	amount := ApprovedAmount(MinutesToHours(705), wage, nil)
	assert.True(t, amount.Equal(decimal.RequireFromString("58.75")), "got %s", amount)

	override := decimal.RequireFromString("40.00")
	amount = ApprovedAmount(MinutesToHours(705), wage, &override)
	assert.True(t, amount.Equal(override))
}

func TestRoundHours(t *testing.T) {
	assert.Equal(t, 2.25, roundHours(135))
	assert.Equal(t, 0.17, roundHours(10))
	assert.Equal(t, 0.0, roundHours(0))
}

// ===== DATABASE-BACKED =====

var testPayrollDB *database.DB

type payrollTestEnv struct {
	db      *database.DB
	service payroll.PayrollService
	ledger  session.LedgerService
}

func payrollTestInit(t *testing.T) payrollTestEnv {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database-backed tests")
	}

	if testPayrollDB == nil {
		var err error
		testPayrollDB, err = database.NewPostgreSQLDB(dsn)
		require.NoError(t, err, "failed to connect to test database")
		require.NoError(t, database.Migrate(context.Background(), testPayrollDB))
	}

	normalizer, err := timeutil.NewNormalizer("America/Lima")
	require.NoError(t, err)

	staffRepo := postgresql.NewStaffRepository(testPayrollDB)
	sessionRepo := postgresql.NewSessionRepository(testPayrollDB)
	approvalRepo := postgresql.NewApprovalRepository(testPayrollDB)
	auditRepo := postgresql.NewAuditRepository(testPayrollDB)
	paymentRepo := postgresql.NewPaymentRepository(testPayrollDB)

	return payrollTestEnv{
		db:      testPayrollDB,
		service: NewPayrollService(testPayrollDB, normalizer, staffRepo, sessionRepo, approvalRepo, auditRepo, paymentRepo),
		ledger:  ledgersvc.NewLedgerService(testPayrollDB, normalizer, staffRepo, sessionRepo, approvalRepo, auditRepo),
	}
}

func truncatePayrollTables(t *testing.T, ctx context.Context, db *database.DB) {
	t.Helper()
	tables := []string{"audit_events", "day_approvals", "month_payments", "attendance_sessions", "staff"}
	for _, table := range tables {
		_, err := db.Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE")
		require.NoError(t, err)
	}
}

func createPayrollStaff(t *testing.T, ctx context.Context, db *database.DB, name, wage string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(ctx, `
		INSERT INTO staff (full_name, hourly_wage, active)
		VALUES ($1, $2, TRUE)
		RETURNING id
	`, name, wage).Scan(&id)
	require.NoError(t, err)
	return id
}

func approveWorkedDay(t *testing.T, ctx context.Context, env payrollTestEnv, staffID int64, date, checkin, checkout string) {
	t.Helper()
	_, err := env.ledger.CreateSession(ctx, staffID, date, session.SessionPayload{
		CheckinTime:  checkin,
		CheckoutTime: &checkout,
	})
	require.NoError(t, err)
	_, err = env.ledger.ApproveDay(ctx, staffID, date, nil)
	require.NoError(t, err)
}

func TestMonthSummary_OnlyApprovedDaysCount(t *testing.T) {
	env := payrollTestInit(t)
	ctx := context.Background()
	truncatePayrollTables(t, ctx, env.db)

	staffID := createPayrollStaff(t, ctx, env.db, "Ana Torres", "5.00")

	// Two approved days in October, one unapproved, one in November.
	approveWorkedDay(t, ctx, env, staffID, "2025-10-06", "2025-10-06T08:00:00-05:00", "2025-10-06T14:00:00-05:00") // 360 min
	approveWorkedDay(t, ctx, env, staffID, "2025-10-07", "2025-10-07T08:00:00-05:00", "2025-10-07T13:45:00-05:00") // 345 min

	_, err := env.ledger.CreateSession(ctx, staffID, "2025-10-08", session.SessionPayload{
		CheckinTime:  "2025-10-08T08:00:00-05:00",
		CheckoutTime: strPtr("2025-10-08T12:00:00-05:00"),
	})
	require.NoError(t, err)

	approveWorkedDay(t, ctx, env, staffID, "2025-11-03", "2025-11-03T08:00:00-05:00", "2025-11-03T12:00:00-05:00")

	rows, err := env.service.MonthSummary(ctx, "2025-10-01")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, staffID, row.StaffID)
	// 705 approved minutes = 11.75 h, at 5.00/h = 58.75.
	assert.True(t, row.ApprovedHoursMonth.Equal(decimal.RequireFromString("11.75")), "got %s", row.ApprovedHoursMonth)
	assert.True(t, row.ApprovedAmount.Equal(decimal.RequireFromString("58.75")), "got %s", row.ApprovedAmount)
	assert.False(t, row.Paid)
}

func TestMonthSummary_AmountOverrideWins(t *testing.T) {
	env := payrollTestInit(t)
	ctx := context.Background()
	truncatePayrollTables(t, ctx, env.db)

	staffID := createPayrollStaff(t, ctx, env.db, "Luis Vega", "5.00")
	approveWorkedDay(t, ctx, env, staffID, "2025-10-06", "2025-10-06T08:00:00-05:00", "2025-10-06T14:00:00-05:00")

	override := decimal.RequireFromString("100.00")
	_, err := env.service.SetAmountOverride(ctx, payroll.SetAmountOverrideRequest{
		StaffID: staffID,
		Month:   "2025-10-01",
		Amount:  &override,
	})
	require.NoError(t, err)

	rows, err := env.service.MonthSummary(ctx, "2025-10-01")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].ApprovedAmount.Equal(override), "got %s", rows[0].ApprovedAmount)
}

func TestSetMonthPaid_PreservesOverride(t *testing.T) {
	env := payrollTestInit(t)
	ctx := context.Background()
	truncatePayrollTables(t, ctx, env.db)

	staffID := createPayrollStaff(t, ctx, env.db, "Luis Vega", "5.00")

	override := decimal.RequireFromString("100.00")
	_, err := env.service.SetAmountOverride(ctx, payroll.SetAmountOverrideRequest{
		StaffID: staffID,
		Month:   "2025-10-01",
		Amount:  &override,
	})
	require.NoError(t, err)

	amountPaid := decimal.RequireFromString("100.00")
	reference := "transferencia 123"
	paid, err := env.service.SetMonthPaid(ctx, payroll.SetMonthPaidRequest{
		StaffID:    staffID,
		Month:      "2025-10-01",
		Paid:       true,
		AmountPaid: &amountPaid,
		Reference:  &reference,
	})
	require.NoError(t, err)

	assert.True(t, paid.Paid)
	assert.NotNil(t, paid.PaidAt)
	require.NotNil(t, paid.AmountOverride)
	assert.True(t, paid.AmountOverride.Equal(override))
}

func TestSetMonthPaid_UnpaidClearsTimestamp(t *testing.T) {
	env := payrollTestInit(t)
	ctx := context.Background()
	truncatePayrollTables(t, ctx, env.db)

	staffID := createPayrollStaff(t, ctx, env.db, "Luis Vega", "5.00")

	_, err := env.service.SetMonthPaid(ctx, payroll.SetMonthPaidRequest{
		StaffID: staffID,
		Month:   "2025-10-01",
		Paid:    true,
	})
	require.NoError(t, err)

	unpaid, err := env.service.SetMonthPaid(ctx, payroll.SetMonthPaidRequest{
		StaffID: staffID,
		Month:   "2025-10-01",
		Paid:    false,
	})
	require.NoError(t, err)
	assert.False(t, unpaid.Paid)
	assert.Nil(t, unpaid.PaidAt)
}

func TestMatrix_DenseCellsWithApprovalAndEdits(t *testing.T) {
	env := payrollTestInit(t)
	ctx := context.Background()
	truncatePayrollTables(t, ctx, env.db)

	staffID := createPayrollStaff(t, ctx, env.db, "Marta Ríos", "5.00")

	approveWorkedDay(t, ctx, env, staffID, "2025-10-06", "2025-10-06T08:00:00-05:00", "2025-10-06T10:15:00-05:00") // 135 min

	// An edited day: session updated after creation.
	created, err := env.ledger.CreateSession(ctx, staffID, "2025-10-07", session.SessionPayload{
		CheckinTime:  "2025-10-07T08:00:00-05:00",
		CheckoutTime: strPtr("2025-10-07T09:00:00-05:00"),
	})
	require.NoError(t, err)
	_, err = env.ledger.UpdateSession(ctx, staffID, created.SessionID, session.SessionPayload{
		CheckinTime:  "2025-10-07T08:00:00-05:00",
		CheckoutTime: strPtr("2025-10-07T10:00:00-05:00"),
	})
	require.NoError(t, err)

	matrix, err := env.service.Matrix(ctx, "2025-10-06", "2025-10-08")
	require.NoError(t, err)

	assert.Equal(t, []string{"2025-10-06", "2025-10-07", "2025-10-08"}, matrix.Days)
	require.Len(t, matrix.Rows, 1)
	require.Len(t, matrix.Rows[0].Cells, 3)

	day1 := matrix.Rows[0].Cells[0]
	assert.Equal(t, 2.25, day1.Hours)
	assert.True(t, day1.Approved)
	assert.Equal(t, 2.25, day1.ApprovedHours)

	day2 := matrix.Rows[0].Cells[1]
	assert.Equal(t, 2.0, day2.Hours)
	assert.False(t, day2.Approved) // update invalidated any approval
	assert.True(t, day2.HasEdits)

	day3 := matrix.Rows[0].Cells[2]
	assert.Equal(t, 0.0, day3.Hours)
	assert.False(t, day3.Approved)
	assert.False(t, day3.HasEdits)
}

func strPtr(s string) *string { return &s }
