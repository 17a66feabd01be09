package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/schoolops/payroll-ledger-go/internal/config"
	appHTTP "github.com/schoolops/payroll-ledger-go/internal/handler/http"
	"github.com/schoolops/payroll-ledger-go/internal/pkg/database"
	"github.com/schoolops/payroll-ledger-go/internal/pkg/timeutil"
	"github.com/schoolops/payroll-ledger-go/internal/repository/postgresql"
	ledgerService "github.com/schoolops/payroll-ledger-go/internal/service/ledger"
	payrollService "github.com/schoolops/payroll-ledger-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatal("Failed to apply schema: ", err)
	}

	normalizer, err := timeutil.NewNormalizer(cfg.Payroll.Timezone)
	if err != nil {
		log.Fatal("Failed to load payroll timezone: ", err)
	}

	staffRepo := postgresql.NewStaffRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)
	approvalRepo := postgresql.NewApprovalRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	paymentRepo := postgresql.NewPaymentRepository(db)

	ledger := ledgerService.NewLedgerService(db, normalizer, staffRepo, sessionRepo, approvalRepo, auditRepo)
	payroll := payrollService.NewPayrollService(db, normalizer, staffRepo, sessionRepo, approvalRepo, auditRepo, paymentRepo)

	ledgerHandler := appHTTP.NewLedgerHandler(ledger)
	payrollHandler := appHTTP.NewPayrollHandler(payroll)

	router := appHTTP.NewRouter(cfg.App.Env, ledgerHandler, payrollHandler)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Payroll ledger listening on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server error: ", err)
	}
}
