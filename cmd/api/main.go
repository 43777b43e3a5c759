package main

import (
	"fmt"
	"net/http"

	"github.com/parishworks/chms-backend-go/internal/config"
	appHTTP "github.com/parishworks/chms-backend-go/internal/handler/http"
	"github.com/parishworks/chms-backend-go/internal/pkg/database"
	"github.com/parishworks/chms-backend-go/internal/repository/postgresql"
	approvalService "github.com/parishworks/chms-backend-go/internal/service/approval"
	auditlogService "github.com/parishworks/chms-backend-go/internal/service/auditlog"
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

	payrollRepo := postgresql.NewPayrollRepository(db)
	rejectionRepo := postgresql.NewRejectionRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)

	approvalSvc := approvalService.NewApprovalService(db, payrollRepo, rejectionRepo, auditRepo)
	auditSvc := auditlogService.NewAuditService(auditRepo)

	payrollHandler := appHTTP.NewPayrollHandler(approvalSvc, auditSvc)

	router := appHTTP.NewRouter(payrollHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
