package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/planillapro/payroll-backend-go/internal/config"
	appHTTP "github.com/planillapro/payroll-backend-go/internal/handler/http"
	"github.com/planillapro/payroll-backend-go/internal/pkg/auditlog"
	"github.com/planillapro/payroll-backend-go/internal/pkg/database"
	"github.com/planillapro/payroll-backend-go/internal/pkg/jwt"
	"github.com/planillapro/payroll-backend-go/internal/repository/postgresql"
	"github.com/planillapro/payroll-backend-go/internal/service/calculation"
	payrollService "github.com/planillapro/payroll-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	runRepo := postgresql.NewPayrollRunRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	taxConfigRepo := postgresql.NewTaxConfigRepository(db)
	sourceRecordRepo := postgresql.NewSourceRecordRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	auditSink := auditlog.NewSlogSink(slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("component", "audit"),
	))

	runService := payrollService.NewRunService(
		runRepo,
		employeeRepo,
		taxConfigRepo,
		sourceRecordRepo,
		calculation.NewCalculator(),
		auditSink,
		cfg.Payroll.Workers,
	)

	runHandler := appHTTP.NewPayrollRunHandler(runService)

	router := appHTTP.NewRouter(jwtService, cfg.App.Env, runHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
