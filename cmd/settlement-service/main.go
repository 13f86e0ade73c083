package main

import (
	"fmt"
	"os"

	"github.com/parkjunho/labor-settlement/internal/auth"
	"github.com/parkjunho/labor-settlement/internal/config"
	"github.com/parkjunho/labor-settlement/internal/db"
	"github.com/parkjunho/labor-settlement/internal/excel"
	httphandler "github.com/parkjunho/labor-settlement/internal/http"
	"github.com/parkjunho/labor-settlement/internal/http/middleware"
	"github.com/parkjunho/labor-settlement/internal/logger"
	"github.com/parkjunho/labor-settlement/internal/pdf"
	"github.com/parkjunho/labor-settlement/internal/repository"
	"github.com/parkjunho/labor-settlement/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	rosterRepo := repository.NewRosterRepository(database)
	reportRepo := repository.NewReportRepository(database)
	settlementRepo := repository.NewSettlementRepository(database)
	advanceRepo := repository.NewAdvanceRepository(database)
	auditRepo := repository.NewAuditRepository(database)

	excelGenerator := excel.NewGenerator()
	payslipGenerator, err := pdf.NewGenerator(cfg.PDF.FontPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf generator")
	}

	settlementService := service.NewSettlementService(
		rosterRepo, reportRepo, settlementRepo, advanceRepo, auditRepo,
		excelGenerator, payslipGenerator, cfg, log,
	)
	advanceService := service.NewAdvanceService(advanceRepo, rosterRepo, auditRepo, log)
	supportService := service.NewSupportService(reportRepo, excelGenerator)
	reportService := service.NewReportService(reportRepo, rosterRepo, auditRepo, log)
	rosterService := service.NewRosterService(rosterRepo, auditRepo, cfg, log)
	auditService := service.NewAuditService(auditRepo)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(
		settlementService, advanceService, supportService,
		reportService, rosterService, auditService, log,
	)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting settlement service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
