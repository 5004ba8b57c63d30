package main

import (
	"log"

	"pstn-call-report/internal/api"
	"pstn-call-report/internal/config"
	"pstn-call-report/internal/graph"
	"pstn-call-report/internal/report"
	"pstn-call-report/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize the Graph record source
	graphClient := graph.NewClient(cfg.Graph)

	// Initialize the core pipeline components
	normalizer, err := report.NewNormalizer(cfg.Report.Timezone)
	if err != nil {
		log.Fatalf("Failed to create normalizer: %v", err)
	}
	planner := report.NewPlanner(cfg.Report.UserPrincipalNames, cfg.Report.ManagerEmail)
	excelService := services.NewExcelService()

	// Initialize mail dispatch (optional)
	var mailer services.ReportMailer
	if cfg.Email.APIKey != "" {
		mailer = services.NewEmailService(cfg.Email)
	} else {
		log.Printf("SendGrid API key not configured, mail dispatch disabled")
	}

	runService := services.NewRunService(
		graphClient,
		normalizer,
		planner,
		excelService,
		mailer,
		cfg.Report.WindowHours,
	)

	// Schedule the recurring report run and start the scheduler
	if _, err := runService.Schedule(cfg.Report.Schedule); err != nil {
		log.Fatalf("Failed to schedule report run: %v", err)
	}
	runService.Start()
	defer runService.Stop()

	// Initialize handlers
	taskService := services.NewTaskService()
	handlers := api.NewHandlers(runService, taskService)

	// Setup routes
	router := api.SetupRoutes(handlers)

	// Start server
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
