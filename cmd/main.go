package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/flotasur/fleet-management/internal/alerts"
	"github.com/flotasur/fleet-management/internal/analytics"
	"github.com/flotasur/fleet-management/internal/auth"
	"github.com/flotasur/fleet-management/internal/compliance"
	"github.com/flotasur/fleet-management/internal/db"
	"github.com/flotasur/fleet-management/internal/handlers"
	"github.com/flotasur/fleet-management/internal/middleware"
	"github.com/flotasur/fleet-management/internal/reports"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "fleet"
	}
	database := client.Database(dbName)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		cancel()
		log.WithError(err).Fatal("Failed to create indexes")
	}
	cancel()

	vehicles := &db.MongoVehicleCollection{Collection: database.Collection("vehicles")}
	drivers := &db.MongoDriverCollection{Collection: database.Collection("drivers")}
	documents := &db.MongoDocumentCollection{Collection: database.Collection("documents")}
	maintenance := &db.MongoMaintenanceCollection{Collection: database.Collection("maintenance")}
	fuel := &db.MongoFuelCollection{Collection: database.Collection("fuel")}
	failures := &db.MongoFailureCollection{Collection: database.Collection("failures")}
	recipients := &db.MongoRecipientCollection{Collection: database.Collection("recipients")}
	users := &db.MongoUserCollection{Collection: database.Collection("users")}

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize auth service")
	}

	source := compliance.NewSource(vehicles, drivers, documents, maintenance)
	analyticsService := analytics.NewService(vehicles, maintenance, fuel, failures)
	exporter := reports.NewExporter(vehicles, documents, maintenance, fuel)
	mailer := alerts.NewMailer(alerts.SMTPConfigFromEnv())

	authHandler := handlers.NewAuthHandler(authService, users)
	vehicleHandler := handlers.NewVehicleHandler(vehicles)
	driverHandler := handlers.NewDriverHandler(drivers)
	documentHandler := handlers.NewDocumentHandler(documents, vehicles)
	maintenanceHandler := handlers.NewMaintenanceHandler(maintenance, vehicles)
	fuelHandler := handlers.NewFuelHandler(fuel, vehicles)
	failureHandler := handlers.NewFailureHandler(failures, vehicles)
	recipientHandler := handlers.NewRecipientHandler(recipients)
	dashboardHandler := handlers.NewDashboardHandler(source, vehicles)
	alertHandler := handlers.NewAlertHandler(source, recipients, mailer, log)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	reportHandler := handlers.NewReportHandler(exporter)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	// Credential endpoints get their own, much tighter limiter so that
	// login brute-forcing trips long before the general API budget.
	authLimit := middleware.NewRateLimitMiddleware().RateLimit(10, 60)

	mux := http.NewServeMux()
	mux.Handle("/api/auth/login", authLimit(http.HandlerFunc(authHandler.Login)))
	mux.Handle("/api/auth/register", authLimit(http.HandlerFunc(authHandler.Register)))
	mux.HandleFunc("/api/auth/profile", authHandler.GetProfile)
	mux.HandleFunc("/api/auth/password", authHandler.ChangePassword)

	guard := func(actions func(http.Handler) http.Handler, h http.HandlerFunc) http.Handler {
		return actions(h)
	}
	mux.Handle("/api/vehicles", guard(authMiddleware.RequireReadWrite("view_fleet", "manage_vehicles"), vehicleHandler.Handle))
	mux.Handle("/api/drivers", guard(authMiddleware.RequireReadWrite("view_fleet", "manage_drivers"), driverHandler.Handle))
	mux.Handle("/api/documents", guard(authMiddleware.RequireReadWrite("view_fleet", "manage_documents"), documentHandler.Handle))
	mux.Handle("/api/maintenance", guard(authMiddleware.RequireReadWrite("view_fleet", "record_maintenance"), maintenanceHandler.Handle))
	mux.Handle("/api/fuel", guard(authMiddleware.RequireReadWrite("view_fleet", "record_fuel"), fuelHandler.Handle))
	mux.Handle("/api/failures", guard(authMiddleware.RequireReadWrite("view_fleet", "record_maintenance"), failureHandler.Handle))
	mux.Handle("/api/recipients", guard(authMiddleware.RequirePermission("manage_recipients"), recipientHandler.Handle))
	mux.Handle("/api/dashboard", guard(authMiddleware.RequirePermission("view_compliance"), dashboardHandler.Handle))
	mux.Handle("/api/compliance/board", guard(authMiddleware.RequirePermission("view_compliance"), dashboardHandler.Board))
	mux.Handle("/api/alerts/preview", guard(authMiddleware.RequirePermission("view_compliance"), alertHandler.Preview))
	mux.Handle("/api/alerts/send", guard(authMiddleware.RequirePermission("send_alerts"), alertHandler.Send))
	analyticsGuard := authMiddleware.RequirePermission("view_analytics")
	mux.Handle("/api/analytics/costs", guard(analyticsGuard, analyticsHandler.Costs))
	mux.Handle("/api/analytics/efficiency", guard(analyticsGuard, analyticsHandler.Efficiency))
	mux.Handle("/api/analytics/failures", guard(analyticsGuard, analyticsHandler.Failures))
	mux.Handle("/api/analytics/maintenance-trend", guard(analyticsGuard, analyticsHandler.MaintenanceTrend))
	mux.Handle("/api/analytics/availability", guard(analyticsGuard, analyticsHandler.Availability))
	reportGuard := authMiddleware.RequirePermission("export_reports")
	mux.Handle("/api/reports/fleet.xlsx", guard(reportGuard, reportHandler.FleetWorkbook))
	mux.Handle("/api/reports/maintenance.csv", guard(reportGuard, reportHandler.MaintenanceCSV))
	mux.Handle("/api/reports/fuel.csv", guard(reportGuard, reportHandler.FuelCSV))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	rateLimit := middleware.NewRateLimitMiddleware()
	handler := rateLimit.RateLimit(300, 60)(authMiddleware.Authenticate(mux))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("Fleet management server listening")
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}
