package main

import (
	"flag"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/campusreview/betyg/internal/app"
	"github.com/campusreview/betyg/internal/handlers"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	if err := service.Store.EnsureSchema(); err != nil {
		logger.Error.Fatalf("Failed to ensure schema: %v", err)
	}

	facultyHandler := handlers.NewFacultyHandler(service)

	http.HandleFunc("POST /api/v1/login", facultyHandler.HandleLogin)
	http.HandleFunc("POST /api/v1/logout", facultyHandler.HandleLogout)
	http.HandleFunc("GET /api/v1/faculty", facultyHandler.HandleListFaculty)
	http.HandleFunc("POST /api/v1/faculty", facultyHandler.HandleAddFaculty)
	http.HandleFunc("GET /api/v1/faculty/{id}", facultyHandler.HandleGetFaculty)
	http.HandleFunc("GET /api/v1/faculty/{id}/summary", facultyHandler.HandleFacultySummary)
	http.HandleFunc("GET /api/v1/faculty/{id}/ratings", facultyHandler.HandleListRatings)
	http.HandleFunc("POST /api/v1/faculty/{id}/ratings", facultyHandler.HandleSubmitRating)

	http.Handle("/metrics", promhttp.Handler())

	logger.Info.Printf("Starting betyg server on %s", service.Config.Server.Port)
	logger.Debug.Println("Requiring headers:")
	for _, h := range service.Config.API.RequiredHeaders {
		logger.Debug.Printf("  %s: %s", h.Name, h.Value)
	}
	if err := http.ListenAndServe(service.Config.Server.Port, nil); err != nil {
		logger.Error.Fatalf("Betyg server failed: %v", err)
	}
}
