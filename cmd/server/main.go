package main

import (
	"log"
	"net/http"
	"os"

	"github.com/certprep/backend/internal/advisor"
	"github.com/certprep/backend/internal/auth"
	"github.com/certprep/backend/internal/content"
	"github.com/certprep/backend/internal/database"
	"github.com/certprep/backend/internal/middleware"
	"github.com/certprep/backend/internal/progress"
	"github.com/certprep/backend/internal/recommend"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	rdb, err := database.ConnectRedis()
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer rdb.Close()

	// Initialize stores and services
	contentStore := content.NewStore(db)
	progressStore := progress.NewStore(db)
	recStore := recommend.NewRedisStore(rdb)
	engine := recommend.NewService(progressStore, contentStore, recStore)
	adv := advisor.NewAdvisor()

	// Initialize handlers
	authHandler := auth.NewHandler(db)
	contentHandler := content.NewHandler(contentStore)
	progressHandler := progress.NewHandler(progressStore)
	recHandler := recommend.NewHandler(engine, adv)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	protected.HandleFunc("/content", contentHandler.CreateContent).Methods("POST")
	protected.HandleFunc("/content", contentHandler.ListContent).Methods("GET")
	protected.HandleFunc("/content/categories", contentHandler.ListCategories).Methods("GET")
	protected.HandleFunc("/content/{id}", contentHandler.GetContent).Methods("GET")

	protected.HandleFunc("/progress", progressHandler.RecordInteraction).Methods("POST")
	protected.HandleFunc("/progress/stats", progressHandler.GetStats).Methods("GET")

	protected.HandleFunc("/recommendations", recHandler.GetRecommendations).Methods("GET")
	protected.HandleFunc("/recommendations/{id}/feedback", recHandler.RecordFeedback).Methods("POST")
	protected.HandleFunc("/analysis/weak-areas", recHandler.GetWeakAreas).Methods("GET")
	protected.HandleFunc("/analysis/progression", recHandler.GetProgression).Methods("GET")
	protected.HandleFunc("/study-path", recHandler.GetStudyPath).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
