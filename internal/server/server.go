package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"task-manager-backend/internal/auth"
	"task-manager-backend/internal/config"
	"task-manager-backend/internal/database"
	"task-manager-backend/internal/service"
)

type Server struct {
	port           int
	taskService    service.TaskService
	auth           *auth.Manager
	db             database.Service
	allowedOrigins []string
}

func NewServer(cfg *config.Config, taskService service.TaskService, authManager *auth.Manager, dbService database.Service) *http.Server {
	port, err := strconv.Atoi(cfg.Port)
	if err != nil {
		fmt.Printf("Warning: Invalid PORT value '%s'. Using default 8080. Error: %v\n", cfg.Port, err)
		port = 8080
	}

	appServer := &Server{
		port:           port,
		taskService:    taskService,
		auth:           authManager,
		db:             dbService,
		allowedOrigins: cfg.CORSAllowedOrigins,
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", appServer.port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
