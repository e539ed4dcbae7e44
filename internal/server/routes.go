package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"task-manager-backend/internal/auth"
	"task-manager-backend/internal/service"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.indexHandler)
	r.Get("/health", s.healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", s.loginHandler)

		// Everything below requires a valid session.
		r.Group(func(r chi.Router) {
			r.Use(s.auth.RequireLogin)

			r.Post("/logout", s.logoutHandler)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", s.listTasksHandler)
				r.Post("/", s.createTaskHandler)
				r.Put("/{id}", s.updateTaskHandler)
				r.Delete("/{id}", s.deleteTaskHandler)
			})
		})
	})

	return r
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Task Manager API"})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	user, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid username or password")
		} else {
			log.Printf("Error during login: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to log in")
		}
		return
	}

	if err := s.auth.Establish(w, r, user.ID); err != nil {
		log.Printf("Error establishing session: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Logged in successfully!"})
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Clear(w, r); err != nil {
		log.Printf("Error clearing session: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to log out")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully!"})
}

func (s *Server) listTasksHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tasks, err := s.taskService.ListTasks(r.Context(), ownerID)
	if err != nil {
		log.Printf("Error calling ListTasks service: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve tasks")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string][]service.TaskResponse{"tasks": tasks})
}

func (s *Server) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req service.TaskRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if _, err := s.taskService.CreateTask(r.Context(), ownerID, req); err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			respondWithError(w, http.StatusBadRequest, err.Error())
		} else {
			log.Printf("Error calling CreateTask service: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to create task")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Task added successfully!"})
}

func (s *Server) updateTaskHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	taskID, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	var req service.TaskRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if _, err := s.taskService.UpdateTask(r.Context(), ownerID, taskID, req); err != nil {
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			respondWithError(w, http.StatusNotFound, "Task not found")
		case errors.Is(err, service.ErrNotTaskOwner):
			respondWithError(w, http.StatusForbidden, "You are not authorized to edit this task.")
		case errors.Is(err, service.ErrTitleRequired):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("Error calling UpdateTask service: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to update task")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Task updated successfully!"})
}

func (s *Server) deleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	taskID, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	if err := s.taskService.DeleteTask(r.Context(), ownerID, taskID); err != nil {
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			respondWithError(w, http.StatusNotFound, "Task not found")
		case errors.Is(err, service.ErrNotTaskOwner):
			respondWithError(w, http.StatusForbidden, "You are not authorized to delete this task.")
		default:
			log.Printf("Error calling DeleteTask service: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to delete task")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully!"})
}

func parseTaskID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID provided")
		return 0, false
	}
	return uint(id), true
}

// decodeJSONBody decodes the request body into dst and writes the error
// response itself on failure. Returns false when the caller should stop.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(dst)
	if err == nil {
		return true
	}

	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var timeParseError *time.ParseError
	switch {
	case errors.As(err, &timeParseError):
		// A malformed due_date; time.Time unmarshaling bypasses the
		// usual UnmarshalTypeError.
		respondWithError(w, http.StatusBadRequest, "Request body contains an invalid timestamp (use RFC 3339)")
	case errors.As(err, &syntaxError):
		msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
		respondWithError(w, http.StatusBadRequest, msg)
	case errors.Is(err, io.ErrUnexpectedEOF):
		respondWithError(w, http.StatusBadRequest, "Request body contains badly-formed JSON")
	case errors.As(err, &unmarshalTypeError):
		msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
		respondWithError(w, http.StatusBadRequest, msg)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Request body contains unknown field %s", fieldName))
	case errors.Is(err, io.EOF):
		respondWithError(w, http.StatusBadRequest, "Request body must not be empty")
	default:
		log.Printf("Error decoding request body: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Error processing request")
	}
	return false
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling JSON response: %v", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
