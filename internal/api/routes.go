package api

import (
	"github.com/estradax/learnway/internal/config"
	"github.com/estradax/learnway/internal/service"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func SetupRoutes(
	cfg *config.Config,
	version, buildTime string,
	users *service.UserService,
	lifecycle *service.LifecycleService,
	conversations *service.ConversationService,
	logger *zap.Logger,
) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware(logger))
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware(logger))

	// Handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(users, cfg.JWTSecret, cfg.TokenTTL)
	tutorsHandler := NewTutorsHandler(users)
	requestsHandler := NewRequestsHandler(lifecycle)
	messagesHandler := NewMessagesHandler(conversations)

	// Open endpoints
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")
	r.HandleFunc("/v1/tutors", tutorsHandler.List).Methods("GET")

	// Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddleware(cfg.JWTSecret))

	apiV1.HandleFunc("/requests", requestsHandler.Create).Methods("POST")
	apiV1.HandleFunc("/requests", requestsHandler.List).Methods("GET")
	apiV1.HandleFunc("/requests/{id}", requestsHandler.Get).Methods("GET")
	apiV1.HandleFunc("/requests/{id}/decision", requestsHandler.Decide).Methods("POST")
	apiV1.HandleFunc("/requests/{id}/payment", requestsHandler.Pay).Methods("POST")
	apiV1.HandleFunc("/requests/{id}/summary", requestsHandler.SubmitSummary).Methods("POST")
	apiV1.HandleFunc("/requests/{id}/completion", requestsHandler.MarkComplete).Methods("POST")
	apiV1.HandleFunc("/requests/{id}/messages", messagesHandler.Append).Methods("POST")
	apiV1.HandleFunc("/requests/{id}/messages", messagesHandler.List).Methods("GET")

	return r
}
