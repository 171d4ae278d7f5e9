package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ksuda/warikan/internal/config"
	"github.com/rs/cors"
)

type API struct {
	router    *mux.Router
	store     Store
	mail      Mailer
	config    *config.Config
	jwtSecret []byte
}

func New(cfg *config.Config, store Store, mail Mailer) *API {
	api := &API{
		router:    mux.NewRouter(),
		store:     store,
		mail:      mail,
		config:    cfg,
		jwtSecret: []byte(cfg.JWTSecret),
	}

	api.setupRoutes()
	return api
}

func (a *API) setupRoutes() {
	// Auth endpoints
	a.router.HandleFunc("/api/auth/magic-link", a.handleMagicLink).Methods("POST")
	a.router.HandleFunc("/api/auth/verify", a.handleVerify).Methods("GET")

	// Public endpoints
	a.router.HandleFunc("/api/events/{event_id}/join/{token}", a.handleJoin).Methods("GET")
	a.router.HandleFunc("/api/events/{event_id}/chart", a.handleChart).Methods("GET")

	// Web interface
	a.router.HandleFunc("/", a.handleWebInterface).Methods("GET")
	a.router.HandleFunc("/events/{event_id}", a.handleWebInterface).Methods("GET")

	// Protected endpoints
	protected := a.router.PathPrefix("/api").Subrouter()
	protected.Use(a.authMiddleware)

	protected.HandleFunc("/events", a.handleListEvents).Methods("GET")
	protected.HandleFunc("/events", a.handleCreateEvent).Methods("POST")
	protected.HandleFunc("/events/{event_id}", a.handleGetEvent).Methods("GET")
	protected.HandleFunc("/events/{event_id}/invites", a.handleCreateInvite).Methods("POST")
	protected.HandleFunc("/events/{event_id}/pledges", a.handleAddPledge).Methods("POST")
	protected.HandleFunc("/events/{event_id}/pledges/{pledge_id}", a.handleRetractPledge).Methods("DELETE")
	protected.HandleFunc("/events/{event_id}/payments", a.handleAddPayment).Methods("POST")
	protected.HandleFunc("/events/{event_id}/finalize", a.handleFinalize).Methods("POST")
	protected.HandleFunc("/events/{event_id}/settlement", a.handleSettlement).Methods("GET")
}

func (a *API) Start() error {
	// Setup CORS - allow all origins for development, restrict in production
	// Note: When AllowedOrigins is "*", AllowCredentials must be false for security
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}

	handler := cors.New(corsOptions).Handler(a.router)

	log.Printf("API server listening on http://%s", a.config.WebBind)
	return http.ListenAndServe(a.config.WebBind, handler)
}
