package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chessd/chessd/game/preset"
	"github.com/chessd/chessd/game/rules"
	"github.com/chessd/chessd/game/service"
	"github.com/chessd/chessd/game/session"
	ws "github.com/chessd/chessd/transport/websocket"
)

// Server is the HTTP front end over the game service.
type Server struct {
	router  *mux.Router
	service service.GameService
	hub     *ws.Hub
}

// NewServer creates a server. hub may be nil, in which case the /ws route
// is not registered and no events are published.
func NewServer(svc service.GameService, hub *ws.Hub) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		service: svc,
		hub:     hub,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/", s.handleRoot).Methods("GET")
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/presets", s.handleListPresets).Methods("GET")
	s.router.HandleFunc("/games", s.handleCreateGame).Methods("POST")
	s.router.HandleFunc("/games/{id}", s.handleGetGame).Methods("GET")
	s.router.HandleFunc("/games/{id}", s.handleDeleteGame).Methods("DELETE")
	s.router.HandleFunc("/games/{id}/moves", s.handleLegalMoves).Methods("GET")
	s.router.HandleFunc("/games/{id}/moves", s.handleApplyMove).Methods("POST")
	if s.hub != nil {
		s.router.HandleFunc("/ws", s.handleSpectate).Methods("GET")
	}
}

// Router returns the configured router, for mounting under a custom mux.
func (s *Server) Router() *mux.Router {
	return s.router
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "chessd: stateful chess game server")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	infos, err := s.service.ListPresets(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, infos)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req service.CreateGameRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	created, err := s.service.CreateGame(r.Context(), req)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, created)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	info, err := s.service.GetGame(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.service.DeleteGame(r.Context(), id); err != nil {
		s.respondServiceError(w, err)
		return
	}
	if s.hub != nil {
		s.hub.GameDeleted(id)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLegalMoves(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	moves, err := s.service.LegalMoves(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, moves)
}

func (s *Server) handleApplyMove(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req service.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.service.ApplyMove(r.Context(), id, req)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if s.hub != nil {
		status, err := json.Marshal(result.Status)
		if err != nil {
			status = nil
		}
		s.hub.MoveApplied(id, result.AppliedUCI, result.AppliedSAN, result.FEN, status)
	}
	s.respondJSON(w, http.StatusOK, result)
}

// handleSpectate checks the game exists before handing the connection to
// the hub, so subscribing to an unknown game fails with 404 instead of a
// silent empty stream.
func (s *Server) handleSpectate(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	if gameID == "" {
		s.respondError(w, http.StatusBadRequest, "missing game parameter")
		return
	}
	if _, err := s.service.GetGame(r.Context(), gameID); err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.hub.ServeWS(w, r)
}

// respondServiceError maps service errors onto the HTTP error taxonomy.
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrGameNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, rules.ErrIllegalMove):
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, rules.ErrBadFEN),
		errors.Is(err, rules.ErrBadNotation),
		errors.Is(err, service.ErrCreateConflict),
		errors.Is(err, preset.ErrPresetNotFound),
		errors.Is(err, preset.ErrInvalidPreset):
		s.respondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[API] internal error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[API] failed to encode response: %v", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
