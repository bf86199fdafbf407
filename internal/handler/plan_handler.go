// Package handler exposes the tactical planner over HTTP and WebSocket,
// the captain analogue of internal/handler/game_handler.go.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/spookygames/captain/board"
	"github.com/spookygames/captain/internal/service"
)

// PlanHandler serves attack-phase planning requests.
type PlanHandler struct {
	svc *service.PlanService
}

// NewPlanHandler creates a PlanHandler.
func NewPlanHandler(svc *service.PlanService) *PlanHandler {
	return &PlanHandler{svc: svc}
}

// planRequest is the wire shape of a POST /v1/plan body.
type planRequest struct {
	Side   string         `json:"side"`
	Pieces []piecePayload `json:"pieces"`
	Water  []string       `json:"water,omitempty"`
}

type piecePayload struct {
	Loc         string `json:"loc"`
	Side        string `json:"side"`
	Type        string `json:"type"`
	DamageTaken int    `json:"damage_taken"`
	AttacksUsed int    `json:"attacks_used"`
}

type planResponse struct {
	Actions []string `json:"actions"`
}

// Plan handles POST /v1/plan: decode a board snapshot, run the planner,
// and return the ordered action list.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, side, err := decodeBoard(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	actions, err := h.svc.Plan(r.Context(), b, side)
	if err != nil {
		log.Error().Err(err).Msg("plan computation failed")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, planResponse{Actions: actions})
}

func decodeBoard(req planRequest) (*board.Board, board.Side, error) {
	side, err := parseSide(req.Side)
	if err != nil {
		return nil, 0, err
	}
	b := board.NewBoard()
	for _, pp := range req.Pieces {
		loc, err := board.ParseLoc(pp.Loc)
		if err != nil {
			return nil, 0, err
		}
		pside, err := parseSide(pp.Side)
		if err != nil {
			return nil, 0, err
		}
		ut, err := parseUnitType(pp.Type)
		if err != nil {
			return nil, 0, err
		}
		b.Place(&board.Piece{
			Loc:  loc,
			Side: pside,
			Type: ut,
			State: board.PieceState{
				DamageTaken: pp.DamageTaken,
				AttacksUsed: pp.AttacksUsed,
			},
		})
	}
	for _, w := range req.Water {
		loc, err := board.ParseLoc(w)
		if err != nil {
			return nil, 0, err
		}
		b.Terrain.Water = b.Terrain.Water.Set(loc)
	}
	return b, side, nil
}

func parseSide(s string) (board.Side, error) {
	switch s {
	case "yellow":
		return board.Yellow, nil
	case "blue":
		return board.Blue, nil
	default:
		return 0, errInvalidField("side", s)
	}
}

func parseUnitType(s string) (board.UnitType, error) {
	for t, stats := range board.Stats {
		if stats.Name == s {
			return board.UnitType(t), nil
		}
	}
	return 0, errInvalidField("type", s)
}

func errInvalidField(field, value string) error {
	return &fieldError{field, value}
}

type fieldError struct{ field, value string }

func (e *fieldError) Error() string {
	return "invalid " + e.field + ": " + e.value
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
