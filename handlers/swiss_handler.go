package handlers

import (
	"errors"
	"net/http"

	"github.com/FChavez82/highlander-tennis/models"
	"github.com/FChavez82/highlander-tennis/services"
)

type SwissHandler struct {
	simulator services.SwissSimulator
}

func NewSwissHandler(sim services.SwissSimulator) *SwissHandler {
	return &SwissHandler{simulator: sim}
}

var errPlayersAndCategory = errors.New("provide either players or category, not both")

type simulateInput struct {
	Players  []services.SimPlayer `json:"players"`
	Category string               `json:"category"`
	Rounds   int                  `json:"rounds"`
	Seed     int64                `json:"seed"`
}

// SimulateHandler запускает симуляцию либо по списку игроков, либо по составу категории.
func (h *SwissHandler) SimulateHandler(w http.ResponseWriter, r *http.Request) {
	var input simulateInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if len(input.Players) > 0 && input.Category != "" {
		badRequestResponse(w, r, errPlayersAndCategory)
		return
	}

	var (
		report *services.SimulationReport
		err    error
	)
	if input.Category != "" {
		category, parseErr := models.ParseCategory(input.Category)
		if parseErr != nil {
			badRequestResponse(w, r, parseErr)
			return
		}
		report, err = h.simulator.SimulateCategory(r.Context(), category, input.Rounds, input.Seed)
	} else {
		report, err = h.simulator.Simulate(r.Context(), services.SimulationInput{
			Players: input.Players,
			Rounds:  input.Rounds,
			Seed:    input.Seed,
		})
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"report": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
