package handlers

import (
	"log"
	"net/http"

	"github.com/FChavez82/highlander-tennis/middleware"
	"github.com/FChavez82/highlander-tennis/models"
	"github.com/FChavez82/highlander-tennis/services"
)

type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

func NewScheduleHandler(ss services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: ss}
}

type generateWeekInput struct {
	Category string `json:"category"`
}

func (h *ScheduleHandler) GenerateWeekHandler(w http.ResponseWriter, r *http.Request) {
	weekID, err := getIDFromURL(r, "weekID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input generateWeekInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	category, err := models.ParseCategory(input.Category)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	schedule, err := h.scheduleService.GenerateWeek(r.Context(), weekID, category)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if userID, idErr := middleware.GetUserIDFromContext(r.Context()); idErr == nil {
		log.Printf("Week %d (%s) scheduled by user %d: %d matches", weekID, category, userID, len(schedule.Matches))
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"schedule": schedule}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) CancelMatchHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.scheduleService.CancelMatch(r.Context(), matchID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ScheduleHandler) ListMatchupsHandler(w http.ResponseWriter, r *http.Request) {
	category, err := getCategoryFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matchups, err := h.scheduleService.Matchups(r.Context(), category)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"category": category, "matchups": matchups}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) ListByeCountsHandler(w http.ResponseWriter, r *http.Request) {
	category, err := getCategoryFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	counts, err := h.scheduleService.ByeCounts(r.Context(), category)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"category": category, "bye_counts": counts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) ProgressHandler(w http.ResponseWriter, r *http.Request) {
	category, err := getCategoryFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	progress, err := h.scheduleService.Progress(r.Context(), category)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"progress": progress, "complete": progress.Complete()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
