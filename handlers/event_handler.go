package handlers

import (
	"net/http"

	"github.com/Dosada05/tennis-history/services"
)

type EventHandler struct {
	eventService  services.EventService
	entryService  services.EntryService
	pointsService services.PointsService
}

func NewEventHandler(es services.EventService, ens services.EntryService, ps services.PointsService) *EventHandler {
	return &EventHandler{
		eventService:  es,
		entryService:  ens,
		pointsService: ps,
	}
}

// GetEntries godoc
// @Summary Заявки турнира
// @Tags events
// @Description Заявки с составом команд; страны игроков на дату турнира.
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} models.Page[models.EventEntry]
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Router /events/{eventID}/entries [get]
func (h *EventHandler) GetEntries(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.eventService.Entries(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, entries, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetSeeds godoc
// @Summary Посев турнира
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} models.Page[models.SeedRecord]
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Router /events/{eventID}/seeds [get]
func (h *EventHandler) GetSeeds(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	seeds, err := h.eventService.Seeds(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, seeds, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetEntryInfo godoc
// @Summary Статусы заявок турнира
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} models.Page[models.EntryInfoRecord]
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Router /events/{eventID}/entry-info [get]
func (h *EventHandler) GetEntryInfo(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	infos, err := h.eventService.EntryInfo(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, infos, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SyncEntryInfo godoc
// @Summary Синхронизировать статусы заявок
// @Tags events
// @Description Переносит status и q_status заявок турнира в связи. Доступно редакторам.
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} map[string]interface{} "Число добавленных связей"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 403 {object} map[string]string "Нет прав"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Security BearerAuth
// @Router /events/{eventID}/entry-info/sync [post]
func (h *EventHandler) SyncEntryInfo(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	added, err := h.entryService.SyncEntryInfo(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true, "added": added}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecomputePoints godoc
// @Summary Пересчитать очки и призовые
// @Tags events
// @Description Пересчёт рейтинговых очков и призовых для всех заявок турнира. Доступно редакторам.
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} services.PointsReport
// @Failure 400 {object} map[string]string "Нечего пересчитывать"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 403 {object} map[string]string "Нет прав"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Security BearerAuth
// @Router /events/{eventID}/points [post]
func (h *EventHandler) RecomputePoints(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	report, err := h.pointsService.Recompute(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, report, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
