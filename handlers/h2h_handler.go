package handlers

import (
	"net/http"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/services"
)

type H2HHandler struct {
	h2hService services.H2HService
}

func NewH2HHandler(hs services.H2HService) *H2HHandler {
	return &H2HHandler{h2hService: hs}
}

// GetPlayers godoc
// @Summary Личные встречи: сводка
// @Tags h2h
// @Description Сравнение двух сторон (один или два игрока), порядок игроков в команде не важен.
// @Produce json
// @Param team1 query string true "ID игроков первой стороны через запятую"
// @Param team2 query string true "ID игроков второй стороны через запятую"
// @Success 200 {object} models.H2HResult
// @Failure 422 {object} map[string]interface{} "Некорректные команды"
// @Router /h2h/players [get]
func (h *H2HHandler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	result, err := h.h2hService.Players(r.Context(), q.list("team1"), q.list("team2"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetMatches godoc
// @Summary Личные встречи: матчи
// @Tags h2h
// @Produce json
// @Param team1 query string true "ID игроков первой стороны через запятую"
// @Param team2 query string true "ID игроков второй стороны через запятую"
// @Success 200 {object} models.Page[models.H2HMatch]
// @Failure 422 {object} map[string]interface{} "Некорректные команды"
// @Router /h2h/matches [get]
func (h *H2HHandler) GetMatches(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	result, err := h.h2hService.Matches(r.Context(), q.list("team1"), q.list("team2"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetGrid godoc
// @Summary Матрица личных встреч
// @Tags h2h
// @Description Матрица для лучших действующих игроков тура в одиночном разряде.
// @Produce json
// @Param tour query string true "ATP или WTA"
// @Param size query int false "Число игроков (по умолчанию 10, максимум 50)"
// @Success 200 {object} models.H2HGrid
// @Failure 422 {object} map[string]interface{} "Некорректный тур или размер"
// @Router /h2h/grid [get]
func (h *H2HHandler) GetGrid(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	tour := models.Tour(q.str("tour"))
	n := 0
	if size := q.intValue("size"); size != nil {
		n = *size
	}
	if verr := q.invalid(); verr != nil {
		failedValidationResponse(w, r, verr)
		return
	}

	grid, err := h.h2hService.Grid(r.Context(), tour, n)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, grid, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
