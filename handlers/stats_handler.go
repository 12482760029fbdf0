package handlers

import (
	"net/http"

	"github.com/Dosada05/tennis-history/repositories"
	"github.com/Dosada05/tennis-history/services"
)

// StatsHandler отдаёт агрегированную статистику одного игрока.
type StatsHandler struct {
	statsService services.StatsService
}

func NewStatsHandler(ss services.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: ss,
	}
}

func (h *StatsHandler) playerAndFilter(w http.ResponseWriter, r *http.Request) (string, repositories.StatsFilter, bool) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return "", repositories.StatsFilter{}, false
	}
	q := newQueryParams(r)
	filter := q.statsFilter()
	if verr := q.invalid(); verr != nil {
		failedValidationResponse(w, r, verr)
		return "", repositories.StatsFilter{}, false
	}
	return playerID, filter, true
}

// GetWinLoss godoc
// @Summary Победы и поражения игрока
// @Tags stats
// @Description Баланс по уровням турниров: всего, основная сетка, квалификация.
// @Produce json
// @Param playerID path string true "Player ID"
// @Param years query string false "Годы через запятую"
// @Param levels query string false "Уровни через запятую (Tour, Challenger, ITF)"
// @Param match_type query string false "Singles или Doubles"
// @Success 200 {object} map[string]interface{} "Строки win/loss"
// @Failure 422 {object} map[string]interface{} "Некорректные параметры"
// @Failure 404 {object} map[string]string "Игрок не найден"
// @Router /players/{playerID}/winloss [get]
func (h *StatsHandler) GetWinLoss(w http.ResponseWriter, r *http.Request) {
	playerID, filter, ok := h.playerAndFilter(w, r)
	if !ok {
		return
	}

	rows, err := h.statsService.WinLoss(r.Context(), playerID, filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"results": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetTitles godoc
// @Summary Титулы и финалы
// @Tags stats
// @Produce json
// @Param playerID path string true "Player ID"
// @Param levels query string false "Уровни через запятую"
// @Param match_type query string false "Singles или Doubles"
// @Success 200 {object} map[string]interface{} "Финалы игрока"
// @Failure 404 {object} map[string]string "Игрок не найден"
// @Router /players/{playerID}/titles [get]
func (h *StatsHandler) GetTitles(w http.ResponseWriter, r *http.Request) {
	playerID, filter, ok := h.playerAndFilter(w, r)
	if !ok {
		return
	}

	finals, err := h.statsService.Finals(r.Context(), playerID, filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"results": finals}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetWLIndex godoc
// @Summary WL-индекс
// @Tags stats
// @Description Победы и поражения по категориям ситуаций (решающий сет, тай-брейки, против топ-10 и т.д.).
// @Produce json
// @Param playerID path string true "Player ID"
// @Param years query string false "Годы через запятую"
// @Param levels query string false "Уровни через запятую"
// @Success 200 {object} map[string]interface{} "Строки индекса"
// @Failure 404 {object} map[string]string "Игрок не найден"
// @Router /players/{playerID}/wl-index [get]
func (h *StatsHandler) GetWLIndex(w http.ResponseWriter, r *http.Request) {
	playerID, filter, ok := h.playerAndFilter(w, r)
	if !ok {
		return
	}

	rows, err := h.statsService.WLIndex(r.Context(), playerID, filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"results": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetServeReturn godoc
// @Summary Статистика подачи и приёма
// @Tags stats
// @Produce json
// @Param playerID path string true "Player ID"
// @Param years query string false "Годы через запятую"
// @Param levels query string false "Уровни через запятую"
// @Param draw query string false "Main или Qualifying"
// @Param surfaces query string false "Покрытия через запятую"
// @Success 200 {object} map[string]interface{} "Строки статистики"
// @Failure 404 {object} map[string]string "Игрок не найден"
// @Router /players/{playerID}/serve-return [get]
func (h *StatsHandler) GetServeReturn(w http.ResponseWriter, r *http.Request) {
	playerID, filter, ok := h.playerAndFilter(w, r)
	if !ok {
		return
	}

	rows, err := h.statsService.ServeReturn(r.Context(), playerID, filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"results": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetTopOpponents godoc
// @Summary Частые соперники
// @Tags stats
// @Description Личные встречи в одиночном разряде с самыми частыми соперниками (до 10).
// @Produce json
// @Param playerID path string true "Player ID"
// @Success 200 {object} map[string]interface{} "Соперники"
// @Failure 404 {object} map[string]string "Игрок не найден"
// @Router /players/{playerID}/opponents [get]
func (h *StatsHandler) GetTopOpponents(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	opponents, anomalies, err := h.statsService.TopOpponents(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"results": opponents}
	if len(anomalies) > 0 {
		response["anomalies"] = anomalies
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetActivity godoc
// @Summary Активность игрока
// @Tags stats
// @Description Турниры и матчи игрока с партнёрами и соперниками, страны на дату турнира.
// @Produce json
// @Param playerID path string true "Player ID"
// @Param years query string false "Годы через запятую"
// @Param levels query string false "Уровни через запятую"
// @Param categories query string false "Категории через запятую"
// @Param match_type query string false "Singles или Doubles"
// @Param surfaces query string false "Покрытия через запятую"
// @Param from query string false "Начало периода YYYY-MM-DD"
// @Param to query string false "Конец периода YYYY-MM-DD"
// @Success 200 {object} services.ActivityResult
// @Failure 422 {object} map[string]interface{} "Некорректные параметры"
// @Failure 404 {object} map[string]string "Игрок не найден"
// @Router /players/{playerID}/activity [get]
func (h *StatsHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	playerID, filter, ok := h.playerAndFilter(w, r)
	if !ok {
		return
	}

	activity, err := h.statsService.Activity(r.Context(), playerID, filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, activity, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
