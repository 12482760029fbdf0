package handlers

import (
	"net/http"

	"github.com/Dosada05/tennis-history/services"
	"github.com/Dosada05/tennis-history/stats"
)

type PlayerHandler struct {
	playerService services.PlayerService
}

func NewPlayerHandler(ps services.PlayerService) *PlayerHandler {
	return &PlayerHandler{
		playerService: ps,
	}
}

// ListPlayers godoc
// @Summary Список игроков
// @Tags players
// @Description Игроки по фильтрам с сортировкой и пагинацией. Количество считается до выборки.
// @Produce json
// @Param tours query string false "Туры через запятую (ATP, WTA)"
// @Param countries query string false "Коды стран через запятую"
// @Param players query string false "ID игроков через запятую"
// @Param coaches query string false "ID тренеров через запятую"
// @Param min_year query int false "Первый год не раньше"
// @Param max_year query int false "Последний год не позже"
// @Param active query bool false "Играет в текущем году"
// @Param sort query string false "Сортировка, например name:asc,min_year:desc"
// @Param skip query int false "Смещение"
// @Param limit query int false "Размер страницы (по умолчанию 40, максимум 500)"
// @Success 200 {object} models.Page[models.PlayerSummary]
// @Failure 422 {object} map[string]interface{} "Некорректные параметры"
// @Failure 500 {object} map[string]string "Внутренняя ошибка сервера"
// @Router /players [get]
func (h *PlayerHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	input := services.ListPlayersInput{
		Filter: q.playerFilter(),
		Sort:   q.sort(),
		Page:   q.page(),
	}
	if verr := q.invalid(); verr != nil {
		failedValidationResponse(w, r, verr)
		return
	}

	result, err := h.playerService.ListPlayers(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GroupPlayers godoc
// @Summary Группировка игроков
// @Tags players
// @Description Группы игроков по стране, первому или последнему году. Сортировка по ключу группы или count.
// @Produce json
// @Param field query string true "Ключ группировки: country, min_year, max_year"
// @Param tours query string false "Туры через запятую"
// @Param countries query string false "Коды стран через запятую"
// @Param sort query string false "Сортировка, например count:desc"
// @Param skip query int false "Смещение"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} models.Page[models.Group]
// @Failure 422 {object} map[string]interface{} "Неизвестный ключ группировки"
// @Failure 500 {object} map[string]string "Внутренняя ошибка сервера"
// @Router /players/groups [get]
func (h *PlayerHandler) GroupPlayers(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	input := services.GroupPlayersInput{
		Filter: q.playerFilter(),
		Field:  stats.GroupField(q.str("field")),
		Sort:   q.sort(),
		Page:   q.page(),
	}
	q.vs.Check(input.Field.Valid(), "field", "must be one of country, min_year, max_year, got %q", input.Field)
	if verr := q.invalid(); verr != nil {
		failedValidationResponse(w, r, verr)
		return
	}

	result, err := h.playerService.GroupPlayers(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetPlayerByID godoc
// @Summary Получить игрока по ID
// @Tags players
// @Produce json
// @Param playerID path string true "Player ID"
// @Success 200 {object} map[string]interface{} "Игрок найден"
// @Failure 404 {object} map[string]string "Игрок не найден"
// @Router /players/{playerID} [get]
func (h *PlayerHandler) GetPlayerByID(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.GetPlayer(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetCountryAt godoc
// @Summary Страна игрока на дату
// @Tags players
// @Description Страна, которую игрок представлял на указанную дату. Без даты возвращается текущая.
// @Produce json
// @Param playerID path string true "Player ID"
// @Param date query string false "Дата YYYY-MM-DD"
// @Success 200 {object} services.CountryAtResult
// @Failure 422 {object} map[string]interface{} "Некорректная дата"
// @Failure 404 {object} map[string]string "Игрок не найден"
// @Router /players/{playerID}/country [get]
func (h *PlayerHandler) GetCountryAt(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	q := newQueryParams(r)
	at := q.date("date")
	if verr := q.invalid(); verr != nil {
		failedValidationResponse(w, r, verr)
		return
	}

	result, err := h.playerService.CountryAt(r.Context(), playerID, at)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
