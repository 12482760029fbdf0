package handlers

import (
	"net/http"

	"github.com/Dosada05/tennis-history/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
	}
}

// ListTournaments godoc
// @Summary Список турниров
// @Tags tournaments
// @Produce json
// @Param tours query string false "Туры через запятую (ATP, WTA, Men, Women)"
// @Param tournaments query string false "ID турниров через запятую"
// @Param established query int false "Основан не раньше года"
// @Param abolished query int false "Упразднён не позже года"
// @Param sort query string false "Сортировка: name, established, abolished"
// @Param skip query int false "Смещение"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} models.Page[models.Tournament]
// @Failure 422 {object} map[string]interface{} "Некорректные параметры"
// @Failure 500 {object} map[string]string "Внутренняя ошибка сервера"
// @Router /tournaments [get]
func (h *TournamentHandler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	input := services.ListTournamentsInput{
		Filter: q.tournamentFilter(),
		Sort:   q.sort(),
		Page:   q.page(),
	}
	if verr := q.invalid(); verr != nil {
		failedValidationResponse(w, r, verr)
		return
	}

	result, err := h.tournamentService.ListTournaments(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
