package handlers

import (
	"net/http"

	"github.com/Dosada05/tennis-history/repositories"
	"github.com/Dosada05/tennis-history/services"
)

type CountryHandler struct {
	countryService services.CountryService
}

func NewCountryHandler(cs services.CountryService) *CountryHandler {
	return &CountryHandler{countryService: cs}
}

// ListCountries godoc
// @Summary Список стран
// @Tags countries
// @Description Страны с числом игроков и крупных титулов.
// @Produce json
// @Param continents query string false "Континенты через запятую"
// @Param countries query string false "Коды стран через запятую"
// @Param sort query string false "Сортировка: name, continent, players, titles"
// @Param skip query int false "Смещение"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} models.Page[models.CountrySummary]
// @Failure 422 {object} map[string]interface{} "Некорректные параметры"
// @Failure 500 {object} map[string]string "Внутренняя ошибка сервера"
// @Router /countries [get]
func (h *CountryHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	input := services.ListCountriesInput{
		Filter: repositories.CountryFilter{
			Continents: q.list("continents"),
			Countries:  q.list("countries"),
		},
		Sort: q.sort(),
		Page: q.page(),
	}
	if verr := q.invalid(); verr != nil {
		failedValidationResponse(w, r, verr)
		return
	}

	result, err := h.countryService.ListCountries(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
