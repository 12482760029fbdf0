package handlers

import (
	"net/http"

	"github.com/Dosada05/tennis-history/services"
)

type IntegrityHandler struct {
	integrityService services.IntegrityService
}

func NewIntegrityHandler(is services.IntegrityService) *IntegrityHandler {
	return &IntegrityHandler{integrityService: is}
}

// Scan godoc
// @Summary Проверка целостности данных
// @Tags integrity
// @Description Пересечения периодов представления стран и матчи без победителя.
// @Produce json
// @Success 200 {object} models.IntegrityReport
// @Failure 500 {object} map[string]string "Внутренняя ошибка сервера"
// @Router /integrity [get]
func (h *IntegrityHandler) Scan(w http.ResponseWriter, r *http.Request) {
	report, err := h.integrityService.Scan(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, report, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Publish godoc
// @Summary Выгрузить отчёт о целостности
// @Tags integrity
// @Description Выполняет проверку и сохраняет отчёт в объектное хранилище. Доступно администраторам.
// @Produce json
// @Success 201 {object} models.IntegrityReport
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 403 {object} map[string]string "Нет прав"
// @Failure 503 {object} map[string]string "Хранилище не настроено"
// @Security BearerAuth
// @Router /integrity/reports [post]
func (h *IntegrityHandler) Publish(w http.ResponseWriter, r *http.Request) {
	report, err := h.integrityService.Publish(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	var headers http.Header
	if report.Location != "" {
		headers = http.Header{"Location": []string{report.Location}}
	}
	if err := writeJSON(w, http.StatusCreated, report, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Health godoc
// @Summary Проверка доступности
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]string "ok"
// @Failure 503 {object} map[string]string "База недоступна"
// @Router /healthz [get]
func (h *IntegrityHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.integrityService.Ping(r.Context()); err != nil {
		unavailableResponse(w, r, "database is unavailable")
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "ok"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
