package handlers

import (
	"net/http"

	"github.com/Dosada05/tennis-history/services"
)

// EntryHandler обслуживает записи, которые меняют заявки, их статусы и посев.
// Все маршруты требуют роль editor или admin.
type EntryHandler struct {
	entryService services.EntryService
}

func NewEntryHandler(es services.EntryService) *EntryHandler {
	return &EntryHandler{entryService: es}
}

// CreateEntry godoc
// @Summary Создать заявку
// @Tags entries
// @Accept json
// @Produce json
// @Param body body services.EntryInput true "Заявка"
// @Success 201 {object} map[string]interface{} "success и id заявки"
// @Failure 400 {object} map[string]string "Некорректный JSON"
// @Failure 422 {object} map[string]interface{} "Ошибка валидации"
// @Security BearerAuth
// @Router /entries [post]
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var input services.EntryInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entryID, err := h.entryService.CreateEntry(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"success": true, "id": entryID}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateEntry godoc
// @Summary Обновить заявку
// @Tags entries
// @Description Заявка ищется по турниру, разряду и первому игроку.
// @Accept json
// @Produce json
// @Param body body services.EntryInput true "Заявка"
// @Success 200 {object} map[string]interface{} "success и id заявки"
// @Failure 404 {object} map[string]string "Заявка не найдена"
// @Failure 422 {object} map[string]interface{} "Ошибка валидации"
// @Security BearerAuth
// @Router /entries [put]
func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	var input services.EntryInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entryID, err := h.entryService.UpdateEntry(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true, "id": entryID}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateEntryInfo godoc
// @Summary Добавить статус заявки
// @Tags entries
// @Description Alternate, Qualifier, Wild Card, Lucky Loser, Default, Retirement, Walkover, Last Direct Acceptance, Withdrawal.
// @Accept json
// @Produce json
// @Param body body services.EntryInfoInput true "Статус"
// @Success 201 {object} map[string]bool "success"
// @Failure 404 {object} map[string]string "Заявка не найдена"
// @Failure 422 {object} map[string]interface{} "Ошибка валидации"
// @Security BearerAuth
// @Router /entry-info [post]
func (h *EntryHandler) CreateEntryInfo(w http.ResponseWriter, r *http.Request) {
	var input services.EntryInfoInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.entryService.CreateEntryInfo(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusCreated)
}

// UpdateEntryInfo godoc
// @Summary Обновить статус заявки
// @Tags entries
// @Accept json
// @Produce json
// @Param body body services.EntryInfoInput true "Статус"
// @Success 200 {object} map[string]bool "success"
// @Failure 404 {object} map[string]string "Статус не найден"
// @Failure 422 {object} map[string]interface{} "Ошибка валидации"
// @Security BearerAuth
// @Router /entry-info [put]
func (h *EntryHandler) UpdateEntryInfo(w http.ResponseWriter, r *http.Request) {
	var input services.EntryInfoInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.entryService.UpdateEntryInfo(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK)
}

// CreateSeed godoc
// @Summary Посеять заявку
// @Tags entries
// @Accept json
// @Produce json
// @Param body body services.SeedInput true "Посев"
// @Success 201 {object} map[string]bool "success"
// @Failure 422 {object} map[string]interface{} "Ошибка валидации"
// @Security BearerAuth
// @Router /seeds [post]
func (h *EntryHandler) CreateSeed(w http.ResponseWriter, r *http.Request) {
	var input services.SeedInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.entryService.CreateSeed(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusCreated)
}

// UpdateSeed godoc
// @Summary Изменить посев
// @Tags entries
// @Accept json
// @Produce json
// @Param body body services.SeedInput true "Посев"
// @Success 200 {object} map[string]bool "success"
// @Failure 404 {object} map[string]string "This seed could not be found"
// @Failure 422 {object} map[string]interface{} "Ошибка валидации"
// @Security BearerAuth
// @Router /seeds [put]
func (h *EntryHandler) UpdateSeed(w http.ResponseWriter, r *http.Request) {
	var input services.SeedInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.entryService.UpdateSeed(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK)
}
