// Package studentdelete реализует HTTP-обработчик для удаления карточки
// ученика из реестра.
package studentdelete

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/academy-manager/internal/http/response"
	"github.com/magabrotheeeer/academy-manager/internal/lib/sl"
	studentservice "github.com/magabrotheeeer/academy-manager/internal/services/student"
)

// Handler обрабатывает запросы на удаление карточки ученика.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики реестра учеников
}

// Service описывает интерфейс бизнес-логики удаления карточки.
type Service interface {
	Delete(ctx context.Context, id int) error
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить карточку ученика
// @Description Физически удаляет карточку ученика по его ID.
// @Tags Students
// @Security BearerAuth
// @Produce  json
// @Param id path int true "ID ученика"
// @Success 200 {object} map[string]any "Карточка удалена"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Ученик не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при удалении карточки"
// @Router /students/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.student.delete"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, studentservice.ErrStudentNotFound) {
			log.Error("student not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("student not found"))
			return
		}
		log.Error("failed to delete student", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not delete student"))
		return
	}

	log.Info("success to delete student", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted_id": id,
	}))
}
