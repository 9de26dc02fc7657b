// Package studentlist реализует HTTP-обработчик для получения реестра учеников.
package studentlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/academy-manager/internal/http/response"
	"github.com/magabrotheeeer/academy-manager/internal/lib/sl"
	"github.com/magabrotheeeer/academy-manager/internal/models"
)

// Handler обрабатывает запросы на список учеников.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики реестра учеников
}

// Service описывает интерфейс бизнес-логики списка учеников.
type Service interface {
	List(ctx context.Context) ([]*models.Student, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список учеников
// @Description Возвращает все карточки учеников академии.
// @Tags Students
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} map[string]any "Список учеников"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при чтении реестра"
// @Router /students [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.student.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	students, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list students", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list students"))
		return
	}

	log.Info("success to list students", slog.Int("count", len(students)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"students": students,
	}))
}
