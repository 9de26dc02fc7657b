// Package studentupdate реализует HTTP-обработчик для обновления карточки
// ученика. Карточка перезаписывается целиком: частичных обновлений нет.
package studentupdate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/academy-manager/internal/http/response"
	"github.com/magabrotheeeer/academy-manager/internal/lib/sl"
	"github.com/magabrotheeeer/academy-manager/internal/models"
	studentservice "github.com/magabrotheeeer/academy-manager/internal/services/student"
)

// Handler обрабатывает запросы на обновление карточки ученика.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики реестра учеников
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики обновления карточки.
type Service interface {
	Update(ctx context.Context, id int, req models.DummyStudent) (*models.Student, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить карточку ученика
// @Description Перезаписывает карточку ученика целиком по его ID.
// @Tags Students
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param id path int true "ID ученика"
// @Param request body models.DummyStudent true "Новые данные карточки"
// @Success 200 {object} map[string]any "Обновленная карточка"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 404 {object} response.ErrorResponse "Ученик не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при обновлении карточки"
// @Router /students/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.student.update"

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

	var req models.DummyStudent
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	student, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, studentservice.ErrStudentNotFound) {
			log.Error("student not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("student not found"))
			return
		}
		log.Error("failed to update student", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update student"))
		return
	}

	log.Info("success to update student", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"student": student,
	}))
}
