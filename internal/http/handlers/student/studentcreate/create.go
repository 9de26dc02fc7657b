// Package studentcreate реализует HTTP-обработчик для добавления ученика
// в реестр академии.
//
// Handler принимает JSON-запрос с данными карточки, валидирует их,
// вызывает бизнес-логику реестра и возвращает созданную карточку.
package studentcreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/academy-manager/internal/http/response"
	"github.com/magabrotheeeer/academy-manager/internal/lib/sl"
	"github.com/magabrotheeeer/academy-manager/internal/models"
)

// Handler управляет HTTP-запросами на добавление ученика.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики реестра учеников
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики добавления ученика.
type Service interface {
	Create(ctx context.Context, req models.DummyStudent) (*models.Student, error)
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
// @Summary Добавить ученика
// @Description Добавляет карточку ученика: имя, уровень подготовки, фото и геолокация опциональны.
// @Tags Students
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummyStudent true "Данные ученика"
// @Success 200 {object} map[string]any "Созданная карточка"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при добавлении ученика"
// @Router /students [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.student.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	student, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create student", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create student"))
		return
	}

	log.Info("success to create student", slog.Int("id", student.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"student": student,
	}))
}
