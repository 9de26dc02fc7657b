// Package planread реализует HTTP-обработчик для получения тарифного плана по ID.
//
// Handler извлекает ID из URL-параметров, вызывает бизнес-логику для чтения
// плана и возвращает его данные в JSON-формате.
package planread

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
	"github.com/magabrotheeeer/academy-manager/internal/models"
	planservice "github.com/magabrotheeeer/academy-manager/internal/services/plan"
)

// Handler обрабатывает запросы на получение плана по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики каталога планов
}

// Service описывает интерфейс бизнес-логики чтения плана.
type Service interface {
	Read(ctx context.Context, id int) (*models.Plan, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить тарифный план
// @Description Возвращает тарифный план по его ID.
// @Tags Plans
// @Security BearerAuth
// @Produce  json
// @Param id path int true "ID плана"
// @Success 200 {object} map[string]any "Данные плана"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "План не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при чтении плана"
// @Router /plans/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.read"

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

	plan, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, planservice.ErrPlanNotFound) {
			log.Error("plan not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("plan not found"))
			return
		}
		log.Error("failed to read plan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read plan"))
		return
	}

	log.Info("success to read plan", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"plan": plan,
	}))
}
