// Package plandelete реализует HTTP-обработчик для удаления тарифного плана.
//
// План, на который ссылаются членства, удалить нельзя: вместо этого
// возвращается конфликт, а план следует деактивировать.
package plandelete

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
	planservice "github.com/magabrotheeeer/academy-manager/internal/services/plan"
)

// Handler обрабатывает запросы на удаление тарифного плана.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики каталога планов
}

// Service описывает интерфейс бизнес-логики удаления плана.
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
// @Summary Удалить тарифный план
// @Description Удаляет план по его ID. План с членствами удалить нельзя.
// @Tags Plans
// @Security BearerAuth
// @Produce  json
// @Param id path int true "ID плана"
// @Success 200 {object} map[string]any "План удален"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "План не найден"
// @Failure 409 {object} response.ErrorResponse "План используется членствами"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при удалении плана"
// @Router /plans/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.delete"

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
		switch {
		case errors.Is(err, planservice.ErrPlanNotFound):
			log.Error("plan not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("plan not found"))
		case errors.Is(err, planservice.ErrPlanInUse):
			log.Error("plan is referenced by memberships", slog.Int("id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("plan is referenced by memberships, deactivate it instead"))
		default:
			log.Error("failed to delete plan", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not delete plan"))
		}
		return
	}

	log.Info("success to delete plan", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted_id": id,
	}))
}
