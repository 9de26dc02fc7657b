// Package planlist реализует HTTP-обработчик для получения каталога тарифных планов.
//
// По умолчанию возвращаются только активные планы. Администратор может
// запросить полный каталог параметром ?all=true.
package planlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/academy-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/academy-manager/internal/http/response"
	"github.com/magabrotheeeer/academy-manager/internal/lib/sl"
	"github.com/magabrotheeeer/academy-manager/internal/models"
)

// Handler обрабатывает запросы на список тарифных планов.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики каталога планов
}

// Service описывает интерфейс бизнес-логики списков планов.
type Service interface {
	ListAll(ctx context.Context) ([]*models.Plan, error)
	ListActive(ctx context.Context) ([]*models.Plan, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список тарифных планов
// @Description Возвращает активные планы. Администратор с ?all=true получает весь каталог.
// @Tags Plans
// @Security BearerAuth
// @Produce  json
// @Param all query bool false "Вернуть весь каталог (только admin)"
// @Success 200 {object} map[string]any "Список планов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при чтении каталога"
// @Router /plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	role, _ := r.Context().Value(middlewarectx.Role).(string)
	wantAll := r.URL.Query().Get("all") == "true" && role == models.RoleAdmin

	var (
		plans []*models.Plan
		err   error
	)
	if wantAll {
		plans, err = h.service.ListAll(r.Context())
	} else {
		plans, err = h.service.ListActive(r.Context())
	}
	if err != nil {
		log.Error("failed to list plans", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list plans"))
		return
	}

	log.Info("success to list plans", slog.Int("count", len(plans)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"plans": plans,
	}))
}
