// Package membershiplist реализует HTTP-обработчик для получения истории членств.
//
// Обычный пользователь видит только свои членства, администратор — все.
package membershiplist

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

// Handler обрабатывает запросы на список членств.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики членств
}

// Service описывает интерфейс бизнес-логики списков членств.
type Service interface {
	List(ctx context.Context, userUID, role string) ([]*models.Membership, error)
	FindHistoryForUser(ctx context.Context, userUID string) ([]*models.Membership, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary История членств
// @Description Возвращает членства пользователя, включая отмененные. Администратор видит все.
// @Tags Memberships
// @Security BearerAuth
// @Produce  json
// @Param user_uid query string false "UID владельца (только admin)"
// @Success 200 {object} map[string]any "Список членств"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при чтении членств"
// @Router /memberships [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	callerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || callerUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	role, _ := r.Context().Value(middlewarectx.Role).(string)

	var (
		memberships []*models.Membership
		err         error
	)
	if requested := r.URL.Query().Get("user_uid"); requested != "" && role == models.RoleAdmin {
		memberships, err = h.service.FindHistoryForUser(r.Context(), requested)
	} else {
		memberships, err = h.service.List(r.Context(), callerUID, role)
	}
	if err != nil {
		log.Error("failed to list memberships", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list memberships"))
		return
	}

	log.Info("success to list memberships", slog.Int("count", len(memberships)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"memberships": memberships,
	}))
}
