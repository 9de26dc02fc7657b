// Package membershipactive реализует HTTP-обработчик для получения
// текущего активного членства пользователя.
//
// Обычный пользователь получает своё членство, администратор может указать
// владельца параметром ?user_uid=. Если активного членства нет, возвращается
// пустой результат, а не ошибка.
package membershipactive

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/academy-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/academy-manager/internal/http/response"
	"github.com/magabrotheeeer/academy-manager/internal/lib/dates"
	"github.com/magabrotheeeer/academy-manager/internal/lib/sl"
	"github.com/magabrotheeeer/academy-manager/internal/models"
)

// Handler обрабатывает запросы на получение активного членства.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики членств
}

// Service описывает интерфейс бизнес-логики поиска активного членства.
type Service interface {
	FindActiveForUser(ctx context.Context, userUID string) (*models.Membership, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Активное членство
// @Description Возвращает текущее активное членство пользователя вместе с признаком истечения.
// @Tags Memberships
// @Security BearerAuth
// @Produce  json
// @Param user_uid query string false "UID владельца (только admin)"
// @Success 200 {object} map[string]any "Активное членство или null"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при чтении членства"
// @Router /memberships/active [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.active"
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

	targetUID := callerUID
	if requested := r.URL.Query().Get("user_uid"); requested != "" && requested != callerUID {
		if role != models.RoleAdmin {
			log.Error("attempt to read membership of another user", slog.String("target", requested))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("only admin can read membership of another user"))
			return
		}
		targetUID = requested
	}

	membership, err := h.service.FindActiveForUser(r.Context(), targetUID)
	if err != nil {
		log.Error("failed to find active membership", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read membership"))
		return
	}

	data := map[string]any{"membership": membership}
	if membership != nil {
		data["is_expired"] = dates.IsExpired(membership.EndDate, dates.Today())
	}

	log.Info("success to find active membership", slog.String("user_uid", targetUID))
	render.JSON(w, r, response.StatusOKWithData(data))
}
