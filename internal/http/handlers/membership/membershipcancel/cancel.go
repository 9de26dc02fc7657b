// Package membershipcancel реализует HTTP-обработчик для отмены членства.
//
// Отмена помечает членство неактивным, запись сохраняется как история.
// Тренировочные слоты членства при этом не удаляются.
package membershipcancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/academy-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/academy-manager/internal/http/response"
	"github.com/magabrotheeeer/academy-manager/internal/lib/sl"
	"github.com/magabrotheeeer/academy-manager/internal/models"
	membershipservice "github.com/magabrotheeeer/academy-manager/internal/services/membership"
)

// Handler управляет HTTP-запросами на отмену членства.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики членств
}

// Service описывает интерфейс бизнес-логики отмены членства.
type Service interface {
	Read(ctx context.Context, membershipID int) (*models.Membership, error)
	Cancel(ctx context.Context, membershipID int) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отменить членство
// @Description Помечает членство неактивным. Запись остается в истории.
// @Tags Memberships
// @Security BearerAuth
// @Produce  json
// @Param id path int true "ID членства"
// @Success 200 {object} map[string]any "Членство отменено"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Членство принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Членство не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при отмене"
// @Router /memberships/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.cancel"
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

	role, _ := r.Context().Value(middlewarectx.Role).(string)
	if role != models.RoleAdmin {
		callerUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
		membership, err := h.service.Read(r.Context(), id)
		if err != nil {
			if errors.Is(err, membershipservice.ErrMembershipNotFound) {
				log.Error("membership not found", slog.Int("id", id))
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error("membership not found"))
				return
			}
			log.Error("failed to read membership", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not read membership"))
			return
		}
		if membership.UserUID != callerUID {
			log.Error("membership belongs to another user", slog.Int("id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("membership belongs to another user"))
			return
		}
	}

	if err := h.service.Cancel(r.Context(), id); err != nil {
		if errors.Is(err, membershipservice.ErrMembershipNotFound) {
			log.Error("membership not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("membership not found"))
			return
		}
		log.Error("failed to cancel membership", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not cancel membership"))
		return
	}

	log.Info("success to cancel membership", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"canceled_id": id,
	}))
}
