// Package schedulelist реализует HTTP-обработчик для получения расписания членства.
package schedulelist

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
	scheduleservice "github.com/magabrotheeeer/academy-manager/internal/services/schedule"
)

// Handler обрабатывает запросы на список тренировочных слотов членства.
type Handler struct {
	log         *slog.Logger // Логгер для записи информации и ошибок
	service     Service      // Сервис бизнес-логики расписания
	memberships Memberships  // Сервис членств для проверки владельца
}

// Service описывает интерфейс бизнес-логики списка слотов.
type Service interface {
	ListForMembership(ctx context.Context, membershipID int) ([]*models.TrainingSlot, error)
}

// Memberships описывает доступ к членствам для проверки владельца.
type Memberships interface {
	Read(ctx context.Context, membershipID int) (*models.Membership, error)
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, service Service, memberships Memberships) *Handler {
	return &Handler{
		log:         log,
		service:     service,
		memberships: memberships,
	}
}

// ServeHTTP godoc
// @Summary Расписание членства
// @Description Возвращает активные тренировочные слоты членства.
// @Tags Schedule
// @Security BearerAuth
// @Produce  json
// @Param id path int true "ID членства"
// @Success 200 {object} map[string]any "Список слотов"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Членство принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Членство не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при чтении расписания"
// @Router /memberships/{id}/slots [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.schedule.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	membershipID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	role, _ := r.Context().Value(middlewarectx.Role).(string)
	if role != models.RoleAdmin {
		callerUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
		membership, err := h.memberships.Read(r.Context(), membershipID)
		if err != nil {
			if errors.Is(err, membershipservice.ErrMembershipNotFound) {
				log.Error("membership not found", slog.Int("id", membershipID))
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
			log.Error("membership belongs to another user", slog.Int("id", membershipID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("membership belongs to another user"))
			return
		}
	}

	slots, err := h.service.ListForMembership(r.Context(), membershipID)
	if err != nil {
		if errors.Is(err, scheduleservice.ErrMembershipNotFound) {
			log.Error("membership not found", slog.Int("id", membershipID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("membership not found"))
			return
		}
		log.Error("failed to list slots", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list slots"))
		return
	}

	log.Info("success to list slots", slog.Int("count", len(slots)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"slots": slots,
	}))
}
