// Package scheduledelete реализует HTTP-обработчик для удаления тренировочного слота.
//
// Слот удаляется в рамках членства, по которому проверяется владелец.
package scheduledelete

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

// Handler обрабатывает запросы на удаление тренировочного слота.
type Handler struct {
	log         *slog.Logger // Логгер для записи информации и ошибок
	service     Service      // Сервис бизнес-логики расписания
	memberships Memberships  // Сервис членств для проверки владельца
}

// Service описывает интерфейс бизнес-логики удаления слота.
type Service interface {
	Delete(ctx context.Context, slotID int) error
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
// @Summary Удалить тренировочный слот
// @Description Удаляет слот по его ID в рамках членства.
// @Tags Schedule
// @Security BearerAuth
// @Produce  json
// @Param id path int true "ID членства"
// @Param slotID path int true "ID слота"
// @Success 200 {object} map[string]any "Слот удален"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Членство принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Слот или членство не найдены"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при удалении слота"
// @Router /memberships/{id}/slots/{slotID} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.schedule.delete"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	membershipID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode membership id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}
	slotID, err := strconv.Atoi(chi.URLParam(r, "slotID"))
	if err != nil {
		log.Error("failed to decode slot id from url", sl.Err(err))
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

	if err := h.service.Delete(r.Context(), slotID); err != nil {
		if errors.Is(err, scheduleservice.ErrSlotNotFound) {
			log.Error("slot not found", slog.Int("id", slotID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("slot not found"))
			return
		}
		log.Error("failed to delete slot", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not delete slot"))
		return
	}

	log.Info("success to delete slot", slog.Int("id", slotID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted_id": slotID,
	}))
}
