// Package schedulecreate реализует HTTP-обработчик для добавления
// тренировочного слота к членству.
//
// Handler проверяет, что членство принадлежит вызывающему (или вызывающий
// администратор), валидирует данные слота и делегирует создание сервису
// расписания. Пересечения слотов не проверяются.
package schedulecreate

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

	"github.com/magabrotheeeer/academy-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/academy-manager/internal/http/response"
	"github.com/magabrotheeeer/academy-manager/internal/lib/sl"
	"github.com/magabrotheeeer/academy-manager/internal/models"
	membershipservice "github.com/magabrotheeeer/academy-manager/internal/services/membership"
	scheduleservice "github.com/magabrotheeeer/academy-manager/internal/services/schedule"
)

// Handler управляет HTTP-запросами на добавление тренировочного слота.
type Handler struct {
	log         *slog.Logger        // Логгер для записи информации и ошибок
	service     Service             // Сервис бизнес-логики расписания
	memberships Memberships         // Сервис членств для проверки владельца
	validate    *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания слота.
type Service interface {
	Create(ctx context.Context, membershipID int, req models.DummySlot) (*models.TrainingSlot, error)
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
		validate:    validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить тренировочный слот
// @Description Добавляет еженедельный слот к членству.
// @Tags Schedule
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param id path int true "ID членства"
// @Param request body models.DummySlot true "Данные нового слота"
// @Success 200 {object} map[string]any "Созданный слот"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 403 {object} response.ErrorResponse "Членство принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Членство не найдено"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании слота"
// @Router /memberships/{id}/slots [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.schedule.create"
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

	var req models.DummySlot
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

	if !authorizeMembership(w, r, log, h.memberships, membershipID) {
		return
	}

	slot, err := h.service.Create(r.Context(), membershipID, req)
	if err != nil {
		if errors.Is(err, scheduleservice.ErrMembershipNotFound) {
			log.Error("membership not found", slog.Int("id", membershipID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("membership not found"))
			return
		}
		log.Error("failed to create slot", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create slot"))
		return
	}

	log.Info("success to create slot", slog.Int("id", slot.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"slot": slot,
	}))
}

// authorizeMembership проверяет, что членство принадлежит вызывающему или
// вызывающий администратор. При отказе пишет ответ и возвращает false.
func authorizeMembership(w http.ResponseWriter, r *http.Request, log *slog.Logger, memberships Memberships, membershipID int) bool {
	role, _ := r.Context().Value(middlewarectx.Role).(string)
	if role == models.RoleAdmin {
		return true
	}
	callerUID, _ := r.Context().Value(middlewarectx.UserUID).(string)

	membership, err := memberships.Read(r.Context(), membershipID)
	if err != nil {
		if errors.Is(err, membershipservice.ErrMembershipNotFound) {
			log.Error("membership not found", slog.Int("id", membershipID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("membership not found"))
			return false
		}
		log.Error("failed to read membership", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read membership"))
		return false
	}
	if membership.UserUID != callerUID {
		log.Error("membership belongs to another user", slog.Int("id", membershipID))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("membership belongs to another user"))
		return false
	}
	return true
}
