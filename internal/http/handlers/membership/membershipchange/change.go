// Package membershipchange реализует HTTP-обработчик для смены плана членства.
//
// Handler проверяет, что членство принадлежит вызывающему (или вызывающий
// администратор), и делегирует смену плана сервису. Окно действия членства
// пересчитывается от текущей даты по длительности нового плана.
package membershipchange

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
)

// Handler управляет HTTP-запросами на смену плана членства.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики членств
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики смены плана.
type Service interface {
	Read(ctx context.Context, membershipID int) (*models.Membership, error)
	ChangePlan(ctx context.Context, membershipID, newPlanID int) (*models.Membership, error)
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
// @Summary Сменить план членства
// @Description Меняет план активного членства. Окно действия пересчитывается от сегодняшней даты.
// @Tags Memberships
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param id path int true "ID членства"
// @Param request body models.DummyChangePlan true "Новый план"
// @Success 200 {object} map[string]any "Обновленное членство"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 403 {object} response.ErrorResponse "Членство принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Членство или план не найдены"
// @Failure 409 {object} response.ErrorResponse "Членство не активно"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при смене плана"
// @Router /memberships/{id}/plan [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.change"
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

	var req models.DummyChangePlan
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

	if !authorize(w, r, log, h.service, id) {
		return
	}

	membership, err := h.service.ChangePlan(r.Context(), id, req.PlanID)
	if err != nil {
		switch {
		case errors.Is(err, membershipservice.ErrMembershipNotFound):
			log.Error("membership not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("membership not found"))
		case errors.Is(err, membershipservice.ErrPlanNotFound):
			log.Error("plan not found", slog.Int("plan_id", req.PlanID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("plan not found"))
		case errors.Is(err, membershipservice.ErrMembershipInactive):
			log.Error("membership is not active", slog.Int("id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("membership is not active"))
		default:
			log.Error("failed to change plan", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not change plan"))
		}
		return
	}

	log.Info("success to change plan", slog.Int("id", id), slog.Int("plan_id", req.PlanID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"membership": membership,
	}))
}

// authorize проверяет, что членство принадлежит вызывающему или вызывающий
// администратор. При отказе пишет ответ и возвращает false.
func authorize(w http.ResponseWriter, r *http.Request, log *slog.Logger, service Service, membershipID int) bool {
	role, _ := r.Context().Value(middlewarectx.Role).(string)
	if role == models.RoleAdmin {
		return true
	}
	callerUID, _ := r.Context().Value(middlewarectx.UserUID).(string)

	membership, err := service.Read(r.Context(), membershipID)
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
