// Package membershipcreate реализует HTTP-обработчик для оформления членства.
//
// Handler принимает JSON-запрос с идентификатором плана, валидирует его,
// определяет владельца членства (сам пользователь или указанный администратором)
// и вызывает бизнес-логику оформления. У пользователя может быть только одно
// активное членство.
package membershipcreate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/academy-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/academy-manager/internal/http/response"
	"github.com/magabrotheeeer/academy-manager/internal/lib/sl"
	"github.com/magabrotheeeer/academy-manager/internal/models"
	membershipservice "github.com/magabrotheeeer/academy-manager/internal/services/membership"
)

// Handler управляет HTTP-запросами на оформление членства.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики членств
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики оформления членства.
type Service interface {
	Create(ctx context.Context, userUID string, planID int) (*models.Membership, error)
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
// @Summary Оформить членство
// @Description Оформляет членство на выбранный план. Администратор может указать владельца.
// @Tags Memberships
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummyMembership true "Данные нового членства"
// @Success 200 {object} map[string]any "Оформленное членство"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь или план не найдены"
// @Failure 409 {object} response.ErrorResponse "Активное членство уже существует"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при оформлении"
// @Router /memberships [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyMembership
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	callerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || callerUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	role, _ := r.Context().Value(middlewarectx.Role).(string)

	ownerUID := callerUID
	if req.UserUID != "" && req.UserUID != callerUID {
		if role != models.RoleAdmin {
			log.Error("attempt to create membership for another user", slog.String("target", req.UserUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("only admin can create membership for another user"))
			return
		}
		ownerUID = req.UserUID
	}

	membership, err := h.service.Create(r.Context(), ownerUID, req.PlanID)
	if err != nil {
		switch {
		case errors.Is(err, membershipservice.ErrUserNotFound):
			log.Error("user not found", slog.String("user_uid", ownerUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, membershipservice.ErrPlanNotFound):
			log.Error("plan not found", slog.Int("plan_id", req.PlanID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("plan not found"))
		case errors.Is(err, membershipservice.ErrActiveMembershipExists):
			log.Error("active membership already exists", slog.String("user_uid", ownerUID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("active membership already exists"))
		default:
			log.Error("failed to create membership", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create membership"))
		}
		return
	}

	log.Info("success to create membership", slog.Int("id", membership.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"membership": membership,
	}))
}
