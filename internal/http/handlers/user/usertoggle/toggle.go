// Package usertoggle реализует HTTP-обработчик для переключения доступа пользователя.
//
// Отключенный пользователь не может войти в систему, его данные сохраняются.
package usertoggle

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/academy-manager/internal/http/response"
	"github.com/magabrotheeeer/academy-manager/internal/lib/sl"
	"github.com/magabrotheeeer/academy-manager/internal/models"
	userservice "github.com/magabrotheeeer/academy-manager/internal/services/user"
)

// Handler обрабатывает запросы на переключение доступа пользователя.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики справочника пользователей
}

// Service описывает интерфейс бизнес-логики переключения доступа.
type Service interface {
	ToggleEnabled(ctx context.Context, userUID string) (*models.User, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Переключить доступ пользователя
// @Description Инвертирует флаг доступа пользователя по его uid.
// @Tags Users
// @Security BearerAuth
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Success 200 {object} map[string]any "Обновленный пользователь"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при обновлении пользователя"
// @Router /users/{uid}/toggle [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.toggle"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")

	user, err := h.service.ToggleEnabled(r.Context(), uid)
	if err != nil {
		if errors.Is(err, userservice.ErrUserNotFound) {
			log.Error("user not found", slog.String("uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to toggle user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not toggle user"))
		return
	}

	log.Info("success to toggle user", slog.String("uid", uid), slog.Bool("enabled", user.Enabled))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user": user,
	}))
}
