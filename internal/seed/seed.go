// Package seed наполняет пустую базу стартовыми данными:
// администратором и базовым каталогом планов.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/academy-manager/internal/lib/password"
	"github.com/magabrotheeeer/academy-manager/internal/lib/sl"
	"github.com/magabrotheeeer/academy-manager/internal/models"
)

// Repository — минимальный контракт хранилища для посева данных.
type Repository interface {
	CountPlans(ctx context.Context) (int, error)
	CreatePlan(ctx context.Context, plan models.Plan) (int, error)
	UserEmailExists(ctx context.Context, email, excludeUID string) (bool, error)
	RegisterUser(ctx context.Context, user models.User) (string, error)
}

const (
	adminEmail    = "admin@academy.cl"
	adminPassword = "admin123"
	adminRut      = "00000000-0"
)

// defaultPlans — каталог по умолчанию для новой установки.
var defaultPlans = []models.Plan{
	{Name: "Básico", Price: 25000, DurationMonths: 1, IsActive: true},
	{Name: "Estándar", Price: 65000, DurationMonths: 3, IsActive: true},
	{Name: "Premium", Price: 115000, DurationMonths: 6, IsActive: true},
	{Name: "Anual", Price: 200000, DurationMonths: 12, IsActive: true},
}

// Run создает администратора и дефолтные планы, если их ещё нет.
// Повторный запуск на заполненной базе ничего не меняет.
func Run(ctx context.Context, repo Repository, log *slog.Logger) error {
	const op = "seed.Run"

	exists, err := repo.UserEmailExists(ctx, adminEmail, "")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		hash, err := password.GetHash(adminPassword)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		uid, err := repo.RegisterUser(ctx, models.User{
			Name:         "Admin",
			Surname:      "Academy",
			Rut:          adminRut,
			Email:        adminEmail,
			PasswordHash: hash,
			Role:         models.RoleAdmin,
			Enabled:      true,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		log.Info("seeded default admin", slog.String("uid", uid), slog.String("email", adminEmail))
	}

	count, err := repo.CountPlans(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		for _, plan := range defaultPlans {
			if _, err := repo.CreatePlan(ctx, plan); err != nil {
				log.Error("failed to seed plan", slog.String("name", plan.Name), sl.Err(err))
				return fmt.Errorf("%s: %w", op, err)
			}
		}
		log.Info("seeded default plan catalog", slog.Int("plans", len(defaultPlans)))
	}

	return nil
}
