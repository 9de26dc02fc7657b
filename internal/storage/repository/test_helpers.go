package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/academy-manager/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя и возвращает его uid
func (f *TestDataFactory) CreateUser(t *testing.T, name, rut, email, passwordHash, role string) string {
	uid := uuid.New().String()
	_, err := f.storage.DB.Exec(`INSERT INTO users (uid, name, rut, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uid, name, rut, email, passwordHash, role)
	require.NoError(t, err)
	return uid
}

// CreatePlan создает тестовый план и возвращает его идентификатор
func (f *TestDataFactory) CreatePlan(t *testing.T, name string, price float64, durationMonths int, isActive bool) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO plans (name, price, duration_months, is_active)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		name, price, durationMonths, isActive).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateMembership создает тестовое членство и возвращает его идентификатор
func (f *TestDataFactory) CreateMembership(t *testing.T, userUID string, planID int,
	start, end time.Time, isActive bool) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO memberships (user_uid, plan_id, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		userUID, planID, start, end, isActive).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateSlot создает тестовый тренировочный слот и возвращает его идентификатор
func (f *TestDataFactory) CreateSlot(t *testing.T, membershipID int, weekday, startTime, endTime string) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO training_slots (membership_id, weekday, start_time, end_time)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		membershipID, weekday, startTime, endTime).Scan(&id)
	require.NoError(t, err)
	return id
}

// GetTestPlanData возвращает стандартные тестовые данные плана
func GetTestPlanData() models.Plan {
	return models.Plan{
		Name:           "Mensual",
		Description:    "acceso libre un mes",
		Price:          25000,
		DurationMonths: 1,
		IsActive:       true,
	}
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(3*time.Minute)),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			err = storage.DB.Ping()
			if err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "Failed to create storage after retries")

	// Создаем таблицы
	_, err = storage.DB.Exec(`
        DROP TABLE IF EXISTS training_slots CASCADE;
        DROP TABLE IF EXISTS memberships CASCADE;
        DROP TABLE IF EXISTS users CASCADE;
        DROP TABLE IF EXISTS plans CASCADE;
        DROP TABLE IF EXISTS students CASCADE;

        CREATE EXTENSION IF NOT EXISTS "pgcrypto";

        CREATE TABLE plans (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL UNIQUE,
            description TEXT NOT NULL DEFAULT '',
            price NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
            duration_months INTEGER NOT NULL CHECK (duration_months > 0),
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        );

        CREATE TABLE users (
            uid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            name TEXT NOT NULL,
            surname TEXT NOT NULL DEFAULT '',
            rut TEXT NOT NULL UNIQUE,
            email TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'user',
            enabled BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        );

        CREATE TABLE memberships (
            id SERIAL PRIMARY KEY,
            user_uid UUID NOT NULL REFERENCES users (uid) ON DELETE CASCADE,
            plan_id INTEGER NOT NULL REFERENCES plans (id) ON DELETE RESTRICT,
            start_date DATE NOT NULL,
            end_date DATE NOT NULL,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        );

        CREATE UNIQUE INDEX memberships_one_active_per_user
            ON memberships (user_uid)
            WHERE is_active;

        CREATE INDEX idx_memberships_user_uid ON memberships (user_uid);

        CREATE TABLE training_slots (
            id SERIAL PRIMARY KEY,
            membership_id INTEGER NOT NULL REFERENCES memberships (id) ON DELETE CASCADE,
            weekday TEXT NOT NULL,
            start_time TEXT NOT NULL,
            end_time TEXT NOT NULL,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        );

        CREATE INDEX idx_training_slots_membership_id ON training_slots (membership_id);

        CREATE TABLE students (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            level TEXT NOT NULL CHECK (level IN ('basico', 'intermedio', 'avanzado')),
            photo TEXT NOT NULL DEFAULT '',
            latitude DOUBLE PRECISION,
            longitude DOUBLE PRECISION,
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        );
    `)
	require.NoError(t, err, "Failed to create tables")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if postgresContainer != nil {
			_ = postgresContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}
