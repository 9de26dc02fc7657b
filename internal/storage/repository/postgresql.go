// Package repository реализует хранилище данных на основе PostgreSQL
// для управления планами, пользователями, членствами и тренировочными
// слотами. Предоставляет методы создания, чтения, обновления и удаления
// записей всех четырёх сущностей.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки нарушения ограничений схемы. Сервисный слой переводит их
// в доменные ошибки (дубликат имени/почты, конфликт активного членства,
// удаление плана с историей).
var (
	// ErrUniqueViolation — нарушено уникальное ограничение.
	ErrUniqueViolation = errors.New("unique violation")
	// ErrForeignKeyViolation — нарушена ссылочная целостность.
	ErrForeignKeyViolation = errors.New("foreign key violation")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// translateError переводит ошибки драйвера в сентинели пакета,
// сохраняя имя нарушенного ограничения в тексте.
func translateError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%s: %w: %s", op, ErrUniqueViolation, pgErr.ConstraintName)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%s: %w: %s", op, ErrForeignKeyViolation, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'memberships'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table memberships missing or query error: %w", err)
	}
	return nil
}
