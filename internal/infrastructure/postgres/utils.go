package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// unique_violation según la clase 23 de PostgreSQL.
const uniqueViolationCode = "23505"

// isUniqueViolation detecta el choque contra un constraint UNIQUE para
// traducirlo a un error de dominio (orden duplicada por cotización, SKU o
// correo repetido). El resto de errores de pgx sube sin traducir.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
