package store

import (
	"fmt"
	"strings"
)

// PostgresDialect implements Dialect for PostgreSQL via pgx/stdlib.
type PostgresDialect struct{}

func (d *PostgresDialect) Name() string       { return "postgres" }
func (d *PostgresDialect) DriverName() string { return "pgx" }

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index)
}

func (d *PostgresDialect) NewParamBuilder() ParamBuilder {
	return &pgParamBuilder{}
}

func (d *PostgresDialect) SupportsReturning() bool { return true }

func (d *PostgresDialect) AutoPrimaryKeyType() string { return "BIGSERIAL PRIMARY KEY" }

func (d *PostgresDialect) ColumnType(dataType string) string {
	switch dataType {
	case "string":
		return "TEXT"
	case "int", "unixtime":
		return "BIGINT"
	case "float":
		return "DOUBLE PRECISION"
	case "bool":
		return "SMALLINT"
	case "date":
		return "DATE"
	case "timestamp":
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

func (d *PostgresDialect) MapError(err error) error {
	if err == nil {
		return nil
	}
	// With pgx/stdlib the underlying error message includes the PG code.
	errStr := err.Error()
	if strings.Contains(errStr, "23505") || strings.Contains(errStr, "unique constraint") || strings.Contains(errStr, "duplicate key") {
		return fmt.Errorf("%w: %w", ErrUniqueViolation, err)
	}
	return err
}
