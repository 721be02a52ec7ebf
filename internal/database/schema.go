package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Dialect selects the DDL flavour used by EnsureSchema.
type Dialect int

const (
	SQLite Dialect = iota
	MySQL
)

// DialectOf maps a driver name to its dialect.  Anything that is not MySQL
// is treated as SQLite.
func DialectOf(driver string) Dialect {
	if driver == "mysql" {
		return MySQL
	}
	return SQLite
}

var schemas = map[Dialect][]string{
	SQLite: {
		`CREATE TABLE IF NOT EXISTS shows (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			category TEXT CHECK(category IN ('movie', 'anime', 'serie')) NOT NULL,
			image TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	MySQL: {
		`CREATE TABLE IF NOT EXISTS shows (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			category VARCHAR(16) NOT NULL,
			image VARCHAR(512) NULL,
			CONSTRAINT chk_shows_category CHECK (category IN ('movie', 'anime', 'serie'))
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	},
}

// EnsureSchema creates the shows and users tables if they do not exist.  It
// is safe to run on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	stmts, ok := schemas[d]
	if !ok {
		return fmt.Errorf("unknown dialect %d", d)
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
