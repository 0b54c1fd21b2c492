package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"landscaping/internal/domain"
)

type Options struct {
	Debug bool
}

func Connect(dsn string, opts Options) (*gorm.DB, error) {
	level := logger.Silent
	if opts.Debug {
		level = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(level)}

	if IsPostgres(dsn) {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	dsn = sqliteDSN(dsn)
	log.Println("Using SQLite:", dsn)

	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
	if err != nil {
		return nil, err
	}

	// SQLite has no row locks; a single connection serializes every transaction instead.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// sqliteDSN turns a bare path into a URI and adds the pragmas the store relies on.
func sqliteDSN(dsn string) string {
	if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
		dsn = "file:" + dsn
	}
	if dsn == ":memory:" {
		dsn = "file::memory:"
	}

	params := []string{}
	if !strings.Contains(dsn, "_pragma=foreign_keys") {
		params = append(params, "_pragma=foreign_keys(1)")
	}
	if !strings.Contains(dsn, "_time_format") {
		params = append(params, "_time_format=sqlite")
	}
	if len(params) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

// Models lists every persisted record kind in dependency order.
func Models() []any {
	return []any{
		&domain.Client{},
		&domain.Crew{},
		&domain.Member{},
		&domain.Job{},
		&domain.JobMember{},
		&domain.Task{},
		&domain.Quote{},
		&domain.Payment{},
	}
}

// Migrate creates missing tables and adds missing columns. It never drops or rewrites existing
// columns, so databases created by older releases keep working with NULL/default values.
func Migrate(db *gorm.DB) error {
	for _, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}
