package adapters

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"

	f "github.com/julianladisch/stripes-core/core"
	"github.com/julianladisch/stripes-core/h"
	"github.com/julianladisch/stripes-core/log"
	"github.com/julianladisch/stripes-core/utils/dates"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type translationOverrideRow struct {
	bun.BaseModel `bun:"table:translation_overrides"`

	TenantId  string    `bun:"tenant_id,pk"`
	Module    string    `bun:"module,notnull"`
	Locale    string    `bun:"locale,pk"`
	Key       string    `bun:"key,pk"`
	Message   string    `bun:"message,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

type bunTranslationStore struct {
	db      *bun.DB
	sqldb   *sql.DB
	dialect string
}

// NewTranslationStore opens a tenant-override store on the given database
// URL. postgres:// selects the pg driver; anything else is treated as a
// sqlite path (sqlite://file.db or file::memory:?cache=shared).
func NewTranslationStore(databaseUrl string) (f.TranslationStore, error) {
	if strings.HasPrefix(databaseUrl, "postgres://") || strings.HasPrefix(databaseUrl, "postgresql://") {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(databaseUrl)))
		return &bunTranslationStore{
			db:      bun.NewDB(sqldb, pgdialect.New()),
			sqldb:   sqldb,
			dialect: "postgres",
		}, nil
	}
	dsn := strings.TrimPrefix(databaseUrl, "sqlite://")
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}
	return &bunTranslationStore{
		db:      bun.NewDB(sqldb, sqlitedialect.New()),
		sqldb:   sqldb,
		dialect: "sqlite3",
	}, nil
}

// Init applies the embedded schema migrations.
func (s *bunTranslationStore) Init(ctx context.Context) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetTableName("database_changelog")
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(s.dialect); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, s.sqldb, "migrations"); err != nil {
		return err
	}
	log.Info("translation store ready (%s)", s.dialect)
	return nil
}

func (s *bunTranslationStore) Put(ctx context.Context, override f.TranslationOverride) error {
	module := override.Module
	if module == "" {
		module, _ = h.SplitNamespacedKey(override.Key)
	}
	row := translationOverrideRow{
		TenantId:  override.TenantId,
		Module:    module,
		Locale:    override.Locale,
		Key:       override.Key,
		Message:   override.Message,
		UpdatedAt: dates.Now(),
	}
	_, err := s.db.NewInsert().
		Model(&row).
		On("CONFLICT (tenant_id, locale, key) DO UPDATE").
		Set("message = EXCLUDED.message").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *bunTranslationStore) Get(ctx context.Context, tenantId string, locale string, key string) (string, bool, error) {
	var row translationOverrideRow
	err := s.db.NewSelect().
		Model(&row).
		Where("tenant_id = ?", tenantId).
		Where("locale = ?", locale).
		Where("key = ?", key).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Message, true, nil
}

func (s *bunTranslationStore) List(ctx context.Context, tenantId string, locale string) ([]f.TranslationOverride, error) {
	var rows []translationOverrideRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("tenant_id = ?", tenantId).
		Where("locale = ?", locale).
		Order("key ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]f.TranslationOverride, 0, len(rows))
	for _, row := range rows {
		out = append(out, f.TranslationOverride{
			TenantId:  row.TenantId,
			Module:    row.Module,
			Locale:    row.Locale,
			Key:       row.Key,
			Message:   row.Message,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return out, nil
}

func (s *bunTranslationStore) Delete(ctx context.Context, tenantId string, locale string, key string) error {
	_, err := s.db.NewDelete().
		Model((*translationOverrideRow)(nil)).
		Where("tenant_id = ?", tenantId).
		Where("locale = ?", locale).
		Where("key = ?", key).
		Exec(ctx)
	return err
}

func (s *bunTranslationStore) Close() error {
	return s.db.Close()
}
