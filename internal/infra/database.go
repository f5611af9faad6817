package infra

import (
	"fmt"
	"time"

	"liquidaciontextil/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, creates / updates the
// tables from the models, then applies the idempotent SQL patches that GORM
// cannot express (CHECK constraints).
//
// TranslateError is enabled so unique violations surface as gorm.ErrDuplicatedKey.
func NewDatabase(dsn string, maxOpenConns int) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if maxOpenConns <= 0 {
		maxOpenConns = 10
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(max(maxOpenConns/4, 1))
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates the schema and applies the CHECK patches. Shared by
// NewDatabase and the integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Cliente{},
		&model.Liquidacion{},
		&model.Rollo{},
		&model.Espiga{},
		&model.Configuracion{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches adds the CHECK constraints backing the model invariants.
// Each one is guarded by an existence check so re-running is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ table, name, check string }{
		{"liquidaciones", "chk_liquidaciones_estado", "estado IN ('borrador','en_proceso','finalizada')"},
		{"rollos", "chk_rollos_metros", "metros_iniciales >= 0 AND retazos >= 0 AND sesgos >= 0"},
		{"espigas", "chk_espigas_medidas", "largo_trazo >= 0 AND numero_capas >= 0"},
		{"configuraciones", "chk_configuraciones_siguiente", "siguiente_numero >= 1"},
	}

	for _, p := range patches {
		sql := fmt.Sprintf(`DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
    ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s);
  END IF;
END $$`, p.name, p.table, p.name, p.check)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.name, err)
		}
	}
	return nil
}
