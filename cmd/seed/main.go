// cmd/seed/main.go: crea/actualiza la configuración y un cliente de demo.
// Uso: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"

	"liquidaciontextil/internal/config"
	"liquidaciontextil/internal/infra"
	"liquidaciontextil/internal/model"

	"github.com/google/uuid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// NewDatabase also migrates, so the seed works on an empty database.
	db, err := infra.NewDatabase(cfg.DatabaseURL, 2)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	ctx := context.Background()

	result := db.WithContext(ctx).Exec(`
		INSERT INTO configuraciones (id, nombre_empresa, telefono, siguiente_numero, prefijo_liquidacion, created_at, updated_at)
		VALUES (?, ?, NULLIF(?, ''), 1, '', NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET nombre_empresa = EXCLUDED.nombre_empresa,
		    telefono = EXCLUDED.telefono,
		    updated_at = NOW()
	`, model.ConfiguracionID, cfg.EmpresaNombre, cfg.EmpresaTelefono)
	if result.Error != nil {
		log.Fatalf("configuracion error: %v", result.Error)
	}

	email := "compras@demo.co"
	result = db.WithContext(ctx).Exec(`
		INSERT INTO clientes (id, nombre, nit, telefono, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())
		ON CONFLICT (email) DO UPDATE
		SET nombre = EXCLUDED.nombre,
		    nit = EXCLUDED.nit,
		    telefono = EXCLUDED.telefono,
		    updated_at = NOW()
	`, uuid.New(), "Confecciones Demo", "900123456-7", "300 000 00 00", email)
	if result.Error != nil {
		log.Fatalf("cliente error: %v", result.Error)
	}
	fmt.Printf("Configuración '%s' y cliente '%s' creados/actualizados\n", cfg.EmpresaNombre, email)
}
