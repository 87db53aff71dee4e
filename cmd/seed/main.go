package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/GarciaPiedraEdwinLeonardo/Nexum/config"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/entity"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/pkg/helpers"
)

// Seeds the base roles and an initial admin account. Safe to re-run.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	roles := []struct{ name, display string }{
		{entity.RoleStudent, "Estudiante"},
		{entity.RoleEmployer, "Empleador"},
		{entity.RoleAdmin, "Administrador"},
		{entity.RoleSuspended, "Suspendido"},
	}
	ids := map[string]string{}
	for _, r := range roles {
		var id string
		if err := db.QueryRow(`
			INSERT INTO roles (name, display_name) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET display_name = EXCLUDED.display_name
			RETURNING id
		`, r.name, r.display).Scan(&id); err != nil {
			log.Fatalf("failed to upsert role %s: %v", r.name, err)
		}
		ids[r.name] = id
	}
	fmt.Printf("roles ensured: %v\n", ids)

	adminEmail := os.Getenv("SEED_ADMIN_EMAIL")
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		fmt.Println("SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD not set, skipping admin user")
		return
	}

	hash, err := helpers.HashPassword(adminPassword, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash, role_id, is_verified, verified_at)
		VALUES ($1, $2, $3, $4, true, now())
		ON CONFLICT (email) WHERE deleted_at IS NULL DO UPDATE SET role_id = EXCLUDED.role_id
		RETURNING id
	`, "Admin", adminEmail, hash, ids[entity.RoleAdmin]).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s\n", id, adminEmail)
}
