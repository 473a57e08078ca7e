// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev user (dev@example.com) already exists.
package main

import (
	"context"
	"log"
	"os"

	"clinic-portal/backend/internal/config"
	"clinic-portal/backend/internal/db"
	patientdomain "clinic-portal/backend/internal/patient/domain"
	patientrepo "clinic-portal/backend/internal/patient/repository"
	providerdomain "clinic-portal/backend/internal/provider/domain"
	providerrepo "clinic-portal/backend/internal/provider/repository"
	"clinic-portal/backend/internal/security"
	userdomain "clinic-portal/backend/internal/user/domain"
	userrepo "clinic-portal/backend/internal/user/repository"
)

const (
	devUserEmail = "dev@example.com"
	devPassword  = "Passw0rd!dev"
)

var extraUserEmails = []string{
	"alice@example.com",
	"bob@example.com",
	"carol@example.com",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	users := userrepo.NewPostgresRepository(conn)
	ctx := context.Background()

	existing, err := users.GetByEmail(ctx, devUserEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (dev@example.com exists). Skipping.")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	devUser, err := users.Create(ctx, userdomain.CreateUser{
		Email:          devUserEmail,
		HashedPassword: passwordHash,
	})
	if err != nil {
		log.Fatalf("create dev user: %v", err)
	}

	// The dev user doubles as the clinic's provider; the extra users become
	// their patients.
	providers := providerrepo.NewPostgresRepository(conn)
	devProvider, err := providers.Create(ctx, providerdomain.CreateProvider{UserID: devUser.ID})
	if err != nil {
		log.Fatalf("create dev provider: %v", err)
	}

	patients := patientrepo.NewPostgresRepository(conn)
	for _, email := range extraUserEmails {
		user, err := users.Create(ctx, userdomain.CreateUser{
			Email:          email,
			HashedPassword: passwordHash,
		})
		if err != nil {
			log.Fatalf("create user %s: %v", email, err)
		}
		if _, err := patients.Create(ctx, patientdomain.CreatePatient{
			UserID:     user.ID,
			ProviderID: devProvider.ID,
		}); err != nil {
			log.Fatalf("create patient %s: %v", email, err)
		}
	}

	log.Println("Seed completed successfully.")
	log.Printf("Dev provider login: %s / %s", devUserEmail, devPassword)
}
