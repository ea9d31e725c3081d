package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/openlots/parking-reservation/internal/adapters/database"
	"github.com/openlots/parking-reservation/internal/domain/entities"
	"github.com/openlots/parking-reservation/internal/infrastructure/clients/postgres"
	"github.com/openlots/parking-reservation/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	userRepo := database.NewUserAdapter(pgClient)
	carRepo := database.NewCarAdapter(pgClient)
	parkingRepo := database.NewParkingAdapter(pgClient)
	spaceRepo := database.NewParkingSpaceAdapter(pgClient)
	reservationRepo := database.NewReservationAdapter(pgClient)

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				audit_logs,
				reservations,
				parking_spaces,
				parkings,
				cars,
				users
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	hash := func(password string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		return string(h)
	}

	// 1. Seed Users
	admin := entities.User{
		ID: uuid.New().String(), Email: "admin@openlots.test", FirstName: "Ade", LastName: "Okafor",
		PasswordHash: hash("admin-password"), Role: entities.RoleAdmin, CreatedAt: time.Now(),
	}
	customer := entities.User{
		ID: uuid.New().String(), Email: "driver@openlots.test", FirstName: "Bisi", LastName: "Adeyemi",
		PasswordHash: hash("driver-password"), Role: entities.RoleCustomer, CreatedAt: time.Now(),
	}
	for _, u := range []entities.User{admin, customer} {
		if err := userRepo.Create(ctx, &u); err != nil {
			log.Printf("Failed to create user %s: %v", u.Email, err)
		}
	}

	// 2. Seed Parkings
	parkings := []entities.Parking{
		{ID: uuid.New().String(), Name: "Marina Central Garage", Area: "Lagos Island", ContactInfo: "marina@openlots.test", OperatingHours: "06:00-23:00", CreatedAt: time.Now(), UpdatedAt: time.Now()},
		{ID: uuid.New().String(), Name: "Ikeja City Mall Parking", Area: "Ikeja", ContactInfo: "icm@openlots.test", OperatingHours: "08:00-22:00", CreatedAt: time.Now(), UpdatedAt: time.Now()},
		{ID: uuid.New().String(), Name: "Garki Area 8 Lot", Area: "Abuja", ContactInfo: "garki@openlots.test", OperatingHours: "24/7", CreatedAt: time.Now(), UpdatedAt: time.Now()},
	}
	for _, p := range parkings {
		if err := parkingRepo.Create(ctx, &p); err != nil {
			log.Printf("Failed to create parking %s: %v", p.Name, err)
		}
	}

	// 3. Seed Parking Spaces, a handful per facility
	var firstSpaceID string
	for _, p := range parkings {
		for i := 1; i <= 5; i++ {
			space := entities.ParkingSpace{
				ID:          uuid.New().String(),
				ParkingID:   p.ID,
				SpaceNumber: fmt.Sprintf("A-%02d", i),
				IsAvailable: true,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}
			if firstSpaceID == "" {
				firstSpaceID = space.ID
			}
			if err := spaceRepo.Create(ctx, &space); err != nil {
				log.Printf("Failed to create space %s at %s: %v", space.SpaceNumber, p.Name, err)
			}
		}
	}

	// 4. Seed a Car and an upcoming Reservation for the customer
	car := entities.Car{
		ID: uuid.New().String(), UserID: customer.ID, LicencePlate: "LND-482-KJ",
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := carRepo.Create(ctx, &car); err != nil {
		log.Printf("Failed to create car %s: %v", car.LicencePlate, err)
	}

	reservation := entities.Reservation{
		ID:             uuid.New().String(),
		UserID:         customer.ID,
		CarID:          car.ID,
		ParkingSpaceID: firstSpaceID,
		StartTime:      time.Now().Add(2 * time.Hour),
		EndTime:        time.Now().Add(4 * time.Hour),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := reservationRepo.Create(ctx, &reservation); err != nil {
		log.Printf("Failed to create reservation: %v", err)
	}

	log.Println("Seeding complete")
}
