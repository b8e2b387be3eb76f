package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"antesala/internal/pricing"
	"antesala/internal/reservations"
	"antesala/internal/shared/bootstrap"
	"antesala/internal/shared/config"
	"antesala/pkg/logger"
)

type Seeder struct {
	manager *reservations.Manager
}

func main() {
	clean := flag.Bool("clean", false, "delete every stored reservation before seeding")
	flag.Parse()

	_ = godotenv.Load()
	fmt.Println("🌱 Starting Antesala reservation seeder...")

	cfg := config.Load()
	app, err := bootstrap.Open(cfg, logger.GetDefault())
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer app.Close()

	ctx := context.Background()
	if _, err := app.Load(ctx); err != nil {
		log.Fatalf("Failed to load reservations: %v", err)
	}

	seeder := &Seeder{manager: app.Manager}

	if *clean {
		fmt.Println("\n🧹 Removing existing reservations...")
		removed := seeder.Clean(ctx)
		fmt.Printf("✅ Removed %d reservations\n", removed)
	}

	fmt.Println("\n🌱 Seeding reservations...")
	saved, err := seeder.SeedAll(ctx)
	if err != nil {
		log.Fatalf("Failed to seed reservations: %v", err)
	}
	fmt.Printf("✅ Seeded %d reservations\n", saved)

	if state := app.Manager.SyncState(); state.Stale {
		fmt.Printf("⚠️  Durable copy may be stale: %s\n", state.LastError)
	}
}

// Clean deletes every reservation and reports how many were removed
func (s *Seeder) Clean(ctx context.Context) int {
	list := s.manager.List(reservations.SortNone)
	for _, r := range list {
		s.manager.Delete(ctx, r.ID)
	}
	return len(list)
}

// SeedAll saves the sample drafts through the lifecycle manager so every
// record is validated and priced exactly like one typed into the form
func (s *Seeder) SeedAll(ctx context.Context) (int, error) {
	drafts := SampleDrafts()
	for i, d := range drafts {
		r, err := s.manager.Save(ctx, d)
		if err != nil {
			return i, fmt.Errorf("draft %d (%s): %w", i+1, d.ClientName, err)
		}
		fmt.Printf("   • %s  %s  %s  $%s\n", r.ID, r.EventDate, r.ClientName, r.Pricing.TotalCost.StringFixed(2))
	}
	return len(drafts), nil
}

// SampleDrafts covers plated, buffet and no-food events across the three rooms
func SampleDrafts() []reservations.Draft {
	wedding := reservations.Draft{
		ClientName:    "María Rivera",
		ClientEmail:   "maria.rivera@example.com",
		ClientPhone:   "787-555-0101",
		EventDate:     "2026-11-20",
		EventTime:     "18:30",
		EventType:     "wedding",
		EventDuration: "5",
		RoomType:      "grand-hall",
		FoodType:      "individual-plates",
		GuestCount:    "120",
		TableType:     "round-10",
		Beverages:     pricing.SelectionMap{},
		Entremeses:    pricing.SelectionMap{},
		TipPercentage: "15",
	}
	wedding.Beverages.Set("medalla", pricing.Qty(10))
	wedding.Beverages.Set("mimosa", pricing.PerGuestFlag())
	wedding.AdditionalServices.Decorations = true
	wedding.AdditionalServices.Valet = true

	corporate := reservations.Draft{
		ClientName:    "Luis Ortiz",
		CompanyName:   "Ortiz & Hijos",
		ClientPhone:   "787-555-0199",
		EventDate:     "2026-12-05",
		EventTime:     "12:00",
		EventType:     "pharmaceutical",
		EventDuration: "3",
		RoomType:      "intimate-room",
		FoodType:      "buffet-criollo",
		GuestCount:    "40",
		TableType:     "rectangular-10",
		Buffet: reservations.Buffet{
			Rice:     "gandules",
			Protein1: "pernil-asado",
			Protein2: "pechuga-ajillo",
			Side:     "papas-salteadas",
			Salad:    "verde",
		},
		Beverages:         pricing.SelectionMap{},
		Entremeses:        pricing.SelectionMap{},
		DepositPercentage: "30",
	}
	corporate.Entremeses.Set("bandeja-surtido", pricing.Qty(2))
	corporate.AdditionalServices.AudioVisual = true

	gathering := reservations.Draft{
		ClientName:     "Ana Torres",
		ClientPhone:    "939-555-0142",
		EventDate:      "2027-01-16",
		EventTime:      "20:00",
		EventType:      "other",
		OtherEventType: "Reunión de exalumnos",
		EventDuration:  "4",
		RoomType:       "outdoor-terrace",
		FoodType:       "no-food",
		GuestCount:     "25",
		TableType:      "round-8",
		Beverages:      pricing.SelectionMap{},
		Entremeses:     pricing.SelectionMap{},
	}
	gathering.Beverages.Set("corona", pricing.Qty(4))

	return []reservations.Draft{wedding, corporate, gathering}
}
