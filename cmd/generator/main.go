// Command generator seeds the database with demo events for local
// development and load testing.
package main

import (
	"context"
	"flag"
	"os"

	"mela/internal/config"
	"mela/internal/database"
	"mela/internal/logger"
	"mela/internal/models"
	"mela/internal/repository"
)

var (
	clearExisting = flag.Bool("clear", false, "Clear existing events before seeding")
	dryRun        = flag.Bool("dry-run", false, "Show what would be seeded without making changes")
)

func main() {
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	log := logger.Get()
	log.Info("Starting event generator...")

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if *clearExisting && !*dryRun {
		for _, table := range []string{"order_items", "orders", "attendees", "ticket_reservations", "ticket_types", "events"} {
			if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				log.Error("Failed to clear table", "table", table, "error", err)
				os.Exit(1)
			}
		}
		log.Info("Cleared existing data")
	}

	repos := repository.NewRepositories(db)

	for _, event := range demoEvents() {
		if *dryRun {
			log.Info("Would seed event", "title", event.Title, "tiers", len(event.TicketTypes))
			continue
		}

		if err := repos.Events.CreateEvent(ctx, &event); err != nil {
			log.Error("Failed to seed event", "title", event.Title, "error", err)
			continue
		}
		log.Info("Seeded event", "event_id", event.ID, "title", event.Title)
	}

	log.Info("Event generation completed")
}

func demoEvents() []models.Event {
	desc := func(s string) *string { return &s }

	return []models.Event{
		{
			Title:       "Kathmandu Music Festival 2026",
			Description: desc("Two days of live music from Nepal's biggest artists."),
			Category:    "music",
			Date:        "2026-10-15",
			Time:        "17:00",
			Venue:       "Dasharath Stadium, Kathmandu",
			Organizer:   "Mela Events",
			OrganizerID: 1,
			Capacity:    15000,
			Status:      "upcoming",
			TicketTypes: []models.TicketType{
				{Name: "Normal", Price: 1500, Remaining: 10000, Perks: []string{"Entry pass"}},
				{Name: "VIP", Price: 5000, Remaining: 4000, Perks: []string{"Front zone", "Free drinks"}},
				{Name: "VVIP", Price: 12000, Remaining: 1000, Perks: []string{"Stage-side seating", "Backstage tour", "Free drinks"}},
			},
		},
		{
			Title:       "Tech Summit Kathmandu",
			Description: desc("Nepal's largest technology conference with international speakers."),
			Category:    "technology",
			Date:        "2026-11-02",
			Time:        "09:00",
			Venue:       "Hyatt Regency, Boudha",
			Organizer:   "Tech Nepal",
			OrganizerID: 2,
			Capacity:    800,
			Status:      "upcoming",
			TicketTypes: []models.TicketType{
				{Name: "Normal", Price: 2000, Remaining: 600, Perks: []string{"All sessions", "Lunch"}},
				{Name: "VIP", Price: 6000, Remaining: 200, Perks: []string{"All sessions", "Lunch", "Speaker dinner"}},
			},
		},
		{
			Title:       "Himalayan Food Festival",
			Description: desc("Street food and traditional cuisine from across the Himalayas."),
			Category:    "food",
			Date:        "2026-09-20",
			Time:        "11:00",
			Venue:       "Bhrikutimandap, Kathmandu",
			Organizer:   "Mela Events",
			OrganizerID: 1,
			Capacity:    5000,
			Status:      "upcoming",
			TicketTypes: []models.TicketType{
				{Name: "Normal", Price: 500, Remaining: 4500, Perks: []string{"Entry pass"}},
				{Name: "VIP", Price: 2500, Remaining: 500, Perks: []string{"Tasting menu", "Chef meet-and-greet"}},
			},
		},
		{
			Title:       "Pokhara Startup Pitch Night",
			Description: desc("Early-stage founders pitch to a panel of investors."),
			Category:    "business",
			Date:        "2026-09-05",
			Time:        "18:30",
			Venue:       "Lakeside Convention Hall, Pokhara",
			Organizer:   "Startup Nepal",
			OrganizerID: 3,
			Capacity:    300,
			Status:      "upcoming",
			TicketTypes: []models.TicketType{
				{Name: "Normal", Price: 800, Remaining: 280, Perks: []string{"Entry pass"}},
				{Name: "VVIP", Price: 4000, Remaining: 20, Perks: []string{"Investor dinner", "Reserved seating"}},
			},
		},
	}
}
