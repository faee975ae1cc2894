// Package main provides a tool to seed the database with a demo account and
// a filled advent calendar.
//
// Usage:
//
//	DATA_PATH=~/AdventServer/data go run ./cmd/seed
//	DATA_PATH=~/AdventServer/data go run ./cmd/seed --email you@example.com
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/adventapp/advent-server/internal/auth"
	"github.com/adventapp/advent-server/internal/domain"
	"github.com/adventapp/advent-server/internal/id"
	"github.com/adventapp/advent-server/internal/store/sqlite"
)

var (
	email    = flag.String("email", "demo@example.com", "Email for the demo user")
	password = flag.String("password", "demopassword", "Password for the demo user")
)

// dayTitles gives each demo door a little personality.
var dayTitles = []string{
	"A small beginning", "Two turtle doves", "Candle light", "Winter walk",
	"Hot chocolate", "Paper stars", "First snow", "Gingerbread",
	"An old photo", "Mulled wine", "A favorite song", "Handwritten note",
	"Cookie day", "Pine and spruce", "Halfway there", "A warm scarf",
	"Board game night", "Fairy lights", "A good book", "Almost there",
	"Snowball fight", "Family recipe", "Quiet evening", "The night before",
	"Merry Christmas",
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/AdventServer/data")
	}

	dbPath := filepath.Join(dataPath, "advent.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := sqlite.Open(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	passwordHash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &domain.User{
		Record: domain.Record{
			ID: id.MustGenerate("usr"),
		},
		Email:        *email,
		PasswordHash: passwordHash,
		DisplayName:  "Demo User",
	}
	user.InitTimestamps()

	if err := s.CreateUser(ctx, user); err != nil {
		log.Fatalf("Failed to create user (already seeded?): %v", err)
	}
	fmt.Printf("Created user %s (%s)\n", user.DisplayName, user.Email)

	shareToken, err := id.ShareToken()
	if err != nil {
		log.Fatalf("Failed to generate share token: %v", err)
	}

	cal := &domain.Calendar{
		Record: domain.Record{
			ID: id.MustGenerate("cal"),
		},
		OwnerID:     user.ID,
		ShareToken:  shareToken,
		Title:       "Demo Advent Calendar",
		Description: "A fully filled calendar to play with",
		Theme: domain.Theme{
			Background:  "snow",
			DoorStyle:   "classic",
			AccentColor: "#b91c1c",
		},
	}
	cal.InitTimestamps()

	if err := s.CreateCalendar(ctx, cal); err != nil {
		log.Fatalf("Failed to create calendar: %v", err)
	}

	for day := domain.MinDay; day <= domain.MaxDay; day++ {
		entry := &domain.CalendarEntry{
			Record: domain.Record{
				ID: id.MustGenerate("ent"),
			},
			CalendarID: cal.ID,
			Day:        day,
			Title:      dayTitles[day-1],
			Body:       fmt.Sprintf("Surprise for December %d.", day),
		}
		entry.InitTimestamps()

		if err := s.CreateEntry(ctx, entry); err != nil {
			log.Fatalf("Failed to create entry for day %d: %v", day, err)
		}
	}

	fmt.Printf("Created calendar %q with %d entries\n", cal.Title, domain.MaxDay)
	fmt.Printf("\nLogin:       %s / %s\n", *email, *password)
	fmt.Printf("Share link:  /api/v1/shared/%s\n", cal.ShareToken)
}
