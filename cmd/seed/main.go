package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/vncsmyrnk/countryvotes/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/countryvotes/internal/adapters/restcountries"
	"github.com/vncsmyrnk/countryvotes/internal/config"
	"github.com/vncsmyrnk/countryvotes/internal/core/domain"
	"github.com/vncsmyrnk/countryvotes/internal/core/services"
)

func main() {
	codes := flag.String("codes", "ARG,BRA,DEU,FRA,JPN", "comma-separated cca3 codes to seed")
	votes := flag.Int("votes", 3, "votes cast per country")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	reference := restcountries.NewClient(cfg.CountriesAPIURL,
		restcountries.WithHTTPClient(&stdhttp.Client{Timeout: cfg.CountriesAPITimeout}),
		restcountries.WithLogger(logger),
	)
	service := services.NewVoteService(postgres.NewUserRepository(db), postgres.NewCountryRepository(db), reference, nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Println("Clearing votes and countries...")
	if err := postgres.NewStore(db).Clear(ctx); err != nil {
		log.Fatalf("Error clearing tables: %v", err)
	}

	requested := splitCodes(*codes)
	known, err := reference.GetCountriesByCodes(ctx, requested)
	if err != nil {
		log.Fatalf("Error loading reference countries: %v", err)
	}

	seeded := 0
	for _, code := range requested {
		ref, ok := known[code]
		if !ok {
			log.Printf("Skipping unknown country code %q", code)
			continue
		}
		for range *votes {
			err := service.SubmitVote(ctx, domain.VoteInput{
				Name:        "Seed " + ref.Name.Common,
				Email:       fmt.Sprintf("seed-%s@example.com", uuid.NewString()),
				CountryCode: code,
			})
			if err != nil {
				log.Fatalf("Error voting for %s: %v", code, err)
			}
			seeded++
		}
	}

	log.Printf("Seeded %d votes across %d countries.", seeded, len(known))
}

func splitCodes(s string) []string {
	var codes []string
	for _, code := range strings.Split(s, ",") {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}
