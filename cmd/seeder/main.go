// seeder fills the properties collection with sample listings owned by the first
// registered user, or clears listings and reviews.
//
// Usage: go run ./cmd/seeder [-import | -destroy] [-count 50]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/dcode-github/urban_nest/backend/config"
	"github.com/dcode-github/urban_nest/backend/logger"
	"github.com/dcode-github/urban_nest/backend/store"
)

type options struct {
	destroy bool
	count   int
}

func parseFlags(args []string) (options, error) {
	var opts options
	var importData bool

	fs := flag.NewFlagSet("seeder", flag.ContinueOnError)
	fs.BoolVar(&importData, "import", false, "Replace all properties with generated listings (default)")
	fs.BoolVar(&opts.destroy, "destroy", false, "Delete all properties and reviews")
	fs.IntVar(&opts.count, "count", defaultListings, "Number of listings to generate")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if importData && opts.destroy {
		return options{}, errors.New("-import and -destroy are mutually exclusive")
	}
	if opts.count <= 0 {
		return options{}, errors.New("-count must be positive")
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Init(logger.Options{Development: cfg.IsDevelopment(), Level: cfg.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := config.ConnectDB(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to the database")
	}
	defer config.CloseDBConnection(client)

	st := store.New(client.Database(cfg.DBName))

	if opts.destroy {
		if err := st.DestroyListings(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to destroy data")
		}
		logger.Info().Msg("Data Destroyed!")
		return
	}

	owner, err := st.FirstUser(ctx)
	if errors.Is(err, store.ErrNotFound) {
		logger.Fatal().Msg("No users found. Please register a user first.")
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load owner")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	n, err := st.ReplaceProperties(ctx, generateProperties(rng, owner.ID, opts.count))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to import data")
	}
	logger.Info().Int("properties", n).Str("owner", owner.Email).Msg("Data Imported!")
}
