// Package main provides a tool to seed the wishlist database with sample data.
//
// Useful for exercising the web UI against a populated list during development.
//
// Usage:
//
//	DATA_PATH=~/Wishlist/data go run ./cmd/seed
//	DATA_PATH=~/Wishlist/data go run ./cmd/seed --count 50
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/wishlistapp/wishlist-server/internal/service"
	"github.com/wishlistapp/wishlist-server/internal/store/sqlite"
)

var count = flag.Int("count", 20, "Number of books to create")

var sampleBooks = []struct {
	title  string
	author string
	tags   []string
}{
	{"Project Hail Mary", "Andy Weir", []string{"sci-fi", "next"}},
	{"The Name of the Wind", "Patrick Rothfuss", []string{"fantasy"}},
	{"Dune", "Frank Herbert", []string{"sci-fi", "classic"}},
	{"Piranesi", "Susanna Clarke", []string{"fantasy", "literary"}},
	{"The Martian", "Andy Weir", []string{"sci-fi"}},
	{"Hyperion", "Dan Simmons", []string{"sci-fi", "classic"}},
	{"The Fifth Season", "N. K. Jemisin", []string{"fantasy"}},
	{"Children of Time", "Adrian Tchaikovsky", []string{"sci-fi"}},
	{"The Eye of the World", "Robert Jordan", []string{"fantasy", "epic"}},
	{"A Memory Called Empire", "Arkady Martine", []string{"sci-fi"}},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("resolve home dir: %v", err)
		}
		dataPath = filepath.Join(home, "Wishlist", "data")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	st, err := sqlite.Open(filepath.Join(dataPath, "wishlist.db"), logger)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer st.Close()

	books := service.NewBookService(st, nil, logger)
	ctx := context.Background()

	created := 0
	for i := 0; i < *count; i++ {
		sample := sampleBooks[i%len(sampleBooks)]

		title := sample.title
		if i >= len(sampleBooks) {
			// Suffix repeats so titles stay unique in the UI.
			title = fmt.Sprintf("%s (%d)", sample.title, i/len(sampleBooks)+1)
		}

		input := service.CreateBookInput{
			Title:  title,
			Author: sample.author,
			Tags:   sample.tags,
		}
		if rand.Intn(2) == 0 {
			rating := float64(rand.Intn(9)+2) / 2.0
			input.NarratorRating = &rating
		}

		if _, err := books.Create(ctx, input); err != nil {
			log.Printf("create %q: %v", title, err)
			continue
		}
		created++
	}

	fmt.Printf("Seeded %d books into %s\n", created, dataPath)
}
