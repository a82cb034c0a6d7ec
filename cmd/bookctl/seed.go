package main

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"
)

var seedColumns = []string{
	"title", "author_name", "category", "genre", "publisher", "publication_year",
	"language", "isbn", "price", "rating", "page_count", "cover_type",
	"stock_quantity", "synopsis",
}

var (
	seedCategories = []string{"Fiction", "Science Fiction", "History", "Science", "Technology", "Romance", "Mystery", "Biography", "Philosophy", "Art"}
	seedGenres     = []string{"Adventure", "Drama", "Thriller", "Classic", "Essay", "Poetry", "Humor"}
	seedLanguages  = []string{"English", "Spanish", "French", "German", "Italian", "Portuguese", "Japanese"}
	seedPublishers = []string{"Penguin", "HarperCollins", "Oxford", "Cambridge", "MIT Press", "Springer", "Wiley"}
	seedCovers     = []string{"Hardcover", "Paperback"}
	seedWords      = []string{"Journey", "Discovery", "Mystery", "Adventure", "Legacy", "Destiny", "Quest", "Secrets", "Chronicles", "Tales"}
	seedAuthors    = []string{"A. Rivera", "B. Okafor", "C. Lindqvist", "D. Tanaka", "E. Moreau", "F. Novak"}
)

func pick(rng *rand.Rand, from []string) string {
	return from[rng.Intn(len(from))]
}

// seedRows generates n rows in seedColumns order.
func seedRows(n int, rng *rand.Rand) [][]any {
	rows := make([][]any, n)
	for i := range rows {
		categories := pick(rng, seedCategories)
		if rng.Intn(3) == 0 {
			categories += ", " + pick(rng, seedCategories)
		}
		word := pick(rng, seedWords)
		rows[i] = []any{
			fmt.Sprintf("%s %d", word, i+1),
			pick(rng, seedAuthors),
			categories,
			pick(rng, seedGenres),
			pick(rng, seedPublishers),
			1950 + rng.Intn(75),
			pick(rng, seedLanguages),
			fmt.Sprintf("978%010d", rng.Int63n(1e10)),
			math.Round((5+rng.Float64()*45)*100) / 100,
			math.Round(rng.Float64()*500) / 100,
			80 + rng.Intn(900),
			pick(rng, seedCovers),
			rng.Intn(50),
			fmt.Sprintf("A book about **%s**.", strings.ToLower(word)),
		}
	}
	return rows
}

func newSeedCmd(e *env) *cobra.Command {
	var (
		count int
		seed  int64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert generated demo books",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be positive")
			}
			if err := e.connect(cmd.Context()); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(seed))
			rows := seedRows(count, rng)

			start := time.Now()
			n, err := e.pool.CopyFrom(cmd.Context(), pgx.Identifier{"books"}, seedColumns, pgx.CopyFromRows(rows))
			if err != nil {
				return fmt.Errorf("copy books: %w", err)
			}
			e.logger.Info("seeded books", "rows", n, "duration", time.Since(start))
			fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d books\n", n)
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 100, "number of books to insert")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	return cmd
}
