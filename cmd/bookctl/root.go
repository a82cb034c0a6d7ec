package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"bookstore/internal/config"
)

type env struct {
	db     config.DB
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// connect opens the pool on first use.
func (e *env) connect(ctx context.Context) error {
	if e.pool != nil {
		return nil
	}
	db, err := config.LoadDB()
	if err != nil {
		return err
	}
	pool, err := pgxpool.New(ctx, db.DSN())
	if err != nil {
		return fmt.Errorf("cannot create db pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("cannot ping database (%s): %w", db.Redacted(), err)
	}
	e.db = db
	e.pool = pool
	return nil
}

func (e *env) close() {
	if e.pool != nil {
		e.pool.Close()
	}
}

func newRootCmd() *cobra.Command {
	e := &env{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	root := &cobra.Command{
		Use:           "bookctl",
		Short:         "Operate the bookstore database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				e.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			e.close()
		},
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "log progress to stderr")

	root.AddCommand(newSeedCmd(e), newUserCmd(e), newStatsCmd(e))
	return root
}
