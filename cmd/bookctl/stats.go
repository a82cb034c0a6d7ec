package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookstore/internal/book"
	"bookstore/internal/user"
)

func newStatsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print book and user counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.connect(cmd.Context()); err != nil {
				return err
			}
			books, err := book.NewPostgresRepo(e.pool, e.db.Timeout).Count(cmd.Context())
			if err != nil {
				return err
			}
			users, err := user.NewPostgresRepo(e.pool, e.db.Timeout).Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "books: %d\nusers: %d\n", books, users)
			return nil
		},
	}
}
