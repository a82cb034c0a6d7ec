package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bookstore/internal/auth"
	"bookstore/internal/user"
)

// passwordReader reads a secret from in, without echo when in is a terminal.
type passwordReader struct {
	in  *os.File
	out io.Writer
	buf *bufio.Reader
}

func (p *passwordReader) read(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if term.IsTerminal(int(p.in.Fd())) {
		b, err := term.ReadPassword(int(p.in.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	if p.buf == nil {
		p.buf = bufio.NewReader(p.in)
	}
	line, err := p.buf.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func newUserCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var username, email string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.connect(cmd.Context()); err != nil {
				return err
			}
			pr := &passwordReader{in: os.Stdin, out: cmd.ErrOrStderr()}
			password, err := pr.read("Password: ")
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			confirm, err := pr.read("Repeat password: ")
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}

			admin := auth.SuperAdmin{Username: os.Getenv("SUPERADMIN_USERNAME")}
			if admin.Username == "" {
				admin.Username = "admin"
			}
			svc := auth.NewService(user.NewPostgresRepo(e.pool, e.db.Timeout), admin, e.logger)

			u, err := svc.Register(cmd.Context(), auth.RegisterInput{
				Username: username,
				Email:    email,
				Password: password,
			})
			if err != nil {
				if errors.Is(err, user.ErrDuplicate) {
					return fmt.Errorf("username or email already registered")
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d)\n", u.Username, u.ID)
			return nil
		},
	}
	add.Flags().StringVarP(&username, "username", "u", "", "login name")
	add.Flags().StringVarP(&email, "email", "e", "", "email address")
	_ = add.MarkFlagRequired("username")
	_ = add.MarkFlagRequired("email")

	cmd.AddCommand(add)
	return cmd
}
