package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	registerName    string
	registerCompany string
	authEmail       string
	authPassword    string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(cmd.InOrStdin())
		name, email, password := registerName, authEmail, authPassword
		var err error
		if name == "" {
			if name, err = promptLine(cmd, reader, "Full name: "); err != nil {
				return err
			}
		}
		if email == "" {
			if email, err = promptLine(cmd, reader, "Email: "); err != nil {
				return err
			}
		}
		if password == "" {
			if password, err = promptLine(cmd, reader, "Password: "); err != nil {
				return err
			}
		}

		token, user, err := theApp.api.Register(cmd.Context(), name, email, password, registerCompany)
		if err != nil {
			return err
		}
		if token == "" {
			theApp.notify.Error("Registration succeeded but no token returned")
			return nil
		}
		if err := theApp.session.SetCredentials(token, user); err != nil {
			return err
		}
		theApp.notify.Success("Registration successful!")
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with an existing account",
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(cmd.InOrStdin())
		email, password := authEmail, authPassword
		var err error
		if email == "" {
			if email, err = promptLine(cmd, reader, "Email: "); err != nil {
				return err
			}
		}
		if password == "" {
			if password, err = promptLine(cmd, reader, "Password: "); err != nil {
				return err
			}
		}

		token, user, err := theApp.api.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		if token == "" {
			theApp.notify.Error("Login succeeded but no token returned")
			return nil
		}
		if err := theApp.session.SetCredentials(token, user); err != nil {
			return err
		}
		who := email
		if user != nil && user.Name != "" {
			who = user.Name
		}
		theApp.notify.Success("Logged in as " + who)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := theApp.session.Clear(); err != nil {
			return err
		}
		theApp.notify.Success("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !theApp.session.LoggedIn() {
			fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
			return nil
		}
		user := theApp.session.User()
		if user == nil {
			// Stored token without a user object; ask the server.
			fetched, err := theApp.api.Profile(cmd.Context())
			if err == nil {
				user = fetched
			}
		}
		out := cmd.OutOrStdout()
		if user != nil {
			fmt.Fprintf(out, "%s <%s>\n", user.Name, user.Email)
			if user.Company != "" {
				fmt.Fprintln(out, "Company:", user.Company)
			}
		} else {
			fmt.Fprintln(out, "Logged in (no profile available).")
		}
		if exp, ok := theApp.session.TokenExpiry(); ok {
			if theApp.session.Expired(time.Now()) {
				fmt.Fprintln(out, warnStyle.Render("!"), "Token expired", exp.Format(time.RFC1123), "— log in again.")
			} else {
				fmt.Fprintln(out, dimStyle.Render("Token valid until "+exp.Format(time.RFC1123)))
			}
		}
		return nil
	},
}

// promptLine reads one answer. A final line without a trailing newline still
// counts; input exhausted before any text surfaces as an error so callers
// stop prompting instead of looping on empty answers.
func promptLine(cmd *cobra.Command, reader *bufio.Reader, label string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), label)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("input closed: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// ensureLoggedIn nudges before a call that is guaranteed to 401.
func ensureLoggedIn() error {
	if !theApp.session.LoggedIn() {
		return fmt.Errorf("not logged in; run `transparency login` first")
	}
	if theApp.session.Expired(time.Now()) {
		_ = theApp.session.Clear()
		return fmt.Errorf("session expired; run `transparency login` again")
	}
	return nil
}

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "", "full name")
	registerCmd.Flags().StringVar(&registerCompany, "company", "", "company (optional)")
	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "account email")
		c.Flags().StringVar(&authPassword, "password", "", "account password")
	}
}
