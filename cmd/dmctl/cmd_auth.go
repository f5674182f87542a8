package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/janhq/dm-server/pkg/dmclient"
)

var registerCmd = &cobra.Command{
	Use:   "register <name> <email>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		password, err := passwordFlagOrPrompt(cmd, "Password: ")
		if err != nil {
			return err
		}
		confirm, _ := cmd.Flags().GetString("confirm")
		if confirm == "" {
			confirm = password
		}

		u, err := s.client.Register(cmd.Context(), dmclient.RegisterRequest{
			Name:            args[0],
			Email:           args[1],
			Password:        password,
			ConfirmPassword: confirm,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "registered %s <%s> (%s)\n", u.Name, u.Email, u.ID)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in and remember the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		password, err := passwordFlagOrPrompt(cmd, "Password: ")
		if err != nil {
			return err
		}
		u, err := s.client.Login(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		if err := s.persist(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s)\n", u.Name, u.ID)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		if err := s.client.Logout(cmd.Context()); err != nil {
			return err
		}
		s.cfg.SessionToken = ""
		if err := saveConfig(s.path, s.cfg); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "logged out")
		return nil
	},
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		u, err := s.client.Me(cmd.Context())
		if err != nil {
			return err
		}
		printUsers(cmd, []dmclient.User{*u})
		return nil
	},
}

func init() {
	registerCmd.Flags().StringP("password", "p", "", "Password (prompted when omitted)")
	registerCmd.Flags().String("confirm", "", "Password confirmation (defaults to the password)")
	loginCmd.Flags().StringP("password", "p", "", "Password (prompted when omitted)")
}

// passwordFlagOrPrompt reads --password, or one line from stdin.
func passwordFlagOrPrompt(cmd *cobra.Command, prompt string) (string, error) {
	if p, _ := cmd.Flags().GetString("password"); p != "" {
		return p, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
