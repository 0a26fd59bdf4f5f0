package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ambutrack/console/internal/models"
)

func newLoginCmd() *cobra.Command {
	var configPath, email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			if email == "" {
				return fmt.Errorf("login: --email is required")
			}
			if password == "" {
				password, err = promptPassword(cmd)
				if err != nil {
					return err
				}
			}
			sess, err := a.client.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			if err := a.store.SetSession(*sess); err != nil {
				return fmt.Errorf("login: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Logged in as %s\n", email)
			if !sess.EmailVerified {
				fmt.Fprintln(out, "Warning: email address is not verified")
			}
			if sess.IsPlatformAdmin {
				fmt.Fprintln(out, "Platform administrator privileges detected")
			}
			return nil
		},
	}
	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when omitted)")
	return cmd
}

func promptPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("login: stdin is not a terminal, pass --password instead")
	}
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("login: reading password: %w", err)
	}
	return string(raw), nil
}

func newLogoutCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session and tenant selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			if err := a.store.ClearSession(); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
	addConfigFlag(cmd, &configPath)
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var configPath string
	var req models.RegisterUserRequest
	var password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new platform account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			if req.Email == "" || req.Name == "" {
				return fmt.Errorf("register: --email and --name are required")
			}
			if password == "" {
				password, err = promptPassword(cmd)
				if err != nil {
					return err
				}
			}
			req.Password = password
			if err := a.client.Register(cmd.Context(), req); err != nil {
				return fmt.Errorf("register: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s, check your inbox to verify the address\n", req.Email)
			return nil
		},
	}
	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&req.Name, "name", "", "full name")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

func newForgotPasswordCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "forgot-password <email>",
		Short: "Start a password reset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			email := strings.TrimSpace(args[0])
			if err := a.client.ForgotPassword(cmd.Context(), email); err != nil {
				return fmt.Errorf("forgot-password: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset instructions sent to %s\n", email)
			return nil
		},
	}
	addConfigFlag(cmd, &configPath)
	return cmd
}

func newWhoamiCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			sess, err := a.store.Session()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if sess == nil {
				fmt.Fprintln(out, "Not logged in")
				return nil
			}
			if sess.UserID != "" {
				fmt.Fprintf(out, "User ID:        %s\n", sess.UserID)
			}
			fmt.Fprintf(out, "Token expires:  %s\n", sess.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
			fmt.Fprintf(out, "Email verified: %v\n", sess.EmailVerified)
			fmt.Fprintf(out, "Platform admin: %v\n", sess.IsPlatformAdmin)
			tenant, err := a.store.SelectedTenant()
			if err != nil {
				return err
			}
			if tenant == "" {
				tenant = "(none)"
			}
			fmt.Fprintf(out, "Tenant:         %s\n", tenant)
			return nil
		},
	}
	addConfigFlag(cmd, &configPath)
	return cmd
}
