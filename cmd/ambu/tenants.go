package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ambutrack/console/internal/models"
)

func newTenantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenants",
		Short: "Inspect and select tenants",
	}
	cmd.AddCommand(newTenantsMineCmd())
	cmd.AddCommand(newTenantsListCmd())
	cmd.AddCommand(newTenantsSelectCmd())
	cmd.AddCommand(newTenantsCurrentCmd())
	cmd.AddCommand(newTenantsCreateCmd())
	cmd.AddCommand(newTenantsUsersCmd())
	cmd.AddCommand(newTenantsInviteCmd())
	cmd.AddCommand(newTenantsNotifyCmd())
	return cmd
}

func newTenantsMineCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List the tenants you belong to",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			tenants, err := a.client.MyTenants(cmd.Context())
			if err != nil {
				return err
			}
			if len(tenants) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tenant memberships")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tNAME\tROLE")
			for _, t := range tenants {
				fmt.Fprintf(w, "%s\t%s\t%s\n", t.Key, t.Name, t.Role)
			}
			return w.Flush()
		},
	}
	addConfigFlag(cmd, &configPath)
	return cmd
}

func newTenantsListCmd() *cobra.Command {
	var configPath string
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all tenants on the platform (admins only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			res, err := a.client.Tenants(cmd.Context(), page, pageSize)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tNAME\tSTATUS\tCREATED")
			for _, t := range res.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Key, t.Name, t.Status, t.CreatedAt.Format("2006-01-02"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Page %d of %d total\n", res.Page, res.TotalCount)
			return nil
		},
	}
	addConfigFlag(cmd, &configPath)
	addPageFlags(cmd, &page, &pageSize)
	return cmd
}

func newTenantsSelectCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "select <key>",
		Short: "Set the active tenant for subsequent commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			key := args[0]

			// Platform admins may select any tenant; everyone else is
			// limited to their memberships.
			sess, err := a.store.Session()
			if err != nil {
				return err
			}
			if sess == nil {
				return fmt.Errorf("not logged in, run `ambu login` first")
			}
			if !sess.IsPlatformAdmin {
				tenants, err := a.client.MyTenants(cmd.Context())
				if err != nil {
					return err
				}
				if !memberOf(tenants, key) {
					return fmt.Errorf("you are not a member of tenant %q", key)
				}
			}

			if err := a.store.SetSelectedTenant(key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Active tenant set to %s\n", key)
			return nil
		},
	}
	addConfigFlag(cmd, &configPath)
	return cmd
}

func memberOf(tenants []models.MyTenant, key string) bool {
	for _, t := range tenants {
		if t.Key == key {
			return true
		}
	}
	return false
}

func newTenantsCurrentCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "current",
		Short: "Show the active tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			key, err := a.store.SelectedTenant()
			if err != nil {
				return err
			}
			if key == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No tenant selected")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
	addConfigFlag(cmd, &configPath)
	return cmd
}

func newTenantsCreateCmd() *cobra.Command {
	var configPath string
	var req models.RegisterTenantRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Provision a new tenant (admins only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			if req.Key == "" || req.Name == "" || req.AdminEmail == "" {
				return fmt.Errorf("tenants create: --key, --name and --admin-email are required")
			}
			if err := a.client.CreateTenant(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tenant %s created\n", req.Key)
			return nil
		},
	}
	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&req.Key, "key", "", "unique tenant key")
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.AdminEmail, "admin-email", "", "email of the tenant's first admin")
	return cmd
}

func newTenantsUsersCmd() *cobra.Command {
	var configPath string
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List members of the active tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			res, err := a.client.TenantUsers(cmd.Context(), page, pageSize)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tEMAIL\tROLE")
			for _, u := range res.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\n", u.Name, u.Email, u.Role)
			}
			return w.Flush()
		},
	}
	addConfigFlag(cmd, &configPath)
	addPageFlags(cmd, &page, &pageSize)
	return cmd
}

func newTenantsInviteCmd() *cobra.Command {
	var configPath, role string
	cmd := &cobra.Command{
		Use:   "invite <email>",
		Short: "Invite a user into the active tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			req := models.AddTenantUserRequest{Email: args[0], Role: models.TenantRole(role)}
			if err := a.client.AddTenantUser(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Invited %s as %s\n", args[0], role)
			return nil
		},
	}
	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&role, "role", string(models.RoleDispatcher), "tenant role (Admin, Dispatcher, Driver)")
	return cmd
}

func newTenantsNotifyCmd() *cobra.Command {
	var configPath string
	var req models.SendNotificationRequest
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Push an announcement to the active tenant's members",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			if req.Title == "" || req.Message == "" {
				return fmt.Errorf("tenants notify: --title and --message are required")
			}
			if err := a.client.SendNotification(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Notification sent")
			return nil
		},
	}
	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&req.Title, "title", "", "notification title")
	cmd.Flags().StringVar(&req.Message, "message", "", "notification body")
	cmd.Flags().StringVar(&req.TenantUserID, "user", "", "target a single tenant user id instead of everyone")
	return cmd
}
