package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ambutrack/console/internal/models"
)

func newRequestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Inspect transport requests",
	}
	cmd.AddCommand(newRequestsGetCmd())
	cmd.AddCommand(newRequestsListCmd())
	return cmd
}

func newRequestsGetCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one transport request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			r, err := a.client.RequestByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printRequest(cmd, r)
			return nil
		},
	}
	addConfigFlag(cmd, &configPath)
	return cmd
}

func printRequest(cmd *cobra.Command, r *models.Request) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:          %s\n", r.ID)
	fmt.Fprintf(out, "Type:        %s\n", r.AboutOccurrence.Type)
	fmt.Fprintf(out, "Status:      %s\n", r.Status)
	if r.AboutOccurrence.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", r.AboutOccurrence.Description)
	}
	if r.Patient != nil {
		fmt.Fprintf(out, "Patient:     %s\n", r.Patient.Name)
	}
	fmt.Fprintf(out, "Pickup:      %s\n", r.Pickup.Address)
	if r.Scheduling != nil {
		fmt.Fprintf(out, "Scheduled:   %s\n", r.Scheduling.DateTime.Format(time.RFC1123))
		if r.Scheduling.Destination != nil {
			fmt.Fprintf(out, "Destination: %s\n", r.Scheduling.Destination.Address)
		}
	}
	fmt.Fprintf(out, "Created:     %s\n", r.CreatedAt.Format(time.RFC1123))
}

func newRequestsListCmd() *cobra.Command {
	var configPath, userID string
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's transport requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			if userID == "" {
				sess, err := a.store.Session()
				if err != nil {
					return err
				}
				if sess == nil || sess.UserID == "" {
					return fmt.Errorf("requests list: --user is required when no session user is known")
				}
				userID = sess.UserID
			}
			res, err := a.client.RequestsByUser(cmd.Context(), userID, page, pageSize)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTYPE\tSTATUS\tPICKUP\tCREATED")
			for _, r := range res.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.AboutOccurrence.Type, r.Status, r.Pickup.Address,
					r.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&userID, "user", "", "user id (defaults to the logged-in user)")
	addPageFlags(cmd, &page, &pageSize)
	return cmd
}
