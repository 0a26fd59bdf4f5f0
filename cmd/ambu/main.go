package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ambu",
		Short: "Ambutrack Console for dispatch operations",
		Long:  "Ambutrack Console manages sessions, tenants, drivers and the live occurrence feed of the Ambutrack patient-transport platform.",
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newRegisterCmd())
	cmd.AddCommand(newForgotPasswordCmd())
	cmd.AddCommand(newWhoamiCmd())
	cmd.AddCommand(newTenantsCmd())
	cmd.AddCommand(newDriversCmd())
	cmd.AddCommand(newFleetCmd())
	cmd.AddCommand(newRequestsCmd())
	cmd.AddCommand(newAssignCmd())
	cmd.AddCommand(newTripCmd())
	cmd.AddCommand(newWatchCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ambu %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
