package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ambutrack/console/internal/models"
)

func newDriversCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drivers",
		Short: "Inspect the active tenant's drivers",
	}
	cmd.AddCommand(newDriversAvailableCmd())
	cmd.AddCommand(newDriversListCmd())
	return cmd
}

func newDriversAvailableCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "available",
		Short: "List drivers currently on shift",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			drivers, err := a.client.AvailableDrivers(cmd.Context())
			if err != nil {
				return err
			}
			if len(drivers) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No drivers on shift")
				return nil
			}
			return printDrivers(cmd, drivers)
		},
	}
	addConfigFlag(cmd, &configPath)
	return cmd
}

func newDriversListCmd() *cobra.Command {
	var configPath string
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all of the tenant's drivers",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			res, err := a.client.Drivers(cmd.Context(), page, pageSize)
			if err != nil {
				return err
			}
			return printDrivers(cmd, res.Items)
		},
	}
	addConfigFlag(cmd, &configPath)
	addPageFlags(cmd, &page, &pageSize)
	return cmd
}

func printDrivers(cmd *cobra.Command, drivers []models.DriverStatus) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tONLINE\tSHIFT\tVEHICLE\tLAST SEEN")
	for _, d := range drivers {
		shift, plate, seen := "-", "-", "-"
		if d.ActiveShift != nil {
			shift = d.ActiveShift.DriverShiftID
			if d.ActiveShift.Vehicle != nil {
				plate = d.ActiveShift.Vehicle.Plate
			}
			if d.ActiveShift.CurrentLocation != nil {
				seen = d.ActiveShift.CurrentLocation.Timestamp.Format("15:04:05")
			}
		}
		fmt.Fprintf(w, "%s\t%v\t%s\t%s\t%s\n", d.Name, d.IsOnline, shift, plate, seen)
	}
	return w.Flush()
}
