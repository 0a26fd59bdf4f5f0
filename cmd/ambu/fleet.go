package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ambutrack/console/internal/models"
)

func newFleetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fleet",
		Short: "Manage the active tenant's bases and vehicles",
	}
	cmd.AddCommand(newFleetBasesCmd())
	cmd.AddCommand(newFleetVehiclesCmd())
	return cmd
}

func newFleetBasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bases",
		Short: "Manage dispatch bases",
	}
	cmd.AddCommand(newBasesListCmd())
	cmd.AddCommand(newBasesCreateCmd())
	cmd.AddCommand(newBasesDeleteCmd())
	return cmd
}

func newBasesListCmd() *cobra.Command {
	var configPath string
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dispatch bases",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			res, err := a.client.Bases(cmd.Context(), page, pageSize)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tADDRESS")
			for _, b := range res.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, b.Name, b.Type, b.Location.Address)
			}
			return w.Flush()
		},
	}
	addConfigFlag(cmd, &configPath)
	addPageFlags(cmd, &page, &pageSize)
	return cmd
}

func newBasesCreateCmd() *cobra.Command {
	var configPath, name, baseType, address string
	var lat, lng float64
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a dispatch base",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			if name == "" || address == "" {
				return fmt.Errorf("bases create: --name and --address are required")
			}
			req := models.RegisterBaseRequest{
				Name: name,
				Type: models.BaseType(baseType),
				Location: models.Location{
					Coordinate: models.GeoCoordinate{Latitude: lat, Longitude: lng},
					Address:    address,
				},
			}
			if err := a.client.CreateBase(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Base %s created\n", name)
			return nil
		},
	}
	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&name, "name", "", "base name")
	cmd.Flags().StringVar(&baseType, "type", string(models.BaseStation), "base type (Hospital, Clinic, Station)")
	cmd.Flags().StringVar(&address, "address", "", "street address")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude")
	return cmd
}

func newBasesDeleteCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a dispatch base",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			if err := a.client.DeleteBase(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Base %s deleted\n", args[0])
			return nil
		},
	}
	addConfigFlag(cmd, &configPath)
	return cmd
}

func newFleetVehiclesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vehicles",
		Short: "Manage fleet vehicles",
	}
	cmd.AddCommand(newVehiclesListCmd())
	cmd.AddCommand(newVehiclesCreateCmd())
	cmd.AddCommand(newVehiclesAssignCmd())
	cmd.AddCommand(newVehiclesUnassignCmd())
	return cmd
}

func newVehiclesListCmd() *cobra.Command {
	var configPath string
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List fleet vehicles",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			res, err := a.client.Vehicles(cmd.Context(), page, pageSize)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PLATE\tTYPE\tBASE\tDESCRIPTION")
			for _, v := range res.Items {
				base := "-"
				if v.Base != nil {
					base = v.Base.Name
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.Plate, v.Type, base, v.Description)
			}
			return w.Flush()
		},
	}
	addConfigFlag(cmd, &configPath)
	addPageFlags(cmd, &page, &pageSize)
	return cmd
}

func newVehiclesCreateCmd() *cobra.Command {
	var configPath string
	var req models.RegisterVehicleRequest
	var vehicleType string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a vehicle to the fleet",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			if req.Plate == "" {
				return fmt.Errorf("vehicles create: --plate is required")
			}
			req.Type = models.VehicleType(vehicleType)
			if err := a.client.CreateVehicle(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Vehicle %s created\n", req.Plate)
			return nil
		},
	}
	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&req.Plate, "plate", "", "license plate")
	cmd.Flags().StringVar(&vehicleType, "type", string(models.VehicleBasicAmbulance),
		"vehicle type (BasicAmbulance, AdvancedAmbulance, Transport)")
	cmd.Flags().StringVar(&req.Description, "description", "", "free-form description")
	cmd.Flags().StringVar(&req.BaseID, "base", "", "home base id")
	return cmd
}

func newVehiclesAssignCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "assign <plate> <driver-id>",
		Short: "Pair a driver with a vehicle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			if err := a.client.AssignDriver(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Driver %s assigned to %s\n", args[1], args[0])
			return nil
		},
	}
	addConfigFlag(cmd, &configPath)
	return cmd
}

func newVehiclesUnassignCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "unassign <assignment-id>",
		Short: "End a vehicle assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			if err := a.client.UnassignDriver(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assignment %s ended\n", args[0])
			return nil
		},
	}
	addConfigFlag(cmd, &configPath)
	return cmd
}
