package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ambutrack/console/internal/dispatch"
	"github.com/ambutrack/console/internal/models"
)

func newAssignCmd() *cobra.Command {
	var configPath, priorityFlag string
	cmd := &cobra.Command{
		Use:   "assign <request-id> <driver-shift-id>",
		Short: "Assign a pending request to an on-shift driver",
		Long: "Assign submits the occurrence assignment to the backend, which is the\n" +
			"sole arbiter of whether the request is still assignable and the shift\n" +
			"still free. On rejection the backend's error is printed verbatim.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			priority, err := models.ParsePriority(priorityFlag)
			if err != nil {
				return fmt.Errorf("assign: %w", err)
			}
			wf, err := dispatch.New(a.client, nil)
			if err != nil {
				return err
			}
			if err := wf.Assign(cmd.Context(), args[0], args[1], priority); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Request %s assigned to shift %s at priority %s\n",
				args[0], args[1], priority)
			return nil
		},
	}
	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&priorityFlag, "priority", string(models.PriorityMedium),
		"assignment priority (VeryHigh, High, Medium, Low, VeryLow)")
	return cmd
}

func newTripCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trip",
		Short: "Advance an assigned request through its trip legs",
	}
	cmd.AddCommand(newTripStepCmd("en-route-patient", "Mark the vehicle as en route to the pickup",
		func(wf *dispatch.Workflow) tripStep { return wf.EnRouteToPatient }))
	cmd.AddCommand(newTripStepCmd("en-route-destination", "Mark the trip as under way to the destination",
		func(wf *dispatch.Workflow) tripStep { return wf.EnRouteToDestination }))
	cmd.AddCommand(newTripStepCmd("complete", "Close out the trip",
		func(wf *dispatch.Workflow) tripStep { return wf.CompleteTrip }))
	return cmd
}

type tripStep = func(ctx context.Context, requestID string) error

func newTripStepCmd(use, short string, step func(*dispatch.Workflow) tripStep) *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   use + " <request-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			wf, err := dispatch.New(a.client, nil)
			if err != nil {
				return err
			}
			if err := step(wf)(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Request %s: %s\n", args[0], use)
			return nil
		},
	}
	addConfigFlag(cmd, &configPath)
	return cmd
}
