package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"bikerental/tracker/internal/models"
	"bikerental/tracker/internal/store"
)

func newListCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every bike in sheet order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			res := svc.ListAll(cmd.Context())
			if !res.Success {
				return resultError("list", res.Error)
			}

			out := cmd.OutOrStdout()
			if e.jsonOut {
				return writeJSON(out, res.Data)
			}
			printBikes(out, res.Data.Bikes)
			for _, sk := range res.Data.Skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped row %d: %s\n", sk.Row, sk.Reason)
			}
			for _, w := range res.Data.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning row %d: %s\n", w.Row, w.Reason)
			}
			return nil
		},
	}
}

func newGetCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one bike",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := e.service()
			if err != nil {
				return err
			}
			res := svc.GetByID(cmd.Context(), id)
			if !res.Success {
				return resultError("get", res.Error)
			}
			if res.Data == nil {
				return fmt.Errorf("Bike with ID %d not found", id)
			}

			out := cmd.OutOrStdout()
			if e.jsonOut {
				return writeJSON(out, res.Data)
			}
			printBikes(out, []models.Bike{*res.Data})
			return nil
		},
	}
}

func newCountCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Count data rows in the bikes sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			res := svc.Count(cmd.Context())
			if !res.Success {
				return resultError("count", res.Error)
			}

			out := cmd.OutOrStdout()
			if e.jsonOut {
				return writeJSON(out, map[string]int{"count": res.Data})
			}
			fmt.Fprintln(out, res.Data)
			return nil
		},
	}
}

// newToggleCommand mirrors the web form: pass the status the bike had when
// you looked at it.
func newToggleCommand(e *env) *cobra.Command {
	var current, user string

	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a bike between Active and Inactive",
		Long: `Flip a bike based on the status you last saw.

--current Active returns the bike and clears its user.
--current Inactive checks the bike out and requires --user.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runTransition(cmd, e, "toggle", func(svc BikeService) transitionResult {
				return svc.Toggle(cmd.Context(), store.ToggleRequest{ID: id, CurrentStatus: current, UserName: user})
			})
		},
	}

	cmd.Flags().StringVarP(&current, "current", "c", "", "status the bike currently has (Active or Inactive)")
	cmd.Flags().StringVarP(&user, "user", "u", "", "rider name when checking a bike out")
	_ = cmd.MarkFlagRequired("current")

	return cmd
}

func newCheckoutCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <id> <user>",
		Short: "Mark a bike Active for a rider",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runTransition(cmd, e, "checkout", func(svc BikeService) transitionResult {
				return svc.SetStatus(cmd.Context(), id, string(models.StatusActive), args[1])
			})
		},
	}
}

func newReturnCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "return <id>",
		Short: "Mark a bike Inactive and clear its rider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runTransition(cmd, e, "return", func(svc BikeService) transitionResult {
				return svc.SetStatus(cmd.Context(), id, string(models.StatusInactive), "")
			})
		},
	}
}
