package commands

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"bikerental/tracker/internal/models"
	"bikerental/tracker/internal/models/dtos/responses"
)

type transitionResult = responses.Result[models.Transition]

func runTransition(cmd *cobra.Command, e *env, op string, do func(BikeService) transitionResult) error {
	svc, err := e.service()
	if err != nil {
		return err
	}
	res := do(svc)
	if !res.Success {
		return resultError(op, res.Error)
	}

	out := cmd.OutOrStdout()
	if e.jsonOut {
		return writeJSON(out, res.Data)
	}
	printTransition(out, res.Data)
	return nil
}

func printBikes(w io.Writer, bikes []models.Bike) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tBRAND\tUSER")
	for _, b := range bikes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", b.ID, b.Status, b.Brand, b.User)
	}
	_ = tw.Flush()
}

func printTransition(w io.Writer, t models.Transition) {
	switch t.Action {
	case models.ActionAdded:
		fmt.Fprintf(w, "Bike %d (%s) checked out to %s\n", t.BikeID, t.Brand, t.User)
	default:
		fmt.Fprintf(w, "Bike %d (%s) returned by %s\n", t.BikeID, t.Brand, t.PreviousUser)
	}
	if !t.Logged {
		fmt.Fprintln(w, "warning: the audit log row could not be written")
	}
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid bike id %q: must be a positive integer", arg)
	}
	return id, nil
}
