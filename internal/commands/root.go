// Package commands implements the bikectl subcommands
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bikerental/tracker/internal/apperr"
	"bikerental/tracker/internal/models"
	"bikerental/tracker/internal/models/dtos/responses"
	"bikerental/tracker/internal/store"
)

// BikeService is the subset of the record store the CLI drives.
type BikeService interface {
	ListAll(ctx context.Context) responses.Result[models.BikeListing]
	GetByID(ctx context.Context, id int) responses.Result[*models.Bike]
	Count(ctx context.Context) responses.Result[int]
	Toggle(ctx context.Context, req store.ToggleRequest) responses.Result[models.Transition]
	SetStatus(ctx context.Context, id int, status string, user string) responses.Result[models.Transition]
}

// Opener builds the store on demand, so --help never needs credentials.
// The returned func releases its resources.
type Opener func() (BikeService, func() error, error)

type env struct {
	open    Opener
	jsonOut bool
	bikes   BikeService
	closeFn func() error
}

func (e *env) service() (BikeService, error) {
	if e.bikes != nil {
		return e.bikes, nil
	}
	svc, closeFn, err := e.open()
	if err != nil {
		return nil, fmt.Errorf("failed to open bike store: %w", err)
	}
	e.bikes, e.closeFn = svc, closeFn
	return svc, nil
}

func (e *env) close() error {
	if e.closeFn == nil {
		return nil
	}
	return e.closeFn()
}

// NewRootCommand assembles bikectl
func NewRootCommand(open Opener) *cobra.Command {
	e := &env{open: open}

	rootCmd := &cobra.Command{
		Use:   "bikectl",
		Short: "Inspect and update the bike rental spreadsheet",
		Long: `bikectl reads and updates the bikes sheet of the rental spreadsheet.

Every status change appends a row to the logs sheet, exactly as the web form does.

Examples:
  bikectl list
  bikectl checkout 12 "Sam Smith"
  bikectl return 12
  bikectl toggle 12 --current Inactive --user "Sam Smith"`,
		SilenceUsage: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return e.close()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&e.jsonOut, "json", false, "print results as JSON")

	rootCmd.AddCommand(newListCommand(e))
	rootCmd.AddCommand(newGetCommand(e))
	rootCmd.AddCommand(newCountCommand(e))
	rootCmd.AddCommand(newToggleCommand(e))
	rootCmd.AddCommand(newCheckoutCommand(e))
	rootCmd.AddCommand(newReturnCommand(e))

	return rootCmd
}

// resultError turns a failed envelope into a command error that still
// unwraps to the store fault.
func resultError(op string, err *apperr.Error) error {
	return &opError{op: op, err: err}
}

type opError struct {
	op  string
	err *apperr.Error
}

func (e *opError) Error() string {
	return fmt.Sprintf("%s failed [%s]: %s", e.op, e.err.Kind, e.err.Message)
}

func (e *opError) Unwrap() error {
	return e.err
}

// Process exit codes, one per fault kind.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitValidation  = 2
	ExitNotFound    = 3
	ExitUnavailable = 4
	ExitMisconfig   = 5
)

// ExitCode picks the process exit status for an error returned by Execute.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	kind, ok := apperr.KindOf(err)
	if !ok {
		return ExitFailure
	}
	switch kind {
	case apperr.KindValidation:
		return ExitValidation
	case apperr.KindNotFound:
		return ExitNotFound
	case apperr.KindRemoteUnavailable:
		return ExitUnavailable
	case apperr.KindConfiguration, apperr.KindCredentials:
		return ExitMisconfig
	default:
		return ExitFailure
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
