package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	api "ordering/internal/adapters/in/http"
	"ordering/internal/client/remote"

	"github.com/spf13/cobra"
)

// NewTrackCommand creates the track command, which starts following an
// order placed elsewhere.
func NewTrackCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "track <order-id>",
		Short: "Start following an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			o, err := s.client.GetOrder(ctx, args[0])
			if errors.Is(err, remote.ErrNotFound) {
				return WrapExitError(ExitFailure, fmt.Sprintf("order %s not found", args[0]), err)
			}
			if err != nil {
				return WrapExitError(ExitFailure, "fetch order", err)
			}
			if o.Status == "declined" {
				return NewExitError(ExitFailure, fmt.Sprintf("order %s was declined", o.ID))
			}

			if err = s.orders.Track(ctx, o); err != nil {
				return WrapExitError(ExitFailure, "save tracked order", err)
			}
			return printer{format: rootOpts.Format, w: cmd.OutOrStdout()}.order(o)
		},
	}
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show tracked orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			return printer{format: rootOpts.Format, w: cmd.OutOrStdout()}.orders(s.orders.Active())
		},
	}
}

// NewDismissCommand creates the dismiss command.
func NewDismissCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss <order-id>",
		Short: "Stop following an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			removed, err := s.orders.Dismiss(ctx, args[0])
			if err != nil {
				return WrapExitError(ExitFailure, "save tracked orders", err)
			}
			if !removed {
				return NewExitError(ExitFailure, fmt.Sprintf("order %s is not tracked", args[0]))
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "dismissed %s\n", args[0])
			return err
		},
	}
}

// NewPlaceCommand creates the place command, which submits a table order
// from a JSON cart file and tracks the result.
func NewPlaceCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "place <cart.json>",
		Short: "Place a table order and track it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readCart(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			s, err := openSession(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			placed, err := s.client.PlaceTableOrder(ctx, req)
			if err != nil {
				return WrapExitError(ExitFailure, "place order", err)
			}
			if err = s.orders.Track(ctx, placed); err != nil {
				return WrapExitError(ExitFailure, "save tracked order", err)
			}
			return printer{format: rootOpts.Format, w: cmd.OutOrStdout()}.order(placed)
		},
	}
}

func readCart(path string) (api.TableOrderRequest, error) {
	var req api.TableOrderRequest

	f, err := os.Open(path)
	if err != nil {
		return req, WrapExitError(ExitCommandError, "open cart file", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err = dec.Decode(&req); err != nil {
		return req, WrapExitError(ExitCommandError, "decode cart file", err)
	}
	if req.TableID == "" || len(req.Lines) == 0 {
		return req, NewExitError(ExitCommandError, "cart needs a tableId and at least one line")
	}
	return req, nil
}
