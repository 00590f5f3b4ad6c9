package cli

import (
	"strconv"

	"github.com/juju/errors"
	"github.com/spf13/cobra"

	"notifyd/internal/client"
)

func (st *state) newClient() (*client.Client, error) {
	return client.New(st.registry, nil)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.NotValidf("record id %q", s)
	}
	return id, nil
}

// clientRunE adapts a client call that returns a printable value.
func clientRunE(st *state, fn func(cmd *cobra.Command, c *client.Client, args []string) (any, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := st.newClient()
		if err != nil {
			return err
		}
		v, err := fn(cmd, c, args)
		if err != nil {
			return err
		}
		if v == nil {
			return nil
		}
		return printJSON(cmd.OutOrStdout(), v)
	}
}

func subscribeCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:     "subscribe <id> <webhook-url>",
		Short:   "Register an observer with the registry",
		Example: "  notifyd subscribe caller-app-1 http://localhost:3001/webhook",
		Args:    cobra.ExactArgs(2),
		RunE: clientRunE(st, func(cmd *cobra.Command, c *client.Client, args []string) (any, error) {
			return c.Subscribe(cmd.Context(), args[0], args[1])
		}),
	}
}

func unsubscribeCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "unsubscribe <id>",
		Short: "Remove an observer",
		Args:  cobra.ExactArgs(1),
		RunE: clientRunE(st, func(cmd *cobra.Command, c *client.Client, args []string) (any, error) {
			return nil, c.Unsubscribe(cmd.Context(), args[0])
		}),
	}
}

func observersCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "observers",
		Short: "List registered observers",
		Args:  cobra.NoArgs,
		RunE: clientRunE(st, func(cmd *cobra.Command, c *client.Client, args []string) (any, error) {
			return c.ListObservers(cmd.Context())
		}),
	}
}

func statusCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show registry counters",
		Args:  cobra.NoArgs,
		RunE: clientRunE(st, func(cmd *cobra.Command, c *client.Client, args []string) (any, error) {
			return c.Status(cmd.Context())
		}),
	}
}

func deliveriesCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "deliveries",
		Short: "Show recent webhook delivery outcomes",
		Args:  cobra.NoArgs,
		RunE: clientRunE(st, func(cmd *cobra.Command, c *client.Client, args []string) (any, error) {
			return c.Deliveries(cmd.Context())
		}),
	}
}

func dataCmd(st *state) *cobra.Command {
	data := &cobra.Command{Use: "data", Short: "Manage records", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		return errors.New("data requires a subcommand: list|get|add|update|delete")
	}}
	data.AddCommand(
		&cobra.Command{Use: "list", Short: "List records", Args: cobra.NoArgs, RunE: clientRunE(st, func(cmd *cobra.Command, c *client.Client, args []string) (any, error) {
			return c.ListRecords(cmd.Context())
		})},
		&cobra.Command{Use: "get <id>", Short: "Show one record", Args: cobra.ExactArgs(1), RunE: clientRunE(st, func(cmd *cobra.Command, c *client.Client, args []string) (any, error) {
			id, err := parseID(args[0])
			if err != nil {
				return nil, err
			}
			return c.GetRecord(cmd.Context(), id)
		})},
		&cobra.Command{Use: "add <name> <value>", Short: "Add a record", Args: cobra.ExactArgs(2), RunE: clientRunE(st, func(cmd *cobra.Command, c *client.Client, args []string) (any, error) {
			return c.AddRecord(cmd.Context(), args[0], args[1])
		})},
		&cobra.Command{Use: "update <id> <name> <value>", Short: "Update a record", Args: cobra.ExactArgs(3), RunE: clientRunE(st, func(cmd *cobra.Command, c *client.Client, args []string) (any, error) {
			id, err := parseID(args[0])
			if err != nil {
				return nil, err
			}
			return c.UpdateRecord(cmd.Context(), id, args[1], args[2])
		})},
		&cobra.Command{Use: "delete <id>", Short: "Delete a record", Args: cobra.ExactArgs(1), RunE: clientRunE(st, func(cmd *cobra.Command, c *client.Client, args []string) (any, error) {
			id, err := parseID(args[0])
			if err != nil {
				return nil, err
			}
			return nil, c.DeleteRecord(cmd.Context(), id)
		})},
	)
	return data
}
