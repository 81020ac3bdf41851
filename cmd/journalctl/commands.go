package main

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/dogmatiq/filejournal/journal"
	"github.com/spf13/cobra"
)

func newListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List the names of all journals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := opts.store.Journals(cmd.Context())
			if err != nil {
				return err
			}

			sort.Strings(names)

			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}

			return nil
		},
	}
}

func newCatCommand(opts *rootOptions) *cobra.Command {
	var asHex bool

	cmd := &cobra.Command{
		Use:   "cat NAME",
		Short: "Print the records in a journal, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := opts.store.Read(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			for _, rec := range records {
				if asHex {
					fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(rec))
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), string(rec))
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asHex, "hex", false, "print records as hexadecimal")

	return cmd
}

func newAppendCommand(opts *rootOptions) *cobra.Command {
	var fromHex bool

	cmd := &cobra.Command{
		Use:   "append NAME RECORD...",
		Short: "Append records to a journal",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := journal.NewMutation(args[0])

			for _, arg := range args[1:] {
				rec := []byte(arg)

				if fromHex {
					var err error
					rec, err = hex.DecodeString(arg)
					if err != nil {
						return fmt.Errorf("invalid hexadecimal record %q: %w", arg, err)
					}
				}

				m.Operations = append(m.Operations, journal.Append(rec))
			}

			return opts.store.Commit(cmd.Context(), m)
		},
	}

	cmd.Flags().BoolVar(&fromHex, "hex", false, "parse records as hexadecimal")

	return cmd
}

func newCopyCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cp SOURCE DESTINATION",
		Short: "Copy a journal, replacing the destination",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.store.Commit(
				cmd.Context(),
				journal.NewMutation(args[0], journal.Copy(args[1])),
			)
		},
	}
}

func newRemoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm NAME...",
		Short: "Delete journals",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				if err := opts.store.Commit(
					cmd.Context(),
					journal.NewMutation(name, journal.Delete()),
				); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newExistsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exists NAME",
		Short: "Report whether a journal exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := opts.store.Exists(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ok)

			return nil
		},
	}
}

func newWipeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "wipe",
		Short: "Delete every journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.store.DeleteAll(cmd.Context())
		},
	}
}
