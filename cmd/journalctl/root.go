package main

import (
	"log/slog"

	"github.com/dogmatiq/filejournal"
	"github.com/spf13/cobra"
)

// rootOptions holds the flags that are shared by all commands.
type rootOptions struct {
	BaseDirectory string
	Subdirectory  string
	VersionDSN    string
	Verbose       bool

	store *filejournal.Store
}

// newRootCommand returns the journalctl command.
//
// The store is opened before any subcommand runs. The caller must call
// opts.close() once the command has been executed.
func newRootCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "journalctl",
		Short:         "Inspect and modify a file-based journal store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.open(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.BaseDirectory, "dir", "", "base directory of the store (default $FILEJOURNAL_BASE_DIR, or the user configuration directory)")
	cmd.PersistentFlags().StringVar(&opts.Subdirectory, "subdir", "", "subdirectory that contains the journal directory (default $FILEJOURNAL_SUBDIR)")
	cmd.PersistentFlags().StringVar(&opts.VersionDSN, "version-dsn", "", "DSN of the schema version store (default $FILEJOURNAL_VERSION_DSN)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log debug information to stderr")

	cmd.AddCommand(
		newListCommand(opts),
		newCatCommand(opts),
		newAppendCommand(opts),
		newCopyCommand(opts),
		newRemoveCommand(opts),
		newExistsCommand(opts),
		newWipeCommand(opts),
	)

	return cmd
}

func (o *rootOptions) open(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}

	options := []filejournal.Option{
		filejournal.WithOptionsFromEnvironment(),
		filejournal.WithLogger(
			slog.New(
				slog.NewTextHandler(
					cmd.ErrOrStderr(),
					&slog.HandlerOptions{
						Level: level,
					},
				),
			),
		),
	}

	if o.BaseDirectory != "" {
		options = append(options, filejournal.WithBaseDirectory(o.BaseDirectory))
	}

	if o.Subdirectory != "" {
		options = append(options, filejournal.WithSubdirectory(o.Subdirectory))
	}

	if o.VersionDSN != "" {
		options = append(options, filejournal.WithVersionStoreDSN(o.VersionDSN))
	}

	s, err := filejournal.Open(cmd.Context(), options...)
	if err != nil {
		return err
	}

	o.store = s

	return nil
}

func (o *rootOptions) close() error {
	if o.store == nil {
		return nil
	}

	err := o.store.Close()
	o.store = nil

	return err
}
