package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	ConfigFile  string
	Backend     string // "file" | "sqlite"
	Database    string
	Encoding    string
	Codec       string
	StrictKinds bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the pathstore CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pathstore",
		Short: "pathstore - path-addressable persistent documents",
		Long: `Read and write nested values in JSON, YAML or TOML documents by key path.

Every command takes a namespace (a file path, or a row name with the sqlite
backend) followed by the keys leading to a node. Every change is written
back to the namespace before the command returns.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVar(&opts.ConfigFile, "config", "", "path to a YAML config file")
	flags.StringVar(&opts.Backend, "backend", "file", "storage backend (file|sqlite)")
	flags.StringVar(&opts.Database, "db", "pathstore.db", "SQLite database path for the sqlite backend")
	flags.StringVar(&opts.Encoding, "encoding", "utf-8", "text encoding of backing files")
	flags.StringVar(&opts.Codec, "codec", "", "force a document format (json|yaml|toml); default picks by extension")
	flags.BoolVar(&opts.StrictKinds, "strict-kinds", false, "fail when a path is resolved with a different kind than before")

	// Add subcommands
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewSetCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewAppendCommand(opts))
	cmd.AddCommand(NewContainsCommand(opts))
	cmd.AddCommand(NewCatCommand(opts))
	cmd.AddCommand(NewInfoCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
