package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <namespace>",
		Short: "Describe a namespace's document",
		Long: `Print the document's format, root type, top-level size, content digest
and, for backends that record it, the revision and sequence of the last
write. A missing namespace is created empty.

Example:
  pathstore info cfg.json
  pathstore info cfg.json --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runInfo(opts *RootOptions, namespace string, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	info, err := s.registry.Info(namespace)
	if err != nil {
		return failOp(s.formatter, "info", err)
	}

	if s.formatter.Format == "json" {
		return s.formatter.Success(info)
	}

	w := s.formatter.Writer
	fmt.Fprintf(w, "Namespace: %s\n", info.Namespace)
	fmt.Fprintf(w, "Codec:     %s\n", info.Codec)
	fmt.Fprintf(w, "Type:      %s\n", info.Type)
	fmt.Fprintf(w, "Size:      %d\n", info.Size)
	fmt.Fprintf(w, "Digest:    %s\n", info.Digest)
	if info.Revision != "" {
		fmt.Fprintf(w, "Revision:  %s\n", info.Revision)
		fmt.Fprintf(w, "Seq:       %d\n", info.Seq)
	}
	return nil
}
