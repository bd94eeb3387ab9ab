package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ContainsOptions holds flags for the contains command.
type ContainsOptions struct {
	*RootOptions
	Value string
	List  bool
}

// ContainsResult is the JSON payload of the contains command.
type ContainsResult struct {
	Contains bool `json:"contains"`
}

// NewContainsCommand creates the contains command.
func NewContainsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ContainsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "contains <namespace> [key...] --value <json>",
		Short: "Test whether a node holds a key or element",
		Long: `Print true when the node at a key path holds the value: as a key of a
mapping, an element of a sequence, or a substring of a string.

Examples:
  pathstore contains cfg.json user --value name
  pathstore contains cfg.json user tags --value admin`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContains(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Value, "value", "", "value to look for (JSON or plain string)")
	_ = cmd.MarkFlagRequired("value")
	cmd.Flags().BoolVar(&opts.List, "list", false, "resolve the last key as a sequence, creating it if missing")

	return cmd
}

func runContains(opts *ContainsOptions, namespace string, keys []string, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	target, path, err := resolveTarget(s, namespace, keys, opts.List)
	if err != nil {
		return failOp(s.formatter, "contains", err)
	}
	ok, err := target.Contains(parseValue(opts.Value), path...)
	if err != nil {
		return failOp(s.formatter, "contains", err)
	}

	if s.formatter.Format == "json" {
		return s.formatter.Success(ContainsResult{Contains: ok})
	}
	fmt.Fprintln(s.formatter.Writer, ok)
	return nil
}
