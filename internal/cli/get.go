package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/pathstore/internal/codec"
	"github.com/roach88/pathstore/internal/store"
)

// GetOptions holds flags for the get command.
type GetOptions struct {
	*RootOptions
	List bool
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "get <namespace> [key...]",
		Short: "Print the node at a key path",
		Long: `Print the node at a key path as indented JSON.

Integer keys index into sequences. With --list the keys are resolved as a
handle whose last node defaults to a sequence, creating missing nodes.

Examples:
  pathstore get cfg.json
  pathstore get cfg.json user name
  pathstore get cfg.json user tags 0
  pathstore get cfg.json user tags --list`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.List, "list", false, "resolve the last key as a sequence")

	return cmd
}

func runGet(opts *GetOptions, namespace string, keys []string, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	var node any
	if opts.List {
		h, err := s.registry.ListStore(namespace, keys...)
		if err != nil {
			return failOp(s.formatter, "get", err)
		}
		node, err = h.Get()
		if err != nil {
			return failOp(s.formatter, "get", err)
		}
	} else {
		root, path, err := s.rootPath(namespace, keys)
		if err != nil {
			return failOp(s.formatter, "get", err)
		}
		node, err = root.Get(path...)
		if err != nil {
			return failOp(s.formatter, "get", err)
		}
	}

	if s.formatter.Format == "json" {
		return s.formatter.Success(node)
	}
	return writeNode(s.formatter, node)
}

// writeNode prints a node the way the JSON codec stores it.
func writeNode(f *OutputFormatter, node any) error {
	data, err := codec.JSON{}.Encode(node)
	if err != nil {
		return failOp(f, "encode", err)
	}
	_, err = f.Writer.Write(data)
	return err
}

// NewCatCommand creates the cat command.
func NewCatCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat <namespace>",
		Short: "Print a namespace's stored content",
		Long: `Print a namespace's content exactly as the backend stores it, decoded
from the configured text encoding. The document is not opened, so a
missing namespace is not created.

Example:
  pathstore cat cfg.json
  pathstore cat --backend sqlite --db store.db cfg`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCat(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

// CatResult is the JSON payload of the cat command.
type CatResult struct {
	Namespace string `json:"namespace"`
	Content   string `json:"content"`
}

func runCat(opts *RootOptions, namespace string, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	data, err := s.registry.Raw(namespace)
	if err != nil {
		return failOp(s.formatter, "cat", err)
	}

	if s.formatter.Format == "json" {
		return s.formatter.Success(CatResult{Namespace: namespace, Content: string(data)})
	}
	_, err = s.formatter.Writer.Write(data)
	return err
}

// resolveTarget returns the handle and path a write or membership command
// operates on. With list the keys name a sequence handle; otherwise they are
// a path from the root.
func resolveTarget(s *session, namespace string, keys []string, list bool) (store.Handle, []any, error) {
	if list {
		h, err := s.registry.ListStore(namespace, keys...)
		return h, nil, err
	}
	return s.rootPath(namespace, keys)
}
