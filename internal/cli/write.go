package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pathstore/internal/store"
	"github.com/roach88/pathstore/internal/value"
)

// WriteOptions holds flags for set, delete and append.
type WriteOptions struct {
	*RootOptions
	Value   string
	List    bool
	Parents bool
}

// WriteResult is the JSON payload of a successful write.
type WriteResult struct {
	Namespace string `json:"namespace"`
	Op        string `json:"op"`
	Path      string `json:"path"`
	Seq       int64  `json:"seq"`
}

// NewSetCommand creates the set command.
func NewSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WriteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "set <namespace> <key> [key...] --value <json>",
		Short: "Assign a value at a key path",
		Long: `Assign a value at a key path and write the namespace.

The value is parsed as JSON; anything that is not valid JSON is stored as a
plain string. Mapping keys are created or overwritten. Sequence positions
must already exist. With --parents, missing intermediate mappings are
created first.

Examples:
  pathstore set cfg.json user name --value Ana
  pathstore set cfg.json user age --value 30
  pathstore set cfg.json server --value '{"port": 8080}'
  pathstore set cfg.json a b c --value true --parents`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Value, "value", "", "value to assign (JSON or plain string)")
	_ = cmd.MarkFlagRequired("value")
	cmd.Flags().BoolVarP(&opts.Parents, "parents", "p", false, "create missing intermediate mappings")

	return cmd
}

func runSet(opts *WriteOptions, namespace string, keys []string, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	v := parseValue(opts.Value)

	var target store.Handle
	var path []any
	if opts.Parents {
		parent := keys[:len(keys)-1]
		target, err = s.registry.Store(namespace, parent...)
		if err != nil {
			return failOp(s.formatter, "set", err)
		}
		path = []any{keys[len(keys)-1]}
	} else {
		target, path, err = s.rootPath(namespace, keys)
		if err != nil {
			return failOp(s.formatter, "set", err)
		}
	}

	if err := target.Set(v, path...); err != nil {
		return failOp(s.formatter, "set", err)
	}
	return reportWrite(s, namespace, "set", keys)
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WriteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete <namespace> <key> [key...]",
		Short: "Remove the entry at a key path",
		Long: `Remove a mapping key or sequence position and write the namespace.
Removing a sequence position shifts the following elements down.

Examples:
  pathstore delete cfg.json user name
  pathstore delete cfg.json user tags 0`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(opts, args[0], args[1:], cmd)
		},
	}

	return cmd
}

func runDelete(opts *WriteOptions, namespace string, keys []string, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	root, path, err := s.rootPath(namespace, keys)
	if err != nil {
		return failOp(s.formatter, "delete", err)
	}
	if err := root.Delete(path...); err != nil {
		return failOp(s.formatter, "delete", err)
	}
	return reportWrite(s, namespace, "delete", keys)
}

// NewAppendCommand creates the append command.
func NewAppendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WriteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "append <namespace> [key...] --value <json>",
		Short: "Append a value to a sequence",
		Long: `Append a value to the sequence at a key path and write the namespace.

With --list the keys are resolved as a sequence handle first, so a missing
sequence is created empty before the value is appended.

Examples:
  pathstore append cfg.json user tags --value admin
  pathstore append cfg.json user tags --value admin --list
  pathstore append list.json --value '{"id": 1}' --list`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAppend(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Value, "value", "", "value to append (JSON or plain string)")
	_ = cmd.MarkFlagRequired("value")
	cmd.Flags().BoolVar(&opts.List, "list", false, "resolve the last key as a sequence, creating it if missing")

	return cmd
}

func runAppend(opts *WriteOptions, namespace string, keys []string, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	target, path, err := resolveTarget(s, namespace, keys, opts.List)
	if err != nil {
		return failOp(s.formatter, "append", err)
	}
	if err := target.Append(parseValue(opts.Value), path...); err != nil {
		return failOp(s.formatter, "append", err)
	}
	return reportWrite(s, namespace, "append", keys)
}

// reportWrite prints the outcome of a successful write.
func reportWrite(s *session, namespace, op string, keys []string) error {
	info, err := s.registry.Info(namespace)
	if err != nil {
		return failOp(s.formatter, op, err)
	}
	path := value.FormatPath(value.Keys(keys...))

	if s.formatter.Format == "json" {
		return s.formatter.SuccessAt(info.Revision, WriteResult{
			Namespace: namespace,
			Op:        op,
			Path:      path,
			Seq:       info.Seq,
		})
	}

	s.formatter.VerboseLog("revision %s (seq %d)", info.Revision, info.Seq)
	fmt.Fprintf(s.formatter.Writer, "✓ %s %s %s\n", op, namespace, path)
	return nil
}
