package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/pathstore/internal/value"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Expr string
	Each bool
}

// QueryResult is the JSON payload of the query command.
type QueryResult struct {
	Result any `json:"result"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <namespace> [key...] --expr <expression>",
		Short: "Evaluate an expression against a node",
		Long: `Evaluate an expr-language expression against the node at a key path.

The node is bound as "node"; when it is a mapping its keys are bound at top
level too. With --each the node must be a sequence and the expression is
evaluated once per element, printing the list of results. The document is
only read.

Examples:
  pathstore query cfg.json user --expr 'len(tags) > 0'
  pathstore query cfg.json --expr 'node.server.port == 8080'
  pathstore query cfg.json user tags --expr 'filter(node, # startsWith "a")'
  pathstore query users.json --each --expr 'age >= 18'`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Expr, "expr", "", "expression to evaluate (required)")
	_ = cmd.MarkFlagRequired("expr")
	cmd.Flags().BoolVar(&opts.Each, "each", false, "evaluate against every element of a sequence")

	return cmd
}

func runQuery(opts *QueryOptions, namespace string, keys []string, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	root, path, err := s.rootPath(namespace, keys)
	if err != nil {
		return failOp(s.formatter, "query", err)
	}
	node, err := root.Get(path...)
	if err != nil {
		return failOp(s.formatter, "query", err)
	}

	var result any
	if opts.Each {
		result, err = s.evaluator.EvaluateEach(node, opts.Expr)
	} else {
		result, err = s.evaluator.EvaluateNode(node, opts.Expr)
	}
	if err != nil {
		return failOp(s.formatter, "query", err)
	}
	result, err = value.Normalize(result)
	if err != nil {
		return failOp(s.formatter, "query", err)
	}

	if s.formatter.Format == "json" {
		return s.formatter.Success(QueryResult{Result: result})
	}
	return writeNode(s.formatter, result)
}
