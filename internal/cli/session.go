package cli

import (
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/pathstore/internal/config"
	"github.com/roach88/pathstore/internal/query"
	"github.com/roach88/pathstore/internal/store"
	"github.com/roach88/pathstore/internal/value"
)

// session is the per-command state shared by every subcommand.
type session struct {
	formatter *OutputFormatter
	registry  *store.Registry
	evaluator *query.Evaluator
	logger    *slog.Logger
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// openSession merges the config file with explicitly set flags and opens a
// registry. The caller must call close.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	formatter := newFormatter(opts, cmd)

	cfg, err := resolveConfig(opts, cmd)
	if err != nil {
		return nil, fail(formatter, ErrCodeConfig, "invalid configuration", err)
	}

	level, err := cfg.Level()
	if err != nil {
		return nil, fail(formatter, ErrCodeConfig, "invalid configuration", err)
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	reg, err := cfg.Open(logger)
	if err != nil {
		return nil, fail(formatter, ErrCodeConfig, "failed to open store", err)
	}
	return &session{
		formatter: formatter,
		registry:  reg,
		evaluator: query.NewEvaluator(),
		logger:    logger,
	}, nil
}

func (s *session) close() {
	if err := s.registry.Close(); err != nil {
		s.logger.Warn("failed to close store", "error", err)
	}
}

func resolveConfig(opts *RootOptions, cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if opts.ConfigFile != "" {
		loaded, err := config.Load(opts.ConfigFile)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	// Flags set on the command line win over the file.
	if flagChanged(cmd, "backend") || opts.ConfigFile == "" {
		cfg.Backend = opts.Backend
	}
	if flagChanged(cmd, "db") || opts.ConfigFile == "" {
		cfg.DB = opts.Database
	}
	if flagChanged(cmd, "encoding") || opts.ConfigFile == "" {
		cfg.Encoding = opts.Encoding
	}
	if flagChanged(cmd, "codec") || opts.ConfigFile == "" {
		cfg.Codec = opts.Codec
	}
	if flagChanged(cmd, "strict-kinds") || opts.ConfigFile == "" {
		cfg.StrictKinds = opts.StrictKinds
	}
	return cfg, cfg.Validate()
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

// parseValue reads a --value argument as JSON and falls back to the raw
// string, so `--value Ana` and `--value '"Ana"'` mean the same thing.
func parseValue(raw string) any {
	v, err := value.FromJSON([]byte(raw))
	if err != nil {
		return raw
	}
	return v
}

// parsePath turns command-line keys into a path against tree. A key that
// parses as an integer becomes a sequence index where the node it applies to
// is a sequence; everywhere else keys stay strings.
func parsePath(tree any, keys []string) []any {
	path := make([]any, 0, len(keys))
	node := tree
	for _, key := range keys {
		var seg any = key
		if value.IsSequence(node) {
			if idx, err := strconv.Atoi(key); err == nil {
				seg = idx
			}
		}
		path = append(path, seg)

		next, err := value.Walk(node, []any{seg})
		if err != nil {
			next = nil
		}
		node = next
	}
	return path
}

// rootPath opens the namespace's root handle and converts keys against the
// current document.
func (s *session) rootPath(namespace string, keys []string) (store.Handle, []any, error) {
	root, err := s.registry.Root(namespace)
	if err != nil {
		return nil, nil, err
	}
	tree, err := root.Get()
	if err != nil {
		return nil, nil, err
	}
	return root, parsePath(tree, keys), nil
}
