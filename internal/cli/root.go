// Package cli implements the jtdderive command tree.
package cli

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/reoring/jtdgen/internal/config"
)

const (
	configFlag = "config"
	dirFlag    = "dir"
)

// New returns the root command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jtdderive [sub-command]",
		Short: "Derive JSON Typedef schemas from Go types",
		Long: `jtdderive loads Go packages, finds the types marked +jtd:derive and
writes one JSON Typedef (RFC 8927) schema per type.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
	cmd.PersistentFlags().String(configFlag, "", "path to the project file (default: "+config.FileName+" in --dir or the module root)")
	cmd.PersistentFlags().StringP(dirFlag, "C", ".", "directory package patterns and the output directory are relative to")
	registerLoggingFlags(cmd.PersistentFlags())

	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newListCmd())
	return cmd
}

// env is what every sub-command needs before doing work.
type env struct {
	dir    string
	cfg    config.Config
	logger *slog.Logger
}

// setup resolves the working directory, the project file and the logger.
// Package patterns given as arguments replace the configured ones.
func setup(cmd *cobra.Command, args []string) (*env, error) {
	logger, err := baseLogger(cmd)
	if err != nil {
		return nil, err
	}
	dir, _ := cmd.Flags().GetString(dirFlag)
	if dir, err = filepath.Abs(dir); err != nil {
		return nil, err
	}

	var cfg config.Config
	path, _ := cmd.Flags().GetString(configFlag)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, path, err = config.Discover(dir)
	}
	if err != nil {
		return nil, err
	}
	if path != "" {
		logger.Debug("configuration loaded", "path", path)
	}
	if len(args) > 0 {
		cfg.Packages = args
	}
	return &env{dir: dir, cfg: cfg, logger: logger}, nil
}
