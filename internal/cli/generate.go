package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	jtdgen "github.com/reoring/jtdgen"
	"github.com/reoring/jtdgen/internal/config"
	"github.com/reoring/jtdgen/internal/output"
	"github.com/reoring/jtdgen/jtd"
	"github.com/reoring/jtdgen/scan"
)

const (
	outputFlag = "output"
	formatFlag = "format"
	namingFlag = "naming"
	indentFlag = "indent"
	jobsFlag   = "jobs"
	typeFlag   = "type"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [packages...]",
		Short: "Write a schema for every marked type",
		Example: `  jtdderive generate ./api/...
  jtdderive generate --format yaml --naming long -o gen/schemas .
  jtdderive generate --type Drawing --type Shape ./...`,
		RunE: runGenerate,
	}
	f := cmd.Flags()
	f.StringP(outputFlag, "o", "", "output directory (overrides the project file)")
	f.String(formatFlag, "", "output format: json or yaml")
	f.String(namingFlag, "", "definition names: short or long")
	f.Int(indentFlag, 0, "JSON indentation width, 0 for compact output")
	f.IntP(jobsFlag, "j", 0, "number of roots derived concurrently")
	f.StringSlice(typeFlag, nil, "only generate these roots (short or long names)")
	return cmd
}

// applyFlags overrides cfg with every flag the user set explicitly.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed(outputFlag) {
		cfg.Output, _ = f.GetString(outputFlag)
	}
	if f.Changed(formatFlag) {
		cfg.Format, _ = f.GetString(formatFlag)
	}
	if f.Changed(namingFlag) {
		cfg.Naming, _ = f.GetString(namingFlag)
	}
	if f.Changed(indentFlag) {
		cfg.Indent, _ = f.GetInt(indentFlag)
	}
	if f.Changed(jobsFlag) {
		cfg.Jobs, _ = f.GetInt(jobsFlag)
	}
	if f.Changed(typeFlag) {
		cfg.Types, _ = f.GetStringSlice(typeFlag)
	}
	return cfg.Validate()
}

func runGenerate(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, args)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, &e.cfg); err != nil {
		return err
	}
	naming, _ := config.ParseNaming(e.cfg.Naming)

	u, diag, err := scan.Load(cmd.Context(), scan.Config{Dir: e.dir, Logger: e.logger}, e.cfg.Packages...)
	if err != nil {
		return err
	}
	for _, w := range diag.Warnings() {
		e.logger.Warn(w)
	}
	roots, err := selectRoots(u, e.cfg.Types)
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No types marked "+scan.MarkerDerive+". Nothing to do.")
		return nil
	}

	w := output.New(e.cfg)
	if !filepath.IsAbs(w.Dir) {
		w.Dir = filepath.Join(e.dir, w.Dir)
	}
	opts := []jtdgen.Option{jtdgen.WithNaming(naming), jtdgen.WithLogger(e.logger)}

	// every root is written to a file named after its definition name
	names := make([]jtdgen.Names, len(roots))
	for i, r := range roots {
		names[i] = r.Names
	}
	if err := jtdgen.NewGenerator(opts...).CheckNames(names...); err != nil {
		return err
	}

	paths, err := deriveAll(cmd.Context(), roots, e.cfg.Jobs, func(r scan.Root) (string, error) {
		g := jtdgen.NewGenerator(opts...)
		s, err := g.RootSchema(r.Typedef)
		if err != nil {
			return "", err
		}
		if err := jtd.Verify(s); err != nil {
			return "", fmt.Errorf("%s: %w", r.Names.Key(), err)
		}
		path, err := w.Write(g.DefinitionName(r.Names), s)
		if err != nil {
			return "", err
		}
		e.logger.Info("schema written", "type", r.Names.Key(), "path", path)
		return path, nil
	})
	for _, p := range paths {
		if p != "" {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
	}
	return err
}

// deriveAll runs derive for every root with at most jobs in flight. Each
// root gets its own session, so failures are independent; they are
// returned together, in root order, as jtdgen.Errors.
func deriveAll(ctx context.Context, roots []scan.Root, jobs int, derive func(scan.Root) (string, error)) ([]string, error) {
	paths := make([]string, len(roots))
	errs := make([]error, len(roots))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))
	for i, r := range roots {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			paths[i], errs[i] = derive(r)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return paths, err
	}

	var failed jtdgen.Errors
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) > 0 {
		return paths, failed
	}
	return paths, nil
}

// selectRoots filters u's roots down to names. Empty names selects all.
func selectRoots(u *scan.Universe, names []string) ([]scan.Root, error) {
	if len(names) == 0 {
		return u.Roots(), nil
	}
	var out []scan.Root
	var missing []string
	seen := map[string]bool{}
	for _, n := range names {
		r, ok := u.Lookup(n)
		if !ok {
			missing = append(missing, n)
			continue
		}
		if !seen[r.Names.Key()] {
			seen[r.Names.Key()] = true
			out = append(out, r)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("no root types named %v among the loaded packages", missing)
	}
	return out, nil
}
