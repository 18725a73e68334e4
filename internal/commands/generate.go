package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/sheetbill/internal/batch"
	"github.com/cleared-dev/sheetbill/internal/batchlog"
	"github.com/cleared-dev/sheetbill/internal/config"
	"github.com/cleared-dev/sheetbill/internal/importer"
	"github.com/cleared-dev/sheetbill/internal/render"
	"github.com/cleared-dev/sheetbill/internal/table"
)

func newGenerateCommand(opts *rootOptions) *cobra.Command {
	var inbox string
	var workers int

	cmd := &cobra.Command{
		Use:   "generate [file...]",
		Short: "Generate one PDF per invoice from spreadsheet files",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && inbox == "" {
				return errors.New("no input: pass spreadsheet files or --inbox")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			g := &generator{
				cfg:    cfg,
				tables: table.DefaultRegistry(),
				out:    cmd.OutOrStdout(),
				errOut: cmd.ErrOrStderr(),
			}
			if inbox != "" {
				return g.runInbox(cmd.Context(), inbox)
			}
			return g.runFiles(cmd.Context(), args)
		},
	}

	cmd.Flags().StringVar(&inbox, "inbox", "", "process every spreadsheet in this directory and move it to processed/")
	cmd.Flags().IntVar(&workers, "workers", 1, "documents rendered concurrently")

	return cmd
}

type generator struct {
	cfg    *config.Config
	tables *table.Registry
	out    io.Writer
	errOut io.Writer

	generated int
	failed    int
}

func (g *generator) runner() *batch.Runner {
	return &batch.Runner{
		Renderer: render.New(g.cfg),
		Tables:   g.tables,
		Workers:  g.cfg.Workers,
		Log:      batchlog.Open(g.cfg.LogFile),
	}
}

func (g *generator) runFiles(ctx context.Context, files []string) error {
	r := g.runner()
	for _, f := range files {
		g.runFile(ctx, r, f)
	}
	return g.finish()
}

func (g *generator) runInbox(ctx context.Context, dir string) error {
	files, err := importer.Scan(dir, g.tables)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(g.out, "No spreadsheets in %s\n", dir)
		return nil
	}

	r := g.runner()
	for _, f := range files {
		if !g.runFile(ctx, r, f.Path) {
			continue
		}
		if _, err := importer.MarkProcessed(dir, f.Name); err != nil {
			fmt.Fprintf(g.errOut, "warning: %v\n", err)
		}
	}
	return g.finish()
}

// runFile processes one table and reports whether every invoice in it
// was generated.
func (g *generator) runFile(ctx context.Context, r *batch.Runner, path string) bool {
	fmt.Fprintf(g.out, "Reading invoice data from %s\n", path)

	report, err := r.RunFile(ctx, path)
	if err != nil && !errors.Is(err, batch.ErrBatchLog) {
		fmt.Fprintf(g.errOut, "✗ %s: %v\n", filepath.Base(path), err)
		g.failed++
		return false
	}
	if err != nil {
		fmt.Fprintf(g.errOut, "warning: %v\n", err)
	}

	for _, w := range report.Warnings {
		fmt.Fprintf(g.errOut, "warning: %s: %s\n", filepath.Base(path), w)
	}
	fmt.Fprintf(g.out, "Found %d invoice(s)\n", len(report.Outcomes))
	for _, o := range report.Outcomes {
		if !o.OK() {
			fmt.Fprintf(g.out, "  ✗ %s: %v\n", o.Invoice, o.Err)
			continue
		}
		fmt.Fprintf(g.out, "  ✓ %s: %s\n", o.Invoice, o.Path)
		for _, w := range o.Warnings {
			fmt.Fprintf(g.errOut, "warning: %s: %s\n", o.Invoice, w)
		}
	}

	g.generated += report.Succeeded()
	g.failed += report.Failed()
	return report.Failed() == 0
}

func (g *generator) finish() error {
	abs, err := filepath.Abs(g.cfg.OutputFolder)
	if err != nil {
		abs = g.cfg.OutputFolder
	}
	fmt.Fprintf(g.out, "Generated %d invoice(s) in %s\n", g.generated, abs)
	if g.failed > 0 {
		return fmt.Errorf("%d invoice(s) or file(s) failed", g.failed)
	}
	return nil
}
