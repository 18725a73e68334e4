// Package batch turns one input table into one document per invoice.
package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/sheetbill/internal/batchlog"
	"github.com/cleared-dev/sheetbill/internal/model"
	"github.com/cleared-dev/sheetbill/internal/records"
	"github.com/cleared-dev/sheetbill/internal/render"
	"github.com/cleared-dev/sheetbill/internal/table"
)

// ErrBatchLog marks a batch whose report is complete but whose batch log
// entries could not be written.
var ErrBatchLog = errors.New("writing batch log")

// Renderer produces the document for one invoice.
type Renderer interface {
	Render(inv model.Invoice) (render.Output, error)
}

// Observer is told about grouping and every document attempt.
type Observer interface {
	ObserveGrouped(invoices, warnings int)
	ObserveRender(ok bool, warnings int, elapsed time.Duration)
}

// Outcome is the result of one invoice.
type Outcome struct {
	Invoice  string
	Row      int
	Path     string
	Err      error
	Warnings []string
}

// OK reports whether the document was written.
func (o Outcome) OK() bool { return o.Err == nil }

// Report summarizes a batch. Outcomes follow the order invoices were
// grouped, regardless of completion order.
type Report struct {
	Source   string
	Outcomes []Outcome
	Warnings []records.Warning
}

// Succeeded returns the number of documents written.
func (r Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of invoices without a document.
func (r Report) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// Runner groups rows and renders every invoice.
type Runner struct {
	Renderer Renderer
	Tables   *table.Registry // nil means table.DefaultRegistry
	Workers  int             // concurrent renders, at least 1
	Observer Observer        // optional
	Log      *batchlog.Log   // optional
	Now      func() time.Time
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// RunFile reads the table at path and runs the batch over it. Failing to
// read the table is the only error that prevents a report.
func (r *Runner) RunFile(ctx context.Context, path string) (Report, error) {
	tables := r.Tables
	if tables == nil {
		tables = table.DefaultRegistry()
	}
	rows, err := tables.Open(path)
	if err != nil {
		return Report{Source: path}, err
	}
	return r.Run(ctx, path, rows)
}

// Run groups rows and renders each invoice. A failed invoice never stops
// the others. Once ctx is done no further renders start; the remaining
// invoices are reported with ctx's error. The only error Run returns wraps
// ErrBatchLog; the report is complete either way.
func (r *Runner) Run(ctx context.Context, source string, rows []model.Row) (Report, error) {
	grouped := records.Group(rows, r.now())
	report := Report{
		Source:   source,
		Outcomes: make([]Outcome, len(grouped.Invoices)),
		Warnings: append(grouped.Warnings, records.Check(grouped.Invoices)...),
	}
	if r.Observer != nil {
		r.Observer.ObserveGrouped(len(grouped.Invoices), len(report.Warnings))
	}

	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	var g errgroup.Group
	g.SetLimit(workers)

	for i, inv := range grouped.Invoices {
		report.Outcomes[i] = Outcome{Invoice: inv.Number, Row: inv.Row}
		if err := ctx.Err(); err != nil {
			report.Outcomes[i].Err = err
			continue
		}
		g.Go(func() error {
			report.Outcomes[i] = r.renderOne(inv)
			return nil
		})
	}
	g.Wait()

	return report, r.log(report)
}

func (r *Runner) renderOne(inv model.Invoice) Outcome {
	start := time.Now()
	out, err := r.Renderer.Render(inv)
	if r.Observer != nil {
		r.Observer.ObserveRender(err == nil, len(out.Warnings), time.Since(start))
	}
	return Outcome{
		Invoice:  inv.Number,
		Row:      inv.Row,
		Path:     out.Path,
		Err:      err,
		Warnings: out.Warnings,
	}
}

func (r *Runner) log(report Report) error {
	if r.Log == nil {
		return nil
	}
	ts := r.now()
	source := filepath.Base(report.Source)
	entries := make([]batchlog.Entry, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		e := batchlog.Entry{
			Timestamp: ts,
			Source:    source,
			Invoice:   o.Invoice,
			Status:    batchlog.StatusOK,
			Path:      o.Path,
		}
		if !o.OK() {
			e.Status = batchlog.StatusFailed
			e.Detail = o.Err.Error()
		} else if len(o.Warnings) > 0 {
			e.Detail = o.Warnings[0]
		}
		entries = append(entries, e)
	}
	if err := r.Log.Append(entries); err != nil {
		return fmt.Errorf("%w: %w", ErrBatchLog, err)
	}
	return nil
}
