package issue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/yahsan2/gh-csv-issues/internal/log"
	"github.com/yahsan2/gh-csv-issues/pkg/config"
	"github.com/yahsan2/gh-csv-issues/pkg/record"
)

// Reporter receives progress while an import runs
type Reporter interface {
	ReportStart(index int, draft *Draft)
	ReportResult(result *RecordResult)
}

// Importer creates one issue per CSV record
type Importer struct {
	cfg      *config.Config
	runner   Runner
	reporter Reporter
	dryRun   bool
	limit    int
}

// Option configures an Importer
type Option func(*Importer)

// WithReporter sets the progress reporter
func WithReporter(r Reporter) Option {
	return func(im *Importer) {
		im.reporter = r
	}
}

// WithDryRun builds every command without running it
func WithDryRun(dryRun bool) Option {
	return func(im *Importer) {
		im.dryRun = dryRun
	}
}

// WithLimit stops after n records. Zero means no limit.
func WithLimit(n int) Option {
	return func(im *Importer) {
		im.limit = n
	}
}

// NewImporter creates a new importer
func NewImporter(cfg *config.Config, runner Runner, opts ...Option) *Importer {
	im := &Importer{
		cfg:    cfg,
		runner: runner,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Run reads the CSV file and runs gh issue create for every record.
//
// Records are processed one at a time. A failing gh invocation is recorded
// and the run moves on. A missing or unreadable CSV file, or a missing gh
// executable, aborts the run; the results collected so far are returned
// along with the error.
func (im *Importer) Run(ctx context.Context) (*BatchResult, error) {
	repo, err := im.cfg.RepoArg()
	if err != nil {
		return nil, NewConfigurationError("invalid repository", err)
	}

	path := im.cfg.CSVFile
	reader, err := record.Open(path)
	if err != nil {
		return nil, classifyReadError(path, err)
	}
	defer reader.Close()

	result := NewBatchResult(repo, path)
	result.DryRun = im.dryRun
	defer result.Finish()

	im.checkHeader(reader.Header())
	log.Debug("starting import", "run_id", result.RunID, "repository", repo, "file", path)

	for index := 1; ; index++ {
		if im.limit > 0 && index > im.limit {
			log.Debug("record limit reached", "limit", im.limit)
			break
		}
		if err := ctx.Err(); err != nil {
			return result, WrapError(err, fmt.Sprintf("import interrupted before row %d", index))
		}

		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, classifyReadError(path, err)
		}

		draft := BuildDraft(repo, im.cfg.Fields, im.cfg.LabelSeparator, rec)
		if im.reporter != nil {
			im.reporter.ReportStart(index, draft)
		}

		rr, fatal := im.process(ctx, index, rec, draft)
		result.Add(rr)
		if im.reporter != nil {
			im.reporter.ReportResult(&rr)
		}
		if fatal != nil {
			return result, fatal
		}
	}

	log.Debug("import finished", "run_id", result.RunID, "total", result.Total, "failed", result.Failed)
	return result, nil
}

// process runs gh for one draft. The returned error is non-nil only when
// the whole run must stop.
func (im *Importer) process(ctx context.Context, index int, rec *record.Record, draft *Draft) (RecordResult, error) {
	rr := RecordResult{
		Index:   index,
		Line:    rec.Line,
		Title:   draft.Title,
		Command: draft.Command(),
	}

	if !draft.HasTitle() {
		log.Warn("record has no title, gh may reject it", "line", rec.Line)
	}

	if im.dryRun {
		rr.Status = StatusSkipped
		return rr, nil
	}

	inv, err := im.runner.Run(ctx, rr.Command)
	if inv != nil {
		rr.Stdout = inv.Stdout
		rr.Stderr = inv.Stderr
		rr.ExitCode = inv.ExitCode
	}

	if err != nil {
		rr.Status = StatusFailed
		rr.Error = err.Error()

		var issueErr *IssueError
		if !errors.As(err, &issueErr) {
			issueErr = NewUnexpectedError(err)
			rr.Error = issueErr.Error()
		}
		rr.ErrorType = issueErr.Type

		log.Debug("issue creation failed", "line", rec.Line, "type", issueErr.Type.String(), "exit_code", rr.ExitCode)
		if issueErr.Fatal() {
			return rr, issueErr
		}
		return rr, nil
	}

	rr.Status = StatusCreated
	rr.URL = issueURL(rr.Stdout)
	return rr, nil
}

func (im *Importer) checkHeader(header []string) {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	for _, col := range im.cfg.Fields.Columns() {
		if !present[col] {
			log.Warn("mapped column is missing from CSV header", "column", col)
		}
	}
}

func classifyReadError(path string, err error) error {
	var decodeErr *record.DecodeError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return NewFileNotFoundError(path, err)
	case errors.As(err, &decodeErr):
		return NewDecodeError(path, err)
	default:
		return NewCSVError(path, err)
	}
}
