package transfer

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/sven-vanh/lieferlisten-agent/engine"
	"github.com/sven-vanh/lieferlisten-agent/extractor"
	"github.com/sven-vanh/lieferlisten-agent/linker"
	"github.com/sven-vanh/lieferlisten-agent/model"
	"github.com/sven-vanh/lieferlisten-agent/observability"
)

// Fatal pipeline errors. Everything else a run encounters is a
// diagnostic on the report.
var (
	// ErrDocumentLoad wraps failures to open or read an input
	// document, including encrypted files.
	ErrDocumentLoad = errors.New("document load failed")

	// ErrNoAnchors is returned when either document contains no
	// anchors, leaving nothing to transfer against.
	ErrNoAnchors = errors.New("no anchors found")

	// ErrOutputWrite wraps failures to persist the output document.
	ErrOutputWrite = errors.New("output write failed")
)

// Options configures an Agent. The zero value uses the default anchor
// pattern and discards logs.
type Options struct {
	// AnchorPattern overrides extractor.DefaultAnchorPattern.
	AnchorPattern *regexp.Regexp

	Logger observability.Logger
}

// Agent runs the full pipeline: anchor extraction on both documents,
// annotation extraction on the source, linking, correspondence
// filtering, and transfer into the target, which is then saved as the
// output document.
type Agent struct {
	eng     engine.Engine
	pattern *regexp.Regexp
	log     observability.Logger
}

func NewAgent(eng engine.Engine, opts Options) *Agent {
	pattern := opts.AnchorPattern
	if pattern == nil {
		pattern = extractor.DefaultAnchorPattern
	}
	log := opts.Logger
	if log == nil {
		log = observability.NopLogger{}
	}
	return &Agent{eng: eng, pattern: pattern, log: log}
}

// Report summarizes one run. Diagnostics carry every non-fatal skip;
// the counts describe the successful path.
type Report struct {
	SourceAnchors int
	TargetAnchors int
	Annotations   int
	Linked        int
	Matched       int
	Transferred   int

	Diagnostics []observability.Diagnostic
}

// Transfer runs the pipeline from sourcePath and targetPath into
// outputPath. The output file is written only after every stage has
// completed; fatal errors leave no output artifact behind. The report
// is returned for successful runs only.
func (a *Agent) Transfer(ctx context.Context, sourcePath, targetPath, outputPath string) (*Report, error) {
	diag := observability.NewCollector(a.log)

	source, err := a.eng.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: source %s: %w", ErrDocumentLoad, sourcePath, err)
	}
	defer source.Close()

	target, err := a.eng.Open(targetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: target %s: %w", ErrDocumentLoad, targetPath, err)
	}
	defer target.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sourceAnchors, err := extractor.Anchors(source, a.pattern, diag)
	if err != nil {
		return nil, fmt.Errorf("%w: source %s: %w", ErrDocumentLoad, sourcePath, err)
	}
	targetAnchors, err := extractor.Anchors(target, a.pattern, diag)
	if err != nil {
		return nil, fmt.Errorf("%w: target %s: %w", ErrDocumentLoad, targetPath, err)
	}
	if len(sourceAnchors) == 0 {
		return nil, fmt.Errorf("%w in source document %s", ErrNoAnchors, sourcePath)
	}
	if len(targetAnchors) == 0 {
		return nil, fmt.Errorf("%w in target document %s", ErrNoAnchors, targetPath)
	}
	a.log.Info("anchors extracted",
		observability.Int("source", len(sourceAnchors)),
		observability.Int("target", len(targetAnchors)))

	annots, err := extractor.Annotations(source, diag)
	if err != nil {
		return nil, fmt.Errorf("%w: source %s: %w", ErrDocumentLoad, sourcePath, err)
	}
	model.AssignReadingOrder(sourceAnchors, annots)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	links := linker.Link(annots, sourceAnchors, diag)
	kept := linker.FilterCorresponding(links, targetAnchors, diag)
	added := Apply(kept, targetAnchors, target, diag)
	a.log.Info("annotations transferred",
		observability.Int("found", len(annots)),
		observability.Int("linked", len(links)),
		observability.Int("matched", len(kept)),
		observability.Int("added", added))

	if err := target.Save(outputPath); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOutputWrite, outputPath, err)
	}

	return &Report{
		SourceAnchors: len(sourceAnchors),
		TargetAnchors: len(targetAnchors),
		Annotations:   len(annots),
		Linked:        len(links),
		Matched:       len(kept),
		Transferred:   added,
		Diagnostics:   diag.Records(),
	}, nil
}
