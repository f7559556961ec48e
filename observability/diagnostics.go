package observability

import "fmt"

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarn
)

func (s Severity) String() string {
	if s == SeverityWarn {
		return "warn"
	}
	return "info"
}

// Diagnostic records one non-fatal condition encountered during a run:
// an annotation without a preceding anchor, an unsupported annotation
// subtype, an anchor missing from the target, clipped geometry, or a
// skipped page. Diagnostics are accumulated and returned to the
// caller; logging is a side channel, not part of the data contract.
type Diagnostic struct {
	Stage    string
	Severity Severity
	Message  string

	// Optional context, zero-valued when not applicable.
	AnchorID string
	Page     int
	Kind     string
}

func (d Diagnostic) String() string {
	s := fmt.Sprintf("[%s] %s", d.Stage, d.Message)
	if d.AnchorID != "" {
		s += fmt.Sprintf(" (anchor %s)", d.AnchorID)
	}
	return s
}

// Collector accumulates diagnostics and mirrors each one to a logger.
// The zero value is not usable; construct with NewCollector.
type Collector struct {
	log     Logger
	records []Diagnostic
}

// NewCollector returns a collector mirroring diagnostics to log.
func NewCollector(log Logger) *Collector {
	if log == nil {
		log = NopLogger{}
	}
	return &Collector{log: log}
}

// Add records a diagnostic.
func (c *Collector) Add(d Diagnostic) {
	c.records = append(c.records, d)
	fields := []Field{String("stage", d.Stage)}
	if d.AnchorID != "" {
		fields = append(fields, String("anchor", d.AnchorID))
	}
	if d.Kind != "" {
		fields = append(fields, String("kind", d.Kind))
	}
	fields = append(fields, Int("page", d.Page))
	if d.Severity == SeverityWarn {
		c.log.Warn(d.Message, fields...)
	} else {
		c.log.Info(d.Message, fields...)
	}
}

// Logger returns the logger the collector mirrors to.
func (c *Collector) Logger() Logger { return c.log }

// Records returns all diagnostics collected so far.
func (c *Collector) Records() []Diagnostic { return c.records }

// Count returns the number of collected diagnostics.
func (c *Collector) Count() int { return len(c.records) }
