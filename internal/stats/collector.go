// Package stats implements the per-file and aggregate counters the Driver
// flushes after every translation job, plus the otel-backed instruments and
// pretty-printed / CSV reports built on top of them.
package stats

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/hipifygo/hipify/internal/rename"
)

// Key identifies one counter slot: a (conversion-type, API-family) pair.
type Key struct {
	ConvType  rename.ConvType
	APIFamily rename.APIFamily
}

// Row is one printable/CSV-able stats line, keyed additionally by the file
// it was counted against.
type Row struct {
	SrcName     string
	ConvType    rename.ConvType
	APIFamily   rename.APIFamily
	HitCount    int
	Unsupported bool
}

// Counters is the per-file counter set: a mapping from Key to hit count, the
// set of touched line numbers, and the total bytes changed. Exactly one
// Counters exists per TranslationJob; unlike the original design's
// process-wide "active file" pointer, this implementation threads an
// explicit *Counters through every handler from the start (see DESIGN.md).
type Counters struct {
	SrcName      string
	hits         map[Key]int
	unsupported  map[Key]bool
	touchedLines map[int]struct{}
	bytesChanged int

	instruments *Instruments
}

// NewCounters creates per-file counters for srcName, optionally backed by
// otel instruments (pass nil to skip metrics export).
func NewCounters(srcName string, instruments *Instruments) *Counters {
	return &Counters{
		SrcName:      srcName,
		hits:         make(map[Key]int),
		unsupported:  make(map[Key]bool),
		touchedLines: make(map[int]struct{}),
		instruments:  instruments,
	}
}

// Hit records one successful rename at the given line.
func (c *Counters) Hit(ct rename.ConvType, fam rename.APIFamily, line int, bytesChanged int) {
	k := Key{ConvType: ct, APIFamily: fam}
	c.hits[k]++
	c.touchedLines[line] = struct{}{}
	c.bytesChanged += bytesChanged

	if c.instruments != nil {
		c.instruments.recordHit(context.Background(), ct, fam, c.SrcName)
	}
}

// Unsupported records a lookup that succeeded but hit an unsupported entry:
// the counter still increments, but the call site never produces an edit.
func (c *Counters) Unsupported(ct rename.ConvType, fam rename.APIFamily) {
	k := Key{ConvType: ct, APIFamily: fam}
	c.hits[k]++
	c.unsupported[k] = true

	if c.instruments != nil {
		c.instruments.recordUnsupported(context.Background(), ct, fam, c.SrcName)
	}
}

// TouchedLines returns the count of distinct lines that received an edit.
func (c *Counters) TouchedLines() int { return len(c.touchedLines) }

// BytesChanged returns the total bytes touched by applied edits.
func (c *Counters) BytesChanged() int { return c.bytesChanged }

// Rows flattens the counters into sorted, printable rows.
func (c *Counters) Rows() []Row {
	rows := make([]Row, 0, len(c.hits))
	for k, n := range c.hits {
		rows = append(rows, Row{
			SrcName:     c.SrcName,
			ConvType:    k.ConvType,
			APIFamily:   k.APIFamily,
			HitCount:    n,
			Unsupported: c.unsupported[k],
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ConvType != rows[j].ConvType {
			return rows[i].ConvType < rows[j].ConvType
		}

		return rows[i].APIFamily < rows[j].APIFamily
	})

	return rows
}

// Report is an aggregate view across every job the Driver ran.
type Report struct {
	Files []Row
	Total []Row
}

// Aggregate sums counters across multiple per-file Counters, used after the
// Driver's job loop finishes to print one combined summary when more than
// one input file was processed.
func Aggregate(all []*Counters) Report {
	rep := Report{}

	totals := make(map[Key]int)
	unsupported := make(map[Key]bool)

	for _, c := range all {
		rep.Files = append(rep.Files, c.Rows()...)

		for k, n := range c.hits {
			totals[k] += n
			if c.unsupported[k] {
				unsupported[k] = true
			}
		}
	}

	for k, n := range totals {
		rep.Total = append(rep.Total, Row{
			SrcName:     "(all files)",
			ConvType:    k.ConvType,
			APIFamily:   k.APIFamily,
			HitCount:    n,
			Unsupported: unsupported[k],
		})
	}

	sort.Slice(rep.Total, func(i, j int) bool {
		if rep.Total[i].ConvType != rep.Total[j].ConvType {
			return rep.Total[i].ConvType < rep.Total[j].ConvType
		}

		return rep.Total[i].APIFamily < rep.Total[j].APIFamily
	})

	return rep
}

// Instruments backs Counters with real otel metrics so a batch run can be
// scraped mid-flight via -metrics-addr, grounded on the teacher's RED
// metrics pattern (pkg/observability/metrics.go) but scoped to the two
// counters this domain actually needs: no histogram, no span — a one-shot
// CLI translation has no request duration or trace to report.
type Instruments struct {
	hits        metric.Int64Counter
	unsupported metric.Int64Counter
}

const (
	metricHitsTotal        = "hipify.renames.total"
	metricUnsupportedTotal = "hipify.unsupported.total"

	attrConvType  = "conv_type"
	attrAPIFamily = "api_family"
	attrSrcFile   = "src_file"
)

// NewInstruments creates the counter instruments from mt. Returns an error
// only if instrument creation itself fails (never for zero values).
func NewInstruments(mt metric.Meter) (*Instruments, error) {
	hits, err := mt.Int64Counter(metricHitsTotal,
		metric.WithDescription("Number of SRC references rewritten to DST"),
		metric.WithUnit("{rename}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricHitsTotal, err)
	}

	unsupported, err := mt.Int64Counter(metricUnsupportedTotal,
		metric.WithDescription("Number of SRC references recognized but unsupported in DST"),
		metric.WithUnit("{rename}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricUnsupportedTotal, err)
	}

	return &Instruments{hits: hits, unsupported: unsupported}, nil
}

func (i *Instruments) recordHit(ctx context.Context, ct rename.ConvType, fam rename.APIFamily, srcFile string) {
	i.hits.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrConvType, ct.String()),
		attribute.String(attrAPIFamily, fam.String()),
		attribute.String(attrSrcFile, srcFile),
	))
}

func (i *Instruments) recordUnsupported(ctx context.Context, ct rename.ConvType, fam rename.APIFamily, srcFile string) {
	i.unsupported.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrConvType, ct.String()),
		attribute.String(attrAPIFamily, fam.String()),
		attribute.String(attrSrcFile, srcFile),
	))
}
