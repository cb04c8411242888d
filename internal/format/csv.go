// Package format converts buffered gaze samples to CSV text.
package format

import (
	"strconv"
	"strings"

	"github.com/FoveHMD/UnityDataCollector/pkg/sample"
)

// Config controls numeric rendering. Precisions are decimal digit counts;
// ForceDigits keeps trailing zeros so every value has a fixed width.
type Config struct {
	TimePrecision   int
	VectorPrecision int
	ForceDigits     bool
}

// columns is the fixed output schema: timestamp followed by the flattened
// sample fields in sample.Fields order.
var columns = []string{
	"timestamp",
	"left_origin_x", "left_origin_y", "left_origin_z",
	"left_dir_x", "left_dir_y", "left_dir_z",
	"right_origin_x", "right_origin_y", "right_origin_z",
	"right_dir_x", "right_dir_y", "right_dir_z",
}

// Header returns the header line, quoted and newline-terminated. It is
// written exactly once per output artifact.
func Header() string {
	var b strings.Builder
	for i, col := range columns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(col)
		b.WriteByte('"')
	}
	b.WriteByte('\n')
	return b.String()
}

// Format renders samples to a CSV chunk: one line per sample, every value
// quoted, comma-separated, newline-terminated. The function is pure and
// deterministic; identical input always produces byte-identical text.
//
// Rendering uses strconv with a fixed '.' decimal separator, so output never
// depends on locale. Any finite float produces a finite string; non-finite
// values render as their strconv spelling (NaN, +Inf, -Inf) rather than
// failing.
func Format(samples []sample.Sample, cfg Config) string {
	if len(samples) == 0 {
		return ""
	}

	var b strings.Builder
	// Rough per-line estimate keeps the builder from regrowing: 13 quoted
	// values of ~8 significant characters each.
	b.Grow(len(samples) * (13*12 + 2))

	for _, s := range samples {
		writeValue(&b, s.Timestamp, cfg.TimePrecision, cfg.ForceDigits)
		for _, v := range s.Fields() {
			b.WriteByte(',')
			writeValue(&b, v, cfg.VectorPrecision, cfg.ForceDigits)
		}
		b.WriteByte('\n')
	}

	return b.String()
}

func writeValue(b *strings.Builder, v float64, precision int, forceDigits bool) {
	if precision < 0 {
		precision = 0
	}

	s := strconv.FormatFloat(v, 'f', precision, 64)
	if !forceDigits {
		s = trimTrailingZeros(s)
	}

	b.WriteByte('"')
	b.WriteString(s)
	b.WriteByte('"')
}

// trimTrailingZeros drops insignificant fractional zeros, and the decimal
// point itself when nothing remains after it. Values without a fractional
// part (including NaN and the infinities) pass through untouched.
func trimTrailingZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
