// Package report implements the line-oriented result protocol the exporter
// uses to hand results to its caller.
//
// Every successful export produces one line on the results sink:
//
//	JSON_EXPORT:{"path":"out/sHeroIdle.png","width":16,"height":16,"frame_count":4,"tag_name":"idle"}
//
// The sink is a different stream from the one the host writes its own
// structured output to, and the prefix separates results from diagnostics
// sharing the sink. This is a framing protocol, not a general JSON writer:
// only backslashes and double quotes in string fields are escaped.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/gmhelper/gmhelper/internal/sprite"
	"github.com/gmhelper/gmhelper/pkg/gmhelper"
)

// Prefix starts every result line.
const Prefix = gmhelper.ExportPrefix

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Escape escapes backslashes and double quotes for embedding s in a JSON
// string. Nothing else is altered.
func Escape(s string) string {
	return escaper.Replace(s)
}

// FormatLine renders a result as a protocol line without the trailing newline.
func FormatLine(r sprite.ExportResult) string {
	return fmt.Sprintf(`%s{"path":"%s","width":%d,"height":%d,"frame_count":%d,"tag_name":"%s"}`,
		Prefix, Escape(r.Path), r.Width, r.Height, r.FrameCount, Escape(r.TagName))
}

// Emitter receives export results as they are produced.
type Emitter interface {
	Emit(r sprite.ExportResult) error
}

// Reporter writes result lines to a results sink.
type Reporter struct {
	mu sync.Mutex
	w  io.Writer
}

// New creates a Reporter writing to stderr.
func New() *Reporter {
	return &Reporter{w: os.Stderr}
}

// NewWithWriter creates a Reporter with a custom results sink.
func NewWithWriter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Emit writes one result line. The whole line goes out in a single Write so
// it is never split by other writers sharing the sink.
func (r *Reporter) Emit(res sprite.ExportResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := io.WriteString(r.w, FormatLine(res)+"\n")
	return err
}

// Collector keeps results in memory.
type Collector struct {
	mu      sync.Mutex
	results []sprite.ExportResult
}

// Emit implements Emitter.
func (c *Collector) Emit(res sprite.ExportResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, res)
	return nil
}

// Results returns a copy of everything emitted so far.
func (c *Collector) Results() []sprite.ExportResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sprite.ExportResult(nil), c.results...)
}

// Tee forwards every result to all emitters, stopping at the first error.
type Tee []Emitter

// Emit implements Emitter.
func (t Tee) Emit(res sprite.ExportResult) error {
	for _, e := range t {
		if err := e.Emit(res); err != nil {
			return err
		}
	}
	return nil
}
