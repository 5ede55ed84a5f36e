// Package report renders check results as styled text or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tam-lang/tam/internal/check"
	"github.com/tam-lang/tam/internal/errors"
)

// Options controls text rendering.
type Options struct {
	Color bool
}

// ColorEnabled resolves a color mode (auto, always, never) for f.
func ColorEnabled(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" || f == nil {
		return false
	}
	return IsTerminal(f.Fd())
}

type styles struct {
	ok   func(string) string
	fail func(string) string
	dim  func(string) string
}

func plain(s string) string { return s }

func newStyles(w io.Writer, color bool) styles {
	if !color {
		return styles{ok: plain, fail: plain, dim: plain}
	}
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI)
	ok := r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	fail := r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	dim := r.NewStyle().Foreground(lipgloss.Color("8"))
	return styles{
		ok:   func(s string) string { return ok.Render(s) },
		fail: func(s string) string { return fail.Render(s) },
		dim:  func(s string) string { return dim.Render(s) },
	}
}

// Text writes one line per source plus a summary. Successful sources list
// their declared variables.
func Text(w io.Writer, r *check.Report, opts Options) error {
	st := newStyles(w, opts.Color)
	var b strings.Builder

	for _, f := range r.Files {
		if f.OK {
			declared := "none"
			if len(f.Declared) > 0 {
				declared = strings.Join(f.Declared, ", ")
			}
			fmt.Fprintf(&b, "%s %s %s\n", st.ok("OK  "), f.Path, st.dim("(declared: "+declared+")"))
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", st.fail("FAIL"), f.Path)
		fmt.Fprintf(&b, "     %s\n", f.Err)
	}

	passed := len(r.Files) - r.Failed()
	fmt.Fprintf(&b, "%d passed, %d failed %s\n", passed, r.Failed(), st.dim("(run "+r.RunID+")"))

	_, err := io.WriteString(w, b.String())
	return err
}

// FileDoc is the JSON form of one result.
type FileDoc struct {
	Path       string   `json:"path"`
	OK         bool     `json:"ok"`
	Declared   []string `json:"declared"`
	Tokens     int      `json:"tokens,omitempty"`
	Lines      int      `json:"lines,omitempty"`
	Error      string   `json:"error,omitempty"`
	Category   string   `json:"category,omitempty"`
	Code       string   `json:"code,omitempty"`
	Line       int      `json:"line,omitempty"`
	DurationMS float64  `json:"duration_ms"`
}

// Doc is the JSON form of a report.
type Doc struct {
	RunID   string    `json:"run_id"`
	Started time.Time `json:"started"`
	OK      bool      `json:"ok"`
	Passed  int       `json:"passed"`
	Failed  int       `json:"failed"`
	Files   []FileDoc `json:"files"`
}

// JSON writes the report as an indented JSON document.
func JSON(w io.Writer, r *check.Report) error {
	doc := Doc{
		RunID:   r.RunID,
		Started: r.Started,
		OK:      r.OK(),
		Passed:  len(r.Files) - r.Failed(),
		Failed:  r.Failed(),
		Files:   make([]FileDoc, 0, len(r.Files)),
	}
	for _, f := range r.Files {
		doc.Files = append(doc.Files, FileJSON(f))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// FileJSON converts one result to its JSON form.
func FileJSON(f check.FileResult) FileDoc {
	jf := FileDoc{
		Path:       f.Path,
		OK:         f.OK,
		Declared:   f.Declared,
		Tokens:     f.Tokens,
		Lines:      f.Lines,
		DurationMS: float64(f.Duration) / float64(time.Millisecond),
	}
	if f.Err != nil {
		jf.Error = f.Err.Error()
		jf.Category = string(f.Category)
		jf.Code = errors.Code(f.Err)
		jf.Line = errors.Line(f.Err)
	}
	return jf
}
