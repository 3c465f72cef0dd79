package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
)

// printer renders command results as aligned tables or JSON
type printer struct {
	w        io.Writer
	jsonMode bool
}

func newPrinter(w io.Writer, jsonMode bool) *printer {
	return &printer{w: w, jsonMode: jsonMode}
}

func (p *printer) JSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to encode output")
	}
	return nil
}

// Table prints rows under a bold header, or v as JSON in JSON mode
func (p *printer) Table(v any, header []string, rows [][]string) error {
	if p.jsonMode {
		return p.JSON(v)
	}
	if len(rows) == 0 {
		fmt.Fprintln(p.w, color.New(color.Faint).Sprint("(no results)"))
		return nil
	}

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	bold := color.New(color.Bold)
	for i, h := range header {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, bold.Sprint(h))
	}
	fmt.Fprintln(tw)
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return goerr.Wrap(err, "failed to write table")
	}
	return nil
}

// Record prints key/value pairs, or v as JSON in JSON mode
func (p *printer) Record(v any, fields [][2]string) error {
	if p.jsonMode {
		return p.JSON(v)
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	key := color.New(color.FgCyan)
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", key.Sprint(f[0]+":"), f[1])
	}
	if err := tw.Flush(); err != nil {
		return goerr.Wrap(err, "failed to write record")
	}
	return nil
}

// Success prints a confirmation line, or v as JSON in JSON mode
func (p *printer) Success(v any, format string, args ...any) error {
	if p.jsonMode {
		return p.JSON(v)
	}
	fmt.Fprintln(p.w, color.GreenString("✔ ")+fmt.Sprintf(format, args...))
	return nil
}

// status colors a status value by how much attention it needs
func status(s string) string {
	switch s {
	case "pending", "pending_assignment", "needs_review", "submitted", "new", "unread":
		return color.YellowString(s)
	case "rejected", "cancelled", "no_show", "urgent", "critical", "closed":
		return color.RedString(s)
	case "approved", "accepted", "completed", "finalized", "final", "read":
		return color.GreenString(s)
	default:
		return s
	}
}

func ref(r *model.UserRef) string {
	if r == nil {
		return "-"
	}
	return r.Display()
}

func caseRef(r *model.CaseRef) string {
	if r == nil {
		return "-"
	}
	if r.Title != "" {
		return fmt.Sprintf("%s (#%s)", r.Title, r.ID)
	}
	return "#" + string(r.ID)
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func score(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
