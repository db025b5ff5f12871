package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/dmitrijs2005/logkeeper/internal/client/models"
	"github.com/dmitrijs2005/logkeeper/internal/client/pagination"
	"github.com/dmitrijs2005/logkeeper/internal/client/state"
	"golang.org/x/term"
)

const (
	defaultWidth = 100
	dateLayout   = "01/02/2006"
	ownerWidth   = 20
	statusWidth  = 16
	minTextWidth = 10

	emptyHint = `No logs available. Type "add" to create your first log entry.`
)

// termWidth is a test seam for the terminal width.
var termWidth = func() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// renderTable writes one page of entries. Row numbers continue across pages.
func renderTable(w io.Writer, v pagination.View, rows []models.Entry, status func(models.ID) state.Status, width int) {
	if v.TotalItems == 0 {
		fmt.Fprintln(w, emptyHint)
		return
	}

	// #, two dates and the status column, plus tabwriter padding
	fixed := 4 + ownerWidth + 2*len(dateLayout) + statusWidth + 5*2
	textWidth := width - fixed
	if textWidth < minTextWidth {
		textWidth = minTextWidth
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tOwner\tCreated At\tUpdated At\tLog Text\tStatus")
	for i, e := range rows {
		owner := e.Owner
		if owner == "" {
			owner = "No owner"
		}
		text := e.LogText
		if text == "" {
			text = "No log text"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			v.Start+i+1,
			truncate(owner, ownerWidth),
			e.CreatedAt.Local().Format(dateLayout),
			e.UpdatedAt.Local().Format(dateLayout),
			truncate(text, textWidth),
			statusLabel(e.ID, status(e.ID)),
		)
	}
	_ = tw.Flush()

	if v.Visible {
		fmt.Fprintln(w, pageLine(v))
	}
}

// pageLine lists every page with the current one in brackets.
func pageLine(v pagination.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Page %d of %d (%d logs):", v.Page, v.TotalPages, v.TotalItems)
	if v.HasPrev() {
		b.WriteString(" prev")
	}
	for p := 1; p <= v.TotalPages; p++ {
		if p == v.Page {
			fmt.Fprintf(&b, " [%d]", p)
		} else {
			fmt.Fprintf(&b, " %d", p)
		}
	}
	if v.HasNext() {
		b.WriteString(" next")
	}
	return b.String()
}

func statusLabel(id models.ID, st state.Status) string {
	var parts []string
	if id.IsDraft() {
		parts = append(parts, "draft")
	}
	switch st {
	case state.Editing:
		parts = append(parts, "editing")
	case state.Saving:
		parts = append(parts, "saving...")
	case state.Deleting:
		parts = append(parts, "deleting...")
	}
	return strings.Join(parts, ", ")
}

// truncate shortens s to at most n runes, flattening line breaks.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
