package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/mrlokans/bookshelf/internal/metadata"
)

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// progressPrinter reports enrichment progress. Terminals get a single line
// redrawn in place; anything else gets one line per record.
func progressPrinter(w io.Writer) metadata.ProgressFunc {
	redraw := isTerminal(w)
	return func(current, total int, title string) {
		if redraw {
			fmt.Fprintf(w, "\r\033[K  [%d/%d] %s", current, total, title)
			if current == total {
				fmt.Fprintln(w)
			}
			return
		}
		fmt.Fprintf(w, "  [%d/%d] %s\n", current, total, title)
	}
}
