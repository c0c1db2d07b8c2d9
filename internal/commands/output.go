package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/assess/internal/core/styles"
	"github.com/colonyops/assess/pkg/iojson"
)

func jsonFlag(dest *bool) *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "json",
		Usage:       "output as JSON",
		Destination: dest,
	}
}

func writeJSON(c *cli.Command, v any) error {
	return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, v)
}

// fail reports err as a JSON error envelope when asJSON is set and exits
// non-zero. Otherwise err is returned unchanged.
func fail(c *cli.Command, asJSON bool, err error) error {
	if !asJSON {
		return err
	}
	_ = iojson.WriteErrorTo(c.Root().ErrWriter, err.Error(), nil)
	return cli.Exit("", 1)
}

// args returns the first len(names) positional arguments or an error naming
// the first missing one.
func args(c *cli.Command, names ...string) ([]string, error) {
	got := c.Args().Slice()
	if len(got) < len(names) {
		return nil, fmt.Errorf("missing argument <%s>. Usage: %s", names[len(got)], c.UsageText)
	}
	return got[:len(names)], nil
}

type detail struct {
	label string
	value string
}

// printDetails writes aligned label/value rows.
func printDetails(w io.Writer, rows []detail) {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.label))
	}
	label := styles.LabelStyle.Width(width + 2)
	for _, r := range rows {
		_, _ = fmt.Fprintln(w, label.Render(r.label)+r.value)
	}
}

// scoreBar renders score as a 20 cell bar followed by the percentage.
func scoreBar(score int) string {
	filled := max(0, min(20, score/5))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 20-filled)
	return styles.ScoreStyle(score).Render(fmt.Sprintf("%s %3d%%", bar, score))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 100
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
