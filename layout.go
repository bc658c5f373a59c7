package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"nodepad/internal/diagram"
)

const layoutUsage = "usage: nodepad layout [--cell] [--txt] FILE..."

// runLayout prints how each saved diagram lays out: every box with its bounds
// and wrapped lines. --cell measures on the terminal grid instead of with the
// embedded font, and --txt prints the plain text export instead.
func runLayout(cfg *Config, args []string, w io.Writer) error {
	measure := "font"
	asText := false
	var files []string
	for _, arg := range args {
		switch arg {
		case "--cell":
			measure = "cell"
		case "--txt":
			asText = true
		case "-h", "--help":
			fmt.Fprintln(w, layoutUsage)
			return nil
		default:
			if strings.HasPrefix(arg, "-") {
				return fmt.Errorf("unknown flag %s\n%s", arg, layoutUsage)
			}
			files = append(files, arg)
		}
	}
	if len(files) == 0 {
		return errors.New(layoutUsage)
	}
	if asText {
		measure = "cell"
	}

	metrics, err := cfg.Metrics(measure)
	if err != nil {
		return err
	}

	for i, path := range files {
		canvas := diagram.New(metrics)
		if err := openChart(canvas, path); err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		if asText {
			fmt.Fprint(w, visualText(canvas))
			continue
		}
		writeLayout(w, path, canvas)
	}
	return nil
}

func writeLayout(w io.Writer, path string, c *diagram.Canvas) {
	fmt.Fprintf(w, "%s: %s, %s\n", path,
		plural(c.Len(), "box", "boxes"),
		plural(len(c.Connections()), "connection", "connections"))
	index := make(map[string]int, c.Len())
	for i, b := range c.Boxes() {
		index[b.ID.String()] = i
		r := b.Bounds()
		fmt.Fprintf(w, "box %d at (%g,%g) size %gx%g color %s\n",
			i, r.Min.X, r.Min.Y, b.Width, b.Height, b.Color.Hex())
		for _, line := range b.Layout().Lines {
			fmt.Fprintf(w, "  |%s|\n", line)
		}
	}
	for _, conn := range c.Connections() {
		fmt.Fprintf(w, "link %d -> %d\n", index[conn.FromID.String()], index[conn.ToID.String()])
	}
}
