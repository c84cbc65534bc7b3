package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
)

// printer renders command results in the selected output format.
type printer struct {
	out    io.Writer
	format string
}

// list prints ids one per line in text mode, or as an array.
func (p *printer) list(header string, items []string) error {
	if items == nil {
		items = []string{}
	}
	if p.format != formatText {
		return p.value(items)
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item})
	}
	RenderTable(p.out, []string{header}, rows)
	return nil
}

// document prints a JSON document received from the RIC. Text mode prints
// it as received; json and yaml re-encode it.
func (p *printer) document(raw string) error {
	if p.format == formatText {
		_, err := fmt.Fprintln(p.out, raw)
		return err
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		// Not JSON; keep the RIC's answer intact.
		v = raw
	}
	return p.value(v)
}

// result prints a confirmation line in text mode and the RIC's reply body
// otherwise.
func (p *printer) result(message, body string) error {
	if p.format == formatText {
		_, err := fmt.Fprintln(p.out, message)
		return err
	}
	if strings.TrimSpace(body) == "" {
		return p.value(map[string]string{"result": message})
	}
	return p.document(body)
}

func (p *printer) value(v any) error {
	switch p.format {
	case formatYAML:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return PrintJSON(p.out, v)
	}
}

func RenderTable(out io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}

	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				continue
			}
			if l := visibleLen(cell); l > widths[i] {
				widths[i] = l
			}
		}
	}

	writeRow(out, headers, widths)
	writeDivider(out, widths)
	for _, row := range rows {
		writeRow(out, row, widths)
	}
}

func writeDivider(out io.Writer, widths []int) {
	for i, w := range widths {
		if i > 0 {
			fmt.Fprint(out, "  ")
		}
		fmt.Fprint(out, strings.Repeat("-", w))
	}
	fmt.Fprintln(out)
}

func writeRow(out io.Writer, cols []string, widths []int) {
	for i, w := range widths {
		val := ""
		if i < len(cols) {
			val = cols[i]
		}
		if i < len(widths)-1 {
			fmt.Fprint(out, padRight(val, w), "  ")
		} else {
			fmt.Fprint(out, val)
		}
	}
	fmt.Fprintln(out)
}

func padRight(v string, width int) string {
	pad := width - visibleLen(v)
	if pad <= 0 {
		return v
	}
	return v + strings.Repeat(" ", pad)
}

// visibleLen counts bytes outside ANSI color sequences.
func visibleLen(s string) int {
	inEscape := false
	count := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inEscape {
			if ch == 'm' {
				inEscape = false
			}
			continue
		}
		if ch == 27 {
			inEscape = true
			continue
		}
		count++
	}
	return count
}

func ColorState(state string) string {
	switch strings.ToLower(state) {
	case "available":
		return ansiGreen + state + ansiReset
	case "unavailable":
		return ansiRed + state + ansiReset
	case "degraded":
		return ansiYellow + state + ansiReset
	default:
		return state
	}
}

func PrintJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max == 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
