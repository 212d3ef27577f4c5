package tapcheck

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

func printHeader(w io.Writer) {
	fmt.Fprintln(w, "TAP version 13") // nolint
}

func printTitle(w io.Writer, title string) {
	fmt.Fprintf(w, "\n# %s\n", title) // nolint
}

func printSkippedTitle(w io.Writer, title string) {
	fmt.Fprintf(w, "\n# SKIP %s\n", title) // nolint
}

func printComment(w io.Writer, message string) {
	for _, line := range strings.Split(message, "\n") {
		fmt.Fprintf(w, "# %s\n", line) // nolint
	}
}

func printBail(w io.Writer, message string) {
	fmt.Fprintf(w, "\nBail out! %s\n", message) // nolint
}

func printAssertion(w io.Writer, ok bool, n int, message string, extra *Diagnostic) {

	status := "ok"
	if !ok {
		status = "not ok"
	}

	fmt.Fprintf(w, "%s %d %s\n", status, n, message) // nolint

	if extra != nil {
		fmt.Fprint(w, renderDiagnostic(*extra)) // nolint
	}
}

func printPlan(w io.Writer, s Summary) {

	fmt.Fprintf(w, "\n1..%d\n", s.Total())     // nolint
	fmt.Fprintf(w, "# tests %d\n", s.Total()) // nolint
	fmt.Fprintf(w, "# pass  %d\n", s.Passed)  // nolint

	if fails := s.Failed + s.Errored; fails > 0 {
		fmt.Fprintf(w, "# fail  %d\n", fails) // nolint
	}

	fmt.Fprintln(w) // nolint
}

// renderDiagnostic renders a Diagnostic as an indented YAML block:
//
//	---
//	operator: equal
//	actual: 1
//	...
func renderDiagnostic(d Diagnostic) string {

	buf := &bytes.Buffer{}
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)

	if err := enc.Encode(d); err != nil {
		buf.Reset()
		fmt.Fprintf(buf, "error: unable to render diagnostic: %s\n", err) // nolint
	}
	enc.Close() // nolint

	body := strings.TrimRight(buf.String(), "\n")
	if body == "{}" {
		body = ""
	}

	lines := []string{"---"}
	if body != "" {
		lines = append(lines, strings.Split(body, "\n")...)
	}
	lines = append(lines, "...")

	return indent(strings.Join(lines, "\n")) + "\n"
}

func indent(lines string) string {
	return "  " + strings.Replace(lines, "\n", "\n  ", -1)
}
