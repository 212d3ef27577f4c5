package tapcheck

import (
	"fmt"
	"io"
	"strings"

	"github.com/buger/goterm"
	wordwrap "github.com/mitchellh/go-wordwrap"
)

func listTests(w io.Writer, suite TestSuite, hooks Hooks) error {

	for _, hook := range hookNames(hooks) {
		fmt.Fprintln(w, goterm.Color(fmt.Sprintf("hook: %s", hook), goterm.MAGENTA)) // nolint
	}

	for i, t := range suite {

		color := goterm.GREEN
		status := ""
		switch {
		case t.only:
			color = goterm.YELLOW
			status = " (only)"
		case t.skipped():
			color = goterm.BLUE
			status = " (skipped)"
		}

		fmt.Fprintf(w, "%s\n", goterm.Bold(goterm.Color(fmt.Sprintf("%d. %s%s", i+1, t.Name, status), color))) // nolint

		if t.Description != "" || t.Author != "" {
			fmt.Fprintf(w, "%s\n", indent(wordwrap.WrapString(describe(t), 100))) // nolint
		}

		if len(t.Tags) > 0 {
			fmt.Fprintf(w, "  tags: %s\n", strings.Join(t.Tags, ", ")) // nolint
		}
	}

	return nil
}

func describe(t Test) string {

	if t.Author == "" {
		return t.Description
	}

	return fmt.Sprintf("%s (%s)", t.Description, t.Author)
}

func hookNames(hooks Hooks) (out []string) {

	if hooks.BeforeAll != nil {
		out = append(out, "beforeAll")
	}
	if hooks.BeforeEach != nil {
		out = append(out, "beforeEach")
	}
	if hooks.AfterEach != nil {
		out = append(out, "afterEach")
	}
	if hooks.AfterAll != nil {
		out = append(out, "afterAll")
	}

	return out
}
