package tapcheck

import (
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPrinter_Diagnostic(t *testing.T) {

	Convey("Given I have diagnostics", t, func() {

		Convey("When I render a full diagnostic", func() {

			out := renderDiagnostic(Diagnostic{
				Operator: "deepEqual",
				Actual:   []int{1, 2},
				Expected: map[string]interface{}{"a": 1},
				Fields:   map[string]interface{}{"at": "here"},
			})

			Convey("Then it should be an indented yaml block", func() {
				So(out, ShouldEqual, "  ---\n  operator: deepEqual\n  actual:\n    - 1\n    - 2\n  expected:\n    a: 1\n  at: here\n  ...\n")
			})
		})

		Convey("When I render an empty diagnostic", func() {

			out := renderDiagnostic(Diagnostic{})

			Convey("Then it should only contain the markers", func() {
				So(out, ShouldEqual, "  ---\n  ...\n")
			})
		})
	})
}

func TestPrinter_Plan(t *testing.T) {

	Convey("Given I have a buffer", t, func() {

		buf := &bytes.Buffer{}

		Convey("When I print the plan of a failed run", func() {

			printPlan(buf, Summary{Passed: 3, Failed: 1, Errored: 1})

			Convey("Then the failures should be counted", func() {
				So(buf.String(), ShouldEqual, "\n1..5\n# tests 5\n# pass  3\n# fail  2\n\n")
			})
		})

		Convey("When I print the plan of a successful run", func() {

			printPlan(buf, Summary{Passed: 2})

			Convey("Then there should be no fail line", func() {
				So(buf.String(), ShouldEqual, "\n1..2\n# tests 2\n# pass  2\n\n")
			})
		})

		Convey("When I print titles and comments", func() {

			printTitle(buf, "a")
			printSkippedTitle(buf, "b")
			printComment(buf, "c\nd")
			printBail(buf, "e")

			Convey("Then the output should be correct", func() {
				So(buf.String(), ShouldEqual, "\n# a\n\n# SKIP b\n# c\n# d\n\nBail out! e\n")
			})
		})
	})
}
