package tapcheck

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestReporting_GenerateXunit(t *testing.T) {

	Convey("Given I have a report", t, func() {

		start := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)

		report := TestReport{
			Name:      "run",
			RunID:     "abc",
			StartTime: start,
			Entries: []TestResult{
				{Name: "a", Status: StatusSuccess, Assertions: 2, Duration: 1500 * time.Millisecond},
				{Name: "b", Status: StatusSkipped},
				{Name: "c", Status: StatusFailed, Assertions: 1, Duration: 10 * time.Millisecond, Message: "nope\ncomment"},
				{Name: "d", Status: StatusError, Assertions: 1, Message: "boom"},
			},
		}

		Convey("When I count the entries", func() {

			tests, skipped, errs, failures, duration := report.Counts()

			Convey("Then the counts should be correct", func() {
				So(tests, ShouldEqual, 4)
				So(skipped, ShouldEqual, 1)
				So(errs, ShouldEqual, 1)
				So(failures, ShouldEqual, 1)
				So(duration, ShouldEqual, 1510*time.Millisecond)
			})
		})

		Convey("When I generate the xunit report", func() {

			data, err := GenerateXunit(report)
			out := string(data)

			Convey("Then err should be nil", func() {
				So(err, ShouldBeNil)
			})

			Convey("Then the document should be valid xml", func() {
				So(out, ShouldStartWith, xml.Header)
				So(xml.Unmarshal(data, &xunitTestSuites{}), ShouldBeNil)
			})

			Convey("Then the suite attributes should be correct", func() {
				So(out, ShouldContainSubstring, `<testsuites tests="4" skipped="1" errors="1" failures="1" name="run" time="1.510">`)
				So(out, ShouldContainSubstring, `<testsuite id="abc" tests="4" skipped="1" errors="1" failures="1" name="run" time="1.510" timestamp="2021-03-04T05:06:07Z">`)
			})

			Convey("Then the test cases should be correct", func() {
				So(out, ShouldContainSubstring, `<testcase name="a" classname="run" assertions="2" status="success" time="1.500"></testcase>`)
				So(out, ShouldContainSubstring, `<testcase name="b" classname="run" assertions="0" status="skipped" time="0.000"></testcase>`)
				So(out, ShouldContainSubstring, "<failure message=\"not used\" type=\"notUsed\"><![CDATA[nope\ncomment]]></failure>")
				So(out, ShouldContainSubstring, `<error message="not used" type="notUsed"><![CDATA[boom]]></error>`)
			})
		})
	})
}

func TestReporting_PrematureXunit(t *testing.T) {

	Convey("Given I generate a premature report", t, func() {

		data, err := PrematureXunit("run", time.Now())

		Convey("Then it should contain one errored test", func() {
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `<testsuites tests="1" skipped="0" errors="1" failures="0" name="run"`)
			So(strings.Count(string(data), "<testcase "), ShouldEqual, 1)
			So(string(data), ShouldContainSubstring, `<testcase name="premature exit" classname="run" assertions="1" status="error"`)
		})
	})
}

func TestReporting_RunID(t *testing.T) {

	Convey("Given I create two reports", t, func() {

		r1 := newTestReport("run", time.Now())
		r2 := newTestReport("run", time.Now())

		Convey("Then they should have different run ids", func() {
			So(r1.RunID, ShouldNotBeEmpty)
			So(r1.RunID, ShouldNotEqual, r2.RunID)
		})
	})
}
