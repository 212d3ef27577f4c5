package tapcheck

import (
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLedger_RunContext(t *testing.T) {

	Convey("Given I have a run context", t, func() {

		buf := &bytes.Buffer{}
		c := newRunContext(buf)

		Convey("When I count outcomes", func() {

			n1 := c.count(outcomePass)
			n2 := c.count(outcomeFailed)
			n3 := c.count(outcomeError)

			Convey("Then sequence numbers should be strictly increasing", func() {
				So(n1, ShouldEqual, 1)
				So(n2, ShouldEqual, 2)
				So(n3, ShouldEqual, 3)
				So(c.total(), ShouldEqual, 3)
			})

			Convey("Then the summary should reflect the counts", func() {
				s := c.summary(false)
				So(s, ShouldResemble, Summary{Passed: 1, Failed: 1, Errored: 1})
				So(s.Total(), ShouldEqual, 3)
				So(s.ExitCode(), ShouldEqual, 1)
			})
		})

		Convey("When I bail out twice", func() {

			c.bail("first")
			c.bail("second")

			Convey("Then only the first message should be kept", func() {
				bailed, message := c.bailState()
				So(bailed, ShouldBeTrue)
				So(message, ShouldEqual, "first")
				So(buf.String(), ShouldEqual, "\nBail out! first\n")
			})
		})
	})
}

func TestLedger_Summary(t *testing.T) {

	Convey("Given I have summaries", t, func() {

		Convey("Then a summary without failures should succeed", func() {
			So(Summary{Passed: 3}.Succeeded(), ShouldBeTrue)
			So(Summary{}.ExitCode(), ShouldEqual, 0)
		})

		Convey("Then bailed or aborted summaries should fail", func() {
			So(Summary{Passed: 3, Bailed: true}.Succeeded(), ShouldBeFalse)
			So(Summary{Passed: 3, Aborted: true}.ExitCode(), ShouldEqual, 1)
		})
	})
}
