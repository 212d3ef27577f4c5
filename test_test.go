package tapcheck

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTest_MatchTags(t *testing.T) {

	Convey("Given I have a test with tags", t, func() {

		test := Test{Name: "a", Tags: []string{"fast", "api"}}

		Convey("Then matching any tag should work", func() {
			So(test.MatchTags(nil, false), ShouldBeTrue)
			So(test.MatchTags([]string{"slow", "api"}, false), ShouldBeTrue)
			So(test.MatchTags([]string{"slow"}, false), ShouldBeFalse)
		})

		Convey("Then matching all tags should work", func() {
			So(test.MatchTags(nil, true), ShouldBeTrue)
			So(test.MatchTags([]string{"fast", "api"}, true), ShouldBeTrue)
			So(test.MatchTags([]string{"fast", "slow"}, true), ShouldBeFalse)
		})

		Convey("Then excluded tags should not match", func() {
			So(test.MatchTags([]string{"fast", "~api"}, true), ShouldBeFalse)
			So(test.MatchTags([]string{"fast", "~slow"}, true), ShouldBeTrue)
		})
	})
}

func TestTest_Skipped(t *testing.T) {

	Convey("Given I have tests", t, func() {

		fn := func(context.Context, *TestCase) error { return nil }

		Convey("Then tests without function or with skip should be skipped", func() {
			So(Test{Name: "a"}.skipped(), ShouldBeTrue)
			So(Test{Name: "a", Skip: true, Function: fn}.skipped(), ShouldBeTrue)
			So(Test{Name: "a", Function: fn}.skipped(), ShouldBeFalse)
		})

		Convey("Then the string form should describe the test", func() {
			s := Test{Name: "a", Author: "me", Tags: []string{"x", "y"}}.String()
			So(s, ShouldContainSubstring, "name       : a\n")
			So(s, ShouldContainSubstring, "tags       : x, y\n")
			So(s, ShouldContainSubstring, "skip       : true\n")
		})
	})
}

func TestSuite_Filters(t *testing.T) {

	Convey("Given I have a suite", t, func() {

		fn := func(context.Context, *TestCase) error { return nil }

		suite := TestSuite{
			{Name: "a", Tags: []string{"x"}, Function: fn},
			{Name: "b", Tags: []string{"y"}, Function: fn, only: true},
			{Name: "c", Tags: []string{"x", "y"}, Function: fn},
		}

		Convey("When I filter it by tags", func() {

			filtered := suite.TestsForTags([]string{"x"}, false)

			Convey("Then only matching tests should remain in order", func() {
				So(len(filtered), ShouldEqual, 2)
				So(filtered[0].Name, ShouldEqual, "a")
				So(filtered[1].Name, ShouldEqual, "c")
			})
		})

		Convey("When I apply the only test", func() {

			out := suite.withOnly()

			Convey("Then every other test should be skipped", func() {
				So(out[0].skipped(), ShouldBeTrue)
				So(out[1].skipped(), ShouldBeFalse)
				So(out[2].skipped(), ShouldBeTrue)
			})

			Convey("Then the input suite should not be modified", func() {
				So(suite[0].skipped(), ShouldBeFalse)
			})
		})

		Convey("When the only test is filtered out", func() {

			out := suite.TestsForTags([]string{"x"}, true).withOnly()

			Convey("Then the remaining tests should run", func() {
				So(out[0].skipped(), ShouldBeFalse)
				So(out[1].skipped(), ShouldBeFalse)
			})
		})
	})
}
