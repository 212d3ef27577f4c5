package tapcheck

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/uuid"
)

// A TestResult is the finalized result of one TestCase.
type TestResult struct {
	Name       string
	Duration   time.Duration
	Assertions int
	Status     Status
	Message    string // first failure for failed or error status
}

// A TestReport is the structured report of a run.
type TestReport struct {
	Name      string
	RunID     string
	StartTime time.Time
	Entries   []TestResult
}

func newTestReport(name string, start time.Time) *TestReport {

	id := ""
	if u, err := uuid.NewV4(); err == nil {
		id = u.String()
	}

	return &TestReport{
		Name:      name,
		RunID:     id,
		StartTime: start,
	}
}

// Counts returns the number of entries per status and the total duration.
func (r TestReport) Counts() (tests int, skipped int, errors int, failures int, duration time.Duration) {

	for _, e := range r.Entries {
		tests++
		duration += e.Duration
		switch e.Status {
		case StatusSkipped:
			skipped++
		case StatusError:
			errors++
		case StatusFailed:
			failures++
		}
	}

	return
}

type xunitCData struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Content string `xml:",cdata"`
}

type xunitTestCase struct {
	Name       string      `xml:"name,attr"`
	ClassName  string      `xml:"classname,attr"`
	Assertions int         `xml:"assertions,attr"`
	Status     Status      `xml:"status,attr"`
	Time       string      `xml:"time,attr"`
	Failure    *xunitCData `xml:"failure,omitempty"`
	Error      *xunitCData `xml:"error,omitempty"`
}

type xunitTestSuite struct {
	ID        string          `xml:"id,attr,omitempty"`
	Tests     int             `xml:"tests,attr"`
	Skipped   int             `xml:"skipped,attr"`
	Errors    int             `xml:"errors,attr"`
	Failures  int             `xml:"failures,attr"`
	Name      string          `xml:"name,attr"`
	Time      string          `xml:"time,attr"`
	Timestamp string          `xml:"timestamp,attr"`
	TestCases []xunitTestCase `xml:"testcase"`
}

type xunitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Skipped    int              `xml:"skipped,attr"`
	Errors     int              `xml:"errors,attr"`
	Failures   int              `xml:"failures,attr"`
	Name       string           `xml:"name,attr"`
	Time       string           `xml:"time,attr"`
	TestSuites []xunitTestSuite `xml:"testsuite"`
}

// GenerateXunit renders the report as an xUnit XML document.
func GenerateXunit(r TestReport) ([]byte, error) {

	tests, skipped, errors, failures, duration := r.Counts()

	suite := xunitTestSuite{
		ID:        r.RunID,
		Tests:     tests,
		Skipped:   skipped,
		Errors:    errors,
		Failures:  failures,
		Name:      r.Name,
		Time:      seconds(duration),
		Timestamp: r.StartTime.UTC().Format(time.RFC3339Nano),
	}

	for _, e := range r.Entries {

		tc := xunitTestCase{
			Name:       e.Name,
			ClassName:  r.Name,
			Assertions: e.Assertions,
			Status:     e.Status,
			Time:       seconds(e.Duration),
		}

		switch e.Status {
		case StatusFailed:
			tc.Failure = &xunitCData{Message: "not used", Type: "notUsed", Content: e.Message}
		case StatusError:
			tc.Error = &xunitCData{Message: "not used", Type: "notUsed", Content: e.Message}
		}

		suite.TestCases = append(suite.TestCases, tc)
	}

	data, err := xml.Marshal(xunitTestSuites{
		Tests:      tests,
		Skipped:    skipped,
		Errors:     errors,
		Failures:   failures,
		Name:       r.Name,
		Time:       seconds(duration),
		TestSuites: []xunitTestSuite{suite},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to marshal xunit report: %w", err)
	}

	return append([]byte(xml.Header), data...), nil
}

// PrematureXunit renders the placeholder report used when the process
// exits before the run is summarized.
func PrematureXunit(name string, start time.Time) ([]byte, error) {

	return GenerateXunit(TestReport{
		Name:      name,
		StartTime: start,
		Entries: []TestResult{
			{
				Name:       "premature exit",
				Assertions: 1,
				Status:     StatusError,
				Message:    "the test process exited before the report was written",
			},
		},
	})
}

func writeXunitFile(path string, data []byte, err error) error {

	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil { // nolint: gosec
		return fmt.Errorf("unable to write xunit report to '%s': %w", path, err)
	}

	return nil
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
