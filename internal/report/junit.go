package report

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"time"
)

// JUnit XML schema types, for CI systems that consume acceptance runs.

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one acceptance run.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one check.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure represents a check that completed but reported failure.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
}

// JUnitError represents an engine-level failure (unknown check, panic, timeout).
type JUnitError struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
}

// JUnitSkipped marks a disabled check.
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// ConvertToJUnit renders the report in JUnit XML form.
func ConvertToJUnit(rep *Report) *JUnitTestSuites {
	suite := JUnitTestSuite{
		Name:      "autosac",
		Timestamp: time.Now().Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "version", Value: rep.Version},
		},
	}

	for _, line := range rep.Lines() {
		entry := rep.Results[line.Name]
		tc := JUnitTestCase{
			Name:      line.Name,
			Classname: entry.F,
		}
		switch line.Status {
		case StatusSkipped:
			tc.Skipped = &JUnitSkipped{Message: "check disabled"}
			suite.Skipped++
		case StatusFailed:
			tc.Error = &JUnitError{Message: line.Detail, Type: "CheckExecutionError"}
			suite.Errors++
		default:
			if payloadReportsFailure(entry.Result) {
				tc.Failure = &JUnitFailure{Message: "check reported failure", Type: "CheckFailed"}
				suite.Failures++
			}
		}
		suite.Tests++
		suite.TestCases = append(suite.TestCases, tc)
	}

	return &JUnitTestSuites{
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		Errors:     suite.Errors,
		TestSuites: []JUnitTestSuite{suite},
	}
}

// WriteJUnit writes the JUnit XML rendition of the report to path.
func WriteJUnit(path string, rep *Report) error {
	data, err := xml.MarshalIndent(ConvertToJUnit(rep), "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	data = append([]byte(xml.Header), data...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// payloadReportsFailure peeks at a completed check's payload for a false
// "success" field. Checks return either a single result object or a list of
// per-target results; anything without a success field counts as success.
// The payload is normalized through its JSON form so typed and generic
// payloads are inspected the same way.
func payloadReportsFailure(result any) bool {
	data, err := json.Marshal(result)
	if err != nil {
		return false
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return false
	}
	return docReportsFailure(doc)
}

func docReportsFailure(doc any) bool {
	switch v := doc.(type) {
	case map[string]any:
		if success, ok := v["success"].(bool); ok {
			return !success
		}
	case []any:
		for _, item := range v {
			if docReportsFailure(item) {
				return true
			}
		}
	}
	return false
}
