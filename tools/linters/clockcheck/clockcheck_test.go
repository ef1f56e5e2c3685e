package clockcheck_test

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"

	"github.com/rezkam/aftermarket/tools/linters/clockcheck"
)

func TestAnalyzer(t *testing.T) {
	testdata := analysistest.TestData()
	analysistest.Run(t, testdata, clockcheck.Analyzer, "a")
}

func TestAnalyzer_ClockFreePackage(t *testing.T) {
	testdata := analysistest.TestData()
	analysistest.Run(t, testdata, clockcheck.Analyzer, "example.com/schedule")
}
