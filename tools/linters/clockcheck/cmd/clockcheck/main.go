package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/rezkam/aftermarket/tools/linters/clockcheck"
)

func main() {
	singlechecker.Main(clockcheck.Analyzer)
}
