// Package clockcheck provides a linter for wall-clock and local-zone usage.
//
// Schedule labels and status promotions depend on one injected "now" and one
// configured dealership zone. The analyzer reports:
//
//   - time.Now() not immediately followed by .UTC()
//   - any time.Now() in a clock-free package (schedule, jobstatus, temporal),
//     which must take now as a parameter
//   - time.Local and the Local() method, which bind output to the host zone
//
// Findings are suppressed with //nolint or //nolint:clockcheck on the same
// line or the line before.
package clockcheck

import (
	"go/ast"
	"go/types"
	"path"
	"strings"

	"golang.org/x/tools/go/analysis"
)

const analyzerName = "clockcheck"

// Analyzer is the clockcheck analyzer.
var Analyzer = &analysis.Analyzer{
	Name: analyzerName,
	Doc:  "checks that wall-clock reads are UTC, clock-free packages take now as input, and the host zone is never used",
	Run:  run,
}

// clockFree lists the last path element of packages that must not read the clock.
var clockFree = map[string]bool{
	"schedule":  true,
	"jobstatus": true,
	"temporal":  true,
}

func run(pass *analysis.Pass) (any, error) {
	noClock := clockFree[path.Base(pass.Pkg.Path())]

	for _, file := range pass.Files {
		if isTestFile(pass, file) {
			continue
		}

		// time.Now() calls that are the receiver of .UTC()
		withUTC := make(map[*ast.CallExpr]bool)
		ast.Inspect(file, func(n ast.Node) bool {
			sel, ok := n.(*ast.SelectorExpr)
			if !ok || sel.Sel.Name != "UTC" {
				return true
			}
			if call, ok := sel.X.(*ast.CallExpr); ok && isTimeFunc(pass, call.Fun, "Now") {
				withUTC[call] = true
			}
			return true
		})

		ast.Inspect(file, func(n ast.Node) bool {
			switch node := n.(type) {
			case *ast.CallExpr:
				switch {
				case isTimeFunc(pass, node.Fun, "Now"):
					if noClock {
						report(pass, file, node, "time.Now() in a clock-free package; take now as a parameter")
					} else if !withUTC[node] {
						report(pass, file, node, "time.Now() should be followed by .UTC()")
					}
				case isLocalMethod(pass, node.Fun):
					report(pass, file, node, "Time.Local() uses the host zone; use In with the configured location")
				}
			case *ast.SelectorExpr:
				if isTimeVar(pass, node, "Local") {
					report(pass, file, node, "time.Local is the host zone; use the configured location")
				}
			}
			return true
		})
	}

	return nil, nil
}

func report(pass *analysis.Pass, file *ast.File, n ast.Node, msg string) {
	if hasNolintComment(pass, file, n) {
		return
	}
	pass.Reportf(n.Pos(), "%s", msg)
}

// isTimeFunc reports whether expr names the package-level function time.<name>.
func isTimeFunc(pass *analysis.Pass, expr ast.Expr, name string) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != name {
		return false
	}
	fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
	return ok && fn.Pkg() != nil && fn.Pkg().Path() == "time" && fn.Type().(*types.Signature).Recv() == nil
}

// isTimeVar reports whether sel is the package-level variable time.<name>.
func isTimeVar(pass *analysis.Pass, sel *ast.SelectorExpr, name string) bool {
	if sel.Sel.Name != name {
		return false
	}
	v, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Var)
	return ok && v.Pkg() != nil && v.Pkg().Path() == "time" && !v.IsField()
}

// isLocalMethod reports whether expr is a call target of time.Time.Local.
func isLocalMethod(pass *analysis.Pass, expr ast.Expr) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Local" {
		return false
	}
	fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil || fn.Pkg().Path() != "time" {
		return false
	}
	return fn.Type().(*types.Signature).Recv() != nil
}

func isTestFile(pass *analysis.Pass, file *ast.File) bool {
	return strings.HasSuffix(pass.Fset.Position(file.Pos()).Filename, "_test.go")
}

// hasNolintComment checks for //nolint or //nolint:clockcheck on the node's
// line or the line before.
func hasNolintComment(pass *analysis.Pass, file *ast.File, n ast.Node) bool {
	line := pass.Fset.Position(n.Pos()).Line

	for _, cg := range file.Comments {
		for _, comment := range cg.List {
			commentLine := pass.Fset.Position(comment.Pos()).Line
			if commentLine != line && commentLine != line-1 {
				continue
			}
			text := strings.TrimPrefix(comment.Text, "//")
			directive, _, _ := strings.Cut(strings.TrimSpace(text), " ")
			if directive == "nolint" {
				return true
			}
			if linters, ok := strings.CutPrefix(directive, "nolint:"); ok {
				for _, name := range strings.Split(linters, ",") {
					if name == analyzerName {
						return true
					}
				}
			}
		}
	}

	return false
}
