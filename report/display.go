package report

import (
	"fmt"

	"github.com/pterm/pterm"
)

var (
	errorStyle   = pterm.NewStyle(pterm.FgRed, pterm.Bold)
	warnStyle    = pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	debugStyle   = pterm.NewStyle(pterm.FgGray)
	successStyle = pterm.NewStyle(pterm.FgLightGreen, pterm.Bold)
)

// displayDiagnostic renders a single diagnostic to standard out.
func displayDiagnostic(srcMgr SourceManager, d *Diagnostic) {
	var label string
	switch d.Severity {
	case SevError:
		label = errorStyle.Sprintf("%s", d.Kind)
	case SevWarning:
		label = warnStyle.Sprint("warning")
	default:
		label = debugStyle.Sprint("debug")
	}

	if d.Span.IsValid() {
		pos := fmt.Sprintf("%d:%d", d.Span.Begin.Line, d.Span.Begin.Col)
		if srcMgr != nil {
			pos = srcMgr.Path(d.Span.File()) + ":" + pos
		}

		fmt.Printf("%s: %s: %s\n", pos, label, d.Message())
	} else {
		fmt.Printf("%s: %s\n", label, d.Message())
	}
}

// displayICE renders an internal compiler error message.
func displayICE(message string) {
	fmt.Printf("%s: %s\n", errorStyle.Sprint("internal compiler error"), message)
	fmt.Println("This error was not supposed to happen: please open an issue")
}

// DisplayCompileHeader reports the pre-compilation banner: the compiler
// version and selected target.  Only shown at the verbose log level.
func DisplayCompileHeader(version, target string) {
	if rep.logLevel < LogLevelVerbose {
		return
	}

	pterm.Printf("%s %s (target: %s)\n",
		successStyle.Sprint("joosc"), version, target)
}

// DisplayCompilationFinished reports the concluding message for compilation.
func DisplayCompilationFinished(outputPath string) {
	if rep.logLevel < LogLevelVerbose {
		return
	}

	if ShouldProceed() {
		pterm.Printf("%s wrote %s\n", successStyle.Sprint("done:"), outputPath)
	} else {
		pterm.Printf("%s %d error(s)\n", errorStyle.Sprint("failed:"), ErrorCount())
	}
}
