package report

import (
	"sync"
)

// Reporter is the diagnostic sink shared by every compiler phase.  It
// respects the configured log level, counts errors so the driver can decide
// whether to proceed past a phase boundary, and retains every diagnostic it
// accepted for the final rendering pass.
type Reporter struct {
	// m synchronizes the reporting methods.
	m *sync.Mutex

	// logLevel must be one of the enumerated log levels below.
	logLevel int

	// srcMgr maps file handles to display paths; may be nil, in which case
	// diagnostics render without file names.
	srcMgr SourceManager

	// errorCount is the number of error-severity diagnostics accepted.
	errorCount int

	// diagnostics is every accepted diagnostic in report order.
	diagnostics []*Diagnostic
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays warnings and errors to the user.
	LogLevelVerbose        // Displays all compilation messages (default).
)

// rep is the global reporter instance.
var rep = &Reporter{m: &sync.Mutex{}, logLevel: LogLevelVerbose}

// InitReporter initializes the global reporter with the given log level and
// source manager.  Any previously accumulated diagnostics are discarded.
func InitReporter(logLevel int, srcMgr SourceManager) {
	rep = &Reporter{
		m:        &sync.Mutex{},
		logLevel: logLevel,
		srcMgr:   srcMgr,
	}
}

// Report accepts a diagnostic: it is counted, retained, and displayed if the
// log level allows.
func Report(d *Diagnostic) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.diagnostics = append(rep.diagnostics, d)

	switch d.Severity {
	case SevError:
		rep.errorCount++
		if rep.logLevel >= LogLevelError {
			displayDiagnostic(rep.srcMgr, d)
		}
	case SevWarning:
		if rep.logLevel >= LogLevelWarn {
			displayDiagnostic(rep.srcMgr, d)
		}
	default:
		if rep.logLevel >= LogLevelVerbose {
			displayDiagnostic(rep.srcMgr, d)
		}
	}
}

// ReportError is shorthand for reporting a freshly raised diagnostic.
func ReportError(kind Kind, span SourceRange, msg string, args ...interface{}) {
	Report(Raise(kind, span, msg, args...))
}

// ReportICE reports an internal compiler error.  Internal invariants are
// fatal: the process panics so the driver's top-level recovery can abort the
// whole run with a non-zero exit.
func ReportICE(msg string, args ...interface{}) {
	d := Raise(KindInternal, SourceRange{}, msg, args...)

	rep.m.Lock()
	rep.errorCount++
	rep.diagnostics = append(rep.diagnostics, d)
	displayICE(d.Message())
	rep.m.Unlock()

	panic(d)
}

// -----------------------------------------------------------------------------

// ShouldProceed indicates whether compilation may continue past the current
// phase boundary: ie. whether no errors have been reported.
func ShouldProceed() bool {
	rep.m.Lock()
	defer rep.m.Unlock()

	return rep.errorCount == 0
}

// AnyErrors returns whether any error-severity diagnostics were accepted.
func AnyErrors() bool {
	return !ShouldProceed()
}

// ErrorCount returns the number of error diagnostics accepted so far.
func ErrorCount() int {
	rep.m.Lock()
	defer rep.m.Unlock()

	return rep.errorCount
}

// Diagnostics returns the accepted diagnostics in report order.
func Diagnostics() []*Diagnostic {
	rep.m.Lock()
	defer rep.m.Unlock()

	out := make([]*Diagnostic, len(rep.diagnostics))
	copy(out, rep.diagnostics)
	return out
}
