package build

import (
	"fmt"
	"os"

	"joosc/arena"
	"joosc/ast"
	"joosc/builder"
	"joosc/generate"
	"joosc/ir"
	"joosc/lower"
	"joosc/mods"
	"joosc/parsetree"
	"joosc/report"
	"joosc/resolve"
	"joosc/walk"
)

// Frontend is the external parser the pipeline consumes parse trees from.
// Implementations are registered by the embedding driver; the core never
// lexes or parses source text itself.
type Frontend interface {
	// ParseFile parses one source file into a parse tree.  A failed parse
	// reports its own diagnostics and returns a poisoned tree.
	ParseFile(path string) (*parsetree.Node, error)
}

// frontend is the registered frontend, if any.
var frontend Frontend

// RegisterFrontend installs the parser used by Compile.
func RegisterFrontend(f Frontend) {
	frontend = f
}

// -----------------------------------------------------------------------------

// Pipeline sequences the compiler phases over one project.  Phases execute
// strictly in order; each phase completes over the whole linking unit
// before the next begins, and a phase that reported errors stops the run at
// the next boundary.
type Pipeline struct {
	proj  *mods.Project
	arena *arena.Arena
}

// NewPipeline creates a pipeline for the given project.
func NewPipeline(proj *mods.Project) *Pipeline {
	return &Pipeline{proj: proj, arena: arena.New()}
}

// Compile runs the full pipeline: parse (external), build AST, resolve
// names, type-check expressions, check static usage, lower to IR, and emit.
// It returns false if any phase reported an error.
func (p *Pipeline) Compile() bool {
	if frontend == nil {
		report.ReportError(report.KindInternal, report.SourceRange{},
			"no parser frontend is registered")
		return false
	}

	paths, err := p.proj.SourceFiles()
	if err != nil {
		report.ReportError(report.KindInternal, report.SourceRange{}, "%s", err)
		return false
	}

	var roots []*parsetree.Node
	for _, path := range paths {
		root, err := frontend.ParseFile(path)
		if err != nil {
			report.ReportError(report.KindInternal, report.SourceRange{}, "%s", err)
			continue
		}

		roots = append(roots, root)
	}

	lu := builder.New(p.arena).BuildLinkingUnit(roots)
	if !report.ShouldProceed() {
		return false
	}

	unit, ok := p.CompileUnit(lu)
	if !ok {
		return false
	}

	return p.emit(unit)
}

// CompileUnit runs the semantic phases and lowering over an already-built
// linking unit, returning the IR unit.
func (p *Pipeline) CompileUnit(lu *ast.LinkingUnit) (*ir.CompilationUnit, bool) {
	resolver := resolve.NewResolver(p.arena, lu)
	resolver.Resolve()
	if !report.ShouldProceed() {
		return nil, false
	}

	walk.NewWalker(resolver, lu).Walk()
	if !report.ShouldProceed() {
		return nil, false
	}

	ctx := ir.NewContext(ir.TargetInfo{
		PointerSizeBits: p.proj.PointerSizeBits,
		StackAlignment:  p.proj.StackAlignment,
	})

	unit := lower.NewLowerer(ctx, resolver, lu).Lower()
	if !report.ShouldProceed() {
		return nil, false
	}

	return unit, true
}

// emit writes the requested output formats.
func (p *Pipeline) emit(unit *ir.CompilationUnit) bool {
	var out string

	if p.proj.EmitLLVM {
		out = generate.NewGenerator(unit).Generate().String()
	} else {
		out = unit.String()
	}

	if err := os.WriteFile(p.proj.OutputPath, []byte(out), 0o644); err != nil {
		report.ReportError(report.KindInternal, report.SourceRange{}, "%s", err)
		return false
	}

	if p.proj.EmitIR && p.proj.EmitLLVM {
		// Both formats requested: the textual joosc IR goes beside the
		// LLVM output.
		path := p.proj.OutputPath + ".jir"
		if err := os.WriteFile(path, []byte(unit.String()), 0o644); err != nil {
			report.ReportError(report.KindInternal, report.SourceRange{}, "%s", err)
			return false
		}
	}

	fmt.Println()
	report.DisplayCompilationFinished(p.proj.OutputPath)
	return report.ShouldProceed()
}
