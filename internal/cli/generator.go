package cli

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/stampkit/stamp/internal/errors"
	"github.com/stampkit/stamp/internal/generator"
	"github.com/stampkit/stamp/internal/models"
	"github.com/stampkit/stamp/internal/parser"
	"github.com/stampkit/stamp/internal/resolver"
	"github.com/stampkit/stamp/internal/utils"
)

// Generator orchestrates a full tagging run: scan, index, resolve, render,
// write. Resolution and rendering run per package; files are written only
// when the whole run is clean, so a failed run never leaves a partially
// tagged tree behind.
type Generator struct {
	config    Config
	scanner   *DirectoryScanner
	modules   *ModuleResolver
	parser    *parser.Parser
	generator *generator.Generator
	reporter  *DiagnosticReporter
	diag      *utils.DiagnosticSystem
}

// NewGenerator creates a generator for one CLI invocation
func NewGenerator(config Config, diag *utils.DiagnosticSystem) *Generator {
	return &Generator{
		config:    config,
		scanner:   NewDirectoryScanner(),
		modules:   NewModuleResolver(),
		parser:    parser.NewParser(),
		generator: generator.NewGenerator(),
		reporter:  NewDiagnosticReporter(config.Verbose),
		diag:      diag,
	}
}

// Run executes the tagging pipeline over the configured directories
func (g *Generator) Run() error {
	g.diag.Header("tagging artefact types")

	g.diag.PhaseHeader("Scanning")
	dirs, err := g.scanner.ScanDirectories(g.config.Directories)
	if err != nil {
		return utils.WrapProcessError("directory scan", err)
	}
	if len(dirs) == 0 {
		g.reporter.ReportWarning("no Go packages found in the given directories")
		return nil
	}
	g.diag.PhaseItem("found %d package directories", len(dirs))

	moduleName, err := g.modules.ResolveModuleName(g.config.ModuleName)
	if err != nil {
		return err
	}
	g.diag.Verbose("module path: %s", moduleName)

	diags := errors.NewMultipleErrors()

	// Phase 1: parse every package and build the compilation-wide constant
	// index before resolving anything. References are order-independent, so
	// a constant declared in the last scanned package is visible to an
	// annotation in the first.
	packages, index := g.scanPackages(dirs, moduleName, diags)

	// Phase 2: resolve arguments package by package. The index is complete
	// and read-only now, so packages resolve concurrently.
	g.resolvePackages(packages, index, diags)

	files := g.renderPackages(packages, diags)

	if !diags.IsEmpty() {
		g.reporter.ReportError(diags)
		return diags
	}

	written, err := g.writeFiles(files)
	if err != nil {
		return err
	}

	summary := GenerationSummary{
		PackagesScanned: len(packages),
		GeneratedFiles:  written,
	}
	for _, pkg := range packages {
		summary.ConstantsIndexed += len(pkg.Constants)
		for _, artefact := range pkg.Artefacts {
			if artefact.State == models.StateInjected {
				summary.ArtefactsTagged++
			}
		}
	}
	g.reporter.ReportSuccess(summary)
	return nil
}

// scanPackages parses all directories and registers them with the index
func (g *Generator) scanPackages(dirs []string, moduleName string, diags *errors.MultipleErrors) ([]*models.PackageMetadata, *resolver.ConstantIndex) {
	g.diag.PhaseHeader("Parsing")

	index := resolver.NewConstantIndex()
	var packages []*models.PackageMetadata

	for _, dir := range dirs {
		meta, err := g.parser.ParseDirectory(dir)
		if err != nil {
			addDiagnostics(diags, err, errors.SyntaxErrorCode,
				fmt.Sprintf("failed to parse package in %s", dir))
			continue
		}

		importPath, err := g.modules.BuildPackagePath(moduleName, dir)
		if err != nil {
			addDiagnostics(diags, err, errors.FileSystemErrorCode,
				fmt.Sprintf("failed to build import path for %s", dir))
			continue
		}
		meta.ImportPath = importPath

		index.AddPackage(meta)
		packages = append(packages, meta)
		g.diag.Verbose("parsed %s (%d artefacts, %d constants)",
			meta.ImportPath, len(meta.Artefacts), len(meta.Constants))
	}

	g.diag.PhaseItem("parsed %d packages", len(packages))
	return packages, index
}

// resolvePackages resolves every artefact argument against the completed index
func (g *Generator) resolvePackages(packages []*models.PackageMetadata, index *resolver.ConstantIndex, diags *errors.MultipleErrors) {
	g.diag.PhaseHeader("Resolving")

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	res := resolver.NewResolver(index, resolver.NewDependencyLoader(cwd))

	var mu sync.Mutex
	var group errgroup.Group
	group.SetLimit(runtime.GOMAXPROCS(0))

	for _, pkg := range packages {
		pkg := pkg
		group.Go(func() error {
			for _, artefact := range pkg.Artefacts {
				if err := res.Resolve(pkg, artefact); err != nil {
					mu.Lock()
					addDiagnostics(diags, err, errors.UnknownErrorCode, "resolution failed")
					mu.Unlock()
				}
			}
			return nil
		})
	}
	group.Wait()

	g.diag.PhaseItem("resolved artefact arguments")
}

// renderPackages renders accessor files for every package with resolved
// artefacts. Rendering still happens when earlier diagnostics exist so that
// collisions in other packages are reported in the same run, but nothing is
// written in that case.
func (g *Generator) renderPackages(packages []*models.PackageMetadata, diags *errors.MultipleErrors) []*models.GeneratedFile {
	var files []*models.GeneratedFile

	for _, pkg := range packages {
		file, err := g.generator.Generate(pkg)
		if err != nil {
			addDiagnostics(diags, err, errors.GenerationErrorCode,
				fmt.Sprintf("failed to generate accessors for %s", pkg.PackageName))
			continue
		}
		if file != nil {
			files = append(files, file)
		}
	}

	return files
}

// writeFiles writes the accumulated accessor files to disk
func (g *Generator) writeFiles(files []*models.GeneratedFile) ([]string, error) {
	g.diag.PhaseHeader("Writing")

	var written []string
	for _, file := range files {
		if err := os.WriteFile(file.FilePath, []byte(file.Content), 0644); err != nil {
			return written, utils.WrapWriteError(file.FilePath, err)
		}
		written = append(written, file.FilePath)
		g.diag.PhaseItem("wrote %s", file.FilePath)
	}

	if len(written) == 0 {
		g.diag.Verbose("no artefact annotations found, nothing to write")
	}
	return written, nil
}

// addDiagnostics merges an error into the batch, flattening nested batches
// and wrapping plain errors under the given code
func addDiagnostics(diags *errors.MultipleErrors, err error, code errors.ErrorCode, message string) {
	switch e := err.(type) {
	case *errors.MultipleErrors:
		diags.Errors = append(diags.Errors, e.Errors...)
	case errors.StampError:
		diags.Add(e)
	default:
		diags.Add(errors.Wrap(code, message, err))
	}
}
