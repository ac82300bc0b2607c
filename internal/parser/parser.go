package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/stampkit/stamp/internal/annotations"
	"github.com/stampkit/stamp/internal/errors"
	"github.com/stampkit/stamp/internal/models"
)

// Parser scans Go source for //stamp::artefact annotations and collects the
// package facts the rest of the pipeline needs: annotated structs, the
// package's string-constant pool, package-level vars, and declared members.
type Parser struct {
	fileSet     *token.FileSet
	annotations *annotations.Parser
}

// NewParser creates a new source parser
func NewParser() *Parser {
	return &Parser{
		fileSet:     token.NewFileSet(),
		annotations: annotations.NewParser(),
	}
}

// FileSet returns the token.FileSet used for position information
func (p *Parser) FileSet() *token.FileSet {
	return p.fileSet
}

// ParseSource parses source code from a string, primarily for tests
func (p *Parser) ParseSource(filename, source string) (*models.PackageMetadata, error) {
	file, err := parser.ParseFile(p.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	metadata := models.NewPackageMetadata(file.Name.Name, "./")
	diags := errors.NewMultipleErrors()
	p.processFile(metadata, filename, file, diags)

	if !diags.IsEmpty() {
		return nil, diags
	}
	return metadata, nil
}

// ParseDirectory scans a single package directory for annotated Go files.
// Test files and previously generated autogen_ files are excluded so that
// accessors from an earlier run are neither rediscovered nor reported as
// collisions.
func (p *Parser) ParseDirectory(dir string) (*models.PackageMetadata, error) {
	pkgs, err := parser.ParseDir(p.fileSet, dir, sourceFileFilter, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse directory %s: %w", dir, err)
	}

	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no Go packages found in directory %s", dir)
	}
	if len(pkgs) > 1 {
		return nil, fmt.Errorf("multiple packages found in directory %s", dir)
	}

	var pkg *ast.Package
	var packageName string
	for name, astPkg := range pkgs {
		pkg = astPkg
		packageName = name
		break
	}

	metadata := models.NewPackageMetadata(packageName, dir)
	diags := errors.NewMultipleErrors()
	for fileName, file := range pkg.Files {
		p.processFile(metadata, fileName, file, diags)
	}

	if !diags.IsEmpty() {
		return nil, diags
	}
	return metadata, nil
}

// sourceFileFilter excludes test files and generated output from discovery
func sourceFileFilter(info fs.FileInfo) bool {
	name := info.Name()
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasPrefix(name, "autogen_")
}

// processFile extracts annotations, constants, vars and member sets from one
// file. Diagnostics are batched; a bad annotation in one file does not stop
// discovery in the rest of the package.
func (p *Parser) processFile(metadata *models.PackageMetadata, fileName string, file *ast.File, diags *errors.MultipleErrors) {
	imports := p.extractImports(file)
	metadata.Imports[fileName] = imports

	// Only package-level declarations feed the symbol table. Function bodies
	// can declare consts and types of their own, but nothing outside the
	// function can reference those, so they must not shadow or satisfy
	// package-scope lookups.
	for _, decl := range file.Decls {
		switch node := decl.(type) {
		case *ast.GenDecl:
			switch node.Tok {
			case token.TYPE:
				p.collectTypes(metadata, fileName, node, imports, diags)
			case token.CONST:
				p.collectConstants(metadata, fileName, node)
			case token.VAR:
				p.collectVars(metadata, node)
			}
		case *ast.FuncDecl:
			if name, ok := receiverTypeName(node); ok {
				p.addMember(metadata, name, node.Name.Name)
			}
		}
	}
}

// collectTypes records struct member sets and discovers artefact annotations
func (p *Parser) collectTypes(metadata *models.PackageMetadata, fileName string, decl *ast.GenDecl, imports map[string]string, diags *errors.MultipleErrors) {
	grouped := len(decl.Specs) > 1
	if grouped && decl.Doc != nil {
		// A doc comment above `type ( ... )` belongs to the whole block. An
		// annotation there would tag every struct in the block at once, which
		// is never what the author meant.
		for _, comment := range decl.Doc.List {
			if annotations.IsAnnotation(comment.Text) {
				diags.Add(errors.New(errors.ValidationErrorCode,
					"artefact annotation on a type declaration block is ambiguous").
					WithLocation(p.location(comment.Pos(), fileName)).
					WithSuggestion("move the annotation onto the struct declaration inside the block"))
			}
		}
	}

	for _, spec := range decl.Specs {
		typeSpec, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		structType, ok := typeSpec.Type.(*ast.StructType)
		if !ok {
			continue
		}

		p.collectFields(metadata, typeSpec.Name.Name, structType)

		doc := typeSpec.Doc
		if doc == nil && !grouped {
			doc = decl.Doc
		}
		if doc == nil {
			continue
		}

		var annotated bool
		for _, comment := range doc.List {
			if !annotations.IsAnnotation(comment.Text) {
				continue
			}

			loc := p.location(comment.Pos(), fileName)
			if annotated {
				// At most one artefact annotation per struct; a second one
				// would make the tag ambiguous.
				diags.Add(errors.Newf(errors.ValidationErrorCode,
					"struct %s carries more than one artefact annotation", typeSpec.Name.Name).
					WithLocation(loc).
					WithSuggestion("keep a single //stamp::artefact annotation per struct"))
				continue
			}
			annotated = true

			parsed, err := p.annotations.ParseComment(comment.Text, typeSpec.Name.Name, annotations.SourceLocation(loc))
			if err != nil {
				diags.Add(errors.Wrap(errors.SyntaxErrorCode, err.Error(), err).
					WithLocation(loc).
					WithSuggestion(`expected //stamp::artefact "Name" or //stamp::artefact pkg.Constant`))
				continue
			}

			metadata.Artefacts = append(metadata.Artefacts, &models.ArtefactMetadata{
				StructName: typeSpec.Name.Name,
				Annotation: parsed,
				FileName:   fileName,
				Imports:    imports,
				State:      models.StateDiscovered,
			})
		}
	}
}

// collectFields records a struct's field names for collision detection
func (p *Parser) collectFields(metadata *models.PackageMetadata, structName string, structType *ast.StructType) {
	if metadata.Members[structName] == nil {
		metadata.Members[structName] = make(map[string]bool)
	}
	for _, field := range structType.Fields.List {
		if len(field.Names) == 0 {
			// Embedded field: the member name is the base type name
			if name, ok := embeddedFieldName(field.Type); ok {
				metadata.Members[structName][name] = true
			}
			continue
		}
		for _, name := range field.Names {
			metadata.Members[structName][name.Name] = true
		}
	}
}

// collectConstants records package-level constant declarations. Only string
// literals and single-identifier aliases are usable; other initializer forms
// are kept as ConstantNonLiteral so references to them produce a
// NonConstantFieldReference rather than an unresolved name.
func (p *Parser) collectConstants(metadata *models.PackageMetadata, fileName string, decl *ast.GenDecl) {
	// A spec without an expression list repeats the previous spec's list, per
	// Go constant declaration semantics (const ( A = "x"; B ) gives B = "x").
	// Repeated iota expressions stay non-literal through the Ident case below.
	var carried []ast.Expr
	for _, spec := range decl.Specs {
		valueSpec, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		values := valueSpec.Values
		if len(values) == 0 {
			values = carried
		} else {
			carried = values
		}
		for i, name := range valueSpec.Names {
			if name.Name == "_" {
				continue
			}

			constant := models.ConstantDecl{
				Name:     name.Name,
				Kind:     models.ConstantNonLiteral,
				FileName: fileName,
				Line:     p.fileSet.Position(name.Pos()).Line,
			}

			if i < len(values) {
				switch value := values[i].(type) {
				case *ast.BasicLit:
					if value.Kind == token.STRING {
						if unquoted, err := strconv.Unquote(value.Value); err == nil {
							constant.Kind = models.ConstantString
							constant.Value = unquoted
						}
					}
				case *ast.Ident:
					if value.Name != "iota" {
						constant.Kind = models.ConstantAlias
						constant.RefName = value.Name
					}
				case *ast.SelectorExpr:
					if pkg, ok := value.X.(*ast.Ident); ok {
						constant.Kind = models.ConstantAlias
						constant.RefQualifier = pkg.Name
						constant.RefName = value.Sel.Name
					}
				}
			}

			metadata.Constants[constant.Name] = constant
		}
	}
}

// collectVars records package-level var names
func (p *Parser) collectVars(metadata *models.PackageMetadata, decl *ast.GenDecl) {
	for _, spec := range decl.Specs {
		valueSpec, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		for _, name := range valueSpec.Names {
			if name.Name != "_" {
				metadata.Vars[name.Name] = true
			}
		}
	}
}

// extractImports builds the file's import table so reference resolution can
// match the name resolution the file itself uses, including aliases.
func (p *Parser) extractImports(file *ast.File) map[string]string {
	imports := make(map[string]string)
	for _, spec := range file.Imports {
		importPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		local := path.Base(importPath)
		if spec.Name != nil {
			if spec.Name.Name == "_" || spec.Name.Name == "." {
				continue
			}
			local = spec.Name.Name
		}
		imports[local] = importPath
	}
	return imports
}

// addMember records a method declaration on a struct
func (p *Parser) addMember(metadata *models.PackageMetadata, structName, member string) {
	if metadata.Members[structName] == nil {
		metadata.Members[structName] = make(map[string]bool)
	}
	metadata.Members[structName][member] = true
}

// location converts a token position to a diagnostic source location
func (p *Parser) location(pos token.Pos, fileName string) errors.SourceLocation {
	position := p.fileSet.Position(pos)
	file := position.Filename
	if file == "" {
		file = fileName
	}
	return errors.SourceLocation{
		File:   file,
		Line:   position.Line,
		Column: position.Column,
	}
}

// receiverTypeName extracts the receiver's base type name from a method
func receiverTypeName(decl *ast.FuncDecl) (string, bool) {
	if decl.Recv == nil || len(decl.Recv.List) == 0 {
		return "", false
	}
	switch recv := decl.Recv.List[0].Type.(type) {
	case *ast.StarExpr:
		if ident, ok := recv.X.(*ast.Ident); ok {
			return ident.Name, true
		}
	case *ast.Ident:
		return recv.Name, true
	}
	return "", false
}

// embeddedFieldName returns the member name contributed by an embedded field
func embeddedFieldName(expr ast.Expr) (string, bool) {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name, true
	case *ast.StarExpr:
		return embeddedFieldName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name, true
	}
	return "", false
}
