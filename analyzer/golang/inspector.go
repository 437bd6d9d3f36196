package golang

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"strconv"
	"strings"

	"github.com/viant/modgraph/graph"
	"golang.org/x/tools/go/packages"
)

// Inspector builds a module graph from Go source. Type declarations become
// class-like nodes whose fields and methods are member entries, so a Go
// package merges with the same granularity as a Python module.
type Inspector struct {
	config *graph.Config
}

// NewInspector creates a new Go Inspector with the provided configuration
func NewInspector(config *graph.Config) *Inspector {
	if config == nil {
		config = graph.DefaultConfig()
	}
	return &Inspector{config: config}
}

// parsedFile pairs one parsed file with what is needed to slice source text
type parsedFile struct {
	fset *token.FileSet
	file *ast.File
	src  []byte
}

// InspectSource parses Go source code and extracts the module graph
func (i *Inspector) InspectSource(module string, src []byte) (*graph.Node, error) {
	parsed, err := parseSource("source.go", src)
	if err != nil {
		return nil, err
	}
	moduleNode := graph.NewModule(module)
	i.collectTypes(moduleNode, parsed)
	i.collectDecls(moduleNode, parsed)
	return moduleNode, nil
}

// InspectFile parses a Go source file and extracts the module graph
func (i *Inspector) InspectFile(module, filename string) (*graph.Node, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return i.InspectSource(module, src)
}

// InspectDirectory loads the package rooted in dir and extracts one module
// graph covering all of its files. Types of every file are collected before
// functions so that methods attach regardless of file order.
func (i *Inspector) InspectDirectory(module, dir string) (*graph.Node, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to load package in %s: %w", dir, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no package found in %s", dir)
	}
	pkg := pkgs[0]
	if module == "" {
		module = pkg.Name
	}

	var files []*parsedFile
	for _, filename := range pkg.GoFiles {
		src, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		parsed, err := parseSource(filename, src)
		if err != nil {
			return nil, err
		}
		files = append(files, parsed)
	}

	moduleNode := graph.NewModule(module)
	for _, parsed := range files {
		i.collectTypes(moduleNode, parsed)
	}
	for _, parsed := range files {
		i.collectDecls(moduleNode, parsed)
	}
	return moduleNode, nil
}

func parseSource(filename string, src []byte) (*parsedFile, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return &parsedFile{fset: fset, file: file, src: src}, nil
}

// collectTypes binds every type declaration as a class-like node with its
// struct fields as members
func (i *Inspector) collectTypes(moduleNode *graph.Node, parsed *parsedFile) {
	module := moduleNode.FullName()
	for _, decl := range parsed.file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			name := typeSpec.Name.Name
			if i.skip(name) {
				continue
			}
			class := graph.NewClass(graph.Join(module, name))
			class.SetBody(parsed.content(genDecl))
			if doc := declDoc(genDecl.Doc, typeSpec.Doc); doc != "" {
				class.SetDoc(doc)
			}
			if structType, ok := typeSpec.Type.(*ast.StructType); ok {
				i.collectFields(class, structType, parsed)
			}
			moduleNode.Members().Put(name, graph.EntryGlobal, class)
		}
	}
}

func (i *Inspector) collectFields(class *graph.Node, structType *ast.StructType, parsed *parsedFile) {
	if structType.Fields == nil {
		return
	}
	for _, field := range structType.Fields.List {
		for _, ident := range field.Names {
			if i.skip(ident.Name) {
				continue
			}
			variable := graph.NewNode(graph.KindVar, graph.Join(class.FullName(), ident.Name))
			variable.SetBody(parsed.content(field))
			if field.Type != nil {
				variable.SetTypeHint(parsed.content(field.Type))
			}
			class.Members().Put(ident.Name, graph.EntryMember, variable)
		}
	}
}

// collectDecls binds functions, methods, variables, constants and imports
func (i *Inspector) collectDecls(moduleNode *graph.Node, parsed *parsedFile) {
	for _, decl := range parsed.file.Decls {
		switch actual := decl.(type) {
		case *ast.FuncDecl:
			i.collectFunc(moduleNode, actual, parsed)
		case *ast.GenDecl:
			switch actual.Tok {
			case token.VAR, token.CONST:
				i.collectValues(moduleNode, actual, parsed)
			case token.IMPORT:
				if i.config.IncludeImports {
					i.collectImports(moduleNode, actual)
				}
			}
		}
	}
}

func (i *Inspector) collectFunc(moduleNode *graph.Node, decl *ast.FuncDecl, parsed *parsedFile) {
	name := decl.Name.Name
	if i.skip(name) {
		return
	}
	owner := moduleNode
	entryKind := graph.EntryGlobal
	if decl.Recv != nil && len(decl.Recv.List) > 0 {
		receiver := receiverName(decl.Recv.List[0].Type)
		entry, ok := moduleNode.Members().Lookup(receiver)
		if !ok || entry.Node == nil || !entry.Node.IsClassLike() {
			return
		}
		owner = entry.Node
		entryKind = graph.EntryMember
	}
	function := graph.NewNode(graph.KindFunc, graph.Join(owner.FullName(), name))
	function.SetBody(parsed.content(decl))
	function.SetSignature(parsed.slice(decl.Pos(), decl.Type.End()))
	if decl.Doc != nil {
		function.SetDoc(strings.TrimSpace(decl.Doc.Text()))
	}
	owner.Members().Put(name, entryKind, function)
}

func (i *Inspector) collectValues(moduleNode *graph.Node, decl *ast.GenDecl, parsed *parsedFile) {
	for _, spec := range decl.Specs {
		valueSpec, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		for _, ident := range valueSpec.Names {
			if ident.Name == "_" || i.skip(ident.Name) {
				continue
			}
			variable := graph.NewNode(graph.KindVar, graph.Join(moduleNode.FullName(), ident.Name))
			variable.SetBody(parsed.content(valueSpec))
			if valueSpec.Type != nil {
				variable.SetTypeHint(parsed.content(valueSpec.Type))
			}
			moduleNode.Members().Put(ident.Name, graph.EntryGlobal, variable)
		}
	}
}

// collectImports records import bindings; the bound nodes live outside the
// module prefix and stay out of the identity merge
func (i *Inspector) collectImports(moduleNode *graph.Node, decl *ast.GenDecl) {
	for _, spec := range decl.Specs {
		importSpec, ok := spec.(*ast.ImportSpec)
		if !ok {
			continue
		}
		path, err := strconv.Unquote(importSpec.Path.Value)
		if err != nil {
			continue
		}
		qualified := strings.ReplaceAll(path, "/", ".")
		name := graph.BaseName(qualified)
		if importSpec.Name != nil {
			name = importSpec.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		moduleNode.Members().Put(name, graph.EntryImported, graph.NewNode(graph.KindModule, qualified))
	}
}

func (i *Inspector) skip(name string) bool {
	return !i.config.IncludePrivate && !ast.IsExported(name)
}

func (p *parsedFile) content(node ast.Node) string {
	return p.slice(node.Pos(), node.End())
}

func (p *parsedFile) slice(from, to token.Pos) string {
	start := p.fset.Position(from).Offset
	end := p.fset.Position(to).Offset
	if start < 0 || end > len(p.src) || start > end {
		return ""
	}
	return string(p.src[start:end])
}

func receiverName(expr ast.Expr) string {
	switch actual := expr.(type) {
	case *ast.StarExpr:
		return receiverName(actual.X)
	case *ast.Ident:
		return actual.Name
	case *ast.IndexExpr:
		return receiverName(actual.X)
	case *ast.IndexListExpr:
		return receiverName(actual.X)
	}
	return ""
}

func declDoc(groups ...*ast.CommentGroup) string {
	for _, group := range groups {
		if group != nil {
			return strings.TrimSpace(group.Text())
		}
	}
	return ""
}
