package python

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/viant/modgraph/graph"
)

// Inspector builds a module graph from Python source
type Inspector struct {
	config *graph.Config
	source []byte
}

// NewInspector creates a new Python Inspector with the provided configuration
func NewInspector(config *graph.Config) *Inspector {
	if config == nil {
		config = graph.DefaultConfig()
	}
	return &Inspector{config: config}
}

// InspectSource parses Python source code and extracts the module graph.
// The module argument is the dotted qualified name the module is known by.
func (i *Inspector) InspectSource(module string, src []byte) (*graph.Node, error) {
	i.source = src

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse module %s: %w", module, err)
	}

	rootNode := tree.RootNode()
	moduleNode := graph.NewModule(module)
	moduleNode.SetDoc(docstring(rootNode, src))
	i.processBlock(rootNode, moduleNode, graph.EntryGlobal)
	return moduleNode, nil
}

// InspectFile parses a Python source file and extracts the module graph
func (i *Inspector) InspectFile(module, filename string) (*graph.Node, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return i.InspectSource(module, src)
}

// processBlock walks the statements of a module or class body and binds
// every definition into the owner's symbol table
func (i *Inspector) processBlock(block *sitter.Node, owner *graph.Node, entryKind graph.EntryKind) {
	for j := 0; j < int(block.NamedChildCount()); j++ {
		statement := block.NamedChild(j)
		switch statement.Type() {
		case "function_definition":
			i.processFunction(statement, owner, entryKind)
		case "class_definition":
			i.processClass(statement, owner, entryKind)
		case "decorated_definition":
			if definition := statement.ChildByFieldName("definition"); definition != nil {
				switch definition.Type() {
				case "function_definition":
					i.processFunction(definition, owner, entryKind)
				case "class_definition":
					i.processClass(definition, owner, entryKind)
				}
			}
		case "expression_statement":
			i.processAssignment(statement, owner, entryKind)
		case "import_statement":
			i.processImport(statement, owner)
		case "import_from_statement":
			i.processImportFrom(statement, owner)
		}
	}
}

func (i *Inspector) processFunction(node *sitter.Node, owner *graph.Node, entryKind graph.EntryKind) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Content(i.source)
	if i.skip(name) {
		return
	}

	function := graph.NewNode(graph.KindFunc, graph.Join(owner.FullName(), name))
	function.SetBody(node.Content(i.source))

	signature := "def " + name
	if parameters := node.ChildByFieldName("parameters"); parameters != nil {
		signature += parameters.Content(i.source)
	}
	if returnType := node.ChildByFieldName("return_type"); returnType != nil {
		signature += " -> " + returnType.Content(i.source)
	}
	function.SetSignature(signature)

	if body := node.ChildByFieldName("body"); body != nil {
		function.SetDoc(docstring(body, i.source))
	}
	owner.Members().Put(name, entryKind, function)
}

func (i *Inspector) processClass(node *sitter.Node, owner *graph.Node, entryKind graph.EntryKind) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Content(i.source)
	if i.skip(name) {
		return
	}

	class := graph.NewClass(graph.Join(owner.FullName(), name))
	class.SetBody(node.Content(i.source))

	if superclasses := node.ChildByFieldName("superclasses"); superclasses != nil {
		for j := 0; j < int(superclasses.NamedChildCount()); j++ {
			base := superclasses.NamedChild(j)
			switch base.Type() {
			case "identifier", "attribute":
				class.AddBase(base.Content(i.source))
			}
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		class.SetDoc(docstring(body, i.source))
		i.processBlock(body, class, graph.EntryMember)
	}
	owner.Members().Put(name, entryKind, class)
}

// processAssignment binds a plain or annotated single-name assignment as a
// variable definition; tuple targets and attribute targets are not
// externally visible definitions and are skipped
func (i *Inspector) processAssignment(statement *sitter.Node, owner *graph.Node, entryKind graph.EntryKind) {
	assignment := statement.NamedChild(0)
	if assignment == nil || assignment.Type() != "assignment" {
		return
	}
	left := assignment.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		return
	}
	name := left.Content(i.source)
	if i.skip(name) {
		return
	}

	variable := graph.NewNode(graph.KindVar, graph.Join(owner.FullName(), name))
	variable.SetBody(statement.Content(i.source))
	if typeNode := assignment.ChildByFieldName("type"); typeNode != nil {
		variable.SetTypeHint(typeNode.Content(i.source))
	}
	owner.Members().Put(name, entryKind, variable)
}

// processImport records names bound by "import a.b [as c]". The bound node
// lives outside this module's prefix, which keeps it out of the identity
// merge; import bindings are re-resolved separately.
func (i *Inspector) processImport(node *sitter.Node, owner *graph.Node) {
	if !i.config.IncludeImports {
		return
	}
	for j := 0; j < int(node.NamedChildCount()); j++ {
		child := node.NamedChild(j)
		switch child.Type() {
		case "dotted_name":
			// "import a.b" binds the top-level package name.
			path := child.Content(i.source)
			name := path
			if idx := strings.IndexByte(path, '.'); idx >= 0 {
				name = path[:idx]
			}
			i.bindImport(owner, name, name, graph.KindModule)
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode == nil || aliasNode == nil {
				continue
			}
			i.bindImport(owner, aliasNode.Content(i.source), nameNode.Content(i.source), graph.KindModule)
		}
	}
}

// processImportFrom records names bound by "from a.b import c [as d]";
// wildcard and relative imports are skipped
func (i *Inspector) processImportFrom(node *sitter.Node, owner *graph.Node) {
	if !i.config.IncludeImports {
		return
	}
	moduleName := node.ChildByFieldName("module_name")
	if moduleName == nil || moduleName.Type() != "dotted_name" {
		return
	}
	source := moduleName.Content(i.source)
	for j := 0; j < int(node.NamedChildCount()); j++ {
		child := node.NamedChild(j)
		if child.StartByte() == moduleName.StartByte() {
			continue
		}
		switch child.Type() {
		case "dotted_name":
			name := child.Content(i.source)
			i.bindImport(owner, name, graph.Join(source, name), graph.KindVar)
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode == nil || aliasNode == nil {
				continue
			}
			target := graph.Join(source, nameNode.Content(i.source))
			i.bindImport(owner, aliasNode.Content(i.source), target, graph.KindVar)
		}
	}
}

func (i *Inspector) bindImport(owner *graph.Node, name, target string, kind graph.Kind) {
	owner.Members().Put(name, graph.EntryImported, graph.NewNode(kind, target))
}

func (i *Inspector) skip(name string) bool {
	return !i.config.IncludePrivate && strings.HasPrefix(name, "_")
}

// docstring extracts the leading string literal of a module, class or
// function body
func docstring(body *sitter.Node, src []byte) string {
	first := body.NamedChild(0)
	if first == nil || first.Type() != "expression_statement" {
		return ""
	}
	literal := first.NamedChild(0)
	if literal == nil || literal.Type() != "string" {
		return ""
	}
	text := literal.Content(src)
	text = strings.Trim(text, "\"'")
	return strings.TrimSpace(text)
}
