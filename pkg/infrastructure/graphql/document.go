package graphql

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
)

const typenameField = "__typename"

// Document is a parsed, printable GraphQL query document holding exactly one
// operation.
type Document struct {
	OperationName string

	printed string
	doc     *ast.QueryDocument
	op      *ast.OperationDefinition
}

// String returns the document as sent over the wire.
func (d *Document) String() string {
	return d.printed
}

// ParseDocument parses source, adds __typename to every nested selection set
// and validates the result against schema when schema is not nil.
func ParseDocument(source string, schema *ast.Schema) (*Document, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: "query", Input: source})
	if err != nil {
		return nil, errors.Wrap(err, "parse query document")
	}
	if len(doc.Operations) != 1 {
		return nil, errors.Errorf("query document must hold exactly one operation, got %d", len(doc.Operations))
	}
	if doc.Operations[0].Operation != ast.Query {
		return nil, errors.Errorf("unsupported operation %q", doc.Operations[0].Operation)
	}

	for _, op := range doc.Operations {
		addTypename(op.SelectionSet, true)
	}
	for _, f := range doc.Fragments {
		f.SelectionSet = addTypename(f.SelectionSet, false)
	}

	printed := format(doc)

	if schema != nil {
		validated, errs := gqlparser.LoadQuery(schema, printed)
		if len(errs) > 0 {
			return nil, errors.Wrap(errs, "validate query document")
		}
		doc = validated
	}

	op := doc.Operations[0]
	return &Document{
		OperationName: op.Name,
		printed:       printed,
		doc:           doc,
		op:            op,
	}, nil
}

// MustParseDocument is like ParseDocument but panics on error. It is meant for
// package level query declarations.
func MustParseDocument(source string) *Document {
	d, err := ParseDocument(source, nil)
	if err != nil {
		panic(err)
	}
	return d
}

// LoadSchema loads a schema from SDL.
func LoadSchema(sdl string) (*ast.Schema, error) {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphqls", Input: sdl})
	if err != nil {
		return nil, errors.Wrap(err, "load schema")
	}
	return schema, nil
}

func format(doc *ast.QueryDocument) string {
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatQueryDocument(doc)
	return buf.String()
}

// addTypename appends a __typename selection to set and every selection set
// below it. The operation's root selection set is left untouched.
func addTypename(set ast.SelectionSet, root bool) ast.SelectionSet {
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			if len(s.SelectionSet) > 0 {
				s.SelectionSet = addTypename(s.SelectionSet, false)
			}
		case *ast.InlineFragment:
			s.SelectionSet = addTypename(s.SelectionSet, false)
		}
	}
	if root || hasField(set, typenameField) {
		return set
	}
	return append(set, &ast.Field{Alias: typenameField, Name: typenameField})
}

func hasField(set ast.SelectionSet, name string) bool {
	for _, sel := range set {
		if f, ok := sel.(*ast.Field); ok && f.Name == name && f.Alias == name {
			return true
		}
	}
	return false
}

// collectFields flattens set into its fields, expanding inline fragments and
// fragment spreads whose type condition matches typename. An empty typename
// matches every condition.
func collectFields(set ast.SelectionSet, fragments ast.FragmentDefinitionList, typename string) []*ast.Field {
	var fields []*ast.Field
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			fields = append(fields, s)
		case *ast.InlineFragment:
			if matchesType(s.TypeCondition, typename) {
				fields = append(fields, collectFields(s.SelectionSet, fragments, typename)...)
			}
		case *ast.FragmentSpread:
			def := fragments.ForName(s.Name)
			if def != nil && matchesType(def.TypeCondition, typename) {
				fields = append(fields, collectFields(def.SelectionSet, fragments, typename)...)
			}
		}
	}
	return fields
}

func matchesType(condition, typename string) bool {
	return condition == "" || typename == "" || condition == typename
}
