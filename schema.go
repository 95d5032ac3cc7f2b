package parquetmeta

import (
	"fmt"
	"slices"
	"strings"
)

// Schema is the schema tree of a parquet file.
type Schema struct {
	Root *SchemaNode `json:"root" yaml:"root"`

	columns []*SchemaNode
}

// SchemaNode is one node of the schema tree. Leaves carry a physical type and
// map to one column chunk per row group; groups have Type TypeGroup and at
// least one child (only the root may have none).
type SchemaNode struct {
	Name               string              `json:"name" yaml:"name"`
	Type               Type                `json:"type" yaml:"type"`
	Repetition         FieldRepetitionType `json:"repetition" yaml:"repetition"`
	Depth              int                 `json:"depth" yaml:"depth"`
	Path               []string            `json:"path,omitempty" yaml:"path,omitempty"`
	MaxDefinitionLevel int                 `json:"max_definition_level" yaml:"max_definition_level"`
	MaxRepetitionLevel int                 `json:"max_repetition_level" yaml:"max_repetition_level"`
	// ColumnIndex is the position of a leaf among all leaves, -1 for groups.
	ColumnIndex int           `json:"column_index" yaml:"column_index"`
	Children    []*SchemaNode `json:"children,omitempty" yaml:"children,omitempty"`
	// Element is the flat schema element the node was built from.
	Element *SchemaElement `json:"-" yaml:"-"`
}

// IsLeaf reports whether the node is a column.
func (n *SchemaNode) IsLeaf() bool {
	return n.Type != TypeGroup
}

// FlatName returns the dotted path of the node, without the root name.
func (n *SchemaNode) FlatName() string {
	return strings.Join(n.Path, ".")
}

// LogicalType returns the logical type annotation of the node, if any.
func (n *SchemaNode) LogicalType() *LogicalType {
	return n.Element.LogicalType
}

// ConvertedType returns the converted type annotation of the node, if any.
func (n *SchemaNode) ConvertedType() *ConvertedType {
	return n.Element.ConvertedType
}

func (n *SchemaNode) String() string {
	return fmt.Sprintf("%d => %s", n.ColumnIndex, n.FlatName())
}

// Columns returns the leaves in schema order. The i-th leaf describes the
// i-th column chunk of every row group.
func (s *Schema) Columns() []*SchemaNode {
	return s.columns
}

// ColumnByPath returns the leaf with the given dotted path, or nil.
func (s *Schema) ColumnByPath(path string) *SchemaNode {
	for _, c := range s.columns {
		if c.FlatName() == path {
			return c
		}
	}
	return nil
}

// Elements flattens the tree back into the pre-order element list it was
// built from.
func (s *Schema) Elements() []*SchemaElement {
	var out []*SchemaElement
	var walk func(n *SchemaNode)
	walk = func(n *SchemaNode) {
		out = append(out, n.Element)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(s.Root)
	return out
}

// resolveSchema builds the schema tree from the flat pre-order element list
// and checks that every row group has exactly one column chunk per leaf.
func resolveSchema(elements []*SchemaElement, rowGroups []*RowGroup) (*Schema, error) {
	s, err := buildSchema(elements)
	if err != nil {
		return nil, err
	}

	for i, rg := range rowGroups {
		if len(rg.Columns) != len(s.columns) {
			return nil, schemaErrorf("", "row group %d has %d column chunks, the schema has %d columns",
				i, len(rg.Columns), len(s.columns))
		}
		for j, cc := range rg.Columns {
			if cc.MetaData == nil || len(cc.MetaData.PathInSchema) == 0 {
				continue
			}
			if !slices.Equal(cc.MetaData.PathInSchema, s.columns[j].Path) {
				return nil, schemaErrorf(s.columns[j].FlatName(), "column chunk %d of row group %d is for column %q",
					j, i, strings.Join(cc.MetaData.PathInSchema, "."))
			}
		}
	}

	return s, nil
}

func buildSchema(elements []*SchemaElement) (*Schema, error) {
	if len(elements) == 0 {
		return nil, schemaErrorf("", "the schema has no root element")
	}

	root := elements[0]
	if root.Type != nil {
		return nil, schemaErrorf(root.Name, "root element has physical type %s, it must be a group", *root.Type)
	}
	if root.RepetitionType != nil && *root.RepetitionType != Required {
		return nil, schemaErrorf(root.Name, "root element has repetition %s, it must be REQUIRED", *root.RepetitionType)
	}

	s := &Schema{
		columns: make([]*SchemaNode, 0, len(elements)-1),
	}
	b := &schemaBuilder{elements: elements, schema: s}

	var err error
	s.Root, err = b.create(nil, 0, 0, 0)
	if err != nil {
		return nil, err
	}
	if b.idx != len(elements) {
		return nil, schemaErrorf("", "too many schema elements, only %d out of %d have been used", b.idx, len(elements))
	}

	return s, nil
}

// maxSchemaDepth bounds the recursion of create on hostile input. Real
// schemas are rarely nested more than a handful of levels.
const maxSchemaDepth = 1000

type schemaBuilder struct {
	elements []*SchemaElement
	idx      int
	schema   *Schema
}

// create consumes the element at the current index and, for groups, its
// children recursively.
func (b *schemaBuilder) create(parent []string, depth, dLevel, rLevel int) (*SchemaNode, error) {
	if b.idx >= len(b.elements) {
		return nil, schemaErrorf("", "schema index %d out of bound, a group declares more children than there are elements", b.idx)
	}
	if depth > maxSchemaDepth {
		return nil, schemaErrorf("", "schema is nested deeper than %d levels", maxSchemaDepth)
	}
	s := b.elements[b.idx]
	b.idx++

	n := &SchemaNode{
		Name:        s.Name,
		Type:        TypeGroup,
		Repetition:  Required,
		Depth:       depth,
		ColumnIndex: -1,
		Element:     s,
	}

	if depth > 0 {
		if s.RepetitionType == nil {
			return nil, schemaErrorf(s.Name, "field RepetitionType is nil in index %d", b.idx-1)
		}
		n.Repetition = *s.RepetitionType
		if n.Repetition != Required {
			dLevel++
		}
		if n.Repetition == Repeated {
			rLevel++
		}
		n.Path = append(append(make([]string, 0, len(parent)+1), parent...), s.Name)
	}
	n.MaxDefinitionLevel = dLevel
	n.MaxRepetitionLevel = rLevel

	var numChildren int32
	if s.NumChildren != nil {
		numChildren = *s.NumChildren
	}
	if numChildren < 0 {
		return nil, schemaErrorf(s.Name, "negative number of children %d", numChildren)
	}

	if s.Type != nil {
		if numChildren > 0 {
			return nil, schemaErrorf(s.Name, "element has physical type %s and %d children", *s.Type, numChildren)
		}
		n.Type = *s.Type
		n.ColumnIndex = len(b.schema.columns)
		b.schema.columns = append(b.schema.columns, n)
		return n, nil
	}

	if numChildren == 0 && depth > 0 {
		return nil, schemaErrorf(s.Name, "element has neither a physical type nor children")
	}
	if left := len(b.elements) - b.idx; int(numChildren) > left {
		return nil, schemaErrorf(s.Name, "element declares %d children but only %d elements are left", numChildren, left)
	}

	n.Children = make([]*SchemaNode, 0, numChildren)
	for i := int32(0); i < numChildren; i++ {
		child, err := b.create(n.Path, depth+1, dLevel, rLevel)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}

	return n, nil
}
