package parquetmeta

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// String returns the schema as a textual schema definition:
//
//	message root {
//	  required int64 id;
//	  optional binary name (STRING);
//	  optional group tags (LIST) {
//	    repeated group list {
//	      required binary element (STRING);
//	    }
//	  }
//	}
//
// The output can be parsed back with ParseSchemaDefinition.
func (s *Schema) String() string {
	if s == nil || s.Root == nil {
		return "message empty {\n}\n"
	}

	buf := new(bytes.Buffer)

	fmt.Fprintf(buf, "message %s {\n", s.Root.Name)

	printCols(buf, s.Root.Children, 2)

	fmt.Fprintf(buf, "}\n")

	return buf.String()
}

func printCols(w io.Writer, cols []*SchemaNode, indent int) {
	for _, col := range cols {
		printIndent(w, indent)

		fmt.Fprintf(w, "%s ", strings.ToLower(col.Repetition.String()))

		if !col.IsLeaf() {
			fmt.Fprintf(w, "group %s", col.Name)
			if a := annotation(col.Element); a != "" {
				fmt.Fprintf(w, " (%s)", a)
			}
			if col.Element.FieldID != nil {
				fmt.Fprintf(w, " = %d", *col.Element.FieldID)
			}
			fmt.Fprintf(w, " {\n")
			printCols(w, col.Children, indent+2)

			printIndent(w, indent)
			fmt.Fprintf(w, "}\n")
			continue
		}

		fmt.Fprintf(w, "%s", getSchemaType(col.Type))
		if col.Type == TypeFixedLenByteArray && col.Element.TypeLength != nil {
			fmt.Fprintf(w, "(%d)", *col.Element.TypeLength)
		}
		fmt.Fprintf(w, " %s", col.Name)
		if a := annotation(col.Element); a != "" {
			fmt.Fprintf(w, " (%s)", a)
		}
		if col.Element.FieldID != nil {
			fmt.Fprintf(w, " = %d", *col.Element.FieldID)
		}
		fmt.Fprintf(w, ";\n")
	}
}

func printIndent(w io.Writer, indent int) {
	fmt.Fprint(w, strings.Repeat(" ", indent))
}

func getSchemaType(t Type) string {
	switch t {
	case TypeByteArray:
		return "binary"
	case TypeFixedLenByteArray:
		return "fixed_len_byte_array"
	}
	return strings.ToLower(t.String())
}

// annotation prefers the logical type over the legacy converted type.
func annotation(se *SchemaElement) string {
	if se.LogicalType != nil {
		return se.LogicalType.String()
	}
	if se.ConvertedType == nil {
		return ""
	}
	if *se.ConvertedType == ConvertedTypeDecimal && se.Precision != nil && se.Scale != nil {
		return fmt.Sprintf("DECIMAL(%d, %d)", *se.Precision, *se.Scale)
	}
	return se.ConvertedType.String()
}
