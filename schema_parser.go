package parquetmeta

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseSchemaDefinition parses a textual schema definition, as produced by
// Schema.String, into a schema tree.
func ParseSchemaDefinition(text string) (*Schema, error) {
	p := newSchemaParser(text)
	if err := p.parse(); err != nil {
		return nil, err
	}

	var elements []*SchemaElement
	p.root.flatten(&elements)
	return buildSchema(elements)
}

type columnDefinition struct {
	element  *SchemaElement
	children []*columnDefinition
}

func (c *columnDefinition) flatten(out *[]*SchemaElement) {
	if c.element.Type == nil {
		nc := int32(len(c.children))
		c.element.NumChildren = &nc
	}
	*out = append(*out, c.element)
	for _, child := range c.children {
		child.flatten(out)
	}
}

type item struct {
	typ  itemType
	pos  pos
	val  string
	line int
}

type pos int

func (i item) String() string {
	switch {
	case i.typ == itemEOF:
		return "EOF"
	case i.typ == itemError:
		return i.val
	case len(i.val) > 10:
		return fmt.Sprintf("%.10q...", i.val)
	}
	return fmt.Sprintf("%q", i.val)
}

type itemType int

const (
	itemError itemType = iota
	itemEOF

	itemLeftParen
	itemRightParen
	itemLeftBrace
	itemRightBrace
	itemEqual
	itemSemicolon
	itemComma
	itemNumber
	itemIdentifier
	itemKeyword
	itemMessage
	itemRepeated
	itemOptional
	itemRequired
	itemGroup
)

var itemNames = map[itemType]string{
	itemError:      "error",
	itemEOF:        "EOF",
	itemLeftParen:  "(",
	itemRightParen: ")",
	itemLeftBrace:  "{",
	itemRightBrace: "}",
	itemEqual:      "=",
	itemSemicolon:  ";",
	itemComma:      ",",
	itemNumber:     "number",
	itemIdentifier: "identifier",
	itemKeyword:    "<keyword>",
	itemMessage:    "message",
	itemRepeated:   "repeated",
	itemOptional:   "optional",
	itemRequired:   "required",
	itemGroup:      "group",
}

func (i itemType) String() string {
	n, ok := itemNames[i]
	if !ok {
		return fmt.Sprintf("<type:%d>", int(i))
	}
	return n
}

var key = map[string]itemType{
	"message":  itemMessage,
	"repeated": itemRepeated,
	"optional": itemOptional,
	"required": itemRequired,
	"group":    itemGroup,
}

const eof = -1

type stateFn func(*schemaLexer) stateFn

type schemaLexer struct {
	input     string
	pos       pos
	start     pos
	width     pos
	items     chan item
	line      int
	startLine int
}

func (l *schemaLexer) next() rune {
	if int(l.pos) >= len(l.input) {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = pos(w)
	l.pos += l.width
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *schemaLexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

func (l *schemaLexer) backup() {
	l.pos -= l.width
	if l.width == 1 && l.input[l.pos] == '\n' {
		l.line--
	}
}

func (l *schemaLexer) ignore() {
	l.start = l.pos
	l.startLine = l.line
}

func (l *schemaLexer) emit(t itemType) {
	l.items <- item{t, l.start, l.input[l.start:l.pos], l.startLine}
	l.start = l.pos
	l.startLine = l.line
}

func (l *schemaLexer) acceptRun(valid string) {
	for strings.ContainsRune(valid, l.next()) {
	}
	l.backup()
}

func (l *schemaLexer) errorf(format string, args ...interface{}) stateFn {
	l.items <- item{itemError, l.start, fmt.Sprintf(format, args...), l.startLine}
	return nil
}

func (l *schemaLexer) nextItem() item {
	return <-l.items
}

func (l *schemaLexer) drain() {
	for range l.items {
	}
}

func lex(input string) *schemaLexer {
	l := &schemaLexer{
		input:     input,
		items:     make(chan item),
		line:      1,
		startLine: 1,
	}

	go l.run()
	return l
}

func (l *schemaLexer) run() {
	for state := lexText; state != nil; {
		state = state(l)
	}
	close(l.items)
}

func lexText(l *schemaLexer) stateFn {
	switch r := l.next(); {
	case r == eof:
		l.emit(itemEOF)
		return nil
	case isSpace(r):
		return lexSpace
	case r == '(':
		l.emit(itemLeftParen)
	case r == ')':
		l.emit(itemRightParen)
	case r == '{':
		l.emit(itemLeftBrace)
	case r == '}':
		l.emit(itemRightBrace)
	case isDigit(r) || r == '-':
		return lexNumber
	case r == '=':
		l.emit(itemEqual)
	case r == ';':
		l.emit(itemSemicolon)
	case r == ',':
		l.emit(itemComma)
	case isAlpha(r):
		return lexIdentifier
	default:
		return l.errorf("unknown start of token '%v'", r)
	}
	return lexText
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isDigit(r rune) bool {
	return unicode.IsDigit(r)
}

func isAlpha(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isAlphaNum(r rune) bool {
	return isAlpha(r) || isDigit(r)
}

func lexSpace(l *schemaLexer) stateFn {
	for isSpace(l.peek()) {
		l.next()
	}
	l.ignore()
	return lexText
}

func lexNumber(l *schemaLexer) stateFn {
	l.acceptRun("0123456789")
	l.emit(itemNumber)
	return lexText
}

func lexIdentifier(l *schemaLexer) stateFn {
	for isAlphaNum(l.next()) {
	}
	l.backup()

	word := l.input[l.start:l.pos]
	if key[word] > itemKeyword {
		l.emit(key[word])
	} else {
		l.emit(itemIdentifier)
	}
	return lexText
}

type schemaParser struct {
	l     *schemaLexer
	token item
	root  *columnDefinition
}

func newSchemaParser(text string) *schemaParser {
	return &schemaParser{
		l:    lex(text),
		root: &columnDefinition{element: &SchemaElement{}},
	}
}

func (p *schemaParser) parse() (err error) {
	defer p.recover(&err)

	p.parseMessage()

	p.next()
	p.expect(itemEOF)

	return nil
}

func (p *schemaParser) recover(errp *error) {
	if e := recover(); e != nil {
		if _, ok := e.(runtime.Error); ok {
			panic(e)
		}
		p.l.drain()
		*errp = e.(error)
	}
}

func (p *schemaParser) errorf(msg string, args ...interface{}) {
	msg = fmt.Sprintf("line %d: %s", p.token.line, msg)
	panic(fmt.Errorf(msg, args...))
}

func (p *schemaParser) expect(typ itemType) {
	if typ == itemIdentifier && p.token.typ > itemKeyword {
		return
	}

	if p.token.typ != typ {
		p.errorf("expected %s, got %s instead", typ, p.token)
	}
}

func (p *schemaParser) next() {
	p.token = p.l.nextItem()
	if p.token.typ == itemError {
		p.errorf("%s", p.token.val)
	}
}

func (p *schemaParser) parseMessage() {
	p.next()
	p.expect(itemMessage)

	p.next()
	p.expect(itemIdentifier)

	p.root.element.Name = p.token.val

	p.next()
	p.expect(itemLeftBrace)

	p.root.children = p.parseMessageBody()

	p.expect(itemRightBrace)
}

func (p *schemaParser) parseMessageBody() []*columnDefinition {
	var cols []*columnDefinition
	p.expect(itemLeftBrace)
	for {
		p.next()
		if p.token.typ == itemRightBrace {
			return cols
		}

		cols = append(cols, p.parseColumnDefinition())
	}
}

func (p *schemaParser) parseColumnDefinition() *columnDefinition {
	col := &columnDefinition{
		element: &SchemaElement{},
	}

	var rep FieldRepetitionType
	switch p.token.typ {
	case itemRepeated:
		rep = Repeated
	case itemOptional:
		rep = Optional
	case itemRequired:
		rep = Required
	default:
		p.errorf("invalid field repetition type %q", p.token.val)
	}
	col.element.RepetitionType = &rep

	p.next()

	if p.token.typ == itemGroup {
		p.next()
		p.expect(itemIdentifier)
		col.element.Name = p.token.val

		p.next()
		if p.token.typ == itemLeftParen {
			p.parseAnnotation(col.element)
			p.next()
		}

		if p.token.typ == itemEqual {
			col.element.FieldID = p.parseFieldID()
			p.next()
		}

		col.children = p.parseMessageBody()
		if len(col.children) == 0 {
			p.errorf("group %s has no fields", col.element.Name)
		}

		p.expect(itemRightBrace)
		return col
	}

	typ := p.getTokenType()
	col.element.Type = &typ

	if typ == TypeFixedLenByteArray {
		p.next()
		p.expect(itemLeftParen)
		p.next()
		p.expect(itemNumber)

		i, err := strconv.ParseInt(p.token.val, 10, 32)
		if err != nil || i < 0 {
			p.errorf("invalid fixed_len_byte_array length %q", p.token.val)
		}

		byteArraySize := int32(i)
		col.element.TypeLength = &byteArraySize

		p.next()
		p.expect(itemRightParen)
	}

	p.next()
	p.expect(itemIdentifier)
	col.element.Name = p.token.val

	p.next()
	if p.token.typ == itemLeftParen {
		p.parseAnnotation(col.element)
		p.next()
	}

	if p.token.typ == itemEqual {
		col.element.FieldID = p.parseFieldID()
		p.next()
	}

	p.expect(itemSemicolon)

	return col
}

var schemaTypes = map[string]Type{
	"boolean":              TypeBoolean,
	"int32":                TypeInt32,
	"int64":                TypeInt64,
	"int96":                TypeInt96,
	"float":                TypeFloat,
	"double":               TypeDouble,
	"binary":               TypeByteArray,
	"fixed_len_byte_array": TypeFixedLenByteArray,
}

func (p *schemaParser) getTokenType() Type {
	t, ok := schemaTypes[p.token.val]
	if !ok {
		p.errorf("invalid type %q", p.token.val)
	}
	return t
}

// parseAnnotation reads a parenthesized logical or converted type annotation
// and sets it on se. Logical types also set the matching converted type, as
// writers do for backwards compatibility.
func (p *schemaParser) parseAnnotation(se *SchemaElement) {
	p.expect(itemLeftParen)
	p.next()
	p.expect(itemIdentifier)

	typStr := strings.ToUpper(p.token.val)

	setConverted := func(ct ConvertedType) {
		se.ConvertedType = &ct
	}

	lt := &LogicalType{}
	switch typStr {
	case "STRING":
		lt.Kind = LogicalTypeString
		setConverted(ConvertedTypeUTF8)
	case "MAP":
		lt.Kind = LogicalTypeMap
		setConverted(ConvertedTypeMap)
	case "LIST":
		lt.Kind = LogicalTypeList
		setConverted(ConvertedTypeList)
	case "ENUM":
		lt.Kind = LogicalTypeEnum
		setConverted(ConvertedTypeEnum)
	case "DATE":
		lt.Kind = LogicalTypeDate
		setConverted(ConvertedTypeDate)
	case "JSON":
		lt.Kind = LogicalTypeJSON
		setConverted(ConvertedTypeJSON)
	case "BSON":
		lt.Kind = LogicalTypeBSON
		setConverted(ConvertedTypeBSON)
	case "UUID":
		lt.Kind = LogicalTypeUUID
	case "FLOAT16":
		lt.Kind = LogicalTypeFloat16
	case "UNKNOWN":
		lt.Kind = LogicalTypeUnknown
	case "VARIANT":
		lt.Kind = LogicalTypeVariant
		lt.Variant = &VariantType{}
	case "GEOMETRY":
		lt.Kind = LogicalTypeGeometry
		lt.Geometry = &GeometryType{}
	case "GEOGRAPHY":
		lt.Kind = LogicalTypeGeography
		lt.Geography = &GeographyType{}
	case "DECIMAL":
		lt.Kind = LogicalTypeDecimal
		p.next()
		p.expect(itemLeftParen)
		prec := p.parseInt32()
		p.next()
		p.expect(itemComma)
		scale := p.parseInt32()
		p.next()
		p.expect(itemRightParen)

		lt.Decimal = &DecimalType{Scale: scale, Precision: prec}
		se.Scale = &lt.Decimal.Scale
		se.Precision = &lt.Decimal.Precision
		setConverted(ConvertedTypeDecimal)
	case "TIME", "TIMESTAMP":
		tt := p.parseTimeParams(typStr)
		if typStr == "TIME" {
			lt.Kind, lt.Time = LogicalTypeTime, tt
			switch tt.Unit {
			case TimeUnitMillis:
				setConverted(ConvertedTypeTimeMillis)
			case TimeUnitMicros:
				setConverted(ConvertedTypeTimeMicros)
			}
		} else {
			lt.Kind, lt.Timestamp = LogicalTypeTimestamp, tt
			switch tt.Unit {
			case TimeUnitMillis:
				setConverted(ConvertedTypeTimestampMillis)
			case TimeUnitMicros:
				setConverted(ConvertedTypeTimestampMicros)
			}
		}
	case "INT":
		p.next()
		p.expect(itemLeftParen)
		bitWidth := p.parseInt32()
		if bitWidth != 8 && bitWidth != 16 && bitWidth != 32 && bitWidth != 64 {
			p.errorf("INT: unsupported bitwidth %d", bitWidth)
		}
		p.next()
		p.expect(itemComma)
		signed := p.parseBool("isSigned", typStr)
		p.next()
		p.expect(itemRightParen)

		lt.Kind = LogicalTypeInteger
		lt.Integer = &IntType{BitWidth: int8(bitWidth), IsSigned: signed}

		convertedTypeStr := fmt.Sprintf("INT_%d", bitWidth)
		if !signed {
			convertedTypeStr = "U" + convertedTypeStr
		}
		ct, err := ConvertedTypeFromString(convertedTypeStr)
		if err != nil {
			p.errorf("couldn't convert INT(%d, %t) annotation to converted type %s: %v", bitWidth, signed, convertedTypeStr, err)
		}
		setConverted(ct)
	default:
		ct, err := ConvertedTypeFromString(typStr)
		if err != nil {
			p.errorf("unsupported logical type or converted type %q", p.token.val)
		}
		lt = nil
		setConverted(ct)
	}
	se.LogicalType = lt

	p.next()
	p.expect(itemRightParen)
}

func (p *schemaParser) parseTimeParams(typStr string) *TimeType {
	p.next()
	p.expect(itemLeftParen)

	p.next()
	p.expect(itemIdentifier)

	tt := &TimeType{}
	switch p.token.val {
	case "MILLIS":
		tt.Unit = TimeUnitMillis
	case "MICROS":
		tt.Unit = TimeUnitMicros
	case "NANOS":
		tt.Unit = TimeUnitNanos
	default:
		p.errorf("unknown unit annotation %q for %s", p.token.val, typStr)
	}

	p.next()
	p.expect(itemComma)

	tt.IsAdjustedToUTC = p.parseBool("isAdjustedToUTC", typStr)

	p.next()
	p.expect(itemRightParen)

	return tt
}

func (p *schemaParser) parseInt32() int32 {
	p.next()
	p.expect(itemNumber)

	i, err := strconv.ParseInt(p.token.val, 10, 32)
	if err != nil {
		p.errorf("couldn't parse number %q: %v", p.token.val, err)
	}
	return int32(i)
}

func (p *schemaParser) parseBool(what, typStr string) bool {
	p.next()
	p.expect(itemIdentifier)

	b, err := strconv.ParseBool(p.token.val)
	if err != nil {
		p.errorf("invalid %s annotation %q for %s", what, p.token.val, typStr)
	}
	return b
}

func (p *schemaParser) parseFieldID() *int32 {
	p.expect(itemEqual)
	i32 := p.parseInt32()
	return &i32
}
