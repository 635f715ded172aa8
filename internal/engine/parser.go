package engine

import "strings"

// Parse lexes one line of input and yields a Command (§6.2). Keywords
// are recognized case-insensitively; whitespace between tokens is
// arbitrary; anything that doesn't match the grammar below comes back as
// *Unknown rather than an error — callers decide how loudly to complain.
func Parse(line string) Command {
	p := &parser{toks: newLexer(line).tokenizeAll()}

	kw, ok := p.peekKeyword()
	if !ok {
		return &Unknown{Raw: line}
	}

	var cmd Command
	var perr bool
	switch kw {
	case "CREATE":
		cmd, perr = p.parseCreateTable()
	case "INSERT":
		cmd, perr = p.parseInsert()
	case "SELECT":
		cmd, perr = p.parseSelect()
	case "UPDATE":
		cmd, perr = p.parseUpdate()
	case "SHOW":
		cmd, perr = p.parseShowTables()
	case "INSPECT":
		cmd, perr = p.parseInspect()
	default:
		perr = true
	}
	if perr || p.peek().Typ != tEOF {
		return &Unknown{Raw: line}
	}
	return cmd
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	if p.pos >= len(p.toks) {
		return token{Typ: tEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) peekKeyword() (string, bool) {
	t := p.peek()
	if t.Typ != tKeyword {
		return "", false
	}
	return t.Val, true
}

func (p *parser) acceptKeyword(kw string) bool {
	t := p.peek()
	if t.Typ == tKeyword && t.Val == kw {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expectKeyword(kw string) bool {
	return p.acceptKeyword(kw)
}

func (p *parser) expectSymbol(sym string) bool {
	t := p.peek()
	if t.Typ == tSymbol && t.Val == sym {
		p.pos++
		return true
	}
	return false
}

// identName accepts either a bare identifier or a double-quoted string
// token (the lexer already treats '"'-quoted text as a string literal,
// which doubles as a quoted identifier here).
func (p *parser) identName() (string, bool) {
	t := p.peek()
	if t.Typ == tIdent || t.Typ == tString {
		p.pos++
		return t.Val, true
	}
	return "", false
}

// literal reads a value token (string, number, or bare identifier) and
// returns its surface text, quotes already stripped by the lexer.
func (p *parser) literal() (string, bool) {
	t := p.peek()
	switch t.Typ {
	case tString, tNumber, tIdent:
		p.pos++
		return t.Val, true
	}
	return "", false
}

func (p *parser) parseCreateTable() (Command, bool) {
	if !p.expectKeyword("CREATE") || !p.expectKeyword("TABLE") {
		return nil, true
	}
	name, ok := p.identName()
	if !ok {
		return nil, true
	}
	if !p.expectSymbol("(") {
		return nil, true
	}

	var cols []ColumnDef
	for {
		colName, ok := p.identName()
		if !ok {
			return nil, true
		}
		dataType := "TEXT"
		if t := p.peek(); t.Typ == tIdent || t.Typ == tKeyword {
			dataType = strings.ToUpper(t.Val)
			p.pos++
		}
		cols = append(cols, ColumnDef{Name: colName, DataType: dataType})

		if p.expectSymbol(",") {
			continue
		}
		break
	}
	if !p.expectSymbol(")") {
		return nil, true
	}
	return &CreateTable{Name: name, Columns: cols}, false
}

func (p *parser) parseInsert() (Command, bool) {
	if !p.expectKeyword("INSERT") || !p.expectKeyword("INTO") {
		return nil, true
	}
	table, ok := p.identName()
	if !ok {
		return nil, true
	}
	if !p.expectKeyword("VALUES") || !p.expectSymbol("(") {
		return nil, true
	}

	var values []string
	for {
		v, ok := p.literal()
		if !ok {
			return nil, true
		}
		values = append(values, v)
		if p.expectSymbol(",") {
			continue
		}
		break
	}
	if !p.expectSymbol(")") {
		return nil, true
	}
	return &Insert{Table: table, Values: values}, false
}

func (p *parser) parseSelect() (Command, bool) {
	if !p.expectKeyword("SELECT") {
		return nil, true
	}

	var columns []string
	if p.expectSymbol("*") {
		columns = []string{"*"}
	} else {
		for {
			col, ok := p.identName()
			if !ok {
				return nil, true
			}
			columns = append(columns, col)
			if p.expectSymbol(",") {
				continue
			}
			break
		}
	}

	if !p.expectKeyword("FROM") {
		return nil, true
	}
	table, ok := p.identName()
	if !ok {
		return nil, true
	}

	where, ok := p.parseOptionalWhere()
	if !ok {
		return nil, true
	}
	return &Select{Table: table, Columns: columns, Where: where}, false
}

func (p *parser) parseUpdate() (Command, bool) {
	if !p.expectKeyword("UPDATE") {
		return nil, true
	}
	table, ok := p.identName()
	if !ok {
		return nil, true
	}
	if !p.expectKeyword("SET") {
		return nil, true
	}
	col, ok := p.identName()
	if !ok {
		return nil, true
	}
	if !p.expectSymbol("=") {
		return nil, true
	}
	val, ok := p.literal()
	if !ok {
		return nil, true
	}

	where, ok := p.parseOptionalWhere()
	if !ok {
		return nil, true
	}
	return &Update{Table: table, SetCol: col, SetValue: val, Where: where}, false
}

func (p *parser) parseShowTables() (Command, bool) {
	if !p.expectKeyword("SHOW") || !p.expectKeyword("TABLES") {
		return nil, true
	}
	return &ShowTables{}, false
}

func (p *parser) parseInspect() (Command, bool) {
	if !p.expectKeyword("INSPECT") {
		return nil, true
	}
	name, ok := p.identName()
	if !ok {
		return nil, true
	}
	return &InspectTable{Name: name}, false
}

// parseOptionalWhere parses a trailing `WHERE col OP val` clause if
// present. Returns ok=true (with where==nil) when there's nothing left
// to parse.
func (p *parser) parseOptionalWhere() (*Where, bool) {
	if p.peek().Typ == tEOF {
		return nil, true
	}
	if !p.expectKeyword("WHERE") {
		return nil, false
	}
	col, ok := p.identName()
	if !ok {
		return nil, false
	}

	op, ok := p.parseOperator()
	if !ok {
		return nil, false
	}
	val, ok := p.literal()
	if !ok {
		return nil, false
	}
	return &Where{Column: col, Operator: op, Value: val}, true
}

func (p *parser) parseOperator() (string, bool) {
	if p.acceptKeyword("NOT") {
		if !p.expectKeyword("LIKE") {
			return "", false
		}
		return "NOT LIKE", true
	}
	if p.acceptKeyword("LIKE") {
		return "LIKE", true
	}
	t := p.peek()
	if t.Typ != tSymbol {
		return "", false
	}
	switch t.Val {
	case "=", "!=", "<", ">", "<=", ">=":
		p.pos++
		return t.Val, true
	case "<>":
		p.pos++
		return "!=", true
	}
	return "", false
}
