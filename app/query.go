package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// createTableRe pulls the comma-separated column-definition body out of
// a stored CREATE TABLE statement, tolerating an optionally quoted
// table name. This is the only thing that determines column order and
// names for SELECT projection; the auxiliary sqlparser validation in
// catalog.go never feeds this.
var createTableRe = regexp.MustCompile(`(?is)CREATE\s+TABLE\s+"?(\w+)"?\s*\(([^;]+)\)\s*$`)

// columnNameRe pulls the leading identifier off one column definition
// line (the column name precedes its type and any constraints).
var columnNameRe = regexp.MustCompile(`(?m)^\s*"?(\w+)"?`)

// comparisonOps lists the WHERE-clause operators this executor
// recognises, longest first so "<=" isn't mistaken for "<".
var comparisonOps = []string{"!=", "<>", "<=", ">=", "=", "<", ">"}

// tableColumns extracts the ordered column names from a table's stored
// CREATE TABLE text.
func tableColumns(createSQL string) ([]string, error) {
	m := createTableRe.FindStringSubmatch(createSQL)
	if m == nil {
		return nil, &DatabaseError{Operation: "tableColumns", Err: ErrSyntax,
			Context: map[string]interface{}{"createSQL": createSQL}}
	}
	body := m[2]
	var cols []string
	for _, def := range splitTopLevelCommas(body) {
		nm := columnNameRe.FindStringSubmatch(def)
		if nm == nil {
			continue
		}
		cols = append(cols, nm[1])
	}
	return cols, nil
}

// splitTopLevelCommas splits a column-definition body on commas that
// are not nested inside parentheses, so things like
// `price NUMERIC(10, 2)` don't get split in the middle of a type.
func splitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	last := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])
	return parts
}

// whereClause is a single parsed predicate: column OP literal.
type whereClause struct {
	column string
	op     string
	value  string
}

// parseSelect tokenises a SELECT statement on whitespace, per the
// executor's mandated algorithm: no general SQL grammar, just enough
// structure to find the column list, the table name, and an optional
// trailing WHERE clause.
type parsedSelect struct {
	columns    []string
	isCountAll bool
	table      string
	where      *whereClause
}

func parseSelect(query string) (*parsedSelect, error) {
	tokens := strings.Fields(query)
	if len(tokens) < 4 {
		return nil, &DatabaseError{Operation: "parseSelect", Err: ErrSyntax,
			Context: map[string]interface{}{"query": query}}
	}
	if !strings.EqualFold(tokens[0], "SELECT") {
		return nil, &DatabaseError{Operation: "parseSelect", Err: ErrSyntax,
			Context: map[string]interface{}{"query": query}}
	}

	fromIdx := -1
	for i, t := range tokens {
		if strings.EqualFold(t, "FROM") {
			fromIdx = i
			break
		}
	}
	if fromIdx < 0 || fromIdx+1 >= len(tokens) {
		return nil, &DatabaseError{Operation: "parseSelect", Err: ErrSyntax,
			Context: map[string]interface{}{"query": query}}
	}

	colTokens := tokens[1:fromIdx]
	ps := &parsedSelect{table: tokens[fromIdx+1]}

	if len(colTokens) == 1 && strings.EqualFold(colTokens[0], "COUNT(*)") {
		ps.isCountAll = true
		return ps, nil
	}

	joined := strings.Join(colTokens, " ")
	for _, c := range strings.Split(joined, ",") {
		c = strings.TrimSpace(c)
		if c != "" {
			ps.columns = append(ps.columns, c)
		}
	}

	rest := tokens[fromIdx+2:]
	if len(rest) == 0 {
		return ps, nil
	}
	if !strings.EqualFold(rest[0], "WHERE") {
		return nil, &DatabaseError{Operation: "parseSelect", Err: ErrSyntax,
			Context: map[string]interface{}{"query": query}}
	}

	where, err := parseWhere(strings.Join(rest[1:], " "))
	if err != nil {
		return nil, err
	}
	ps.where = where
	return ps, nil
}

// parseWhere parses "col OP literal" where literal may be a quoted
// string containing spaces. The clause it receives is rejoined from the
// query's whitespace-separated tokens with single spaces, so a run of
// several spaces inside a quoted literal arrives as one space.
func parseWhere(clause string) (*whereClause, error) {
	clause = strings.TrimSpace(clause)
	var op string
	var opIdx int
	for _, candidate := range comparisonOps {
		if idx := strings.Index(clause, candidate); idx >= 0 {
			op = candidate
			opIdx = idx
			break
		}
	}
	if op == "" {
		return nil, &DatabaseError{Operation: "parseWhere", Err: ErrSyntax,
			Context: map[string]interface{}{"clause": clause}}
	}

	col := strings.TrimSpace(clause[:opIdx])
	lit := strings.TrimSpace(clause[opIdx+len(op):])
	lit = strings.Trim(lit, `'"`)

	return &whereClause{column: col, op: op, value: lit}, nil
}

// evalWhere reports whether row satisfies the predicate. Numeric
// columns compared against a numeric-looking literal compare
// numerically; everything else compares as strings, lexicographically.
func evalWhere(w *whereClause, value Value) bool {
	if lit, err := strconv.ParseFloat(w.value, 64); err == nil && value.IsNumeric() {
		return compareNumbers(value.AsFloat64(), lit, w.op)
	}
	return compareStrings(value.String(), w.value, w.op)
}

func compareNumbers(a, b float64, op string) bool {
	switch op {
	case "=":
		return a == b
	case "!=", "<>":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	default:
		return false
	}
}

func compareStrings(a, b, op string) bool {
	switch op {
	case "=":
		return a == b
	case "!=", "<>":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	default:
		return false
	}
}

// runSelectCountAll implements `SELECT COUNT(*) FROM <table>`. A
// multi-page (interior) root is detected and reported, not traversed.
func runSelectCountAll(db *Database, cat *Catalog, table string) (string, error) {
	schema, ok := cat.Lookup(table)
	if !ok {
		return fmt.Sprintf("no such table: %s", table), nil
	}
	page, err := db.ReadPage(schema.RootPage)
	if err != nil {
		return "", err
	}
	if !page.IsLeaf() {
		return fmt.Sprintf("table %s is multipage table (kind=%s), can't parse that yet", table, pageKindName(page.Kind)), nil
	}
	return strconv.Itoa(int(page.CellCount)), nil
}

// runSelect implements `SELECT <cols> FROM <table> [WHERE ...]`,
// rendering every scalar variant (not only Text) per column.
func runSelect(db *Database, cat *Catalog, ps *parsedSelect, out *ConsoleFormatter) ([]string, error) {
	schema, ok := cat.Lookup(ps.table)
	if !ok {
		return []string{fmt.Sprintf("no such table: %s", ps.table)}, nil
	}

	cols, err := tableColumns(schema.CreateSQL)
	if err != nil {
		return nil, err
	}
	colIndex := make(map[string]int, len(cols))
	for i, c := range cols {
		colIndex[c] = i
	}

	wantIdx := make([]int, 0, len(ps.columns))
	for _, c := range ps.columns {
		idx, ok := colIndex[c]
		if !ok {
			return nil, &DatabaseError{Operation: "runSelect", Err: ErrColumnNotFound,
				Context: map[string]interface{}{"column": c, "table": ps.table}}
		}
		wantIdx = append(wantIdx, idx)
	}

	var whereIdx = -1
	if ps.where != nil {
		idx, ok := colIndex[ps.where.column]
		if !ok {
			return nil, &DatabaseError{Operation: "runSelect", Err: ErrColumnNotFound,
				Context: map[string]interface{}{"column": ps.where.column, "table": ps.table}}
		}
		whereIdx = idx
	}

	page, err := db.ReadPage(schema.RootPage)
	if err != nil {
		return nil, err
	}
	if !page.IsLeaf() {
		return []string{fmt.Sprintf("table %s is multipage table (kind=%s), can't parse that yet", ps.table, pageKindName(page.Kind))}, nil
	}
	if page.Kind != PageKindLeafTable {
		return nil, &DatabaseError{Operation: "runSelect", Err: ErrNotImplemented,
			Context: map[string]interface{}{"table": ps.table, "kind": pageKindName(page.Kind)}}
	}

	usable := db.header.usablePageSize()
	enc := db.header.TextEncoding

	projCols := make([]*Column, len(ps.columns))
	for i, name := range ps.columns {
		projCols[i] = &Column{Name: name}
	}

	var lines []string
	for _, ptr := range page.CellPointers {
		cell, err := decodeLeafTableCell(page.cellBytes(ptr), usable, enc)
		if err != nil {
			return nil, err
		}

		if ps.where != nil {
			if whereIdx >= len(cell.Columns) || !evalWhere(ps.where, cell.Columns[whereIdx]) {
				continue
			}
		}

		values := make([]Value, 0, len(wantIdx))
		for _, idx := range wantIdx {
			if idx < len(cell.Columns) {
				values = append(values, cell.Columns[idx])
			} else {
				values = append(values, Value{Kind: KindNull})
			}
		}
		lines = append(lines, out.FormatRow(&Row{Values: values}, projCols))
	}

	return lines, nil
}
