package main

import (
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/xwb1989/sqlparser"
)

// TableSchema is one entry of the schema table: a user-visible table.
type TableSchema struct {
	Name      string
	RootPage  uint32
	CreateSQL string
}

// Catalog is the set of user tables found on page 1, keyed by name.
type Catalog struct {
	tables []TableSchema
	byName map[string]*TableSchema
}

// sqliteSequenceTable is the well-known internal table excluded from
// user-visible listings.
const sqliteSequenceTable = "sqlite_sequence"

// buildCatalog scans every cell of page 1 and keeps the ones whose
// `type` column is the text "table", excluding sqlite_sequence. Decode
// failures on individual cells are aggregated rather than aborting the
// whole scan, so one malformed schema row doesn't hide diagnostics
// about the others; the aggregate is still one error to the caller.
func buildCatalog(db *Database) (*Catalog, error) {
	page, err := db.ReadPage(1)
	if err != nil {
		return nil, err
	}

	usable := db.header.usablePageSize()
	enc := db.header.TextEncoding

	cat := &Catalog{byName: make(map[string]*TableSchema)}
	var errs *multierror.Error

	for i, ptr := range page.CellPointers {
		cell, err := decodeLeafTableCell(page.cellBytes(ptr), usable, enc)
		if err != nil {
			errs = multierror.Append(errs, NewDatabaseError("buildCatalog", err, map[string]interface{}{"cellIndex": i}))
			continue
		}
		if len(cell.Columns) < 5 {
			continue
		}

		typ := cell.Columns[0].String()
		name := cell.Columns[1].String()
		tblName := cell.Columns[2].String()
		rootPageVal := cell.Columns[3]
		sql := cell.Columns[4].String()

		if typ != "table" || tblName == sqliteSequenceTable {
			continue
		}

		var rootPage uint32
		if rootPageVal.IsNumeric() {
			rootPage = uint32(rootPageVal.AsFloat64())
		}

		entry := TableSchema{Name: name, RootPage: rootPage, CreateSQL: sql}
		cat.tables = append(cat.tables, entry)
		validateSchemaSQL(sql, db.log)
	}
	cat.reindex()

	if errs.ErrorOrNil() != nil {
		db.log.WithError(errs).Warn("schema cell decode errors during catalog build")
	}

	return cat, errs.ErrorOrNil()
}

func (c *Catalog) reindex() {
	c.byName = make(map[string]*TableSchema, len(c.tables))
	for i := range c.tables {
		c.byName[c.tables[i].Name] = &c.tables[i]
	}
}

// Lookup returns the named table's schema, or false if it is not a
// user-visible table.
func (c *Catalog) Lookup(name string) (*TableSchema, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// TableNames returns all user-visible table names, sorted.
func (c *Catalog) TableNames() []string {
	names := make([]string, 0, len(c.tables))
	for _, t := range c.tables {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// validateSchemaSQL is a best-effort, informational-only check that a
// stored CREATE TABLE statement is syntactically well-formed. It never
// feeds the column list the query executor uses (that is always the
// regex extraction in query.go); a failure here is logged at debug
// level and does not affect whether the table is listed or queryable.
func validateSchemaSQL(sql string, log interface{ Debugf(string, ...interface{}) }) {
	normalized := normalizeSQLiteDDL(sql)
	if normalized == "" {
		return
	}
	if _, err := sqlparser.Parse(normalized); err != nil {
		log.Debugf("schema SQL failed auxiliary validation: %v", err)
	}
}

// normalizeSQLiteDDL rewrites a handful of SQLite-specific DDL spellings
// that a general-purpose SQL parser chokes on, purely so the auxiliary
// validation pass in validateSchemaSQL has something parseable to check.
func normalizeSQLiteDDL(sql string) string {
	s := strings.TrimSpace(sql)
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, `"`, "`")
	s = strings.ReplaceAll(s, "AUTOINCREMENT", "AUTO_INCREMENT")
	s = strings.ReplaceAll(s, "autoincrement", "auto_increment")
	return s
}
