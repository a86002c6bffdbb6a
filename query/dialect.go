// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/patrickascher/schemer/registry"
)

// Database families.
const (
	MYSQL    = "mysql"
	POSTGRES = "postgres"
	SQLITE   = "sqlite3"
	MSSQL    = "mssql"
	ORACLE   = "oracle"
)

// Error messages.
var (
	ErrUnsupportedDatabase = errors.New("query: unsupported database")
)

// clients maps the configured client names to a database family.
var clients = map[string]string{
	"mysql":      MYSQL,
	"mysql2":     MYSQL,
	"mariadb":    MYSQL,
	"pg":         POSTGRES,
	"postgres":   POSTGRES,
	"postgresql": POSTGRES,
	"sqlite":     SQLITE,
	"sqlite3":    SQLITE,
	"mssql":      MSSQL,
	"sqlserver":  MSSQL,
	"oracle":     ORACLE,
	"oracledb":   ORACLE,
}

// PhysicalType is the database type of an ui type.
type PhysicalType struct {
	DT   string
	DTXP string
	DTXS string
}

// Dialect describes everything which differs between the database families.
// The DDL functions return the statements in execution order. A nil slice means the operation is not supported
// by the dialect and should be skipped.
type Dialect interface {
	Family() string
	Variant() string
	MaxIdentifierLength() int
	UIType(uidt string) PhysicalType

	ColumnType(c ColumnDefinition) string
	ColumnDefinition(c ColumnDefinition) string
	CreateTable(t TableCreate) []string
	DropTable(table string) []string
	AddColumn(table string, c ColumnDefinition) []string
	AlterColumn(table string, original ColumnDefinition, c ColumnDefinition) []string
	DropColumn(table string, c ColumnDefinition) []string
	AddForeignKey(r RelationDefinition) []string
	DropForeignKey(r RelationDefinition) []string
	CreateIndex(i IndexDefinition) []string
}

// TableRebuilder can be implemented by a dialect if some column changes can only be done by recreating the table.
// If Rebuild returns false, the column based statements will be used.
type TableRebuilder interface {
	Rebuild(t TableUpdate) ([]string, bool)
}

// Resolve returns the registered provider name for the given configuration.
// An unknown variant falls back to the family provider.
// ErrUnsupportedDatabase will return if the client is unknown.
func Resolve(cfg Config) (string, error) {
	family, ok := clients[strings.ToLower(cfg.Client)]
	if !ok {
		return "", fmt.Errorf("%w: %#v (registered: %s)", ErrUnsupportedDatabase, cfg.Client, strings.Join(Dialects(), ", "))
	}

	if cfg.Variant != "" {
		name := family + ":" + strings.ToLower(cfg.Variant)
		if _, err := registry.Get(registryPrefix + name); err == nil {
			return name, nil
		}
	}

	return family, nil
}

// Open resolves the provider by the configuration and opens a new builder.
func Open(cfg Config) (Builder, error) {
	name, err := Resolve(cfg)
	if err != nil {
		return nil, err
	}
	return New(name, cfg)
}

// DialectBase implements the ANSI parts of a Dialect.
// Self must reference the embedding dialect, so that overwritten functions are used.
// Quote is the identifier quote function of the provider.
type DialectBase struct {
	Self       Dialect
	Quote      func(...string) string
	SizedTypes []string
	// Types maps the ui types to the database types.
	Types map[string]PhysicalType
}

// sizeRegex allows numeric sizes or precision definitions.
var sizeRegex = regexp.MustCompile(`^(\d+|max|MAX)$`)

// Variant returns an empty string for the family dialect.
func (d *DialectBase) Variant() string {
	return ""
}

// UIType returns the database type of the ui type.
// Virtual ui types return an empty PhysicalType.
func (d *DialectBase) UIType(uidt string) PhysicalType {
	return d.Types[uidt]
}

// ColumnType renders the database type.
// DTXP and DTXS are only added if the type is sized and the size is numeric.
func (d *DialectBase) ColumnType(c ColumnDefinition) string {
	dt := c.DT
	if !d.isSized(dt) || !sizeRegex.MatchString(c.DTXP) {
		return dt
	}
	if c.DTXS != "" && sizeRegex.MatchString(c.DTXS) {
		return dt + "(" + c.DTXP + "," + c.DTXS + ")"
	}
	return dt + "(" + c.DTXP + ")"
}

// ColumnDefinition renders the column as "name type [NOT NULL] [DEFAULT x]".
func (d *DialectBase) ColumnDefinition(c ColumnDefinition) string {
	def := d.Quote(c.Name) + " " + d.Self.ColumnType(c)
	if c.RQD || c.PK {
		def += " NOT NULL"
	}
	if c.Default.Valid {
		def += " DEFAULT " + DefaultValue(c.Default.String)
	}
	return def
}

// CreateTable renders a CREATE TABLE statement with a primary key constraint.
func (d *DialectBase) CreateTable(t TableCreate) []string {
	var defs []string
	var pks []string
	for _, c := range t.Columns {
		defs = append(defs, d.Self.ColumnDefinition(c))
		if c.PK {
			pks = append(pks, c.Name)
		}
	}
	if len(pks) > 0 {
		defs = append(defs, "PRIMARY KEY ("+d.Quote(pks...)+")")
	}
	return []string{"CREATE TABLE " + d.Quote(t.Table) + " (" + strings.Join(defs, ", ") + ")"}
}

// DropTable renders a DROP TABLE statement.
func (d *DialectBase) DropTable(table string) []string {
	return []string{"DROP TABLE " + d.Quote(table)}
}

// AddColumn renders an ALTER TABLE ADD COLUMN statement.
func (d *DialectBase) AddColumn(table string, c ColumnDefinition) []string {
	return []string{"ALTER TABLE " + d.Quote(table) + " ADD COLUMN " + d.Self.ColumnDefinition(c)}
}

// DropColumn renders an ALTER TABLE DROP COLUMN statement.
func (d *DialectBase) DropColumn(table string, c ColumnDefinition) []string {
	return []string{"ALTER TABLE " + d.Quote(table) + " DROP COLUMN " + d.Quote(c.Name)}
}

// AlterColumn renders a rename and afterwards the changed type, nullability and default.
func (d *DialectBase) AlterColumn(table string, original ColumnDefinition, c ColumnDefinition) []string {
	var stmts []string
	if original.Name != c.Name {
		stmts = append(stmts, "ALTER TABLE "+d.Quote(table)+" RENAME COLUMN "+d.Quote(original.Name)+" TO "+d.Quote(c.Name))
	}
	if d.Self.ColumnType(original) != d.Self.ColumnType(c) {
		stmts = append(stmts, "ALTER TABLE "+d.Quote(table)+" ALTER COLUMN "+d.Quote(c.Name)+" TYPE "+d.Self.ColumnType(c))
	}
	if original.RQD != c.RQD {
		action := "DROP NOT NULL"
		if c.RQD {
			action = "SET NOT NULL"
		}
		stmts = append(stmts, "ALTER TABLE "+d.Quote(table)+" ALTER COLUMN "+d.Quote(c.Name)+" "+action)
	}
	if original.Default != c.Default {
		action := "DROP DEFAULT"
		if c.Default.Valid {
			action = "SET DEFAULT " + DefaultValue(c.Default.String)
		}
		stmts = append(stmts, "ALTER TABLE "+d.Quote(table)+" ALTER COLUMN "+d.Quote(c.Name)+" "+action)
	}
	return stmts
}

// AddForeignKey renders an ALTER TABLE ADD CONSTRAINT statement.
func (d *DialectBase) AddForeignKey(r RelationDefinition) []string {
	return []string{"ALTER TABLE " + d.Quote(r.ChildTable) + " ADD CONSTRAINT " + d.Quote(r.ForeignKeyName) +
		" FOREIGN KEY (" + d.Quote(r.ChildColumn) + ") REFERENCES " + d.Quote(r.ParentTable) + " (" + d.Quote(r.ParentColumn) + ")" +
		" ON UPDATE " + r.onUpdate() + " ON DELETE " + r.onDelete()}
}

// DropForeignKey renders an ALTER TABLE DROP CONSTRAINT statement.
func (d *DialectBase) DropForeignKey(r RelationDefinition) []string {
	return []string{"ALTER TABLE " + d.Quote(r.ChildTable) + " DROP CONSTRAINT " + d.Quote(r.ForeignKeyName)}
}

// CreateIndex renders a CREATE INDEX statement.
func (d *DialectBase) CreateIndex(i IndexDefinition) []string {
	return []string{"CREATE INDEX " + d.Quote(i.Name) + " ON " + d.Quote(i.Table) + " (" + d.Quote(i.Columns...) + ")"}
}

// isSized checks if the data type accepts a size.
func (d *DialectBase) isSized(dt string) bool {
	dt = strings.ToLower(dt)
	for _, s := range d.SizedTypes {
		if s == dt {
			return true
		}
	}
	return false
}

// keywords which are rendered without quotes as default value.
var keywords = map[string]bool{
	"NULL":              true,
	"TRUE":              true,
	"FALSE":             true,
	"CURRENT_TIMESTAMP": true,
	"CURRENT_DATE":      true,
	"CURRENT_TIME":      true,
}

var (
	numberRegex   = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	functionRegex = regexp.MustCompile(`^\w+\(.*\)$`)
)

// DefaultValue renders a default value.
// Numbers, keywords, function calls and already quoted values are not changed.
// Everything else gets quoted and single quotes are escaped. Already escaped quotes are not escaped twice.
func DefaultValue(v string) string {
	switch {
	case numberRegex.MatchString(v),
		keywords[strings.ToUpper(v)],
		functionRegex.MatchString(v),
		len(v) >= 2 && strings.HasPrefix(v, "'") && strings.HasSuffix(v, "'"):
		return v
	}
	return "'" + EscapeLiteral(strings.ReplaceAll(v, "''", "'")) + "'"
}

// EscapeLiteral escapes single quotes of a sql string literal.
func EscapeLiteral(v string) string {
	return strings.ReplaceAll(v, "'", "''")
}
