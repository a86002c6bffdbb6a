// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sqlite provides the sqlite3 query provider on top of the cgo free modernc.org/sqlite driver.
// The configured Database is the file path.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/patrickascher/schemer/query"
	"github.com/patrickascher/schemer/query/condition"
	"github.com/patrickascher/schemer/query/types"
	_ "modernc.org/sqlite" // sqlite driver
)

// Error messages.
var (
	ErrTableDoesNotExist = "sqlite: table %s or column does not exist %s"
	ErrTableRelation     = "sqlite: table %s or relation does not exist"
)

// memory database name.
const memory = ":memory:"

type sqlite struct {
	query.Base
}

// init registers the provider under sqlite3.
func init() {
	err := query.Register(query.SQLITE, newSqlite)
	if err != nil {
		panic(err)
	}
}

// newSqlite creates a new query.Provider.
func newSqlite(config interface{}) (query.Provider, error) {
	cfg, ok := config.(query.Config)
	if !ok {
		return nil, fmt.Errorf("sqlite: config must be of type query.Config but is %T", config)
	}
	sqliteBuilder := &sqlite{}
	sqliteBuilder.Base.Provider = sqliteBuilder
	sqliteBuilder.Base.Config = cfg

	return sqliteBuilder, nil
}

// Placeholder returns the ? placeholder.
func (s *sqlite) Placeholder() condition.Placeholder {
	return condition.Placeholder{Char: "?"}
}

// Config returns the query.Config.
func (s *sqlite) Config() query.Config {
	return s.Base.Config
}

// QuoteIdentifierChar for sqlite.
func (s *sqlite) QuoteIdentifierChar() string {
	return "\""
}

// Dialect returns the sqlite dialect.
func (s *sqlite) Dialect() query.Dialect {
	return newDialect(s.QuoteIdentifier, s.indexes)
}

// DSN returns the file dsn with a busy timeout.
func (s *sqlite) DSN() string {
	db := s.Base.Config.Database
	if db == "" {
		db = memory
	}
	if db == memory {
		return db
	}
	return "file:" + db + "?_pragma=busy_timeout(5000)"
}

// Open creates a new *sql.DB.
// An in memory database is limited to one connection, otherwise every connection would get its own database.
func (s *sqlite) Open() error {
	db, err := sql.Open("sqlite", s.DSN())
	if err != nil {
		return err
	}
	if s.DSN() == memory {
		s.Base.Config.MaxOpenConnections = 1
	}

	s.SetDB(db)

	// call base Open function.
	return s.Base.Open()
}

// Query creates a new sqlite instance.
func (s *sqlite) Query() query.Query {
	instance := sqlite{}
	instance.Base = query.Base{Config: s.Base.Config, Logger: s.Base.Logger}
	instance.Base.Provider = &instance // self ref for TX
	instance.SetDB(s.Provider.DB())

	return &instance
}

// Information will return a query.Information.
func (s *sqlite) Information(table string) query.Information {
	return &information{table: table, sqlite: s}
}

// indexes returns the names of all user defined indexes which include the column.
func (s *sqlite) indexes(table string, column string) []string {
	rows, err := s.All("SELECT il.name FROM pragma_index_list(?) il JOIN pragma_index_info(il.name) ii WHERE ii.name = ? AND il.origin = 'c'", []interface{}{table, column})
	if err != nil {
		return nil
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return names
		}
		names = append(names, name)
	}
	return names
}

// information helper struct.
type information struct {
	table  string
	sqlite *sqlite
}

// Describe the defined table.
func (i *information) Describe(columns ...string) ([]query.Column, error) {
	rows, err := i.sqlite.All("SELECT cid, name, type, \"notnull\", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid", []interface{}{i.table})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []query.Column
	for rows.Next() {
		var c query.Column
		c.Table = i.table

		var cid, notNull, pk int
		var t string
		if err := rows.Scan(&cid, &c.Name, &t, &notNull, &c.DefaultValue, &pk); err != nil {
			return nil, err
		}
		if len(columns) > 0 && !contains(columns, c.Name) {
			continue
		}
		c.Position = cid + 1
		c.NullAble = notNull == 0
		c.PrimaryKey = pk > 0
		c.Autoincrement = c.PrimaryKey && strings.EqualFold(t, "integer")
		c.Type = types.Parse(t, 0)
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(cols) == 0 {
		return nil, fmt.Errorf(ErrTableDoesNotExist, i.table, columns)
	}

	return cols, nil
}

// ForeignKey will return the foreign keys for the defined table.
// sqlite foreign keys have no name, therefore a name is generated by the table and id.
func (i *information) ForeignKey() ([]query.ForeignKey, error) {
	rows, err := i.sqlite.All("SELECT id, \"table\", \"from\", \"to\" FROM pragma_foreign_key_list(?)", []interface{}{i.table})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fKeys []query.ForeignKey
	for rows.Next() {
		var id int
		f := query.ForeignKey{Primary: query.Relation{Table: i.table}, Secondary: query.Relation{}}
		if err := rows.Scan(&id, &f.Secondary.Table, &f.Primary.Column, &f.Secondary.Column); err != nil {
			return nil, err
		}
		f.Name = fmt.Sprintf("fk_%s_%d", i.table, id)
		fKeys = append(fKeys, f)
	}

	if len(fKeys) == 0 {
		return nil, fmt.Errorf(ErrTableRelation, i.table)
	}

	return fKeys, nil
}

// contains helper.
func contains(s []string, v string) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}
