// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package mssql provides the sql server query provider.
package mssql

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/microsoft/go-mssqldb" // sql server driver
	"github.com/patrickascher/schemer/query"
	"github.com/patrickascher/schemer/query/condition"
	"github.com/patrickascher/schemer/query/types"
)

// Error messages.
var (
	ErrTableDoesNotExist = "mssql: table %s or column does not exist %s"
	ErrTableRelation     = "mssql: table %s or relation does not exist"
)

// defaultSchema if none is configured.
const defaultSchema = "dbo"

type mssql struct {
	query.Base
}

// init registers the provider under mssql.
func init() {
	err := query.Register(query.MSSQL, newMssql)
	if err != nil {
		panic(err)
	}
}

// newMssql creates a new query.Provider.
func newMssql(config interface{}) (query.Provider, error) {
	cfg, ok := config.(query.Config)
	if !ok {
		return nil, fmt.Errorf("mssql: config must be of type query.Config but is %T", config)
	}
	if cfg.Schema == "" {
		cfg.Schema = defaultSchema
	}
	mssqlBuilder := &mssql{}
	mssqlBuilder.Base.Provider = mssqlBuilder
	mssqlBuilder.Base.Config = cfg

	return mssqlBuilder, nil
}

// Placeholder returns the @pN placeholder.
func (m *mssql) Placeholder() condition.Placeholder {
	return condition.Placeholder{Char: "@p", Numeric: true}
}

// Config returns the query.Config.
func (m *mssql) Config() query.Config {
	return m.Base.Config
}

// QuoteIdentifierChar for mssql.
func (m *mssql) QuoteIdentifierChar() string {
	return "\""
}

// Dialect returns the mssql dialect.
func (m *mssql) Dialect() query.Dialect {
	return newDialect(m.QuoteIdentifier)
}

// DSN returns the connection url.
func (m *mssql) DSN() string {
	cfg := m.Base.Config
	u := url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
	}
	q := u.Query()
	q.Set("database", cfg.Database)
	if cfg.Timeout != "" {
		q.Set("dial timeout", cfg.Timeout)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Open creates a new *sql.DB.
func (m *mssql) Open() error {
	db, err := sql.Open("sqlserver", m.DSN())
	if err != nil {
		return err
	}

	m.SetDB(db)

	// call base Open function.
	return m.Base.Open()
}

// Query creates a new mssql instance.
func (m *mssql) Query() query.Query {
	instance := mssql{}
	instance.Base = query.Base{Config: m.Base.Config, Logger: m.Base.Logger}
	instance.Base.Provider = &instance // self ref for TX
	instance.SetDB(m.Provider.DB())

	return &instance
}

// Information will return a query.Information.
func (m *mssql) Information(table string) query.Information {
	return &information{table: table, mssql: m}
}

// information helper struct.
type information struct {
	table string
	mssql *mssql
}

// Describe the defined table.
func (i *information) Describe(columns ...string) ([]query.Column, error) {

	sel := i.mssql.Select("INFORMATION_SCHEMA.COLUMNS c")
	sel.Columns("c.COLUMN_NAME",
		"c.ORDINAL_POSITION",
		query.DbExpr("CAST(CASE WHEN c.IS_NULLABLE = 'YES' THEN 1 ELSE 0 END AS BIT) AS N"),
		query.DbExpr("CAST(CASE WHEN EXISTS (SELECT 1 FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE k ON k.CONSTRAINT_NAME = tc.CONSTRAINT_NAME WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY' AND tc.TABLE_SCHEMA = c.TABLE_SCHEMA AND k.TABLE_NAME = c.TABLE_NAME AND k.COLUMN_NAME = c.COLUMN_NAME) THEN 1 ELSE 0 END AS BIT) AS K"),
		query.DbExpr("CAST(CASE WHEN EXISTS (SELECT 1 FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE k ON k.CONSTRAINT_NAME = tc.CONSTRAINT_NAME WHERE tc.CONSTRAINT_TYPE = 'UNIQUE' AND tc.TABLE_SCHEMA = c.TABLE_SCHEMA AND k.TABLE_NAME = c.TABLE_NAME AND k.COLUMN_NAME = c.COLUMN_NAME) THEN 1 ELSE 0 END AS BIT) AS U"),
		"c.DATA_TYPE",
		"c.COLUMN_DEFAULT",
		"c.CHARACTER_MAXIMUM_LENGTH",
		query.DbExpr("CAST(COLUMNPROPERTY(OBJECT_ID(c.TABLE_SCHEMA + '.' + c.TABLE_NAME), c.COLUMN_NAME, 'IsIdentity') AS BIT) AS autoincrement"),
	).
		Where("c.TABLE_SCHEMA = ?", i.mssql.Config().Schema).
		Where("c.TABLE_NAME = ?", i.table).
		Order("c.ORDINAL_POSITION")

	if len(columns) > 0 {
		sel.Where("c.COLUMN_NAME IN (?)", columns)
	}

	rows, err := sel.All()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []query.Column
	for rows.Next() {
		var c query.Column
		c.Table = i.table

		var t string
		if err := rows.Scan(&c.Name, &c.Position, &c.NullAble, &c.PrimaryKey, &c.Unique, &t, &c.DefaultValue, &c.Length, &c.Autoincrement); err != nil {
			return nil, err
		}
		size := 0
		if c.Length.Valid {
			size = int(c.Length.Int64)
		}
		c.Type = types.Parse(t, size)
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(cols) == 0 {
		return nil, fmt.Errorf(ErrTableDoesNotExist, i.mssql.Config().Schema+"."+i.table, columns)
	}

	return cols, nil
}

// ForeignKey will return the foreign keys for the defined table.
func (i *information) ForeignKey() ([]query.ForeignKey, error) {
	sel := i.mssql.Select("sys.foreign_key_columns fkc").
		Columns(query.DbExpr("OBJECT_NAME(fkc.constraint_object_id)"),
			query.DbExpr("OBJECT_NAME(fkc.parent_object_id)"),
			query.DbExpr("COL_NAME(fkc.parent_object_id, fkc.parent_column_id)"),
			query.DbExpr("OBJECT_NAME(fkc.referenced_object_id)"),
			query.DbExpr("COL_NAME(fkc.referenced_object_id, fkc.referenced_column_id)")).
		Where("OBJECT_NAME(fkc.parent_object_id) = ?", i.table)

	rows, err := sel.All()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fKeys []query.ForeignKey
	for rows.Next() {
		f := query.ForeignKey{Primary: query.Relation{}, Secondary: query.Relation{}}
		if err := rows.Scan(&f.Name, &f.Primary.Table, &f.Primary.Column, &f.Secondary.Table, &f.Secondary.Column); err != nil {
			return nil, err
		}
		fKeys = append(fKeys, f)
	}

	if len(fKeys) == 0 {
		return nil, fmt.Errorf(ErrTableRelation, i.table)
	}

	return fKeys, nil
}
