// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package oracle provides the oracle query provider.
// Identifiers are not quoted, therefore oracle stores them in upper case.
package oracle

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/patrickascher/schemer/query"
	"github.com/patrickascher/schemer/query/condition"
	"github.com/patrickascher/schemer/query/types"
	_ "gopkg.in/rana/ora.v4" // oracle driver
)

// Error messages.
var (
	ErrTableDoesNotExist = "oracle: table %s or column does not exist %s"
	ErrTableRelation     = "oracle: table %s or relation does not exist"
)

type oracle struct {
	query.Base
}

// init registers the provider under oracle.
func init() {
	err := query.Register(query.ORACLE, newOracle)
	if err != nil {
		panic(err)
	}
}

// newOracle creates a new query.Provider.
func newOracle(config interface{}) (query.Provider, error) {
	cfg, ok := config.(query.Config)
	if !ok {
		return nil, fmt.Errorf("oracle: config must be of type query.Config but is %T", config)
	}
	oracleBuilder := &oracle{}
	oracleBuilder.Base.Provider = oracleBuilder
	oracleBuilder.Base.Config = cfg

	return oracleBuilder, nil
}

// Placeholder returns the :n placeholder.
func (m *oracle) Placeholder() condition.Placeholder {
	return condition.Placeholder{Char: ":", Numeric: true}
}

// Config returns the query.Config.
func (m *oracle) Config() query.Config {
	return m.Base.Config
}

// QuoteIdentifierChar for oracle.
func (m *oracle) QuoteIdentifierChar() string {
	return ""
}

// Dialect returns the oracle dialect.
func (m *oracle) Dialect() query.Dialect {
	return newDialect(m.QuoteIdentifier)
}

// Open creates a new *sql.DB.
func (m *oracle) Open() error {

	db, err := sql.Open("ora", fmt.Sprintf("%s/%s@%s:%d/%s", m.Base.Config.Username, m.Base.Config.Password, m.Base.Config.Host, m.Base.Config.Port, m.Base.Config.Database))
	if err != nil {
		return err
	}

	m.SetDB(db)

	// call base Open function.
	return m.Base.Open()
}

// Query creates a new oracle instance.
func (m *oracle) Query() query.Query {
	// create a new instance with a new *sql.Tx.
	// Everything else will be copied from the parent.
	instance := oracle{}
	instance.Base = query.Base{Config: m.Base.Config, Logger: m.Base.Logger}
	instance.Base.Provider = &instance // self ref for TX
	instance.SetDB(m.Provider.DB())

	return &instance
}

// Information will return a query.Information.
func (m *oracle) Information(table string) query.Information {
	return &information{table: table, oracle: m}
}

// information helper struct.
type information struct {
	table  string
	oracle *oracle
}

// Describe the database table.
// If the columns argument is set, only the required columns are requested.
func (i *information) Describe(columns ...string) ([]query.Column, error) {

	sel := i.oracle.Select("USER_TAB_COLUMNS")
	sel.Columns("COLUMN_NAME",
		"COLUMN_ID",
		query.DbExpr("case when NULLABLE='Y' THEN 'TRUE' ELSE 'FALSE' END AS \"N\""),
		query.DbExpr("'FALSE' AS \"K\""),
		query.DbExpr("'FALSE' AS \"U\""),
		"DATA_TYPE",
		query.DbExpr("''"), // DATA_DEFAULT - default was deleted because there are some major memory leaks with that. dont need defaults at the moment. fix: switch driver?
		"CHAR_LENGTH",
		query.DbExpr("'FALSE' as \"autoincrement\""),
	).Where("TABLE_NAME = ?", strings.ToUpper(i.table)).Order("COLUMN_ID")

	if len(columns) > 0 {
		upper := make([]string, len(columns))
		for n, c := range columns {
			upper[n] = strings.ToUpper(c)
		}
		sel.Where("COLUMN_NAME IN (?)", upper)
	}

	rows, err := sel.All()

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var cols []query.Column
	for rows.Next() {

		var c query.Column
		c.Table = i.table // adding Table info

		var t string
		if err := rows.Scan(&c.Name, &c.Position, &c.NullAble, &c.PrimaryKey, &c.Unique, &t, &c.DefaultValue, &c.Length, &c.Autoincrement); err != nil {
			return nil, err
		}

		c.Name = strings.ToLower(c.Name)
		size := 0
		if c.Length.Valid {
			size = int(c.Length.Int64)
		}
		c.Type = types.Parse(t, size)
		cols = append(cols, c)
	}

	if len(cols) == 0 {
		return nil, fmt.Errorf(ErrTableDoesNotExist, i.table, columns)
	}

	return cols, nil
}

// ForeignKey returns the relation of the given table.
func (i *information) ForeignKey() ([]query.ForeignKey, error) {
	sel := i.oracle.Select("USER_CONSTRAINTS c").
		Columns("c.CONSTRAINT_NAME", "c.TABLE_NAME", "cc.COLUMN_NAME", "r.TABLE_NAME", "rc.COLUMN_NAME").
		Join(condition.INNER, "USER_CONS_COLUMNS cc", "cc.CONSTRAINT_NAME = c.CONSTRAINT_NAME").
		Join(condition.INNER, "USER_CONSTRAINTS r", "r.CONSTRAINT_NAME = c.R_CONSTRAINT_NAME").
		Join(condition.INNER, "USER_CONS_COLUMNS rc", "rc.CONSTRAINT_NAME = r.CONSTRAINT_NAME AND rc.POSITION = cc.POSITION").
		Where("c.CONSTRAINT_TYPE = 'R'").
		Where("c.TABLE_NAME = ?", strings.ToUpper(i.table))

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
