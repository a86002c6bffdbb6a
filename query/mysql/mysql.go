// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package mysql provides the mysql family query provider.
// The variants tidb and vitess are registered as mysql:tidb and mysql:vitess.
package mysql

import (
	"database/sql"
	"fmt"
	"time"

	driver "github.com/go-sql-driver/mysql"
	"github.com/patrickascher/schemer/query"
	"github.com/patrickascher/schemer/query/condition"
	"github.com/patrickascher/schemer/query/types"
)

// Error messages.
var (
	ErrTableDoesNotExist = "mysql: table %s or column does not exist %s"
	ErrTableRelation     = "mysql: table %s or relation does not exist"
)

// Variants of the mysql family.
const (
	TiDB   = "tidb"
	Vitess = "vitess"
)

type mysql struct {
	query.Base
	variant string
}

// init registers the provider under mysql and its variants.
func init() {
	for name, variant := range map[string]string{"mysql": "", "mysql:" + TiDB: TiDB, "mysql:" + Vitess: Vitess} {
		err := query.Register(name, factory(variant))
		if err != nil {
			panic(err)
		}
	}
}

// factory returns a provider factory for the given variant.
func factory(variant string) func(interface{}) (query.Provider, error) {
	return func(config interface{}) (query.Provider, error) {
		cfg, ok := config.(query.Config)
		if !ok {
			return nil, fmt.Errorf("mysql: config must be of type query.Config but is %T", config)
		}
		mysqlBuilder := &mysql{variant: variant}
		mysqlBuilder.Base.Provider = mysqlBuilder
		mysqlBuilder.Base.Config = cfg
		return mysqlBuilder, nil
	}
}

// Placeholder returns the ? placeholder for the mysql driver.
func (m *mysql) Placeholder() condition.Placeholder {
	return condition.Placeholder{Char: "?"}
}

// Config returns the query.Config.
func (m *mysql) Config() query.Config {
	return m.Base.Config
}

// QuoteIdentifierChar for mysql.
func (m *mysql) QuoteIdentifierChar() string {
	return "`"
}

// Dialect returns the mysql dialect or the dialect of the variant.
func (m *mysql) Dialect() query.Dialect {
	return newDialect(m.variant, m.QuoteIdentifier)
}

// Open creates a new *sql.DB.
// The timeout defaults to 30s.
func (m *mysql) Open() error {
	dsn, err := m.dsn()
	if err != nil {
		return err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}
	m.SetDB(db)

	// call base Open function.
	return m.Base.Open()
}

// dsn of the configuration.
func (m *mysql) dsn() (string, error) {
	if m.Base.Config.Timeout == "" {
		m.Base.Config.Timeout = "30s"
	}
	timeout, err := time.ParseDuration(m.Base.Config.Timeout)
	if err != nil {
		return "", fmt.Errorf("mysql: %w", err)
	}

	cfg := driver.NewConfig()
	cfg.User = m.Base.Config.Username
	cfg.Passwd = m.Base.Config.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", m.Base.Config.Host, m.Base.Config.Port)
	cfg.DBName = m.Base.Config.Database
	cfg.ParseTime = true
	cfg.Timeout = timeout
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN(), nil
}

// Query creates a new mysql instance.
func (m *mysql) Query() query.Query {
	// create a new instance with a new *sql.Tx.
	// Everything else will be copied from the parent.
	instance := mysql{variant: m.variant}
	instance.Base = query.Base{Config: m.Base.Config, Logger: m.Base.Logger}
	instance.Base.Provider = &instance // self ref for TX
	instance.SetDB(m.Provider.DB())

	return &instance
}

// Information will return a query.Information.
func (m *mysql) Information(table string) query.Information {
	return &information{table: table, mysql: m}
}

// information helper struct.
type information struct {
	table string
	mysql *mysql
}

// Describe the defined table.
func (i *information) Describe(columns ...string) ([]query.Column, error) {

	sel := i.mysql.Select("information_schema.COLUMNS c")
	sel.Columns("c.COLUMN_NAME",
		"c.ORDINAL_POSITION",
		query.DbExpr("IF(c.IS_NULLABLE='YES','TRUE','FALSE') AS N"),
		query.DbExpr("IF(COLUMN_KEY='PRI','TRUE','FALSE') AS K"),
		query.DbExpr("IF(COLUMN_KEY='UNI','TRUE','FALSE') AS U"),
		"c.COLUMN_TYPE",
		"c.COLUMN_DEFAULT",
		"c.CHARACTER_MAXIMUM_LENGTH",
		query.DbExpr("IF(EXTRA='auto_increment','TRUE','FALSE') AS autoincrement"),
	).
		Where("c.TABLE_SCHEMA = ?", i.mysql.Provider.Config().Database).
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
		c.Table = i.table // adding Table info

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
		return nil, fmt.Errorf(ErrTableDoesNotExist, i.mysql.Provider.Config().Database+"."+i.table, columns)
	}

	return cols, nil
}

// ForeignKey will return the foreign keys for the defined table.
func (i *information) ForeignKey() ([]query.ForeignKey, error) {
	sel := i.mysql.Select("!information_schema.key_column_usage cu, information_schema.table_constraints tc").
		Columns("tc.constraint_name", "tc.table_name", "cu.column_name", "cu.referenced_table_name", "cu.referenced_column_name").
		Where("cu.constraint_name = tc.constraint_name AND cu.table_name = tc.table_name AND tc.constraint_type = 'FOREIGN KEY'").
		Where("cu.table_schema = ?", i.mysql.Provider.Config().Database).
		Where("tc.table_schema = ?", i.mysql.Provider.Config().Database).
		Where("tc.table_name = ?", i.table)

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
