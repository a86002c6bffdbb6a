// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package postgres provides the postgres family query provider.
// The variant yugabyte is registered as postgres:yugabyte.
package postgres

import (
	"database/sql"
	"fmt"
	"net/url"
	"regexp"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/patrickascher/schemer/query"
	"github.com/patrickascher/schemer/query/condition"
	"github.com/patrickascher/schemer/query/types"
)

// Error messages.
var (
	ErrTableDoesNotExist = "postgres: table %s or column does not exist %s"
	ErrTableRelation     = "postgres: table %s or relation does not exist"
)

// Yugabyte variant.
const Yugabyte = "yugabyte"

// defaultSchema if none is configured.
const defaultSchema = "public"

type postgres struct {
	query.Base
	variant string
}

// init registers the provider under postgres and postgres:yugabyte.
func init() {
	for name, variant := range map[string]string{"postgres": "", "postgres:" + Yugabyte: Yugabyte} {
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
			return nil, fmt.Errorf("postgres: config must be of type query.Config but is %T", config)
		}
		if cfg.Schema == "" {
			cfg.Schema = defaultSchema
		}
		pgBuilder := &postgres{variant: variant}
		pgBuilder.Base.Provider = pgBuilder
		pgBuilder.Base.Config = cfg
		return pgBuilder, nil
	}
}

// Placeholder returns the $n placeholder.
func (p *postgres) Placeholder() condition.Placeholder {
	return condition.Placeholder{Char: "$", Numeric: true}
}

// Config returns the query.Config.
func (p *postgres) Config() query.Config {
	return p.Base.Config
}

// QuoteIdentifierChar for postgres.
func (p *postgres) QuoteIdentifierChar() string {
	return "\""
}

// Dialect returns the postgres dialect or the dialect of the variant.
func (p *postgres) Dialect() query.Dialect {
	return newDialect(p.variant, p.QuoteIdentifier)
}

// DSN returns the connection url.
func (p *postgres) DSN() string {
	cfg := p.Base.Config
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Database,
	}
	q := u.Query()
	q.Set("sslmode", "disable")
	q.Set("search_path", cfg.Schema)
	if cfg.Timeout != "" {
		q.Set("connect_timeout", cfg.Timeout)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Open creates a new *sql.DB.
func (p *postgres) Open() error {
	db, err := sql.Open("pgx", p.DSN())
	if err != nil {
		return err
	}

	p.SetDB(db)

	// call base Open function.
	return p.Base.Open()
}

// Query creates a new postgres instance.
func (p *postgres) Query() query.Query {
	instance := postgres{variant: p.variant}
	instance.Base = query.Base{Config: p.Base.Config, Logger: p.Base.Logger}
	instance.Base.Provider = &instance // self ref for TX
	instance.SetDB(p.Provider.DB())

	return &instance
}

// Information will return a query.Information.
func (p *postgres) Information(table string) query.Information {
	return &information{table: table, postgres: p}
}

// information helper struct.
type information struct {
	table    string
	postgres *postgres
}

// castRegex matches the type cast of a default value.
var castRegex = regexp.MustCompile(`^('.*')::[\w\s]+$`)

// Describe the defined table.
func (i *information) Describe(columns ...string) ([]query.Column, error) {

	sel := i.postgres.Select("information_schema.columns c")
	sel.Columns("c.column_name",
		"c.ordinal_position",
		query.DbExpr("c.is_nullable = 'YES' AS n"),
		query.DbExpr("EXISTS (SELECT 1 FROM information_schema.table_constraints tc JOIN information_schema.key_column_usage k ON k.constraint_name = tc.constraint_name AND k.table_schema = tc.table_schema WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = c.table_schema AND k.table_name = c.table_name AND k.column_name = c.column_name) AS k"),
		query.DbExpr("EXISTS (SELECT 1 FROM information_schema.table_constraints tc JOIN information_schema.key_column_usage k ON k.constraint_name = tc.constraint_name AND k.table_schema = tc.table_schema WHERE tc.constraint_type = 'UNIQUE' AND tc.table_schema = c.table_schema AND k.table_name = c.table_name AND k.column_name = c.column_name) AS u"),
		"c.data_type",
		"c.column_default",
		"c.character_maximum_length",
		query.DbExpr("COALESCE(c.column_default LIKE 'nextval%', FALSE) AS autoincrement"),
	).
		Where("c.table_schema = ?", i.postgres.Config().Schema).
		Where("c.table_name = ?", i.table).
		Order("c.ordinal_position")

	if len(columns) > 0 {
		sel.Where("c.column_name IN (?)", columns)
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
		if c.DefaultValue.Valid {
			c.DefaultValue.String = castRegex.ReplaceAllString(c.DefaultValue.String, "$1")
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
		return nil, fmt.Errorf(ErrTableDoesNotExist, i.postgres.Config().Schema+"."+i.table, columns)
	}

	return cols, nil
}

// ForeignKey will return the foreign keys for the defined table.
func (i *information) ForeignKey() ([]query.ForeignKey, error) {
	sel := i.postgres.Select("information_schema.table_constraints tc").
		Columns("tc.constraint_name", "tc.table_name", "kcu.column_name", "ccu.table_name", "ccu.column_name").
		Join(condition.INNER, "information_schema.key_column_usage kcu", "tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema").
		Join(condition.INNER, "information_schema.constraint_column_usage ccu", "ccu.constraint_name = tc.constraint_name AND ccu.table_schema = tc.table_schema").
		Where("tc.constraint_type = 'FOREIGN KEY'").
		Where("tc.table_schema = ?", i.postgres.Config().Schema).
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
