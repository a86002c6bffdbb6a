// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import "time"

// Config sql struct.
// Client is the configured database client (mysql2, pg, sqlite3, mssql, oracledb,...).
// Variant is an optional vendor of the client family (tidb, vitess, yugabyte).
type Config struct {
	Client  string `validate:"required"`
	Variant string

	Username string
	Password string
	Host     string
	Port     int
	Database string
	Schema   string

	MaxIdleConnections int
	MaxOpenConnections int
	MaxConnLifetime    time.Duration
	Timeout            string

	PreQuery []string
}
