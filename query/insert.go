// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/patrickascher/schemer/mapper"
	"github.com/patrickascher/schemer/query/condition"
)

const defaultBatchSize = 50

// Error messages.
var (
	ErrValueMissing = "query: no %s value is set (%s)"
	ErrColumn       = "query: column (%s) does not exist in (%s)"
)

// InsertBase can be embedded and changed for different providers.
// All functions and variables are therefore exported.
type InsertBase struct {
	Provider Provider

	ITable     string
	IValues    []map[string]interface{}
	IColumns   []string
	IBatchSize int
	ILastID    *int64
}

// Batch sets the number of rows per statement.
// Default batching size is 50.
func (i *InsertBase) Batch(size int) Insert {
	i.IBatchSize = size
	return i
}

// Columns define a fixed column order for the insert.
// If the columns are not set, the sorted keys of the first value set are used.
// Keys which are not defined as column are skipped.
func (i *InsertBase) Columns(c ...string) Insert {
	i.IColumns = c
	return i
}

// Values sets the insert data.
func (i *InsertBase) Values(values []map[string]interface{}) Insert {
	i.IValues = values
	return i
}

// LastInsertedID sets the auto increment id of a single row insert.
func (i *InsertBase) LastInsertedID(id *int64) Insert {
	i.ILastID = id
	return i
}

// String returns the rendered statements and arguments.
func (i *InsertBase) String() ([]string, [][]interface{}, error) {
	return i.Render()
}

// Exec the statements. More than one batch runs in a transaction.
func (i *InsertBase) Exec() ([]sql.Result, error) {
	stmts, args, err := i.Render()
	if err != nil {
		return nil, err
	}
	res, err := i.Provider.Exec(stmts, args)
	if err != nil {
		return nil, err
	}
	if i.ILastID != nil && len(res) == 1 {
		*i.ILastID, err = res[0].LastInsertId()
	}
	return res, err
}

// Render one statement per batch.
func (i *InsertBase) Render() ([]string, [][]interface{}, error) {
	if len(i.IValues) == 0 {
		return nil, nil, fmt.Errorf(ErrValueMissing, "insert", i.ITable)
	}
	columns := i.IColumns
	if len(columns) == 0 {
		columns = mapper.SortedKeys(i.IValues[0])
	}
	size := i.IBatchSize
	if size <= 0 {
		size = defaultBatchSize
	}

	head := "INSERT INTO " + i.Provider.QuoteIdentifier(i.ITable) + "(" + i.Provider.QuoteIdentifier(columns...) + ") VALUES "
	row := "(" + strings.TrimSuffix(strings.Repeat(condition.PLACEHOLDER+", ", len(columns)), ", ") + ")"

	var stmts []string
	var args [][]interface{}
	for start := 0; start < len(i.IValues); start += size {
		end := start + size
		if end > len(i.IValues) {
			end = len(i.IValues)
		}
		var batch []interface{}
		for _, values := range i.IValues[start:end] {
			for _, c := range columns {
				v, ok := values[c]
				if !ok {
					return nil, nil, fmt.Errorf(ErrColumn, c, i.ITable)
				}
				batch = append(batch, v)
			}
		}
		rows := strings.TrimSuffix(strings.Repeat(row+", ", end-start), ", ")
		stmts = append(stmts, condition.ReplacePlaceholders(head+rows, i.Provider.Placeholder()))
		args = append(args, batch)
	}
	return stmts, args, nil
}
