// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package column adds, updates and deletes the columns of a table.
//
// The service validates the request, runs the option or relation sub protocol, applies
// the physical change over the query.Schema of the dialect and afterwards writes the
// metadata. A failed validation never changes the database.
package column

import (
	"errors"
	"fmt"
	"strings"

	"github.com/patrickascher/schemer/audit"
	"github.com/patrickascher/schemer/formula"
	"github.com/patrickascher/schemer/logger"
	"github.com/patrickascher/schemer/model"
	"github.com/patrickascher/schemer/option"
	"github.com/patrickascher/schemer/query"
	"github.com/patrickascher/schemer/relation"
	"github.com/patrickascher/schemer/slicer"
	"github.com/patrickascher/schemer/stringer"
)

// Duration size and precision.
const (
	durationDTXP = "20"
	durationDTXS = "4"
)

// Error messages.
const (
	msgNameLength     = "Column name %s exceeds %d characters"
	msgDuplicateName  = "Duplicate column name %s"
	msgDuplicateTitle = "Duplicate column alias %s"
	msgKind           = "Unknown column type %s"
	msgForeignKey     = "ForeignKey columns can not be added"
	msgRelation       = "Relation column %#v does not exist"
	msgRelationKind   = "Column %#v is not a relation column"
	msgReference      = "Column %#v does not exist on table %s"
	msgRollup         = "Rollup function %#v is not supported"
	msgDisplay        = "Virtual columns can not be the display column"
)

// Service of the column mutations.
type Service struct {
	builder   query.Builder
	logger    logger.Manager
	auditor   audit.Writer
	options   *option.Migrator
	relations *relation.Manager
}

// Option of the service.
type Option func(*Service)

// WithLogger sets the logger. By default the log output is discarded.
func WithLogger(l logger.Manager) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithAuditor sets the audit writer. By default the events are logged.
func WithAuditor(w audit.Writer) Option {
	return func(s *Service) {
		s.auditor = w
	}
}

// New returns a column service on the given builder.
func New(b query.Builder, opts ...Option) *Service {
	s := &Service{builder: b, logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	if s.auditor == nil {
		s.auditor = audit.NewLogWriter(s.logger)
	}
	s.options = option.New(b, s.logger)
	s.relations = relation.New(b, s.logger)
	return s
}

// Add a column to the table and returns the reloaded table.
func (s *Service) Add(scope *model.Scope, tableID string, req Request) (*model.Table, error) {
	if err := model.Validate(req); err != nil {
		return nil, err
	}
	table, err := scope.Table(tableID)
	if err != nil {
		return nil, fmt.Errorf("column: %w", err)
	}

	c := req.column()
	c.TableID = table.ID
	if !c.Kind.Valid() {
		return nil, model.NewValidationError("uidt", msgKind, c.Kind)
	}
	if !c.IsVirtual() {
		if c.ColumnName == "" {
			c.ColumnName = stringer.ColumnName(c.Title)
		}
		if err = s.checkName(table, c, ""); err != nil {
			return nil, err
		}
	}
	if err = checkTitle(table, c.Title, ""); err != nil {
		return nil, err
	}

	switch c.Kind {
	case model.Lookup, model.Rollup:
		if c.Options, err = s.reference(scope, table, req); err != nil {
			return nil, err
		}
		err = scope.InsertColumn(c)
	case model.Formula:
		if c.Options, err = s.formula(table, req.Formula); err != nil {
			return nil, err
		}
		err = scope.InsertColumn(c)
	case model.QrCode, model.Barcode:
		if c.Options, err = valueOptions(table, req); err != nil {
			return nil, err
		}
		err = scope.InsertColumn(c)
	case model.LinkToAnotherRecord:
		var link *model.Column
		if link, err = s.relations.Create(scope, s.relationRequest(table, req)); err != nil {
			return nil, err
		}
		c = link
	case model.ForeignKey:
		return nil, model.NewValidationError("uidt", msgForeignKey)
	default:
		err = s.addPhysical(scope, table, c, req)
	}
	if err != nil {
		return nil, wrap(err)
	}

	if c.PV {
		if _, err = s.SetAsDisplay(scope, c.ID); err != nil {
			return nil, err
		}
	}

	s.log(table, c).Info("column created")
	if err = s.audit(audit.ColumnCreated, scope, c, fmt.Sprintf("column %s created on table %s", c.Title, table.Title)); err != nil {
		return nil, err
	}
	return reload(scope, table.ID)
}

// addPhysical alters the table and inserts the column with the described physical type.
func (s *Service) addPhysical(scope *model.Scope, table *model.Table, c *model.Column, req Request) error {
	d := s.builder.Dialect()
	pt := d.UIType(c.Kind.String())
	if c.DT == "" {
		c.DT = pt.DT
	}
	if c.DTXP == "" {
		c.DTXP = pt.DTXP
	}
	if c.DTXS == "" {
		c.DTXS = pt.DTXS
	}
	if c.Kind == model.Duration {
		c.DTXP, c.DTXS = durationDTXP, durationDTXS
	}
	if c.Kind.Select() {
		c.Options = req.selectOptions()
		if err := s.options.Prepare(c); err != nil {
			return err
		}
	}

	def := c.Definition()
	def.Altered = query.AlteredNew
	update := query.TableUpdate{Table: table.TableName, OriginalColumns: table.Definitions()}
	update.Columns = append(append(update.Columns, update.OriginalColumns...), def)
	if err := s.builder.Query().Schema().TableUpdate(update); err != nil {
		return err
	}

	described, err := s.builder.Query().Information(table.TableName).Describe(c.ColumnName)
	if err != nil {
		return err
	}
	if len(described) == 1 {
		def := described[0].Definition()
		if def.DT != "" {
			c.DT = def.DT
		}
		if !c.Kind.Select() {
			c.DTXP = def.DTXP
		}
		c.CDF = def.Default
		c.RQD = def.RQD
		c.PK = def.PK
		c.AI = def.AI
	}
	return scope.InsertColumn(c)
}

// relationRequest returns the relation request. The table is used as parent or child if not set.
func (s *Service) relationRequest(table *model.Table, req Request) relation.Request {
	r := relation.Request{Title: req.Title, Type: req.Type, ParentID: req.ParentID, ChildID: req.ChildID, Virtual: req.Virtual != nil && *req.Virtual}
	if r.Type == model.BelongsTo && r.ChildID == "" {
		r.ChildID = table.ID
	}
	if r.Type != model.BelongsTo && r.ParentID == "" {
		r.ParentID = table.ID
	}
	return r
}

// reference returns the lookup or rollup options of the request.
func (s *Service) reference(scope *model.Scope, table *model.Table, req Request) (model.Options, error) {
	rel := table.Column(req.RelationColumnID)
	if rel == nil {
		return nil, model.NewValidationError("fk_relation_column_id", msgRelation, req.RelationColumnID)
	}
	if rel.Kind != model.LinkToAnotherRecord || rel.LinkOptions() == nil {
		return nil, model.NewValidationError("fk_relation_column_id", msgRelationKind, rel.Title)
	}
	related, err := scope.Table(rel.LinkOptions().RelatedTableID)
	if err != nil {
		return nil, fmt.Errorf("column: %w", err)
	}

	if req.Kind == model.Lookup {
		if related.Column(req.LookupColumnID) == nil {
			return nil, model.NewValidationError("fk_lookup_column_id", msgReference, req.LookupColumnID, related.TableName)
		}
		return &model.LookupOptions{RelationColumnID: rel.ID, LookupColumnID: req.LookupColumnID}, nil
	}

	if related.Column(req.RollupColumnID) == nil {
		return nil, model.NewValidationError("fk_rollup_column_id", msgReference, req.RollupColumnID, related.TableName)
	}
	if _, ok := slicer.StringExists(model.RollupFunctions, req.RollupFunction); !ok {
		return nil, model.NewValidationError("rollup_function", msgRollup, req.RollupFunction)
	}
	return &model.RollupOptions{RelationColumnID: rel.ID, RollupColumnID: req.RollupColumnID, RollupFunction: req.RollupFunction}, nil
}

// formula converts the formula into the id form and executes it against the table.
func (s *Service) formula(table *model.Table, raw string) (*model.FormulaOptions, error) {
	ids, err := formula.ToIDs(raw, table.Columns)
	if err != nil {
		return nil, err
	}
	if err = formula.DryRun(s.builder, table, ids); err != nil {
		return nil, err
	}
	return &model.FormulaOptions{Formula: ids, FormulaRaw: raw}, nil
}

// valueOptions returns the qr code or barcode options of the request.
func valueOptions(table *model.Table, req Request) (model.Options, error) {
	if table.Column(req.ValueColumnID) == nil {
		return nil, model.NewValidationError("fk_value_column_id", msgReference, req.ValueColumnID, table.TableName)
	}
	if req.Kind == model.QrCode {
		return &model.QrCodeOptions{ValueColumnID: req.ValueColumnID}, nil
	}
	return &model.BarcodeOptions{ValueColumnID: req.ValueColumnID, Format: req.BarcodeFormat}, nil
}

// checkName checks the length and uniqueness of the physical name.
// The column with the given id is excluded from the uniqueness check.
func (s *Service) checkName(table *model.Table, c *model.Column, id string) error {
	if max := s.builder.Dialect().MaxIdentifierLength(); len(c.ColumnName) > max {
		return model.NewValidationError("column_name", msgNameLength, c.ColumnName, max)
	}
	for _, col := range table.Columns {
		if col.ID != id && !col.IsVirtual() && strings.EqualFold(col.ColumnName, c.ColumnName) {
			return model.NewValidationError("column_name", msgDuplicateName, c.ColumnName)
		}
	}
	return nil
}

// checkTitle checks the uniqueness of the title.
func checkTitle(table *model.Table, title string, id string) error {
	for _, col := range table.Columns {
		if col.ID != id && strings.EqualFold(col.Title, title) {
			return model.NewValidationError("title", msgDuplicateTitle, title)
		}
	}
	return nil
}

// SetAsDisplay flags the column as display column of its table and removes the flag from all other columns.
func (s *Service) SetAsDisplay(scope *model.Scope, columnID string) (*model.Table, error) {
	c, err := scope.Column(columnID)
	if err != nil {
		return nil, fmt.Errorf("column: %w", err)
	}
	if c.IsVirtual() {
		return nil, model.NewValidationError("pv", msgDisplay)
	}
	table, err := scope.Table(c.TableID)
	if err != nil {
		return nil, fmt.Errorf("column: %w", err)
	}

	for _, col := range table.Columns {
		pv := col.ID == c.ID
		if col.PV == pv {
			continue
		}
		col.PV = pv
		col.Options = nil
		if err = scope.UpdateColumn(col); err != nil {
			return nil, fmt.Errorf("column: %w", err)
		}
	}
	return reload(scope, table.ID)
}

// audit writes the event of the column.
func (s *Service) audit(t audit.Type, scope *model.Scope, c *model.Column, description string) error {
	var baseID string
	if scope.Base != nil {
		baseID = scope.Base.ID
	}
	e, err := audit.NewEvent(t, baseID, c.TableID, c.ID, description)
	if err != nil {
		return err
	}
	if err = s.auditor.Write(e); err != nil {
		return fmt.Errorf("column: %w", err)
	}
	return nil
}

// log returns a logger with the table, column and kind fields.
func (s *Service) log(table *model.Table, c *model.Column) logger.Manager {
	return s.logger.WithFields(logger.Fields{"table": table.TableName, "column": c.Title, "kind": c.Kind.String()})
}

// reload the table with all columns.
func reload(scope *model.Scope, tableID string) (*model.Table, error) {
	t, err := scope.Table(tableID)
	if err != nil {
		return nil, fmt.Errorf("column: %w", err)
	}
	return t, nil
}

// wrap adds the package prefix. Validation and schema errors are returned as they are.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	var vErr *model.ValidationError
	var sErr *query.SchemaApplyError
	if errors.As(err, &vErr) || errors.As(err, &sErr) {
		return err
	}
	return fmt.Errorf("column: %w", err)
}
