package tenant

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultColumn is the tenant discriminator column
const DefaultColumn = "tenant_id"

var (
	// ErrTenantIDRequired is returned when a tenant-scoped statement runs without a tenant in context
	ErrTenantIDRequired = errors.New("tenant_id is required but not found in context")

	// ErrTenantConditionRequired is returned when a statement on a tenant-scoped table has no tenant_id condition
	ErrTenantConditionRequired = errors.New("tenant_id condition is required on tenant-scoped tables")
)

// Callback holds the GORM hooks that guard tenant-scoped tables
type Callback struct {
	column string
}

// NewCallback creates a callback for the given column
func NewCallback(column string) *Callback {
	if column == "" {
		column = DefaultColumn
	}
	return &Callback{column: column}
}

// Register installs the tenant guard on db using the default column
func Register(db *gorm.DB) error {
	return NewCallback(DefaultColumn).RegisterCallbacks(db)
}

// RegisterCallbacks registers the guard before every query, row, update,
// delete and create statement
func (c *Callback) RegisterCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Query().Before("gorm:query").Register("tenant:before_query", c.requireCondition); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("tenant:before_row", c.requireCondition); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("tenant:before_update", c.requireCondition); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("tenant:before_delete", c.requireCondition); err != nil {
		return err
	}
	return cb.Create().Before("gorm:create").Register("tenant:before_create", c.checkCreate)
}

func (c *Callback) scoped(db *gorm.DB) bool {
	return db.Statement.Schema != nil && db.Statement.Schema.LookUpField(c.column) != nil
}

// requireCondition fails the statement unless its WHERE pins the context tenant
func (c *Callback) requireCondition(db *gorm.DB) {
	if db.Error != nil || !c.scoped(db) {
		return
	}
	tenantID, ok := FromContext(db.Statement.Context)
	if !ok {
		_ = db.AddError(ErrTenantIDRequired)
		return
	}

	// Raw SQL carries no clauses to inspect
	if sql := db.Statement.SQL.String(); sql != "" {
		if !strings.Contains(sql, c.column) {
			_ = db.AddError(ErrTenantConditionRequired)
		}
		return
	}

	whereClause, ok := db.Statement.Clauses["WHERE"]
	if !ok {
		_ = db.AddError(ErrTenantConditionRequired)
		return
	}
	where, ok := whereClause.Expression.(clause.Where)
	if !ok {
		_ = db.AddError(ErrTenantConditionRequired)
		return
	}

	found := false
	for _, expr := range where.Exprs {
		hit, err := c.matchTenant(expr, tenantID)
		if err != nil {
			_ = db.AddError(err)
			return
		}
		found = found || hit
	}
	if !found {
		_ = db.AddError(ErrTenantConditionRequired)
	}
}

// matchTenant reports whether expr restricts the tenant column. A tenant
// condition naming another tenant is an error. OR groups never count.
func (c *Callback) matchTenant(expr clause.Expression, tenantID uuid.UUID) (bool, error) {
	switch e := expr.(type) {
	case clause.Eq:
		if !c.isColumn(e.Column) {
			return false, nil
		}
		return true, c.checkValue(e.Value, tenantID)
	case clause.IN:
		if !c.isColumn(e.Column) {
			return false, nil
		}
		if len(e.Values) == 0 {
			return false, nil
		}
		for _, v := range e.Values {
			if err := c.checkValue(v, tenantID); err != nil {
				return true, err
			}
		}
		return true, nil
	case clause.AndConditions:
		found := false
		for _, cond := range e.Exprs {
			hit, err := c.matchTenant(cond, tenantID)
			if err != nil {
				return true, err
			}
			found = found || hit
		}
		return found, nil
	}
	return false, nil
}

func (c *Callback) isColumn(col any) bool {
	switch v := col.(type) {
	case string:
		return v == c.column || strings.HasSuffix(v, "."+c.column)
	case clause.Column:
		return v.Name == c.column
	}
	return false
}

func (c *Callback) checkValue(v any, tenantID uuid.UUID) error {
	got, ok := asUUID(v)
	if !ok || got != tenantID {
		return fmt.Errorf("statement tenant %v does not match context tenant %s: %w", v, tenantID, shared.ErrCrossTenant)
	}
	return nil
}

// checkCreate rejects inserts whose rows belong to a tenant other than the context's
func (c *Callback) checkCreate(db *gorm.DB) {
	if db.Error != nil || !c.scoped(db) {
		return
	}
	tenantID, ok := FromContext(db.Statement.Context)
	if !ok {
		_ = db.AddError(ErrTenantIDRequired)
		return
	}
	field := db.Statement.Schema.LookUpField(c.column)
	rv := db.Statement.ReflectValue

	check := func(row reflect.Value) {
		row = reflect.Indirect(row)
		if row.Kind() != reflect.Struct {
			return
		}
		value, _ := field.ValueOf(db.Statement.Context, row)
		if err := c.checkValue(value, tenantID); err != nil {
			_ = db.AddError(err)
		}
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len() && db.Error == nil; i++ {
			check(rv.Index(i))
		}
	case reflect.Struct:
		check(rv)
	}
}

func asUUID(v any) (uuid.UUID, bool) {
	switch t := v.(type) {
	case uuid.UUID:
		return t, true
	case *uuid.UUID:
		if t == nil {
			return uuid.Nil, false
		}
		return *t, true
	case string:
		id, err := uuid.Parse(t)
		return id, err == nil
	}
	return uuid.Nil, false
}
