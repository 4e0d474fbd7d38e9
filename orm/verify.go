package orm

import (
	"context"
	"fmt"
	"strings"

	"github.com/0xhappyboy/bubble/dialect"
	"github.com/0xhappyboy/bubble/query"
	"github.com/0xhappyboy/bubble/schema"
	"github.com/0xhappyboy/bubble/value"
)

// VerifyError is one problem found by Verify.
type VerifyError struct {
	Table   string
	Column  string
	Message string
}

func (e *VerifyError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// VerifyResult holds the problems found by Verify. Errors prevent the
// generated operations from working; warnings may fail for some rows.
type VerifyResult struct {
	Errors   []*VerifyError
	Warnings []*VerifyError
}

// HasErrors returns true if there are any errors.
func (r *VerifyResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any warnings.
func (r *VerifyResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of the result.
func (r *VerifyResult) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.Error())
			sb.WriteString("\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

// Verify checks that the tables of the descriptors exist in the database
// behind conn with the expected columns. It reads no rows and changes
// nothing. A column whose reported database type cannot be decoded into the
// declared kind is a warning; types the driver does not report are skipped.
//
// Example:
//
//	result, err := orm.Verify(ctx, drv, example.UserTable, example.PostTable)
//	if err != nil {
//	    return err
//	}
//	if result.HasErrors() {
//	    log.Fatal("schema mismatch:\n", result)
//	}
func Verify(ctx context.Context, conn dialect.ExecQuerier, descs ...*schema.Descriptor) (*VerifyResult, error) {
	result := &VerifyResult{}
	tables := make(map[string]string, len(descs))
	for _, d := range descs {
		if prev, ok := tables[d.Table]; ok {
			result.Errors = append(result.Errors, &VerifyError{
				Table:   d.Table,
				Message: fmt.Sprintf("table mapped by both %s and %s", prev, d.Name),
			})
			continue
		}
		tables[d.Table] = d.Name
		if err := verifyTable(ctx, conn, d, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func verifyTable(ctx context.Context, conn dialect.ExecQuerier, d *schema.Descriptor, result *VerifyResult) error {
	b := query.NewBuilder(conn.Flavor())
	b.WriteString("SELECT ").Idents(d.ColumnNames()...).
		WriteString(" FROM ").WriteString(d.Table).
		WriteString(" WHERE 1 = 0")
	rows, err := conn.Query(ctx, b.Statement())
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		// Missing tables and columns are only reported by the driver message.
		result.Errors = append(result.Errors, &VerifyError{
			Table:   d.Table,
			Message: fmt.Sprintf("cannot select mapped columns: %v", err),
		})
		return nil
	}
	cols := rows.Columns()
	if err := rows.Close(); err != nil {
		return err
	}
	reported := make(map[string]value.Kind, len(cols))
	for _, c := range cols {
		reported[strings.ToLower(c.Name)] = c.Kind
	}
	for _, c := range d.Columns {
		k, ok := reported[strings.ToLower(c.Name)]
		switch {
		case !ok:
			result.Errors = append(result.Errors, &VerifyError{
				Table:   d.Table,
				Column:  c.Name,
				Message: "column missing from result",
			})
		case k != value.KindInvalid && !value.Compatible(k, c.Kind):
			result.Warnings = append(result.Warnings, &VerifyError{
				Table:   d.Table,
				Column:  c.Name,
				Message: fmt.Sprintf("database reports %s values, field %s expects %s", k, c.Field, c.Kind),
			})
		}
	}
	return nil
}
