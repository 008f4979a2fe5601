package schema

import (
	"errors"
	"fmt"
	"strings"

	model "github.com/syssam/daogen/schema"
	"github.com/syssam/daogen/schema/field"
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Table   string
	Column  string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of schema validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// ErrInvalidSchema wraps the error returned by ValidationResult.Err.
var ErrInvalidSchema = errors.New("dialect/sql/schema: invalid schema")

// Err returns nil if there are no errors, or an ErrInvalidSchema-wrapping
// error joining all of them. Warnings are ignored.
func (r *ValidationResult) Err() error {
	if !r.HasErrors() {
		return nil
	}
	errs := make([]error, 0, len(r.Errors)+1)
	errs = append(errs, ErrInvalidSchema)
	for _, e := range r.Errors {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
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

func (r *ValidationResult) errorf(table, column, format string, args ...any) {
	r.Errors = append(r.Errors, &ValidationError{Table: table, Column: column, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warnf(table, column, format string, args ...any) {
	r.Warnings = append(r.Warnings, &ValidationError{Table: table, Column: column, Message: fmt.Sprintf(format, args...)})
}

// Validate checks the structural invariants the emitters do not enforce:
// identifiers, duplicate names, primary key and composite uniqueness
// membership, and foreign key targets. Reserved words and references to
// tables declared later are reported as warnings, since the generated DDL
// is then rejected by Postgres unless the caller reorders or renames.
//
// Example:
//
//	result := schema.Validate(s)
//	if result.HasErrors() {
//	    log.Fatal(result)
//	}
func Validate(s *model.Schema) *ValidationResult {
	result := &ValidationResult{}
	if len(s.Tables) == 0 {
		result.errorf("schema", "", "no tables defined")
		return result
	}
	position := make(map[string]int, len(s.Tables))
	for i, t := range s.Tables {
		if _, ok := position[t.Name]; ok {
			result.errorf(t.Name, "", "duplicate table name")
			continue
		}
		position[t.Name] = i
	}
	for i, t := range s.Tables {
		validateTable(result, s, t, i, position)
	}
	return result
}

func validateTable(result *ValidationResult, s *model.Schema, t *model.Table, pos int, position map[string]int) {
	if !model.ValidIdentifier(t.Name) {
		result.errorf(t.Name, "", "invalid table name")
	} else if IsReserved(t.Name) {
		result.warnf(t.Name, "", "table name is a reserved word and must be quoted in Postgres")
	}
	if len(t.Fields) == 0 {
		result.errorf(t.Name, "", "table has no fields")
	}
	var (
		seen    = make(map[string]bool, len(t.Fields))
		serials int
	)
	for _, f := range t.Fields {
		switch {
		case !model.ValidIdentifier(f.Name):
			result.errorf(t.Name, f.Name, "invalid column name")
		case seen[f.Name]:
			result.errorf(t.Name, f.Name, "duplicate column name")
		case IsReserved(f.Name):
			result.warnf(t.Name, f.Name, "column name is a reserved word and must be quoted in Postgres")
		}
		seen[f.Name] = true
		if f.Err != nil {
			result.errorf(t.Name, f.Name, "%v", f.Err)
		}
		if f.Serial() {
			serials++
			if f.Nullable {
				result.warnf(t.Name, f.Name, "serial column declared nullable")
			}
		}
		if f.Reference != nil {
			validateReference(result, s, t, f, pos, position)
		}
	}
	if serials > 1 {
		result.warnf(t.Name, "", "%d serial columns; each gets its own sequence", serials)
	}
	if pk := t.PrimaryKey; pk != "" {
		if _, ok := t.Field(pk); !ok {
			result.errorf(t.Name, pk, "primary key names a missing field")
		}
	}
	if cu := t.CompositeUnique; cu != nil {
		a, b := cu.Columns[0], cu.Columns[1]
		for _, c := range cu.Columns {
			if _, ok := t.Field(c); !ok {
				result.errorf(t.Name, c, "composite uniqueness names a missing field")
			}
		}
		if a == b {
			result.errorf(t.Name, a, "composite uniqueness repeats the same field")
		}
	}
}

func validateReference(result *ValidationResult, s *model.Schema, t *model.Table, f *field.Descriptor, pos int, position map[string]int) {
	ref := f.Reference
	target, ok := s.Table(ref.Table)
	if !ok {
		result.errorf(t.Name, f.Name, "references missing table %q", ref.Table)
		return
	}
	rf, ok := target.Field(ref.Column)
	if !ok {
		result.errorf(t.Name, f.Name, "references missing column %s", ref)
		return
	}
	if !rf.Unique && target.PrimaryKey != rf.Name {
		result.errorf(t.Name, f.Name, "references %s which is neither unique nor a primary key", ref)
	}
	if f.Info != nil && rf.Info != nil && !compatible(*f.Info, *rf.Info) {
		result.errorf(t.Name, f.Name, "type %s does not match referenced %s type %s", f.Info, ref, rf.Info)
	}
	if p := position[ref.Table]; p > pos {
		result.warnf(t.Name, f.Name, "references %q which is declared later; order the tables or use schema.Sorted", ref.Table)
	}
}

// compatible reports if a column of type a may reference a column of type b.
// SERIAL is an INT with a default, so the two match.
func compatible(a, b field.TypeInfo) bool {
	norm := func(t field.TypeInfo) field.TypeInfo {
		if t.Type == field.TypeSerial {
			t.Type = field.TypeInt
		}
		return t
	}
	return norm(a).Equal(norm(b))
}

// reserved holds the Postgres key words that cannot be used as unquoted
// table or column names.
var reserved = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		ALL ANALYSE ANALYZE AND ANY ARRAY AS ASC ASYMMETRIC BOTH CASE CAST CHECK
		COLLATE COLUMN CONSTRAINT CREATE CURRENT_CATALOG CURRENT_DATE CURRENT_ROLE
		CURRENT_TIME CURRENT_TIMESTAMP CURRENT_USER DEFAULT DEFERRABLE DESC DISTINCT
		DO ELSE END EXCEPT FALSE FETCH FOR FOREIGN FROM GRANT GROUP HAVING IN
		INITIALLY INTERSECT INTO LATERAL LEADING LIMIT LOCALTIME LOCALTIMESTAMP NOT
		NULL OFFSET ON ONLY OR ORDER PLACING PRIMARY REFERENCES RETURNING SELECT
		SESSION_USER SOME SYMMETRIC SYSTEM_USER TABLE THEN TO TRAILING TRUE UNION
		UNIQUE USER USING VARIADIC WHEN WHERE WINDOW WITH`) {
		reserved[w] = struct{}{}
	}
}

// IsReserved reports if name is a reserved Postgres key word.
func IsReserved(name string) bool {
	_, ok := reserved[strings.ToUpper(name)]
	return ok
}
