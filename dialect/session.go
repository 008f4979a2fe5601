package dialect

import (
	"context"
	"regexp"
	"strings"
)

// SearchPath is the run-time parameter naming the schemas unqualified
// table names resolve in.
const SearchPath = "search_path"

// Setting is a Postgres run-time parameter applied to the session before a
// statement runs.
type Setting struct {
	Name  string
	Value string
}

type settingsKey struct{}

// WithSetting returns a copy of ctx under which both database adapters run
// statements with the parameter name set to value. Setting the same name
// again replaces the earlier value.
//
//	ctx = dialect.WithSetting(ctx, "app.tenant_id", "42")
func WithSetting(ctx context.Context, name, value string) context.Context {
	prev := Settings(ctx)
	next := make([]Setting, 0, len(prev)+1)
	for _, s := range prev {
		if s.Name != name {
			next = append(next, s)
		}
	}
	next = append(next, Setting{Name: name, Value: value})
	return context.WithValue(ctx, settingsKey{}, next)
}

// WithSearchPath sets search_path to the given schemas, so that generated
// statements, which use unqualified table names, resolve in them.
func WithSearchPath(ctx context.Context, schemas ...string) context.Context {
	return WithSetting(ctx, SearchPath, strings.Join(schemas, ", "))
}

// Settings returns the settings carried by ctx in the order they were
// first added.
func Settings(ctx context.Context) []Setting {
	s, _ := ctx.Value(settingsKey{}).([]Setting)
	return s
}

// SettingFromContext returns the value of the named setting carried by ctx.
func SettingFromContext(ctx context.Context, name string) (string, bool) {
	for _, s := range Settings(ctx) {
		if s.Name == name {
			return s.Value, true
		}
	}
	return "", false
}

// settingNameRe accepts plain and custom ("app.tenant_id") parameter names.
var settingNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

// ValidSettingName reports if name can be written unquoted in a RESET
// statement.
func ValidSettingName(name string) bool {
	return len(name) <= 63 && settingNameRe.MatchString(name)
}

// SetConfigQuery sets one parameter for the rest of the session. Name and
// value are bound as arguments.
const SetConfigQuery = "SELECT set_config($1, $2, false)"

// ResetQuery returns the statement restoring the default of the named
// parameter. The name must satisfy ValidSettingName.
func ResetQuery(name string) string {
	return "RESET " + name
}
