package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", cause, ExitGeneral},
		{"general", GeneralError("failed", cause), ExitGeneral},
		{"config", ConfigError("bad flag", nil), ExitConfig},
		{"schema", SchemaError("bad schema", cause), ExitSchema},
		{"db", DBConnectError("no db", cause), ExitDBConnect},
		{"wrapped", fmt.Errorf("run: %w", SchemaError("bad schema", cause)), ExitSchema},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExitError(t *testing.T) {
	cause := errors.New("boom")
	err := SchemaError("loading schema", cause)
	assert.Equal(t, "loading schema: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "no tables", SchemaError("no tables", nil).Error())

	var buf bytes.Buffer
	PrintError(&buf, err)
	assert.Equal(t, "Error: loading schema: boom\n", buf.String())
}
