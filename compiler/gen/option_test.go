package gen

import (
	"bytes"
	"log/slog"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		err := WithHeader("Custom header")(c)

		require.NoError(t, err)
		assert.Equal(t, "Custom header", c.Header)
	})

	t.Run("empty header is allowed", func(t *testing.T) {
		c := &Config{Header: "existing"}
		err := WithHeader("")(c)

		require.NoError(t, err)
		assert.Equal(t, "", c.Header)
	})
}

func TestWithPackage(t *testing.T) {
	tests := []struct {
		pkg     string
		name    string
		wantErr bool
	}{
		{"github.com/org/app/dao", "dao", false},
		{"models", "models", false},
		{"", "", true},
		{"github.com/org/my-dao", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.pkg, func(t *testing.T) {
			c := &Config{}
			err := WithPackage(tt.pkg)(c)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.name, c.PackageName())
		})
	}
}

func TestWithTarget(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithTarget("./dao")(c))
	assert.Equal(t, "./dao", c.Target)
	assert.ErrorIs(t, WithTarget("")(c), ErrMissingConfig)
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))
	c := &Config{}
	require.NoError(t, WithLogger(l)(c))
	c.logger().Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Error(t, WithLogger(nil)(c))
}

func TestWithWorkers(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithWorkers(3)(c))
	assert.Equal(t, 3, c.Workers)
	err := WithWorkers(0)(c)
	require.Error(t, err)
	assert.Equal(t, 3, c.Workers)
}

func TestWithFlags(t *testing.T) {
	c, err := NewConfig(WithValidation(true), WithSort(true), WithSchemaConst(false))
	require.NoError(t, err)
	assert.True(t, c.Validate)
	assert.True(t, c.Sort)
	assert.False(t, c.SchemaConst)
}

func TestWithHooks(t *testing.T) {
	var calls []string
	hook := func(name string) Hook {
		return func(next Generator) Generator {
			return GenerateFunc(func(g *Graph) error {
				calls = append(calls, name)
				return next.Generate(g)
			})
		}
	}
	c, err := NewConfig(WithHooks(hook("outer")), WithHooks(hook("inner")))
	require.NoError(t, err)
	require.Len(t, c.Hooks, 2)

	gen := c.Wrap(GenerateFunc(func(*Graph) error {
		calls = append(calls, "generate")
		return nil
	}))
	require.NoError(t, gen.Generate(&Graph{Config: c}))
	assert.Equal(t, []string{"outer", "inner", "generate"}, calls)
}

func TestDefaults(t *testing.T) {
	c, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultPackage, c.PackageName())
	assert.Equal(t, DefaultHeader, c.Header)
	assert.True(t, c.SchemaConst)
	assert.False(t, c.Sort)
	assert.False(t, c.Validate)
	assert.Equal(t, runtime.GOMAXPROCS(0), c.Workers)
	require.NotNil(t, c.Logger)
	assert.Equal(t, DefaultPackage, (&Config{}).PackageName())
}

func TestConfigApply(t *testing.T) {
	t.Run("applies multiple options", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(
			WithPackage("github.com/test/project/dao"),
			WithTarget("./dao"),
			WithHeader("Custom"),
		)

		require.NoError(t, err)
		assert.Equal(t, "github.com/test/project/dao", c.Package)
		assert.Equal(t, "./dao", c.Target)
		assert.Equal(t, "Custom", c.Header)
	})

	t.Run("stops on first error", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(
			WithPackage(""),
			WithTarget("./dao"),
		)

		require.Error(t, err)
		assert.Empty(t, c.Package)
		assert.Empty(t, c.Target)
	})
}

func TestConfigApplyAll(t *testing.T) {
	t.Run("collects all errors", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(
			WithPackage(""),
			WithTarget(""),
		)

		require.Error(t, err)
		unwrapper, ok := err.(interface{ Unwrap() []error })
		require.True(t, ok, "error should implement Unwrap() []error")
		assert.Len(t, unwrapper.Unwrap(), 2)
	})

	t.Run("returns nil when all succeed", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, c.ApplyAll(WithPackage("dao"), WithTarget("./dao")))
	})
}

func TestNewConfig(t *testing.T) {
	c, err := NewConfig(WithPackage(""))
	require.Error(t, err)
	assert.Nil(t, c)
}

func TestMustNewConfig(t *testing.T) {
	t.Run("returns config on success", func(t *testing.T) {
		c := MustNewConfig(WithPackage("github.com/test/project"))
		assert.Equal(t, "project", c.PackageName())
	})

	t.Run("panics on error", func(t *testing.T) {
		assert.Panics(t, func() {
			MustNewConfig(WithPackage(""))
		})
	})
}
