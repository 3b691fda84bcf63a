package models_test

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/frs/internal/models"
)

func strPtr(s string) *string { return &s }

func TestBase_HappyPath(t *testing.T) {
	c := qt.New(t)

	ctx := models.Base()
	c.Assert(ctx.Meta.Namespace, qt.Equals, "default")
	c.Assert(ctx.Meta.Name, qt.Equals, "default")
	c.Assert(ctx.Meta.IsDirty, qt.IsFalse)
	c.Assert(ctx.Meta.StepLog, qt.HasLen, 0)
	c.Assert(ctx.Template, qt.Equals, models.Placeholder)
	c.Assert(ctx.Env["FRS_VERSION"], qt.Not(qt.Equals), "")
	c.Assert(strings.Count(ctx.Template, models.Placeholder), qt.Equals, 1)
}

func TestClone_HappyPath(t *testing.T) {
	c := qt.New(t)

	orig := models.Base()
	orig.Meta.StepLog = append(orig.Meta.StepLog, models.StepLogEntry{
		Description: `core::with_env "A"="1"`,
		Prompt:      strPtr("env(A)"),
	})

	clone := orig.Clone()
	c.Assert(clone, qt.DeepEquals, orig)

	// Mutating the clone must leave the original untouched.
	clone.Meta.StepLog[0].Description = "changed"
	*clone.Meta.StepLog[0].Prompt = "changed"
	clone.Env["EXTRA"] = "x"
	c.Assert(orig.Meta.StepLog[0].Description, qt.Equals, `core::with_env "A"="1"`)
	c.Assert(*orig.Meta.StepLog[0].Prompt, qt.Equals, "env(A)")
	_, leaked := orig.Env["EXTRA"]
	c.Assert(leaked, qt.IsFalse)
}

func TestDisplayName_HappyPath(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name      string
		namespace string
		ctxName   string
		want      string
	}{
		{name: "default namespace shows bare name", namespace: "default", ctxName: "proj", want: "proj"},
		{name: "custom namespace is qualified", namespace: "team", ctxName: "build", want: "team::build"},
		{name: "anonymous base", namespace: "default", ctxName: "default", want: "default"},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			ctx := models.Base()
			ctx.Meta.Namespace = tt.namespace
			ctx.Meta.Name = tt.ctxName
			c.Assert(ctx.DisplayName(), qt.Equals, tt.want)
		})
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name  string
		build func() *models.Context
	}{
		{
			name:  "fresh base context",
			build: models.Base,
		},
		{
			name: "step log with and without prompts",
			build: func() *models.Context {
				ctx := models.Base()
				ctx.Meta.Namespace = "team"
				ctx.Meta.Name = "build"
				ctx.Meta.IsDirty = true
				ctx.Meta.StepLog = []models.StepLogEntry{
					{Description: `core::with_workdir "/tmp"`, Prompt: strPtr("wd(..tmp)")},
					{Description: "imported"},
					{Description: `core::with_env "K"="v v"`, Prompt: strPtr("env(K)")},
				}
				ctx.Env["FOO"] = "bar baz"
				ctx.Template = "(cd /tmp;\n " + models.Placeholder + ")"
				return ctx
			},
		},
		{
			name: "awkward literal content",
			build: func() *models.Context {
				ctx := models.Base()
				ctx.Env[`quo"ted`] = "line\nbreak\ttab"
				ctx.Template = models.Placeholder + ` # "quotes" and \backslashes\`
				return ctx
			},
		},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			orig := tt.build()
			data, err := models.Encode(orig)
			c.Assert(err, qt.IsNil)

			decoded, err := models.Decode(data)
			c.Assert(err, qt.IsNil)
			c.Assert(decoded, qt.DeepEquals, orig)
		})
	}
}

func TestDecode_EdgeCases(t *testing.T) {
	c := qt.New(t)

	c.Run("invalid record is an error", func(c *qt.C) {
		_, err := models.Decode([]byte("not a record"))
		c.Assert(err, qt.ErrorMatches, "models.Decode: .*")
	})

	c.Run("missing collections decode to empty, not nil", func(c *qt.C) {
		ctx, err := models.Decode([]byte(`{"meta":{"namespace":"default","name":"","is_dirty":false},"template":"t"}`))
		c.Assert(err, qt.IsNil)
		c.Assert(ctx.Meta.StepLog, qt.IsNotNil)
		c.Assert(ctx.Env, qt.IsNotNil)
	})
}
