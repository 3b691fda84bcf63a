// Package compose implements the context composition engine: pure operations
// that rewrite a context's shell template and append to its provenance log.
//
// Each wrap operation is expressed as a wrap step, a small datum pairing the
// step-log entry with the generated shell source. The source contains exactly
// one fresh placeholder, so later operations nest inside earlier ones and the
// caller's eventual command ends up as the innermost term. All template
// substitution happens in a single apply function, which is the only place
// the one-placeholder invariant is checked.
package compose

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-ports/frs/internal/models"
)

// UnknownOpError reports an unrecognised operation name given to the
// composition entry point.
type UnknownOpError struct {
	Op string
}

func (e *UnknownOpError) Error() string {
	return fmt.Sprintf("unknown builder %q (want workdir, path, env, command, docker, context or empty)", e.Op)
}

// TemplateError reports a template that does not contain exactly one
// placeholder occurrence. It fires either when a loaded record was corrupted
// or when a caller-supplied argument literally contains the placeholder
// token, which would smuggle a second occurrence past the substitution.
type TemplateError struct {
	Count int
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template holds %d occurrences of the placeholder %q, want exactly 1", e.Count, models.Placeholder)
}

// wrapStep is one wrap operation as data: the provenance entry plus the
// shell source that replaces the current placeholder. The source must itself
// contain exactly one placeholder.
type wrapStep struct {
	entry  models.StepLogEntry
	source string
}

// apply performs the single literal placeholder substitution for a wrap
// step, returning a new context snapshot. The template is verified to hold
// exactly one placeholder both before and after the rewrite.
func apply(ctx *models.Context, step wrapStep) (*models.Context, error) {
	if n := strings.Count(ctx.Template, models.Placeholder); n != 1 {
		return nil, &TemplateError{Count: n}
	}

	next := ctx.Clone()
	next.Meta.IsDirty = true
	next.Meta.StepLog = append(next.Meta.StepLog, step.entry)
	next.Template = strings.Replace(next.Template, models.Placeholder, step.source, 1)

	if n := strings.Count(next.Template, models.Placeholder); n != 1 {
		return nil, &TemplateError{Count: n}
	}
	return next, nil
}

func promptOf(s string) *string { return &s }

// WithWorkdir wraps the context so the inner command runs after entering dir.
func WithWorkdir(ctx *models.Context, dir string) (*models.Context, error) {
	return apply(ctx, wrapStep{
		entry: models.StepLogEntry{
			Description: fmt.Sprintf("core::with_workdir %q", dir),
			Prompt:      promptOf(fmt.Sprintf("wd(..%s)", filepath.Base(dir))),
		},
		source: fmt.Sprintf("(cd %s;\n %s)", dir, models.Placeholder),
	})
}

// WithPath wraps the context so PATH is extended with path before the inner
// command runs. A path ending in "bin" is summarised as a toolchain named
// after its parent directory.
func WithPath(ctx *models.Context, path string) (*models.Context, error) {
	last := filepath.Base(path)
	prompt := fmt.Sprintf("path(%s)", last)
	if last == "bin" {
		parent := filepath.Base(filepath.Dir(path))
		if parent == "." || parent == string(filepath.Separator) {
			parent = "bin"
		}
		prompt = fmt.Sprintf("toolchain(%s)", parent)
	}

	return apply(ctx, wrapStep{
		entry: models.StepLogEntry{
			Description: fmt.Sprintf("core::with_path %q", path),
			Prompt:      promptOf(prompt),
		},
		source: fmt.Sprintf("(export PATH=${PATH}:%s;\n %s)", path, models.Placeholder),
	})
}

// WithEnv wraps the context so key=value is exported before the inner
// command runs.
func WithEnv(ctx *models.Context, key, value string) (*models.Context, error) {
	return apply(ctx, wrapStep{
		entry: models.StepLogEntry{
			Description: fmt.Sprintf("core::with_env %q=%q", key, value),
			Prompt:      promptOf(fmt.Sprintf("env(%s)", key)),
		},
		source: fmt.Sprintf("(export %s=%s;\n %s)", key, value, models.Placeholder),
	})
}

// WithCommand wraps the context so cmd runs before the inner command.
func WithCommand(ctx *models.Context, cmd string) (*models.Context, error) {
	first := ""
	if fields := strings.Fields(cmd); len(fields) > 0 {
		first = fields[0]
	}

	return apply(ctx, wrapStep{
		entry: models.StepLogEntry{
			Description: fmt.Sprintf("core::with_command %q", cmd),
			Prompt:      promptOf(fmt.Sprintf("exec(%s)", first)),
		},
		source: fmt.Sprintf("(%s;\n %s)", cmd, models.Placeholder),
	})
}

// WithDocker wraps the context so the inner command runs inside container.
func WithDocker(ctx *models.Context, container string) (*models.Context, error) {
	return apply(ctx, wrapStep{
		entry: models.StepLogEntry{
			Description: fmt.Sprintf("core::with_docker %q", container),
			Prompt:      promptOf(fmt.Sprintf("ctr(%s)", container)),
		},
		source: fmt.Sprintf("(docker run %s %s)", container, models.Placeholder),
	})
}
