// Package service implements the orchestrator that wires together
// configuration, session identity, the persistence store, the composition
// engine, and rendering.
package service

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/go-ports/frs/internal/compose"
	"github.com/go-ports/frs/internal/config"
	"github.com/go-ports/frs/internal/models"
	"github.com/go-ports/frs/internal/render"
	"github.com/go-ports/frs/internal/session"
	"github.com/go-ports/frs/internal/store"
)

// Service carries the resolved environment for one invocation.
type Service struct {
	Config  *config.Config
	Palette render.Palette

	store    *store.Store
	resolver *session.Resolver
}

// Options overrides parts of the environment, primarily for tests and for
// the root command's --state-home flag.
type Options struct {
	// StateHome overrides the state directory for named contexts.
	StateHome string
	// ProcessInfo overrides the process facts used for session identity.
	ProcessInfo session.ProcessInfo
}

// New resolves configuration and session identity inputs and returns a
// ready Service. Session identity itself is resolved lazily on first use and
// memoized for the rest of the invocation.
func New(opts Options) (*Service, error) {
	root, err := config.ConfigRoot()
	if err != nil {
		return nil, fmt.Errorf("service.New: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("service.New: %w", err)
	}

	stateDir := opts.StateHome
	if stateDir == "" {
		stateDir, err = config.ResolveStateDir(cfg)
		if err != nil {
			return nil, fmt.Errorf("service.New: %w", err)
		}
	}

	info := opts.ProcessInfo
	if info == nil {
		info = session.OSProcessInfo{}
	}

	return &Service{
		Config:  cfg,
		Palette: render.ForMode(cfg.Color),
		store:   store.New(stateDir),
		resolver: &session.Resolver{
			Info: info,
			Dir:  config.ResolveScratchDir(cfg),
		},
	}, nil
}

// Current loads the session's ephemeral context. An absent record is the
// normal first-use condition and yields a fresh base context.
func (s *Service) Current() (*models.Context, error) {
	path, err := s.resolver.Path()
	if err != nil {
		return nil, err
	}
	ctx, ok, err := store.LoadEphemeral(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return models.Base(), nil
	}
	return ctx, nil
}

// Compose loads the current context, applies the named operation with its
// string arguments, and overwrites the session record with the result.
func (s *Service) Compose(op string, args []string) (*models.Context, error) {
	ctx, err := s.Current()
	if err != nil {
		return nil, err
	}

	next, err := s.applyOp(ctx, op, args)
	if err != nil {
		return nil, err
	}

	if err := s.persistCurrent(next); err != nil {
		return nil, err
	}
	return next, nil
}

// applyOp dispatches one composition operation. The wrap operations append
// to the context; "context" and "empty" substitute it entirely.
func (s *Service) applyOp(ctx *models.Context, op string, args []string) (*models.Context, error) {
	switch op {
	case "workdir":
		if err := wantArgs(op, args, 1); err != nil {
			return nil, err
		}
		return compose.WithWorkdir(ctx, args[0])
	case "path":
		if err := wantArgs(op, args, 1); err != nil {
			return nil, err
		}
		return compose.WithPath(ctx, args[0])
	case "env":
		if err := wantArgs(op, args, 2); err != nil {
			return nil, err
		}
		return compose.WithEnv(ctx, args[0], args[1])
	case "command":
		if len(args) == 0 {
			return nil, fmt.Errorf("builder %q needs a command", op)
		}
		return compose.WithCommand(ctx, joinWords(args))
	case "docker":
		if err := wantArgs(op, args, 1); err != nil {
			return nil, err
		}
		return compose.WithDocker(ctx, args[0])
	case "context":
		if err := wantArgs(op, args, 2); err != nil {
			return nil, err
		}
		return s.Activate(args[0], args[1])
	case "empty":
		if len(args) != 0 {
			return nil, fmt.Errorf("builder %q takes no arguments", op)
		}
		return models.Base(), nil
	default:
		return nil, &compose.UnknownOpError{Op: op}
	}
}

// Activate loads the named context, discarding the current one. A missing
// record is fatal.
func (s *Service) Activate(namespace, name string) (*models.Context, error) {
	return s.store.LoadNamed(namespace, name)
}

// SaveAs stamps the current context with the target identity, clears the
// dirty flag, writes the named record, and overwrites the session record
// with the saved state.
func (s *Service) SaveAs(namespace, name string) (*models.Context, error) {
	if name == "" {
		return nil, fmt.Errorf("save needs a name")
	}
	if namespace == models.DefaultNamespace && name == models.DefaultNamespace {
		return nil, fmt.Errorf("%s::%s is reserved for the anonymous session context", models.DefaultNamespace, models.DefaultNamespace)
	}

	ctx, err := s.Current()
	if err != nil {
		return nil, err
	}

	saved := ctx.Clone()
	saved.Meta.Namespace = namespace
	saved.Meta.Name = name
	saved.Meta.IsDirty = false

	if err := s.store.SaveNamed(saved); err != nil {
		return nil, err
	}
	if err := s.persistCurrent(saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// InspectTarget resolves which context `inspect` shows: the session context
// for default/default, a named record otherwise. A non-default namespace
// with the default name has no sensible target.
func (s *Service) InspectTarget(namespace, name string) (*models.Context, error) {
	if name == models.DefaultNamespace {
		if namespace != models.DefaultNamespace {
			return nil, fmt.Errorf("namespace %q needs an explicit context name", namespace)
		}
		return s.Current()
	}
	return s.store.LoadNamed(namespace, name)
}

// persistCurrent overwrites the session record.
func (s *Service) persistCurrent(ctx *models.Context) error {
	path, err := s.resolver.Path()
	if err != nil {
		return err
	}
	if err := store.SaveEphemeral(path, ctx); err != nil {
		return err
	}
	slog.Debug("session record written", "path", path, "steps", len(ctx.Meta.StepLog))
	return nil
}

func wantArgs(op string, args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("builder %q takes %d argument(s), got %d", op, n, len(args))
	}
	return nil
}

// joinWords rebuilds a command string from already-tokenized words.
func joinWords(words []string) string {
	out := ""
	for i, w := range words {
		if i > 0 {
			out += " "
		}
		out += w
	}
	return out
}
