// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/cmdsync/cmdsync/internal/registry"
)

type (
	// Invocation is one call of a command.
	Invocation struct {
		// Caller identifies who invoked the command; cooldowns are tracked
		// per caller.
		Caller string
		// Args become the script's positional parameters.
		Args   []string
		Dir    string
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Result is the outcome of Run. Error is set when the handler could not
	// be started or was rejected; a script exiting non-zero only sets ExitCode.
	Result struct {
		ExitCode ExitCode
		Error    error
	}

	// Runner executes handler scripts.
	Runner struct {
		logger *log.Logger
		owners map[string]struct{}
		now    func() time.Time

		mu       sync.Mutex
		lastUsed map[string]time.Time
	}

	// Option configures a Runner.
	Option func(*Runner)
)

// WithOwners sets the callers allowed to run owner-only commands.
func WithOwners(ids ...string) Option {
	return func(r *Runner) {
		for _, id := range ids {
			r.owners[id] = struct{}{}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		logger:   log.New(io.Discard),
		owners:   make(map[string]struct{}),
		now:      time.Now,
		lastUsed: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CheckScript parses script without running it.
func CheckScript(script string) error {
	if _, err := syntax.NewParser().Parse(strings.NewReader(script), "script"); err != nil {
		return &SyntaxError{Err: err}
	}
	return nil
}

// Run executes the handler of d.
func (r *Runner) Run(ctx context.Context, d *registry.Descriptor, inv Invocation) *Result {
	if strings.TrimSpace(d.Script) == "" {
		return &Result{ExitCode: 1, Error: fmt.Errorf("%s: %w", d.Name, ErrNoHandler)}
	}
	if d.OwnerOnly {
		if _, ok := r.owners[inv.Caller]; !ok {
			return &Result{ExitCode: 1, Error: fmt.Errorf("%s: %w", d.Name, ErrOwnerOnly)}
		}
	}
	prog, err := syntax.NewParser().Parse(strings.NewReader(d.Script), d.Name)
	if err != nil {
		return &Result{ExitCode: 1, Error: &SyntaxError{Err: err}}
	}

	env := append(os.Environ(),
		"CMDSYNC_COMMAND="+d.Name,
		"CMDSYNC_CATEGORY="+d.Category,
		"CMDSYNC_CALLER="+inv.Caller,
	)
	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(inv.Stdin, inv.Stdout, inv.Stderr),
	}
	if inv.Dir != "" {
		opts = append(opts, interp.Dir(inv.Dir))
	}
	// "--" keeps arguments such as "-v" from being read as shell options.
	if len(inv.Args) > 0 {
		opts = append(opts, interp.Params(append([]string{"--"}, inv.Args...)...))
	}

	sh, err := interp.New(opts...)
	if err != nil {
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to create interpreter: %w", err)}
	}
	// Only handlers that can actually start consume a cooldown.
	if err := r.takeCooldown(d, inv.Caller); err != nil {
		return &Result{ExitCode: 1, Error: err}
	}

	r.logger.Debug("running command", "name", d.Name, "caller", inv.Caller, "args", len(inv.Args))
	if err := sh.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return &Result{ExitCode: ExitCode(status)}
		}
		return &Result{ExitCode: 1, Error: fmt.Errorf("script execution failed: %w", err)}
	}
	return &Result{}
}

// takeCooldown records the invocation or rejects it while the previous one by
// the same caller is still cooling down.
func (r *Runner) takeCooldown(d *registry.Descriptor, caller string) error {
	if d.Cooldown <= 0 {
		return nil
	}
	// Owners bypass cooldowns.
	if _, ok := r.owners[caller]; ok {
		return nil
	}

	key := d.Name + "\x00" + caller
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	if last, ok := r.lastUsed[key]; ok {
		if remaining := d.Cooldown - now.Sub(last); remaining > 0 {
			return &CooldownError{Command: d.Name, Remaining: remaining}
		}
	}
	r.lastUsed[key] = now
	return nil
}
