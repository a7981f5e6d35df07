//go:generate mockgen -destination=mock_invoker.go -package=xrandr github.com/sigreer/autoxrandr/internal/xrandr Invoker

package xrandr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sigreer/autoxrandr/internal/cache"
)

// Invoker runs the xrandr tool
type Invoker interface {
	// QueryStatus returns the raw output of a plain xrandr query
	QueryStatus(ctx context.Context) ([]byte, error)
	// QueryActive returns the raw output of xrandr --listactivemonitors
	QueryActive(ctx context.Context) ([]byte, error)
	// Apply runs xrandr with the given arguments
	Apply(ctx context.Context, args []string) error
}

// ToolError describes a failed xrandr run
type ToolError struct {
	Binary   string
	Args     []string
	ExitCode int // -1 when the process could not be started
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	cmd := strings.TrimSpace(e.Binary + " " + strings.Join(e.Args, " "))
	msg := fmt.Sprintf("%s: %s", cmd, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ToolError) Unwrap() []error { return []error{ErrToolInvocation, e.Err} }

// Command runs xrandr as a subprocess
type Command struct {
	// Binary is the xrandr executable, looked up in PATH when not absolute
	Binary string
	// Display overrides DISPLAY for the subprocess when set
	Display string

	log   zerolog.Logger
	cache *cache.Cache[[]byte]
}

// NewCommand creates an Invoker backed by the xrandr binary
func NewCommand(binary, display string, log zerolog.Logger) *Command {
	if binary == "" {
		binary = "xrandr"
	}
	return &Command{
		Binary:  binary,
		Display: display,
		log:     log,
		cache:   cache.New[[]byte](),
	}
}

// QueryStatus runs a plain `xrandr` query
func (c *Command) QueryStatus(ctx context.Context) ([]byte, error) {
	return c.query(ctx, "status")
}

// QueryActive runs `xrandr --listactivemonitors`
func (c *Command) QueryActive(ctx context.Context) ([]byte, error) {
	return c.query(ctx, "active", "--listactivemonitors")
}

func (c *Command) query(ctx context.Context, key string, args ...string) ([]byte, error) {
	return c.cache.GetOrFetch(key, cache.TTLQuery, func() ([]byte, error) {
		return c.run(ctx, args)
	})
}

// Apply runs xrandr with the generated layout arguments. Queries cached
// before the call no longer describe the layout, so the cache is dropped.
func (c *Command) Apply(ctx context.Context, args []string) error {
	defer c.cache.Clear()
	_, err := c.run(ctx, args)
	return err
}

func (c *Command) run(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Binary, args...)
	if c.Display != "" {
		cmd.Env = append(os.Environ(), "DISPLAY="+c.Display)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	c.log.Debug().Str("binary", c.Binary).Strs("args", args).Msg("running xrandr")
	out, err := cmd.Output()
	if err != nil {
		toolErr := &ToolError{
			Binary:   c.Binary,
			Args:     args,
			ExitCode: -1,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			toolErr.ExitCode = exitErr.ExitCode()
		}
		c.log.Debug().Err(err).Int("exit_code", toolErr.ExitCode).Msg("xrandr failed")
		return nil, toolErr
	}
	return out, nil
}
