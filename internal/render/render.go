package render

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"renderdiff/internal/log"
)

// ErrUnavailable is returned when no headless-browser capability exists in
// the runtime environment. Callers degrade to a single-snapshot report
// instead of failing the invocation.
var ErrUnavailable = errors.New("headless browser capability unavailable")

// MinSettleDelay is both the default and the floor for the post-navigation
// settle wait; callers asking for less still get this much.
const MinSettleDelay = 3 * time.Second

// Options carries the optional rendering hints of one capture.
type Options struct {
	// WaitForSelector, when non-empty, is waited on best-effort before the
	// settle delay. Its absence is not an error.
	WaitForSelector string

	// SettleDelay is how long to wait after navigation for late hydration.
	// Zero or anything below MinSettleDelay is raised to MinSettleDelay.
	SettleDelay time.Duration
}

func (o Options) settle() time.Duration {
	if o.SettleDelay < MinSettleDelay {
		return MinSettleDelay
	}
	return o.SettleDelay
}

// Renderer drives a scripted browser and returns the fully materialized
// markup of a page.
type Renderer interface {
	Render(ctx context.Context, targetURL string, opts Options) (string, error)
}

// Unavailable is the constructible no-capability variant. Its Render always
// reports ErrUnavailable.
type Unavailable struct{}

func (Unavailable) Render(context.Context, string, Options) (string, error) {
	return "", ErrUnavailable
}

var browserBinaries = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
}

// Resolve picks the renderer for this process at startup. With a configured
// binary path that path is trusted as-is; otherwise the PATH is searched for
// a known Chrome/Chromium binary. No browser found means the Unavailable
// variant, handled by callers as a normal branch.
func Resolve(execPath string) Renderer {
	if execPath != "" {
		return &ChromeRenderer{execPath: execPath}
	}
	for _, name := range browserBinaries {
		if path, err := exec.LookPath(name); err == nil {
			log.Logger.Info("resolved headless browser", zap.String("binary", path))
			return &ChromeRenderer{execPath: path}
		}
	}
	log.Logger.Warn("no headless browser found, scripted rendering disabled")
	return Unavailable{}
}
