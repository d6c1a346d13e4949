package render

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"renderdiff/internal/log"
)

const (
	navigateTimeout = 30 * time.Second
	loadTimeout     = 10 * time.Second
	selectorTimeout = 10 * time.Second
)

// ChromeRenderer captures post-execution markup through a headless Chrome
// driven over the DevTools protocol.
type ChromeRenderer struct {
	execPath string

	// run executes chromedp actions; nil means chromedp.Run. Tests swap it
	// to observe the per-step contexts without launching a browser.
	run func(ctx context.Context, actions ...chromedp.Action) error
}

// Render navigates to targetURL, waits for the DOM-ready milestone, then
// best-effort for the load event and the optional selector hint, sleeps the
// settle delay for late hydration, and extracts the materialized markup.
// The browser context is cancelled on every exit path.
func (r *ChromeRenderer) Render(ctx context.Context, targetURL string, opts Options) (string, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(r.execPath),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Headless,
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()

	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	defer tabCancel()

	run := r.run
	if run == nil {
		run = chromedp.Run
	}

	// The browser process is started by the first Run and lives as long as
	// the context given to that Run. Launch it from the undecorated tab
	// context: allocating it under the navigation timeout would kill Chrome
	// at that deadline, mid-settle, on any page that navigates slowly.
	if err := run(tabCtx); err != nil {
		return "", fmt.Errorf("failed to start browser: %w", err)
	}

	// Hard budget: the page must reach DOM-ready. Full network idle is not
	// waited on, sites with long-lived connections never reach it.
	navCtx, navCancel := context.WithTimeout(tabCtx, navigateTimeout)
	defer navCancel()
	if err := run(navCtx,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("failed to navigate: %w", err)
	}

	// Soft budget: the load event may never fire, proceed regardless.
	loadCtx, loadCancel := context.WithTimeout(tabCtx, loadTimeout)
	if err := run(loadCtx,
		chromedp.Poll(`document.readyState === "complete"`, nil),
	); err != nil {
		log.Logger.Debug("load milestone not reached",
			zap.String("url", targetURL),
			zap.Error(err),
		)
	}
	loadCancel()

	// Soft budget: the selector hint may never appear, capture whatever is
	// present.
	if opts.WaitForSelector != "" {
		selCtx, selCancel := context.WithTimeout(tabCtx, selectorTimeout)
		if err := run(selCtx,
			chromedp.WaitVisible(opts.WaitForSelector, chromedp.ByQuery),
		); err != nil {
			log.Logger.Debug("selector did not appear",
				zap.String("url", targetURL),
				zap.String("selector", opts.WaitForSelector),
				zap.Error(err),
			)
		}
		selCancel()
	}

	var pageHTML string
	if err := run(tabCtx,
		chromedp.Sleep(opts.settle()),
		chromedp.OuterHTML("html", &pageHTML, chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("failed to extract rendered HTML: %w", err)
	}

	log.Logger.Info("rendered page",
		zap.String("url", targetURL),
		zap.Int("content_length", len(pageHTML)),
	)

	return pageHTML, nil
}
