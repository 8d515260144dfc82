package infrastructure

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"resume-api/pkg/automation"
)

const tagScript = `(() => {
  const sel = 'a[href],button,input,select,textarea,[role=button],[role=option],[role=combobox],[role=menuitem],[role=checkbox],[contenteditable=true]';
  document.querySelectorAll('[` + automation.RefAttr + `]').forEach(e => e.removeAttribute('` + automation.RefAttr + `'));
  let n = 0;
  for (const el of document.querySelectorAll(sel)) {
    const r = el.getBoundingClientRect();
    if (r.width === 0 && r.height === 0) continue;
    el.setAttribute('` + automation.RefAttr + `', 'e' + (++n));
    if (el.type !== 'password' && typeof el.value === 'string') el.setAttribute('` + automation.ValueAttr + `', el.value);
    if (el.type === 'checkbox') el.setAttribute('` + automation.ValueAttr + `', el.checked ? 'checked' : 'unchecked');
  }
  return document.documentElement.outerHTML;
})()`

var refPattern = regexp.MustCompile(`^e[0-9]+$`)

var keyNames = map[string]string{
	"enter":     kb.Enter,
	"tab":       kb.Tab,
	"escape":    kb.Escape,
	"esc":       kb.Escape,
	"arrowdown": kb.ArrowDown,
	"arrowup":   kb.ArrowUp,
	"backspace": kb.Backspace,
	"space":     " ",
}

// ChromedpBrowser opens Chrome sessions either on a remote DevTools endpoint
// or by launching a local headless binary.
type ChromedpBrowser struct {
	RemoteURL  string
	ChromePath string
	UserAgent  string
	// SessionTimeout bounds the whole lifetime of one session.
	SessionTimeout time.Duration
	// Settle is slept after every action so the page can react.
	Settle time.Duration
}

func NewChromedpBrowser(remoteURL, chromePath string) *ChromedpBrowser {
	return &ChromedpBrowser{
		RemoteURL:      remoteURL,
		ChromePath:     chromePath,
		SessionTimeout: 10 * time.Minute,
		Settle:         750 * time.Millisecond,
	}
}

func (f *ChromedpBrowser) Open(ctx context.Context) (automation.Browser, error) {
	var (
		allocCtx    context.Context
		cancelAlloc context.CancelFunc
	)
	if f.RemoteURL != "" {
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(ctx, f.RemoteURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.WindowSize(1280, 900),
		)
		if f.ChromePath != "" {
			opts = append(opts, chromedp.ExecPath(f.ChromePath))
		}
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(ctx, opts...)
	}

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	sctx, cancelTimeout := context.WithTimeout(cctx, f.SessionTimeout)
	s := &chromedpSession{
		ctx:    sctx,
		settle: f.Settle,
		cancel: func() {
			cancelTimeout()
			cancelCtx()
			cancelAlloc()
		},
	}

	// ensure Chrome starts
	start := []chromedp.Action{}
	if f.UserAgent != "" {
		start = append(start, chromedp.ActionFunc(func(ctx context.Context) error {
			return emulation.SetUserAgentOverride(f.UserAgent).Do(ctx)
		}))
	}
	if err := chromedp.Run(sctx, start...); err != nil {
		s.Close()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	return s, nil
}

type chromedpSession struct {
	ctx    context.Context
	cancel context.CancelFunc
	settle time.Duration
}

func (s *chromedpSession) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.settle > 0 {
		actions = append(actions, chromedp.Sleep(s.settle))
	}
	return chromedp.Run(s.ctx, actions...)
}

func (s *chromedpSession) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery))
}

func (s *chromedpSession) Capture(ctx context.Context) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	var url, html string
	err := chromedp.Run(s.ctx, chromedp.Location(&url), chromedp.Evaluate(tagScript, &html))
	return url, html, err
}

func selector(ref string) (string, error) {
	if !refPattern.MatchString(ref) {
		return "", fmt.Errorf("invalid element ref %q", ref)
	}
	return `[` + automation.RefAttr + `="` + ref + `"]`, nil
}

func (s *chromedpSession) Click(ctx context.Context, ref string) error {
	sel, err := selector(ref)
	if err != nil {
		return err
	}
	return s.run(ctx, chromedp.Click(sel, chromedp.ByQuery, chromedp.NodeVisible))
}

func (s *chromedpSession) Type(ctx context.Context, ref, text string) error {
	sel, err := selector(ref)
	if err != nil {
		return err
	}
	return s.run(ctx,
		chromedp.Focus(sel, chromedp.ByQuery),
		chromedp.Clear(sel, chromedp.ByQuery),
		chromedp.SendKeys(sel, text, chromedp.ByQuery),
	)
}

func (s *chromedpSession) Press(ctx context.Context, key string) error {
	k, ok := keyNames[strings.ToLower(key)]
	if !ok {
		k = key
	}
	return s.run(ctx, chromedp.KeyEvent(k))
}

func (s *chromedpSession) Close() { s.cancel() }

