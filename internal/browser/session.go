// Package browser connects to the live scheduler page over the Chrome
// DevTools protocol and exposes it as the roster.View collaborator.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"rosterhound/internal/config"
	"rosterhound/internal/roster"
)

// Session owns the Chrome connection for one extraction run.
type Session struct {
	ID       string
	cfg      config.Browser
	browser  *rod.Browser
	launched bool
	log      *zap.Logger
}

// Connect attaches to the configured DevTools endpoint, or launches a fresh
// Chrome when none is configured.
func Connect(ctx context.Context, cfg config.Browser, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}

	controlURL := cfg.DebuggerURL
	launched := false
	if controlURL == "" {
		l := launcher.New().Headless(cfg.Headless)
		if cfg.Bin != "" {
			l = l.Bin(cfg.Bin)
		}
		url, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = url
		launched = true
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	s := &Session{
		ID:       uuid.NewString(),
		cfg:      cfg,
		browser:  b,
		launched: launched,
		log:      log,
	}
	log.Info("browser connected", zap.String("session", s.ID), zap.Bool("launched", launched))
	return s, nil
}

// Close disconnects. A browser this session launched is shut down; an
// attached one is left running.
func (s *Session) Close() error {
	if s.browser == nil {
		return nil
	}
	err := s.browser.Close()
	s.browser = nil
	return err
}

func (s *Session) navigationTimeout() time.Duration {
	if s.cfg.NavigationTimeoutMs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.cfg.NavigationTimeoutMs) * time.Millisecond
}

// FindRosterView locates the tab rendering the scheduler. Existing tabs are
// probed first; when none qualifies and a page URL is configured, a new tab
// is opened there. No scheduler anywhere is the fatal ErrViewUnavailable.
func (s *Session) FindRosterView(ctx context.Context) (*RosterView, error) {
	pages, err := s.browser.Pages()
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	for _, page := range pages {
		ok, err := hasScheduler(ctx, page)
		if err != nil {
			s.log.Debug("page probe failed", zap.Error(err))
			continue
		}
		if ok {
			s.log.Info("scheduler page found", zap.String("target", string(page.TargetID)))
			return s.newView(page), nil
		}
	}

	if s.cfg.PageURL != "" {
		page, err := s.browser.Page(proto.TargetCreateTarget{URL: s.cfg.PageURL})
		if err != nil {
			return nil, fmt.Errorf("open scheduler page: %w", err)
		}
		if err := page.Context(ctx).Timeout(s.navigationTimeout()).WaitLoad(); err != nil {
			s.log.Warn("page load wait ended early", zap.Error(err))
		}
		ok, err := hasScheduler(ctx, page)
		if err == nil && ok {
			return s.newView(page), nil
		}
	}

	return nil, roster.ErrViewUnavailable
}

func (s *Session) newView(page *rod.Page) *RosterView {
	if s.cfg.ViewportWidth > 0 && s.cfg.ViewportHeight > 0 {
		if err := (proto.EmulationSetDeviceMetricsOverride{
			Width:             s.cfg.ViewportWidth,
			Height:            s.cfg.ViewportHeight,
			DeviceScaleFactor: 1.0,
		}).Call(page); err != nil {
			s.log.Warn("failed to set viewport", zap.Error(err))
		}
	}
	return &RosterView{page: page, log: s.log}
}

func hasScheduler(ctx context.Context, page *rod.Page) (bool, error) {
	res, err := page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:      `() => document.querySelectorAll('.k-scheduler, .team-roster-scheduler').length > 0`,
		ByValue: true,
	})
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}
