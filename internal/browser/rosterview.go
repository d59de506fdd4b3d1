package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"go.uber.org/zap"

	"rosterhound/internal/roster"
)

// wallClockLayout carries page-local wall time across the protocol without
// dragging the page's timezone into range arithmetic.
const wallClockLayout = "2006-01-02 15:04"

// RosterView implements roster.View against the rendered Kendo scheduler.
// All reads and writes go through page.Evaluate with embedded JS.
type RosterView struct {
	page *rod.Page
	log  *zap.Logger
}

var _ roster.View = (*RosterView)(nil)

// eval runs fn in the page and decodes the JSON result into out.
func (v *RosterView) eval(ctx context.Context, js string, out interface{}) error {
	res, err := v.page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:           js,
		ByValue:      true,
		AwaitPromise: true,
	})
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return json.Unmarshal(raw, out)
}

const jsResources = `
() => {
	const out = [];
	if (typeof jQuery === 'undefined') return out;
	jQuery('.k-scheduler').each(function (idx) {
		const scheduler = jQuery(this).data('kendoScheduler');
		if (!scheduler || !scheduler.resources || !scheduler.resources[0]) return;
		const section = jQuery(this).closest('.team-group, [id^="teamRoster"]');
		let team = section.find('h2, .titleBar').first().text().trim();
		if (!team) team = 'Team ' + (idx + 1);
		scheduler.resources[0].dataSource.data().forEach((p) => {
			out.push({ id: String(p.personId), name: (p.personName || '').trim(), team });
		});
	});
	return out;
}
`

// Resources lists the staff rows rendered by every team scheduler, team
// names taken from the enclosing section header with an ordinal fallback.
func (v *RosterView) Resources(ctx context.Context) ([]roster.Resource, error) {
	var rows []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Team string `json:"team"`
	}
	if err := v.eval(ctx, jsResources, &rows); err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	out := make([]roster.Resource, 0, len(rows))
	for _, r := range rows {
		if r.Name == "" {
			continue
		}
		out = append(out, roster.Resource{ID: r.ID, Name: r.Name, Team: r.Team})
	}
	return out, nil
}

const jsEvents = `
() => {
	const pad = (n) => String(n).padStart(2, '0');
	const wall = (d) => d.getFullYear() + '-' + pad(d.getMonth() + 1) + '-' + pad(d.getDate())
		+ ' ' + pad(d.getHours()) + ':' + pad(d.getMinutes());
	const hhmm = (d) => pad(d.getHours()) + ':' + pad(d.getMinutes());
	const out = [];
	if (typeof jQuery === 'undefined') return out;
	jQuery('.k-scheduler').each(function () {
		const scheduler = jQuery(this).data('kendoScheduler');
		if (!scheduler || !scheduler.dataSource) return;
		scheduler.dataSource.data().forEach((e) => {
			const start = new Date(e.start);
			const end = e.end ? new Date(e.end) : new Date(e.start);
			out.push({
				personId: String(e.personId),
				title: (e.title || e.fullTitle || 'Shift').trim(),
				fullTitle: (e.fullTitle || '').trim(),
				startTime: e.isAllDay ? '' : hhmm(start),
				endTime: e.isAllDay ? '' : hhmm(end),
				isEffective: e.isEffective === undefined ? true : !!e.isEffective,
				spanStart: wall(start),
				spanEnd: wall(end),
			});
		});
	});
	return out;
}
`

// Events lists every raw shift event in the rendered week, spans expressed
// in the page's wall clock.
func (v *RosterView) Events(ctx context.Context) ([]roster.RawShiftEvent, error) {
	var rows []struct {
		PersonID    string `json:"personId"`
		Title       string `json:"title"`
		FullTitle   string `json:"fullTitle"`
		StartTime   string `json:"startTime"`
		EndTime     string `json:"endTime"`
		IsEffective bool   `json:"isEffective"`
		SpanStart   string `json:"spanStart"`
		SpanEnd     string `json:"spanEnd"`
	}
	if err := v.eval(ctx, jsEvents, &rows); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	out := make([]roster.RawShiftEvent, 0, len(rows))
	for _, r := range rows {
		start, err := time.ParseInLocation(wallClockLayout, r.SpanStart, time.UTC)
		if err != nil {
			v.log.Debug("unparseable event span start, skipping", zap.String("value", r.SpanStart))
			continue
		}
		end, err := time.ParseInLocation(wallClockLayout, r.SpanEnd, time.UTC)
		if err != nil {
			end = start
		}
		out = append(out, roster.RawShiftEvent{
			PersonID:    r.PersonID,
			Title:       r.Title,
			FullTitle:   r.FullTitle,
			StartTime:   r.StartTime,
			EndTime:     r.EndTime,
			IsEffective: r.IsEffective,
			SpanStart:   start,
			SpanEnd:     end,
		})
	}
	return out, nil
}

const jsCurrentWeek = `
() => {
	const pad = (n) => String(n).padStart(2, '0');
	if (typeof jQuery !== 'undefined') {
		const scheduler = jQuery('.k-scheduler').first().data('kendoScheduler');
		if (scheduler && scheduler.date) {
			const d = scheduler.date();
			return d.getFullYear() + '-' + pad(d.getMonth() + 1) + '-' + pad(d.getDate());
		}
	}
	return '';
}
`

// CurrentWeek reads the scheduler's displayed date and returns its Monday.
func (v *RosterView) CurrentWeek(ctx context.Context) (time.Time, error) {
	var raw string
	if err := v.eval(ctx, jsCurrentWeek, &raw); err != nil {
		return time.Time{}, fmt.Errorf("current week: %w", err)
	}
	if raw == "" {
		return time.Time{}, fmt.Errorf("current week: scheduler reports no date")
	}
	d, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("current week: parse %q: %w", raw, err)
	}
	return roster.MondayOf(d), nil
}

const jsNavigate = `
(dateStr) => {
	const input = document.querySelector('.date-picker-short, input[type="text"][readonly]');
	if (!input) return false;
	const wasReadonly = input.hasAttribute('readonly');
	if (wasReadonly) input.removeAttribute('readonly');
	input.value = dateStr;
	input.dispatchEvent(new Event('change', { bubbles: true }));
	input.dispatchEvent(new Event('blur', { bubbles: true }));
	if (wasReadonly) input.setAttribute('readonly', 'readonly');
	return true;
}
`

// NavigateTo drives the page's date picker to the anchor's week. The effect
// is observed only through Snapshot; this call does not wait for rendering.
func (v *RosterView) NavigateTo(ctx context.Context, anchor time.Time) error {
	// The picker expects "02 Jan 2006".
	dateStr := anchor.Format("02 Jan 2006")
	res, err := v.page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:      jsNavigate,
		JSArgs:  []interface{}{dateStr},
		ByValue: true,
	})
	if err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	if !res.Value.Bool() {
		return fmt.Errorf("navigate: date input not found")
	}
	v.log.Debug("navigation issued", zap.String("date", dateStr))
	return nil
}

const jsSnapshot = `
() => {
	let resourceCount = 0;
	if (typeof jQuery !== 'undefined') {
		jQuery('.k-scheduler').each(function () {
			const scheduler = jQuery(this).data('kendoScheduler');
			if (scheduler && scheduler.resources && scheduler.resources[0]) {
				resourceCount += scheduler.resources[0].dataSource.data().length;
			}
		});
	}
	return {
		itemCount: document.querySelectorAll('.k-event').length,
		resourceCount,
		sectionHeaderPresent: !!document.querySelector('.team-group h2, .titleBar'),
	};
}
`

// Snapshot reports how far the currently navigated week has rendered.
func (v *RosterView) Snapshot(ctx context.Context) (roster.Readiness, error) {
	var snap struct {
		ItemCount            int  `json:"itemCount"`
		ResourceCount        int  `json:"resourceCount"`
		SectionHeaderPresent bool `json:"sectionHeaderPresent"`
	}
	if err := v.eval(ctx, jsSnapshot, &snap); err != nil {
		return roster.Readiness{}, fmt.Errorf("readiness snapshot: %w", err)
	}
	return roster.Readiness{
		ItemCount:            snap.ItemCount,
		ResourceCount:        snap.ResourceCount,
		SectionHeaderPresent: snap.SectionHeaderPresent,
	}, nil
}

// URL returns the page address, for logs.
func (v *RosterView) URL() string {
	info, err := v.page.Info()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(info.URL)
}
