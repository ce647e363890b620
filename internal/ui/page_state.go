package ui

import (
	"time"
)

// PageState is the state every full-screen model carries: the clamped
// layout, a transient status line and the quit flag. Embed it in models.
type PageState struct {
	Layout   Layout
	Quitting bool

	StatusMsg    string
	statusExpiry time.Time
	now          func() time.Time
}

// NewPageState creates a PageState for the given layout
func NewPageState(layout Layout) PageState {
	return PageState{Layout: layout, now: time.Now}
}

func (p *PageState) clock() time.Time {
	if p.now == nil {
		return time.Now()
	}
	return p.now()
}

// SetStatus shows msg for d. A zero duration keeps it until replaced.
func (p *PageState) SetStatus(msg string, d time.Duration) {
	p.StatusMsg = msg
	p.statusExpiry = time.Time{}
	if d > 0 {
		p.statusExpiry = p.clock().Add(d)
	}
}

// ClearExpiredStatus drops the status line once it has expired. Call it at
// the top of Update.
func (p *PageState) ClearExpiredStatus() {
	if !p.statusExpiry.IsZero() && p.clock().After(p.statusExpiry) {
		p.StatusMsg = ""
		p.statusExpiry = time.Time{}
	}
}

func (p *PageState) HasStatus() bool {
	return p.StatusMsg != ""
}

// Resize recomputes the layout for a terminal size and reports whether it changed
func (p *PageState) Resize(width, height int) bool {
	layout := NewLayout(width, height)
	if layout == p.Layout {
		return false
	}
	p.Layout = layout
	return true
}
