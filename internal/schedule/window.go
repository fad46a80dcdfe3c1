// Package schedule implements the weekly interval-schedule reconciliation
// engine: normalizing raw time-range submissions, computing free gaps,
// validating day entries, resolving the canonical version of a week across
// repeated saves, and copying weeks forward.
package schedule

// Window bounds the daily business hours. Minutes are since midnight; the
// range is inclusive of StartMinute and exclusive of EndMinute.
type Window struct {
	StartMinute int
	EndMinute   int
}

// NewWindow builds a window from wall-clock hours. Invalid bounds fall back
// to the default 08:00 to 23:00 window.
func NewWindow(startHour, endHour int) Window {
	if startHour < 0 || endHour > 24 || startHour >= endHour {
		return DefaultWindow()
	}
	return Window{StartMinute: startHour * 60, EndMinute: endHour * 60}
}

// DefaultWindow returns the standard 08:00 to 23:00 business window.
func DefaultWindow() Window {
	return Window{StartMinute: 8 * 60, EndMinute: 23 * 60}
}

// StartHour returns the window's opening hour.
func (w Window) StartHour() int { return w.StartMinute / 60 }

// EndHour returns the window's closing hour.
func (w Window) EndHour() int { return w.EndMinute / 60 }
