// Package status computes transient display statuses from stored time
// values and the current instant. Both calculators are pure functions: they
// hold no state and are safe to call at arbitrary frequency.
package status

import (
	"fmt"
	"strconv"
	"time"
)

// Severity is a display tier. It affects presentation only, never state.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
	SeveritySafe   Severity = "safe"
)

// openingHour is the fixed wall-clock hour before which every store is
// treated as closed.
const openingHour = 6

// cooldownPeriod is the reuse cooldown applied to roster accounts.
const cooldownPeriod = 24 * time.Hour

// StoreStatus reports whether a store is open and how long until it closes.
type StoreStatus struct {
	Status           string   `json:"status"` // "open" or "closed"
	Label            string   `json:"label"`
	Severity         Severity `json:"severity"`
	RemainingMinutes int      `json:"remainingMinutes,omitempty"`
	CloseFormatted   string   `json:"closeFormatted,omitempty"`
}

// CooldownStatus reports where a roster account sits relative to the
// 24-hour reuse cooldown.
type CooldownStatus struct {
	Status    string   `json:"status"` // "countdown" or "elapsed"
	Label     string   `json:"label"`
	Severity  Severity `json:"severity"`
	Remaining int      `json:"remainingMinutes,omitempty"`
	Elapsed   int      `json:"elapsedMinutes,omitempty"`
}

// FormatTime renders a 4-digit HHMM string as HH:MM. Invalid input yields "".
func FormatTime(hhmm string) string {
	if len(hhmm) != 4 {
		return ""
	}
	return hhmm[:2] + ":" + hhmm[2:]
}

// StoreHours derives the open/closed status for a store from its 4-digit
// HHMM closing time. The next occurrence of the closing time at or after
// now is used, rolling to the next day when today's has passed. Before the
// fixed 06:00 opening hour the store reads closed regardless of remaining
// time. Returns nil when closeTime is not a 4-digit value.
func StoreHours(closeTime string, now time.Time) *StoreStatus {
	if len(closeTime) != 4 {
		return nil
	}
	hours, err := strconv.Atoi(closeTime[:2])
	if err != nil {
		return nil
	}
	minutes, err := strconv.Atoi(closeTime[2:])
	if err != nil {
		return nil
	}

	closeAt := time.Date(now.Year(), now.Month(), now.Day(), hours, minutes, 0, 0, now.Location())
	if closeAt.Before(now) {
		closeAt = closeAt.AddDate(0, 0, 1)
	}
	remaining := closeAt.Sub(now)
	remainingMin := int(remaining.Minutes())

	openAt := time.Date(now.Year(), now.Month(), now.Day(), openingHour, 0, 0, 0, now.Location())
	stale := remaining < 0 && -remaining > 12*time.Hour
	if now.Before(openAt) || stale || remainingMin < 0 {
		return &StoreStatus{Status: "closed", Label: "Closed", Severity: SeverityHigh}
	}

	severity := SeverityLow
	if remainingMin < 120 {
		severity = SeverityMedium
	}
	if remainingMin < 60 {
		severity = SeverityHigh
	}

	h, m := remainingMin/60, remainingMin%60
	label := fmt.Sprintf("%dm left", remainingMin)
	if h > 0 {
		label = fmt.Sprintf("%dh %dm left", h, m)
	}

	return &StoreStatus{
		Status:           "open",
		Label:            label,
		Severity:         severity,
		RemainingMinutes: remainingMin,
		CloseFormatted:   FormatTime(closeTime),
	}
}

// RosterCooldown derives the 24-hour cooldown status for a roster account.
// Within the cooldown it counts down to the 24-hour mark, escalating inside
// the final hour; past it, it reports elapsed time since use. A nil
// lastUsedAt means the timer was never started and yields no status.
func RosterCooldown(lastUsedAt *time.Time, now time.Time) *CooldownStatus {
	if lastUsedAt == nil {
		return nil
	}
	elapsed := now.Sub(*lastUsedAt)
	elapsedMin := int(elapsed.Minutes())

	if elapsed < cooldownPeriod {
		remaining := cooldownPeriod - elapsed
		remainingMin := int(remaining.Minutes())
		h, m := remainingMin/60, remainingMin%60

		severity := SeverityMedium
		if remaining <= time.Hour {
			severity = SeverityHigh
		}
		label := fmt.Sprintf("%dm left", m)
		if h > 0 {
			label = fmt.Sprintf("%dh %dm left", h, m)
		}
		return &CooldownStatus{
			Status:    "countdown",
			Label:     label,
			Severity:  severity,
			Remaining: remainingMin,
		}
	}

	days := elapsedMin / (24 * 60)
	label := fmt.Sprintf("%dh %dm ago", elapsedMin/60, elapsedMin%60)
	if days > 0 {
		label = fmt.Sprintf("%dd %dh ago", days, (elapsedMin/60)%24)
	}
	return &CooldownStatus{
		Status:   "elapsed",
		Label:    label,
		Severity: SeveritySafe,
		Elapsed:  elapsedMin,
	}
}
