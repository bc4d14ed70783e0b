package service

import (
	"strings"

	"github.com/aaronvstory/dashbash/internal/interaction"
	"github.com/aaronvstory/dashbash/internal/models"
	"github.com/aaronvstory/dashbash/internal/status"
	"github.com/aaronvstory/dashbash/internal/ticker"
)

// StatusTargets collects the derived-status inputs for every visible item:
// stores with a close time and roster accounts with a started timer.
// Items inside a collapsed category are not visible and are skipped;
// collapsed roster accounts still show the cooldown in their title, so
// item-level collapse does not exclude them.
func (s *DocumentService) StatusTargets() ticker.Targets {
	s.mu.Lock()
	defer s.mu.Unlock()

	var targets ticker.Targets
	for _, cat := range s.doc.Collections.Stores {
		if s.doc.UIState.CollapsedCategories[interaction.CategoryKey(models.Stores, cat.ID)] {
			continue
		}
		for _, st := range cat.Items {
			if st.CloseTime == "" {
				continue
			}
			targets.Stores = append(targets.Stores, ticker.StoreTarget{
				Key:       cat.ID + "/" + st.ID,
				CloseTime: st.CloseTime,
			})
		}
	}
	for _, cat := range s.doc.Collections.Roster {
		if s.doc.UIState.CollapsedCategories[interaction.CategoryKey(models.Roster, cat.ID)] {
			continue
		}
		for _, acc := range cat.Items {
			if acc.LastUsedAt == nil {
				continue
			}
			targets.Roster = append(targets.Roster, ticker.RosterTarget{
				Key:        cat.ID + "/" + acc.ID,
				LastUsedAt: acc.LastUsedAt,
			})
		}
	}
	return targets
}

// CategoryStatusCounts tallies open and closed stores in a category from
// the hours calculator, for the category header.
func (s *DocumentService) CategoryStatusCounts(categoryID string) (open, closed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cat := s.doc.Collections.Stores.Category(categoryID)
	if cat == nil {
		return 0, 0
	}
	now := s.clock.Now()
	for _, st := range cat.Items {
		hours := status.StoreHours(st.CloseTime, now)
		switch {
		case hours == nil:
		case hours.Status == "open":
			open++
		default:
			closed++
		}
	}
	return open, closed
}

// ExtractCityState pulls "City, ST" out of a comma-separated street
// address for compact display. Unrecognized shapes yield "".
func ExtractCityState(address string) string {
	if address == "" {
		return ""
	}
	parts := strings.Split(address, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch {
	case len(parts) >= 3:
		// "Street, City, State ZIP"
		state, _, _ := strings.Cut(parts[2], " ")
		return parts[1] + ", " + state
	case len(parts) == 2:
		// "Street, City State"
		return parts[1]
	default:
		return ""
	}
}
