package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/aaronvstory/dashbash/internal/models"
	"github.com/aaronvstory/dashbash/internal/status"
)

var (
	// ErrInvalidEmail rejects a roster email write that contains an "@"
	// but does not have a basic local-part@domain shape.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrDuplicateEmail rejects a roster email already present on a
	// different account anywhere in the roster, compared
	// case-insensitively.
	ErrDuplicateEmail = errors.New("an account with this email already exists")
)

// emailShape mirrors the permissive local-part@domain.tld check applied to
// roster emails. Values without an "@" are deliberately not validated at
// all, so partial input can be stored while typing.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func (s *DocumentService) updateAccountLocked(categoryID, accountID, field string, value any) error {
	cat := s.doc.Collections.Roster.Category(categoryID)
	if cat == nil {
		return nil
	}
	i := cat.IndexFunc(func(a models.RosterAccount) bool { return a.ID == accountID })
	if i < 0 {
		return nil
	}

	if field == "flagged" {
		if b, ok := value.(bool); ok {
			cat.Items[i].Flagged = b
		}
		return nil
	}

	text, ok := value.(string)
	if !ok {
		return nil
	}
	if field == "email" {
		if err := s.validateEmailLocked(accountID, text); err != nil {
			return err
		}
	}
	switch field {
	case "name":
		cat.Items[i].Name = text
	case "email":
		cat.Items[i].Email = text
	case "emailPassword":
		cat.Items[i].EmailPassword = text
	case "accountPassword":
		cat.Items[i].AccountPassword = text
	case "phone":
		cat.Items[i].Phone = text
	case "balance":
		cat.Items[i].Balance = text
	case "notes":
		cat.Items[i].Notes = text
	}
	return nil
}

func (s *DocumentService) validateEmailLocked(accountID, value string) error {
	if value == "" {
		return nil
	}
	if strings.Contains(value, "@") && !emailShape.MatchString(value) {
		return ErrInvalidEmail
	}
	lower := strings.ToLower(value)
	for ci := range s.doc.Collections.Roster {
		for _, acc := range s.doc.Collections.Roster[ci].Items {
			if acc.ID != accountID && acc.Email != "" && strings.ToLower(acc.Email) == lower {
				return ErrDuplicateEmail
			}
		}
	}
	return nil
}

// StartTimer stamps the account's lastUsedAt with the current instant,
// beginning the 24-hour cooldown. The timestamp is only ever set to "now".
func (s *DocumentService) StartTimer(categoryID, accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.accountLocked(categoryID, accountID)
	if acc == nil {
		return
	}
	now := s.clock.Now()
	acc.LastUsedAt = &now
	s.scheduleSave()
}

// ResetTimer clears the account's lastUsedAt, stopping the cooldown.
func (s *DocumentService) ResetTimer(categoryID, accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.accountLocked(categoryID, accountID)
	if acc == nil {
		return
	}
	acc.LastUsedAt = nil
	s.scheduleSave()
}

// AccountTitle builds the display title for an account, suffixed with the
// cooldown label when a timer is running.
func (s *DocumentService) AccountTitle(categoryID, accountID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.accountLocked(categoryID, accountID)
	if acc == nil {
		return ""
	}
	title := acc.Title()
	if cd := status.RosterCooldown(acc.LastUsedAt, s.clock.Now()); cd != nil {
		title += " (" + cd.Label + ")"
	}
	return title
}

func (s *DocumentService) accountLocked(categoryID, accountID string) *models.RosterAccount {
	cat := s.doc.Collections.Roster.Category(categoryID)
	if cat == nil {
		return nil
	}
	i := cat.IndexFunc(func(a models.RosterAccount) bool { return a.ID == accountID })
	if i < 0 {
		return nil
	}
	return &cat.Items[i]
}
