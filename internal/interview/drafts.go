package interview

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/asknalyze/internal/session"
)

// DraftKey is the storage key holding the autosaved form.
const DraftKey = "asknalyze_interview_form"

// Drafts autosaves a form in the same storage as the session.
type Drafts struct {
	store session.Storage
}

func NewDrafts(store session.Storage) *Drafts {
	return &Drafts{store: store}
}

// Save stores f as the current draft.
func (d *Drafts) Save(f *Form) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := d.store.Set(DraftKey, string(data)); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}

	log.Debug().Int("questions", len(f.Questions)).Msg("draft saved")
	return nil
}

// Load returns the saved draft merged with user's defaults, or a new form
// when there is none. An unreadable draft is discarded.
func (d *Drafts) Load(user *session.User) (*Form, bool) {
	raw, ok, err := d.store.Get(DraftKey)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read draft, discarding")
		d.Clear()
		return NewForm(user), false
	}
	if !ok {
		return NewForm(user), false
	}

	var f Form
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		log.Warn().Err(err).Msg("corrupt draft, discarding")
		d.Clear()
		return NewForm(user), false
	}

	f.applyDefaults(user)
	return &f, true
}

// Clear removes the draft.
func (d *Drafts) Clear() {
	if err := d.store.Remove(DraftKey); err != nil {
		log.Warn().Err(err).Msg("failed to clear draft")
	}
}
