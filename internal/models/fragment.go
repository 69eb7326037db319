package models

import "time"

// StoryType determines which cast a story is built around.
type StoryType string

const (
	StoryTypeSolo      StoryType = "solo"      // one child protagonist
	StoryTypeCompanion StoryType = "companion" // one hero companion
	StoryTypeCombined  StoryType = "combined"  // child + companion together
)

// IsValid reports whether the story type is one of the known values.
func (t StoryType) IsValid() bool {
	switch t {
	case StoryTypeSolo, StoryTypeCompanion, StoryTypeCombined:
		return true
	}
	return false
}

// PromptFragment is one ordered, language- and story-type-scoped piece of
// template text. Fragments with a nil StoryType are universal and apply to
// every story type of their language. At most one active fragment may exist
// per (language, story_type, priority) tuple; the database enforces this
// with a partial unique index.
type PromptFragment struct {
	ID        int64      `db:"id" json:"id"`
	Priority  int        `db:"priority" json:"priority"`
	Language  string     `db:"language" json:"language"`
	StoryType *StoryType `db:"story_type" json:"storyType,omitempty"`
	Template  string     `db:"template" json:"template"`
	Active    bool       `db:"active" json:"active"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
}

// AppliesTo reports whether the fragment participates in composition for
// the given language and story type.
func (f *PromptFragment) AppliesTo(language string, storyType StoryType) bool {
	if !f.Active || f.Language != language {
		return false
	}
	return f.StoryType == nil || *f.StoryType == storyType
}
