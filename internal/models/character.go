package models

import "time"

// Gender of a story character.
type Gender string

const (
	GenderGirl    Gender = "girl"
	GenderBoy     Gender = "boy"
	GenderNeutral Gender = "neutral"
)

// CharacterProfile is the closed set of casts a story can be generated for:
// a solo child, a companion hero, or the two combined. New variants must
// extend the switch in prompt.buildContext as well.
type CharacterProfile interface {
	profileVariant()
}

// ChildProfile describes the child protagonist.
type ChildProfile struct {
	ID          string
	Name        string
	AgeYears    int
	Gender      Gender
	Interests   []string
	Appearance  string
	Personality string
	Strengths   string
	// Description is a freeform parent-written note. It is appended to the
	// rendered character block, never substituted for the structured fields.
	Description string
}

// HeroProfile describes a companion hero (a favorite toy, pet or invented
// figure) that stars in companion stories.
type HeroProfile struct {
	ID          string
	Name        string
	AgeBand     string // e.g. "child", "teen", "grown-up", "ageless"
	Gender      Gender
	Interests   []string
	Appearance  string
	Personality string
	Strengths   string
	Description string
}

// CombinedProfile pairs a child with a companion hero.
type CombinedProfile struct {
	Child            ChildProfile
	Hero             HeroProfile
	RelationshipNote string
}

func (ChildProfile) profileVariant()    {}
func (HeroProfile) profileVariant()     {}
func (CombinedProfile) profileVariant() {}

// StoryTypeFor returns the story type matching the profile variant.
func StoryTypeFor(profile CharacterProfile) StoryType {
	switch profile.(type) {
	case ChildProfile:
		return StoryTypeSolo
	case HeroProfile:
		return StoryTypeCompanion
	case CombinedProfile:
		return StoryTypeCombined
	default:
		return ""
	}
}

// Hero is the persisted form of a character profile as stored in the
// heroes table. Kind distinguishes child rows from companion rows.
type Hero struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	Kind        string    `db:"kind" json:"kind"` // "child" or "companion"
	Name        string    `db:"name" json:"name"`
	AgeYears    int       `db:"age_years" json:"ageYears"`
	AgeBand     string    `db:"age_band" json:"ageBand"`
	Gender      Gender    `db:"gender" json:"gender"`
	Interests   []string  `db:"interests" json:"interests"`
	Appearance  string    `db:"appearance" json:"appearance"`
	Personality string    `db:"personality" json:"personality"`
	Strengths   string    `db:"strengths" json:"strengths"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// AsChild converts a stored hero row into a ChildProfile.
func (h *Hero) AsChild() ChildProfile {
	return ChildProfile{
		ID:          h.ID,
		Name:        h.Name,
		AgeYears:    h.AgeYears,
		Gender:      h.Gender,
		Interests:   h.Interests,
		Appearance:  h.Appearance,
		Personality: h.Personality,
		Strengths:   h.Strengths,
		Description: h.Description,
	}
}

// AsCompanion converts a stored hero row into a HeroProfile.
func (h *Hero) AsCompanion() HeroProfile {
	return HeroProfile{
		ID:          h.ID,
		Name:        h.Name,
		AgeBand:     h.AgeBand,
		Gender:      h.Gender,
		Interests:   h.Interests,
		Appearance:  h.Appearance,
		Personality: h.Personality,
		Strengths:   h.Strengths,
		Description: h.Description,
	}
}
