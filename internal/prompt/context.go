package prompt

import (
	"fmt"
	"strconv"

	"fable-server/internal/models"
)

// CharacterView exposes one character's fields to fragment templates, with
// all display values already translated into the target language.
type CharacterView struct {
	Name        string
	Age         string // formatted age ("6 years old") or age band
	Gender      string
	Interests   string // natural-language list
	Appearance  string
	Personality string
	Strengths   string
	Description string // freeform note, appended by the character block
}

// Context is the object fragment templates render against. Conditional
// sections key off optional fields being empty: {{if .Companion}},
// {{if .ParentSummary}} and so on.
type Context struct {
	Language  string
	StoryType models.StoryType

	// Child is set for solo and combined stories, Companion for companion
	// and combined ones. Combined stories carry both plus the note.
	Child            *CharacterView
	Companion        *CharacterView
	RelationshipNote string

	Moral         string // translated into the target language
	WordCount     int    // TargetLengthMinutes * words-per-minute
	TargetMinutes int
	ParentSummary string
}

// BuildContext translates a generation request into the template context.
// The profile variants are matched exhaustively; an unknown variant is a
// programming error and is reported as such.
func BuildContext(req *models.GenerationRequest) (*Context, error) {
	ctx := &Context{
		Language:      req.Language,
		StoryType:     req.StoryType,
		Moral:         TranslateMoral(req.Moral, req.Language),
		WordCount:     req.TargetLengthMinutes * WordsPerMinute(req.Language),
		TargetMinutes: req.TargetLengthMinutes,
		ParentSummary: req.ParentStorySummary,
	}

	switch p := req.Profile.(type) {
	case models.ChildProfile:
		ctx.Child = childView(p, req.Language)
	case models.HeroProfile:
		ctx.Companion = heroView(p, req.Language)
	case models.CombinedProfile:
		ctx.Child = childView(p.Child, req.Language)
		ctx.Companion = heroView(p.Hero, req.Language)
		ctx.RelationshipNote = p.RelationshipNote
	default:
		return nil, fmt.Errorf("unknown character profile variant %T", req.Profile)
	}

	return ctx, nil
}

func childView(p models.ChildProfile, language string) *CharacterView {
	return &CharacterView{
		Name:        p.Name,
		Age:         formatYears(p.AgeYears, language),
		Gender:      TranslateGender(p.Gender, language),
		Interests:   JoinList(p.Interests, language),
		Appearance:  p.Appearance,
		Personality: p.Personality,
		Strengths:   p.Strengths,
		Description: p.Description,
	}
}

func heroView(p models.HeroProfile, language string) *CharacterView {
	return &CharacterView{
		Name:        p.Name,
		Age:         FormatAgeBand(p.AgeBand, language),
		Gender:      TranslateGender(p.Gender, language),
		Interests:   JoinList(p.Interests, language),
		Appearance:  p.Appearance,
		Personality: p.Personality,
		Strengths:   p.Strengths,
		Description: p.Description,
	}
}

func formatYears(years int, language string) string {
	format, ok := yearsOldFormat[language]
	if !ok {
		format = yearsOldFormat["en"]
	}
	return fmt.Sprintf(format, strconv.Itoa(years))
}
