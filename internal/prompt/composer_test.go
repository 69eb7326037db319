package prompt_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fable-server/internal/models"
	"fable-server/internal/prompt"
)

func soloRequest() *models.GenerationRequest {
	return &models.GenerationRequest{
		UserID:    "user-1",
		Language:  "en",
		StoryType: models.StoryTypeSolo,
		Profile: models.ChildProfile{
			Name:      "Mia",
			AgeYears:  6,
			Gender:    models.GenderGirl,
			Interests: []string{"dinosaurs", "painting"},
		},
		Moral:               "kindness",
		TargetLengthMinutes: 5,
	}
}

func fragment(id int64, priority int, language string, storyType *models.StoryType, template string) models.PromptFragment {
	return models.PromptFragment{
		ID:        id,
		Priority:  priority,
		Language:  language,
		StoryType: storyType,
		Template:  template,
		Active:    true,
	}
}

func storyTypePtr(t models.StoryType) *models.StoryType { return &t }

func TestCompose_FiltersByLanguageAndStoryType(t *testing.T) {
	composer := prompt.NewComposer(zap.NewNop())
	req := soloRequest()

	fragments := []models.PromptFragment{
		fragment(1, 10, "en", nil, "universal english"),
		fragment(2, 20, "en", storyTypePtr(models.StoryTypeSolo), "solo english"),
		fragment(3, 30, "en", storyTypePtr(models.StoryTypeCompanion), "companion english"),
		fragment(4, 40, "ru", nil, "universal russian"),
		{ID: 5, Priority: 50, Language: "en", Template: "inactive english", Active: false},
	}

	result, err := composer.Compose(req, fragments)
	require.NoError(t, err)

	assert.Equal(t, "universal english\n\nsolo english", result)
	assert.NotContains(t, result, "companion english")
	assert.NotContains(t, result, "universal russian")
	assert.NotContains(t, result, "inactive english")
}

func TestCompose_OrdersByPriorityStably(t *testing.T) {
	composer := prompt.NewComposer(zap.NewNop())
	req := soloRequest()

	fragments := []models.PromptFragment{
		fragment(1, 30, "en", nil, "third"),
		fragment(2, 10, "en", nil, "first"),
		fragment(3, 20, "en", nil, "second-a"),
		fragment(4, 20, "en", nil, "second-b"),
	}

	result, err := composer.Compose(req, fragments)
	require.NoError(t, err)
	assert.Equal(t, "first\n\nsecond-a\n\nsecond-b\n\nthird", result)
}

func TestCompose_RendersRequestContext(t *testing.T) {
	composer := prompt.NewComposer(zap.NewNop())
	req := soloRequest()

	fragments := []models.PromptFragment{
		fragment(1, 10, "en", nil,
			"The hero is {{.Child.Name}}, {{.Child.Age}}, who loves {{.Child.Interests}}."),
		fragment(2, 20, "en", nil,
			"Teach the value of {{.Moral}} in about {{.WordCount}} words."),
	}

	result, err := composer.Compose(req, fragments)
	require.NoError(t, err)

	assert.Contains(t, result, "Mia, 6 years old")
	assert.Contains(t, result, "dinosaurs and painting")
	assert.Contains(t, result, "kindness")
	// 5 minutes at 150 words per minute.
	assert.Contains(t, result, "750 words")
}

func TestCompose_DropsEmptyConditionalSections(t *testing.T) {
	composer := prompt.NewComposer(zap.NewNop())

	fragments := []models.PromptFragment{
		fragment(1, 10, "en", nil, "intro"),
		fragment(2, 50, "en", nil, "{{if .ParentSummary}}Previously: {{.ParentSummary}}{{end}}"),
		fragment(3, 60, "en", nil, "outro"),
	}

	standalone := soloRequest()
	result, err := composer.Compose(standalone, fragments)
	require.NoError(t, err)
	assert.Equal(t, "intro\n\noutro", result)

	continuation := soloRequest()
	continuation.ParentStorySummary = "Mia found a map"
	result, err = composer.Compose(continuation, fragments)
	require.NoError(t, err)
	assert.Equal(t, "intro\n\nPreviously: Mia found a map\n\noutro", result)
}

func TestCompose_UnresolvableVariableFailsAtomically(t *testing.T) {
	composer := prompt.NewComposer(zap.NewNop())
	req := soloRequest()

	fragments := []models.PromptFragment{
		fragment(1, 10, "en", nil, "good section"),
		fragment(7, 20, "en", nil, "bad {{.NoSuchField}} section"),
	}

	result, err := composer.Compose(req, fragments)
	assert.Empty(t, result)

	var renderErr *prompt.TemplateRenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, int64(7), renderErr.FragmentID)
}

func TestCompose_TemplateFilters(t *testing.T) {
	composer := prompt.NewComposer(zap.NewNop())

	req := soloRequest()
	req.Language = "ru"

	fragments := []models.PromptFragment{
		fragment(1, 10, "ru", nil, `{{gender "girl"}} / {{ageBand "teen"}} / {{moral "honesty"}}`),
	}

	result, err := composer.Compose(req, fragments)
	require.NoError(t, err)
	assert.Equal(t, "девочка / подросток / честность", result)
}

func TestCompose_CombinedProfileContext(t *testing.T) {
	composer := prompt.NewComposer(zap.NewNop())

	req := &models.GenerationRequest{
		UserID:    "user-1",
		Language:  "en",
		StoryType: models.StoryTypeCombined,
		Profile: models.CombinedProfile{
			Child:            models.ChildProfile{Name: "Mia", AgeYears: 6},
			Hero:             models.HeroProfile{Name: "Rex", AgeBand: "ageless"},
			RelationshipNote: "Rex is Mia's plush dinosaur",
		},
		Moral:               "friendship",
		TargetLengthMinutes: 5,
	}

	fragments := []models.PromptFragment{
		fragment(1, 10, "en", storyTypePtr(models.StoryTypeCombined),
			"{{.Child.Name}} and {{.Companion.Name}} ({{.Companion.Age}}). {{.RelationshipNote}}."),
	}

	result, err := composer.Compose(req, fragments)
	require.NoError(t, err)
	assert.Equal(t, "Mia and Rex (ageless). Rex is Mia's plush dinosaur.", result)
}

func TestCompose_NoApplicableFragments(t *testing.T) {
	composer := prompt.NewComposer(zap.NewNop())
	req := soloRequest()

	result, err := composer.Compose(req, nil)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestCompose_WhitespaceOnlyRenderIsDropped(t *testing.T) {
	composer := prompt.NewComposer(zap.NewNop())
	req := soloRequest()

	fragments := []models.PromptFragment{
		fragment(1, 10, "en", nil, "   \n\t  "),
		fragment(2, 20, "en", nil, "kept"),
	}

	result, err := composer.Compose(req, fragments)
	require.NoError(t, err)
	assert.Equal(t, "kept", result)
	assert.False(t, strings.HasPrefix(result, "\n"))
}
