package prompt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fable-server/internal/models"
	"fable-server/internal/prompt"
)

func TestWordsPerMinute(t *testing.T) {
	assert.Equal(t, 150, prompt.WordsPerMinute("en"))
	assert.Equal(t, 120, prompt.WordsPerMinute("ru"))
	// Unknown languages fall back to the default pace.
	assert.Equal(t, 150, prompt.WordsPerMinute("xx"))
}

func TestTranslateMoral(t *testing.T) {
	assert.Equal(t, "доброта", prompt.TranslateMoral("kindness", "ru"))
	assert.Equal(t, "kindness", prompt.TranslateMoral("Kindness", "en"))
	// Free-text morals pass through untouched.
	assert.Equal(t, "always brush your teeth", prompt.TranslateMoral("always brush your teeth", "ru"))
}

func TestTranslateGender(t *testing.T) {
	assert.Equal(t, "Mädchen", prompt.TranslateGender(models.GenderGirl, "de"))
	// Unknown language falls back to English.
	assert.Equal(t, "boy", prompt.TranslateGender(models.GenderBoy, "xx"))
}

func TestJoinList(t *testing.T) {
	assert.Equal(t, "", prompt.JoinList(nil, "en"))
	assert.Equal(t, "cats", prompt.JoinList([]string{"cats"}, "en"))
	assert.Equal(t, "cats and dogs", prompt.JoinList([]string{"cats", "dogs"}, "en"))
	assert.Equal(t, "a, b und c", prompt.JoinList([]string{"a", "b", "c"}, "de"))
}
