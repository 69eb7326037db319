package prompt

import (
	"strings"

	"fable-server/internal/models"
)

// defaultWordsPerMinute is used for languages without a tuned value.
const defaultWordsPerMinute = 150

// wordsPerMinute is the assumed read-aloud pace per language. The composed
// prompt asks for targetLengthMinutes * wordsPerMinute words.
var wordsPerMinute = map[string]int{
	"en": 150,
	"ru": 120,
	"es": 160,
	"de": 130,
	"fr": 150,
}

// WordsPerMinute returns the read-aloud pace for a language.
func WordsPerMinute(language string) int {
	if wpm, ok := wordsPerMinute[language]; ok {
		return wpm
	}
	return defaultWordsPerMinute
}

// moralTranslations maps canonical moral keys to their display form per
// language. Free-text morals pass through untranslated.
var moralTranslations = map[string]map[string]string{
	"kindness": {
		"en": "kindness", "ru": "доброта", "es": "la amabilidad", "de": "Freundlichkeit", "fr": "la gentillesse",
	},
	"honesty": {
		"en": "honesty", "ru": "честность", "es": "la honestidad", "de": "Ehrlichkeit", "fr": "l'honnêteté",
	},
	"courage": {
		"en": "courage", "ru": "смелость", "es": "el coraje", "de": "Mut", "fr": "le courage",
	},
	"friendship": {
		"en": "friendship", "ru": "дружба", "es": "la amistad", "de": "Freundschaft", "fr": "l'amitié",
	},
	"patience": {
		"en": "patience", "ru": "терпение", "es": "la paciencia", "de": "Geduld", "fr": "la patience",
	},
	"sharing": {
		"en": "sharing", "ru": "умение делиться", "es": "compartir", "de": "Teilen", "fr": "le partage",
	},
	"perseverance": {
		"en": "perseverance", "ru": "упорство", "es": "la perseverancia", "de": "Ausdauer", "fr": "la persévérance",
	},
	"gratitude": {
		"en": "gratitude", "ru": "благодарность", "es": "la gratitud", "de": "Dankbarkeit", "fr": "la gratitude",
	},
}

// TranslateMoral returns the display form of a moral in the target
// language. Unknown (free-text) morals are returned as-is.
func TranslateMoral(moral, language string) string {
	key := strings.ToLower(strings.TrimSpace(moral))
	if byLang, ok := moralTranslations[key]; ok {
		if translated, ok := byLang[language]; ok {
			return translated
		}
		if en, ok := byLang["en"]; ok {
			return en
		}
	}
	return moral
}

var genderTranslations = map[models.Gender]map[string]string{
	models.GenderGirl: {
		"en": "girl", "ru": "девочка", "es": "niña", "de": "Mädchen", "fr": "fille",
	},
	models.GenderBoy: {
		"en": "boy", "ru": "мальчик", "es": "niño", "de": "Junge", "fr": "garçon",
	},
	models.GenderNeutral: {
		"en": "child", "ru": "ребёнок", "es": "peque", "de": "Kind", "fr": "enfant",
	},
}

// TranslateGender returns the display form of a gender in the target
// language.
func TranslateGender(g models.Gender, language string) string {
	if byLang, ok := genderTranslations[g]; ok {
		if translated, ok := byLang[language]; ok {
			return translated
		}
		if en, ok := byLang["en"]; ok {
			return en
		}
	}
	return string(g)
}

var yearsOldFormat = map[string]string{
	"en": "%s years old",
	"ru": "%s лет",
	"es": "%s años",
	"de": "%s Jahre alt",
	"fr": "%s ans",
}

var ageBandTranslations = map[string]map[string]string{
	"child": {
		"en": "a child", "ru": "ребёнок", "es": "un niño", "de": "ein Kind", "fr": "un enfant",
	},
	"teen": {
		"en": "a teenager", "ru": "подросток", "es": "un adolescente", "de": "ein Teenager", "fr": "un adolescent",
	},
	"grown-up": {
		"en": "a grown-up", "ru": "взрослый", "es": "un adulto", "de": "ein Erwachsener", "fr": "un adulte",
	},
	"ageless": {
		"en": "ageless", "ru": "без возраста", "es": "sin edad", "de": "alterslos", "fr": "sans âge",
	},
}

// FormatAgeBand returns the display form of a hero age band.
func FormatAgeBand(band, language string) string {
	key := strings.ToLower(strings.TrimSpace(band))
	if byLang, ok := ageBandTranslations[key]; ok {
		if translated, ok := byLang[language]; ok {
			return translated
		}
		if en, ok := byLang["en"]; ok {
			return en
		}
	}
	return band
}

var andWord = map[string]string{
	"en": "and",
	"ru": "и",
	"es": "y",
	"de": "und",
	"fr": "et",
}

// JoinList joins items into a natural-language list ("a, b and c") using
// the language's conjunction.
func JoinList(items []string, language string) string {
	and, ok := andWord[language]
	if !ok {
		and = andWord["en"]
	}
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " " + and + " " + items[len(items)-1]
	}
}
