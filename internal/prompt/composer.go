package prompt

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"fable-server/internal/models"
)

// TemplateRenderError reports a fragment whose template could not be
// parsed or rendered. Composition fails atomically: no partial prompt is
// ever returned alongside one.
type TemplateRenderError struct {
	FragmentID int64
	Err        error
}

func (e *TemplateRenderError) Error() string {
	return fmt.Sprintf("fragment %d: template render failed: %v", e.FragmentID, e.Err)
}

func (e *TemplateRenderError) Unwrap() error { return e.Err }

// Composer assembles a single generation prompt out of ordered,
// language- and story-type-scoped fragments.
type Composer struct {
	logger *zap.Logger
}

// NewComposer creates a Composer.
func NewComposer(logger *zap.Logger) *Composer {
	return &Composer{logger: logger.Named("PromptComposer")}
}

// Compose selects the fragments applicable to the request, renders each
// against the request context and joins the non-empty results with blank
// lines. Fragment order is ascending priority; equal priorities keep their
// input order. Whitespace-only renders are dropped silently, which is how
// conditional sections (continuation block, freeform description)
// disappear when their data is absent.
func (c *Composer) Compose(req *models.GenerationRequest, fragments []models.PromptFragment) (string, error) {
	ctx, err := BuildContext(req)
	if err != nil {
		return "", err
	}

	selected := make([]models.PromptFragment, 0, len(fragments))
	for _, f := range fragments {
		if f.AppliesTo(req.Language, req.StoryType) {
			selected = append(selected, f)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Priority < selected[j].Priority
	})

	funcs := templateFuncs(req.Language)
	sections := make([]string, 0, len(selected))
	for _, f := range selected {
		rendered, err := renderFragment(&f, ctx, funcs)
		if err != nil {
			c.logger.Error("Fragment render failed",
				zap.Int64("fragment_id", f.ID),
				zap.String("language", f.Language),
				zap.Int("priority", f.Priority),
				zap.Error(err))
			return "", &TemplateRenderError{FragmentID: f.ID, Err: err}
		}
		if strings.TrimSpace(rendered) == "" {
			continue
		}
		sections = append(sections, strings.TrimSpace(rendered))
	}

	c.logger.Debug("Prompt composed",
		zap.String("language", req.Language),
		zap.String("story_type", string(req.StoryType)),
		zap.Int("fragments_selected", len(selected)),
		zap.Int("sections_rendered", len(sections)))

	return strings.Join(sections, "\n\n"), nil
}

func renderFragment(f *models.PromptFragment, ctx *Context, funcs template.FuncMap) (string, error) {
	tmpl, err := template.New(fmt.Sprintf("fragment-%d", f.ID)).
		Funcs(funcs).
		Option("missingkey=error").
		Parse(f.Template)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, ctx); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// templateFuncs exposes filter-style transforms to fragment templates,
// bound to the request language.
func templateFuncs(language string) template.FuncMap {
	return template.FuncMap{
		"moral": func(m string) string {
			return TranslateMoral(m, language)
		},
		"gender": func(g string) string {
			return TranslateGender(models.Gender(g), language)
		},
		"ageBand": func(band string) string {
			return FormatAgeBand(band, language)
		},
		"joinList": func(items []string) string {
			return JoinList(items, language)
		},
	}
}
