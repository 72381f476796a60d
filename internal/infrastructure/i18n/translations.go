package i18n

import (
	"embed"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"sportmeet/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

var _ output.T = (*Translator)(nil)

// Supported lists the languages the app is translated into, default first.
var Supported = []language.Tag{language.Czech, language.English}

// Translator is a thin wrapper around go-i18n's Bundle/Localizer.
type Translator struct {
	bundle          *i18n.Bundle
	matcher         language.Matcher
	defaultLanguage language.Tag
	log             zerolog.Logger
}

// NewTranslator loads the embedded active.*.toml files. Unknown default
// locales fall back to Czech.
func NewTranslator(defaultLocale string, log zerolog.Logger) *Translator {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.Czech
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range []string{"active.cs.toml", "active.en.toml"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Error().Err(err).Str("file", file).Msg("i18n: load messages")
		}
	}

	return &Translator{
		bundle:          bundle,
		matcher:         language.NewMatcher(Supported),
		defaultLanguage: tag,
		log:             log,
	}
}

// Match picks the supported language best fitting an Accept-Language header
// or a stored user language, returning its base code ("cs" or "en").
func (t *Translator) Match(preferences ...string) string {
	_, idx := language.MatchStrings(t.matcher, preferences...)
	base, _ := Supported[idx].Base()
	return base.String()
}

// T renders the message identified by key for the given locale.
// If the key/locale is not found, it falls back to the default locale,
// then finally to the key itself.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}

	languages := []string{}
	if locale != "" {
		languages = append(languages, locale)
	}
	languages = append(languages, t.defaultLanguage.String())

	localizer := i18n.NewLocalizer(t.bundle, languages...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		t.log.Debug().Err(err).Str("key", key).Strs("locales", languages).Msg("i18n: localize failed")
		return key
	}
	return msg
}
