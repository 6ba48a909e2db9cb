// Package i18n renders bot replies and notifications from the embedded
// active.<lang>.toml bundles.
package i18n

import (
	"embed"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"prostavabot/internal/pkg/logger"
	"prostavabot/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

var localeFiles = []string{"active.en.toml", "active.ru.toml"}

var _ output.T = (*Translator)(nil)

// Translator holds one localizer per bundled language, each falling back to
// the default language.
type Translator struct {
	fallback   *i18n.Localizer
	localizers map[string]*i18n.Localizer
	languages  []string
}

// NewTranslator loads the bundles. An unparsable defaultLocale means English.
func NewTranslator(defaultLocale string) *Translator {
	def, err := language.Parse(defaultLocale)
	if err != nil {
		logger.Warn("i18n: bad default locale, using en", zap.String("locale", defaultLocale))
		def = language.English
	}
	bundle := i18n.NewBundle(def)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, file := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			logger.Warn("i18n: bundle not loaded", zap.String("file", file), zap.Error(err))
		}
	}

	t := &Translator{
		fallback:   i18n.NewLocalizer(bundle, def.String()),
		localizers: make(map[string]*i18n.Localizer),
		languages:  []string{def.String()},
	}
	for _, tag := range bundle.LanguageTags() {
		lang := tag.String()
		t.localizers[lang] = i18n.NewLocalizer(bundle, lang, def.String())
		if lang != def.String() {
			t.languages = append(t.languages, lang)
		}
	}
	return t
}

// T renders key in locale. Locales without a bundle use the default one.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}
	localizer, ok := t.localizers[locale]
	if !ok {
		localizer = t.fallback
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
	if err != nil {
		logger.Debug("i18n: message missing", zap.String("key", key), zap.String("locale", locale), zap.Error(err))
		return key
	}
	return msg
}

func (t *Translator) Languages() []string {
	out := make([]string, len(t.languages))
	copy(out, t.languages)
	return out
}
