package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prostavabot/internal/domain/entities"
)

func TestTranslator_T(t *testing.T) {
	tr := NewTranslator("en")

	t.Run("renders template data", func(t *testing.T) {
		got := tr.T("en", "notify.event_finalized", map[string]any{"Mention": "<@1>"})
		assert.Contains(t, got, "<@1>")
	})

	t.Run("uses the requested locale", func(t *testing.T) {
		assert.Equal(t, "Запись не найдена.", tr.T("ru", "error.record_not_found", nil))
	})

	t.Run("falls back to the default locale", func(t *testing.T) {
		assert.Equal(t, "Record not found.", tr.T("de", "error.record_not_found", nil))
	})

	t.Run("unknown key returns the key", func(t *testing.T) {
		assert.Equal(t, "no.such.key", tr.T("en", "no.such.key", nil))
	})

	t.Run("empty key", func(t *testing.T) {
		assert.Empty(t, tr.T("en", "", nil))
	})
}

func TestTranslator_Languages(t *testing.T) {
	assert.Equal(t, []string{"en", "ru"}, NewTranslator("en").Languages())
	assert.Equal(t, []string{"ru", "en"}, NewTranslator("ru").Languages())
	assert.Equal(t, "en", NewTranslator("not a locale").Languages()[0])
}

func TestTranslator_BundlesCoverEveryCommand(t *testing.T) {
	tr := NewTranslator("en")
	require.ElementsMatch(t, []string{"en", "ru"}, tr.Languages())

	codes := []entities.CommandCode{
		entities.CommandEventFinalized,
		entities.CommandRequestFinalized,
		entities.CommandEventRateReminder,
		entities.CommandRequestRateReminder,
	}
	for _, lang := range []string{"en", "ru"} {
		for _, code := range codes {
			key := "notify." + string(code)
			assert.NotEqual(t, key, tr.T(lang, key, map[string]any{"Mention": "x"}), "%s missing in %s", key, lang)
		}
	}
}
