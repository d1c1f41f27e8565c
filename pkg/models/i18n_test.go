package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talesforge/talesforge/pkg/errcodes"
)

func TestI18nValueAndScan(t *testing.T) {
	t.Parallel()

	v, err := I18n(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = I18n{"de": "Kapitel"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"de":"Kapitel"}`, v)

	var m I18n
	require.NoError(t, m.Scan(`{"fr":"Chapitre"}`))
	assert.Equal(t, I18n{"fr": "Chapitre"}, m)

	require.NoError(t, m.Scan(nil))
	assert.Nil(t, m)

	assert.Error(t, m.Scan(42))
}

func TestI18nSet(t *testing.T) {
	t.Parallel()

	var m I18n
	m.Set("de", "Hallo")
	assert.Equal(t, I18n{"de": "Hallo"}, m)

	m.Set("de", "")
	assert.Empty(t, m)
}

func TestTranslationsValidate(t *testing.T) {
	t.Parallel()

	ok := Translations{"de": {"title": "Titel"}, "pt-BR": {"content": "Conteúdo"}}
	assert.NoError(t, ok.Validate("title", "content"))

	bad := Translations{"de": {"slug": "x"}, "Not A Locale": {"title": "x"}}
	err := bad.Validate("title")
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "validation_error", codeErr.Code)
	require.Len(t, codeErr.Issues, 2)
	assert.Equal(t, "translations.Not A Locale", codeErr.Issues[0].Path)
	assert.Equal(t, "translations.de.slug", codeErr.Issues[1].Path)
}

func TestTranslationsApply(t *testing.T) {
	t.Parallel()

	chapter := &Chapter{TitleI18n: I18n{"fr": "Aube"}}
	columns := Translations{
		"de": {"title": "Morgengrauen", "excerpt": "Kurz"},
	}.Apply(map[string]*I18n{
		"title":   &chapter.TitleI18n,
		"excerpt": &chapter.ExcerptI18n,
		"content": &chapter.ContentI18n,
	})

	assert.Equal(t, []string{"excerpt_i18n", "title_i18n"}, columns)
	assert.Equal(t, I18n{"fr": "Aube", "de": "Morgengrauen"}, chapter.TitleI18n)
	assert.Equal(t, I18n{"de": "Kurz"}, chapter.ExcerptI18n)
	assert.Nil(t, chapter.ContentI18n)
}
