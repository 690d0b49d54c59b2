package models

import (
	"strings"

	"gorm.io/datatypes"
)

const DefaultLanguage = "hu"

// Languages is the fallback order used when neither the requested nor the
// default language has a value.
var Languages = []string{"hu", "en", "de"}

// LocalizedText is a name or title kept in every supported language.
type LocalizedText struct {
	HU string `json:"hu,omitempty"`
	EN string `json:"en,omitempty"`
	DE string `json:"de,omitempty"`
}

// Text is the column type for LocalizedText.
type Text = datatypes.JSONType[LocalizedText]

func NewText(t LocalizedText) Text {
	return datatypes.NewJSONType(t)
}

func (t LocalizedText) Get(lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "hu":
		return t.HU
	case "en":
		return t.EN
	case "de":
		return t.DE
	}
	return ""
}

// Lookup tries lang, then fallback, then the first non-empty value.
func (t LocalizedText) Lookup(lang, fallback string) string {
	if v := strings.TrimSpace(t.Get(lang)); v != "" {
		return v
	}
	if v := strings.TrimSpace(t.Get(fallback)); v != "" {
		return v
	}
	for _, l := range Languages {
		if v := strings.TrimSpace(t.Get(l)); v != "" {
			return v
		}
	}
	return ""
}

func (t LocalizedText) IsEmpty() bool {
	return t.Lookup(DefaultLanguage, DefaultLanguage) == ""
}
