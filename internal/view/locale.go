package view

import "golang.org/x/text/language"

var localeTags = []language.Tag{
	language.English,    // default
	language.Indonesian, // dd/mm ordering
}

var supportedLocales = language.NewMatcher(localeTags)

var shortDateLayouts = map[language.Tag]string{
	language.English:    "Jan 2, 2006",
	language.Indonesian: "2 Jan 2006",
}

// shortDateLayout maps a BCP 47 locale string to a short date layout,
// defaulting to English for anything unrecognized.
func shortDateLayout(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return shortDateLayouts[language.English]
	}
	_, index, _ := supportedLocales.Match(tag)
	if layout, ok := shortDateLayouts[localeTags[index]]; ok {
		return layout
	}
	return shortDateLayouts[language.English]
}
