package scanner

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/unicode/norm"

	"github.com/Lacarte/video-player/internal/playlist"
)

// subtitleLanguages maps the tokens recognized in subtitle names.
var subtitleLanguages = map[string]language.Tag{
	"en": language.English, "eng": language.English, "english": language.English,
	"es": language.Spanish, "spa": language.Spanish, "spanish": language.Spanish,
	"fr": language.French, "fra": language.French, "french": language.French,
	"de": language.German, "deu": language.German, "german": language.German,
	"it": language.Italian, "ita": language.Italian, "italian": language.Italian,
	"pt": language.Portuguese, "por": language.Portuguese, "portuguese": language.Portuguese,
	"ru": language.Russian, "rus": language.Russian, "russian": language.Russian,
	"zh": language.Chinese, "chi": language.Chinese, "chinese": language.Chinese,
	"ja": language.Japanese, "jpn": language.Japanese, "japanese": language.Japanese,
	"ko": language.Korean, "kor": language.Korean, "korean": language.Korean,
}

const (
	defaultSubtitleLang  = "en"
	defaultSubtitleLabel = "English"
)

// stem is the file name without its extension.
func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// foldName normalizes a name for stem comparison so that NFC and NFD
// spellings of the same accented name match.
func foldName(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// linkSubtitles returns the subtitles in subs that belong to video. A
// subtitle belongs when its stem starts with the video stem, or when
// onlyVideo is set because the folder holds a single video.
func linkSubtitles(video fileEntry, subs []fileEntry, onlyVideo bool) []playlist.Subtitle {
	videoStem := foldName(stem(video.name))
	var linked []playlist.Subtitle

	for _, sub := range subs {
		subStem := norm.NFC.String(stem(sub.name))
		rest, matched := cutFoldPrefix(subStem, videoStem)
		if !matched && !onlyVideo {
			continue
		}

		remainder := subStem
		if matched {
			remainder = rest
		}

		lang, label := detectLanguage(remainder, matched, subStem)
		linked = append(linked, playlist.Subtitle{
			Lang:  lang,
			Label: label,
			Path:  MediaURL(sub.rel),
			File:  sub.name,
		})
	}
	return linked
}

// cutFoldPrefix removes a lowercase prefix from s case-insensitively and
// returns the rest of s in its original case.
func cutFoldPrefix(s, prefix string) (string, bool) {
	for prefix != "" {
		if s == "" {
			return "", false
		}
		r, n := utf8.DecodeRuneInString(s)
		lower := string(unicode.ToLower(r))
		if !strings.HasPrefix(prefix, lower) {
			return "", false
		}
		prefix = prefix[len(lower):]
		s = s[n:]
	}
	return s, true
}

// detectLanguage picks a language from the part of a subtitle stem that
// follows the video stem.
func detectLanguage(remainder string, matched bool, subStem string) (string, string) {
	remainder = strings.TrimLeft(remainder, "._- ")
	if remainder == "" {
		return defaultSubtitleLang, defaultSubtitleLabel
	}

	tokens := strings.FieldsFunc(strings.ToLower(remainder), func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == ' '
	})
	for _, tok := range tokens {
		if tag, ok := subtitleLanguages[tok]; ok {
			return tag.String(), display.English.Tags().Name(tag)
		}
	}

	if !matched {
		return defaultSubtitleLang, subStem
	}

	lang := strings.ToLower(remainder)
	if r := []rune(lang); len(r) > 2 {
		lang = string(r[:2])
	}
	return lang, remainder
}
