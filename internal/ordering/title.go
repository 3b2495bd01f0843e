package ordering

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var extensionPattern = regexp.MustCompile(`\.[^.]+$`)

// Only one of these prefixes is removed, the first that matches.
var titlePrefixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+[\s_\-\.\)\]]+`),
	regexp.MustCompile(`^\[\d+\][\s_\-\.]*`),
	regexp.MustCompile(`^\(\d+\)[\s_\-\.]*`),
}

// CleanTitle turns a file or folder name into a display title: the
// extension and one leading number marker are dropped, separators are
// trimmed and the first letter is upper-cased. A name that cleans down to
// nothing is returned unchanged.
func CleanTitle(name string) string {
	title := extensionPattern.ReplaceAllString(name, "")

	for _, re := range titlePrefixPatterns {
		if loc := re.FindStringIndex(title); loc != nil {
			title = title[loc[1]:]
			break
		}
	}

	title = strings.Trim(title, " _-.")
	if title == "" {
		return name
	}

	first, size := utf8.DecodeRuneInString(title)
	if unicode.IsLower(first) {
		title = string(unicode.ToUpper(first)) + title[size:]
	}
	return title
}
