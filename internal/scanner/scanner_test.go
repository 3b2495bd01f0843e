package scanner

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lacarte/video-player/internal/mediatypes"
	"github.com/Lacarte/video-player/internal/playlist"
)

func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
}

func buildCourseTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root,
		"01 Intro/01 - welcome.mp4",
		"01 Intro/01 - welcome.en.srt",
		"01 Intro/01 - welcome.es.srt",
		"01 Intro/02 - setup.mp4",
		"01 Intro/slides.pdf",
		"02 Wrapper/lesson.mkv",
		"02 Wrapper/subs.vtt",
		"02 Wrapper/notes.txt",
		"03 Docs Only/guide.pdf",
		"04 Empty/random.xyz",
		".hidden/secret.mp4",
		"node_modules/pkg.mp4",
		"trailer.mp4",
	)
	return root
}

func TestScanBuildsCourseTree(t *testing.T) {
	root := buildCourseTree(t)

	course, err := New(root).Scan()
	require.NoError(t, err)

	assert.Equal(t, filepath.Base(root), course.Title)
	assert.Equal(t, root, course.RootPath)
	assert.NotEmpty(t, course.StructureHash)
	assert.Equal(t, 4, course.TotalVideos())

	require.Len(t, course.Videos, 2)
	wrapped := course.Videos[0]
	assert.Equal(t, "02 Wrapper", wrapped.Title)
	assert.Equal(t, 2, wrapped.Order)
	assert.Equal(t, "lesson.mkv", wrapped.File)
	assert.Equal(t, "/media/02%20Wrapper/lesson.mkv", wrapped.Path)
	assert.Equal(t, []playlist.Subtitle{
		{Lang: "en", Label: "subs", Path: "/media/02%20Wrapper/subs.vtt", File: "subs.vtt"},
	}, wrapped.Subtitles)

	assert.Equal(t, "Trailer", course.Videos[1].Title)
	assert.Equal(t, 1, course.Videos[1].Order)

	require.Len(t, course.Documents, 1)
	assert.Equal(t, playlist.Document{
		Type: mediatypes.DocumentText, Title: "notes.txt", File: "notes.txt", Path: "/media/02%20Wrapper/notes.txt",
	}, course.Documents[0])

	require.Len(t, course.Chapters, 2)
	intro := course.Chapters[0]
	assert.Equal(t, "01 Intro", intro.Title)
	assert.Equal(t, 1, intro.Order)
	assert.Equal(t, "01 Intro", intro.Path)
	require.Len(t, intro.Videos, 2)
	assert.Equal(t, "Welcome", intro.Videos[0].Title)
	assert.Equal(t, 1, intro.Videos[0].Order)
	assert.Equal(t, "Setup", intro.Videos[1].Title)
	assert.Equal(t, 2, intro.Videos[1].Order)
	assert.Empty(t, intro.Videos[1].Subtitles)

	subs := intro.Videos[0].Subtitles
	require.Len(t, subs, 2)
	assert.Equal(t, "en", subs[0].Lang)
	assert.Equal(t, "English", subs[0].Label)
	assert.Equal(t, "/media/01%20Intro/01%20-%20welcome.en.srt", subs[0].Path)
	assert.Equal(t, "es", subs[1].Lang)
	assert.Equal(t, "Spanish", subs[1].Label)

	require.Len(t, intro.Documents, 1)
	assert.Equal(t, mediatypes.DocumentPDF, intro.Documents[0].Type)

	docsOnly := course.Chapters[1]
	assert.Equal(t, "03 Docs Only", docsOnly.Title)
	assert.Empty(t, docsOnly.Videos)
	assert.Len(t, docsOnly.Documents, 1)
}

func TestScanNestedChapters(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"Module 2/Part 1/a.mp4",
		"Module 2/Part 1/b.mp4",
		"Module 10/x.mp4",
		"Module 10/y.mp4",
		"Module 1/only/video.mp4",
		"Module 1/extra.mp4",
	)

	course, err := New(root).Scan()
	require.NoError(t, err)

	require.Len(t, course.Chapters, 3)
	assert.Equal(t, "Module 1", course.Chapters[0].Title)
	assert.Equal(t, "Module 2", course.Chapters[1].Title)
	assert.Equal(t, "Module 10", course.Chapters[2].Title)

	m1 := course.Chapters[0]
	require.Len(t, m1.Videos, 2)
	assert.Equal(t, "Extra", m1.Videos[0].Title)
	assert.Equal(t, "only", m1.Videos[1].Title)

	m2 := course.Chapters[1]
	assert.Empty(t, m2.Videos)
	require.Len(t, m2.Children, 1)
	assert.Equal(t, "Module 2/Part 1", m2.Children[0].Path)
	assert.Equal(t, 2, m2.VideoCount())
}

func TestScanSubtitleNormalization(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"café.mp4",
		"café.fr.srt",
		"other.mp4",
	)

	course, err := New(root).Scan()
	require.NoError(t, err)
	require.Len(t, course.Videos, 2)

	cafe := course.Videos[0]
	require.Equal(t, "café.mp4", cafe.File)
	require.Len(t, cafe.Subtitles, 1)
	assert.Equal(t, "fr", cafe.Subtitles[0].Lang)
	assert.Equal(t, "French", cafe.Subtitles[0].Label)
	assert.Empty(t, course.Videos[1].Subtitles)
}

func TestScanMissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing")).Scan()
	assert.Error(t, err)
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name      string
		remainder string
		matched   bool
		subStem   string
		wantLang  string
		wantLabel string
	}{
		{name: "exact stem", remainder: "", matched: true, wantLang: "en", wantLabel: "English"},
		{name: "two letter code", remainder: ".en", matched: true, wantLang: "en", wantLabel: "English"},
		{name: "three letter code", remainder: "_spa", matched: true, wantLang: "es", wantLabel: "Spanish"},
		{name: "full name", remainder: " - German", matched: true, wantLang: "de", wantLabel: "German"},
		{name: "code with region", remainder: ".pt-br", matched: true, wantLang: "pt", wantLabel: "Portuguese"},
		{name: "no substring matches", remainder: ".french", matched: true, wantLang: "fr", wantLabel: "French"},
		{name: "unknown after stem", remainder: ".Forced", matched: true, wantLang: "fo", wantLabel: "Forced"},
		{name: "unknown flexible link", remainder: "Commentary", matched: false, subStem: "Commentary", wantLang: "en", wantLabel: "Commentary"},
		{name: "flexible link with code", remainder: "lesson.ja", matched: false, subStem: "lesson.ja", wantLang: "ja", wantLabel: "Japanese"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang, label := detectLanguage(tt.remainder, tt.matched, tt.subStem)
			assert.Equal(t, tt.wantLang, lang)
			assert.Equal(t, tt.wantLabel, label)
		})
	}
}

func TestCutFoldPrefix(t *testing.T) {
	rest, ok := cutFoldPrefix("Lesson.EN", "lesson")
	assert.True(t, ok)
	assert.Equal(t, ".EN", rest)

	_, ok = cutFoldPrefix("Less", "lesson")
	assert.False(t, ok)
}

func TestFingerprint(t *testing.T) {
	root := buildCourseTree(t)

	first, err := Fingerprint(root)
	require.NoError(t, err)
	second, err := Fingerprint(root)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	writeFiles(t, root, "node_modules/ignored.mp4", ".cache/ignored.mp4", ".dotfile")
	unchanged, err := Fingerprint(root)
	require.NoError(t, err)
	assert.Equal(t, first, unchanged, "hidden and ignored files must not affect the fingerprint")

	later := time.Now().Add(2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(root, "trailer.mp4"), later, later))
	touched, err := Fingerprint(root)
	require.NoError(t, err)
	assert.NotEqual(t, first, touched)

	writeFiles(t, root, "01 Intro/03 - new.mp4")
	added, err := Fingerprint(root)
	require.NoError(t, err)
	assert.NotEqual(t, touched, added)
}

func TestWalkFilesSkipsIgnored(t *testing.T) {
	root := buildCourseTree(t)

	var seen []string
	require.NoError(t, WalkFiles(root, func(rel string, _ os.FileInfo) error {
		seen = append(seen, rel)
		return nil
	}))

	assert.Contains(t, seen, "01 Intro/01 - welcome.mp4")
	assert.Contains(t, seen, "04 Empty/random.xyz")
	assert.NotContains(t, seen, ".hidden/secret.mp4")
	assert.NotContains(t, seen, "node_modules/pkg.mp4")
}

func TestMediaURL(t *testing.T) {
	tests := []struct {
		rel  string
		want string
	}{
		{rel: "a.mp4", want: "/media/a.mp4"},
		{rel: "Ch 1/a#b?.mp4", want: "/media/Ch%201/a%23b%3F.mp4"},
		{rel: "ñ/x+y&z.mp4", want: "/media/%C3%B1/x%2By%26z.mp4"},
		{rel: "dir/100%.mp4", want: "/media/dir/100%25.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			got := MediaURL(tt.rel)
			assert.Equal(t, tt.want, got)

			back, err := RelFromMediaURL(got)
			require.NoError(t, err)
			assert.Equal(t, tt.rel, back)
		})
	}
}

func TestRelFromMediaURLInvalidEscape(t *testing.T) {
	_, err := RelFromMediaURL("/media/bad%zz.mp4")
	assert.Error(t, err)
}

func TestCacheReusesTreeUntilChange(t *testing.T) {
	root := buildCourseTree(t)
	cache := NewCache(New(root), true)

	first, err := cache.Course()
	require.NoError(t, err)
	second, err := cache.Course()
	require.NoError(t, err)
	assert.Equal(t, first.StructureHash, second.StructureHash)
	assert.Equal(t, first.TotalVideos(), second.TotalVideos())

	writeFiles(t, root, "01 Intro/03 - wrap up.mp4")
	third, err := cache.Course()
	require.NoError(t, err)
	assert.NotEqual(t, first.StructureHash, third.StructureHash)
	assert.Equal(t, first.TotalVideos()+1, third.TotalVideos())

	cache.Invalidate()
	fourth, err := cache.Course()
	require.NoError(t, err)
	assert.Equal(t, third.StructureHash, fourth.StructureHash)
}

func symlinkOrSkip(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
}

func TestSymlinkedRoot(t *testing.T) {
	target := t.TempDir()
	writeFiles(t, target, "lesson.mkv")
	link := filepath.Join(t.TempDir(), "course")
	symlinkOrSkip(t, target, link)

	var seen []string
	require.NoError(t, WalkFiles(link, func(rel string, _ os.FileInfo) error {
		seen = append(seen, rel)
		return nil
	}))
	assert.Equal(t, []string{"lesson.mkv"}, seen)

	before, err := Fingerprint(link)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(target, "lesson.mkv"), []byte("longer content"), 0o644))
	after, err := Fingerprint(link)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)

	cache := NewCache(New(link), true)
	first, err := cache.Course()
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalVideos())

	writeFiles(t, target, "bonus.mp4")
	second, err := cache.Course()
	require.NoError(t, err)
	assert.Equal(t, 2, second.TotalVideos())
}

func TestWalkFilesMissingRoot(t *testing.T) {
	err := WalkFiles(filepath.Join(t.TempDir(), "missing"), func(string, os.FileInfo) error { return nil })
	assert.ErrorIs(t, err, os.ErrNotExist)
}
