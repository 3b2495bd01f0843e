package scanner

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/Lacarte/video-player/internal/logging"
	"github.com/Lacarte/video-player/internal/mediatypes"
	"github.com/Lacarte/video-player/internal/metrics"
	"github.com/Lacarte/video-player/internal/ordering"
	"github.com/Lacarte/video-player/internal/playlist"
)

// Scanner builds playlist trees for one course root.
type Scanner struct {
	root string
}

// New returns a scanner for root. Root should already be absolute and
// symlink-resolved so that it matches the confinement checks of the HTTP
// layer.
func New(root string) *Scanner {
	return &Scanner{root: root}
}

// Root returns the course root directory.
func (s *Scanner) Root() string {
	return s.root
}

// fileEntry is a directory entry relative to the course root.
type fileEntry struct {
	name    string
	rel     string
	created time.Time
}

func entryName(e fileEntry) string { return e.name }

func entryCreated(e fileEntry) time.Time { return e.created }

func (e fileEntry) ext() string { return strings.ToLower(filepath.Ext(e.name)) }

func (s *Scanner) abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

func joinRel(dir, name string) string {
	if dir == "" {
		return name
	}
	return path.Join(dir, name)
}

// folderContents is what one folder contributes to its parent.
type folderContents struct {
	videos    []playlist.Video
	documents []playlist.Document
	chapters  []playlist.Chapter
}

// sortableVideo carries the name a video is ordered by: its file name, or
// the wrapper folder name once promoted.
type sortableVideo struct {
	video    playlist.Video
	sortName string
}

// Scan fingerprints the root and builds a fresh course tree.
func (s *Scanner) Scan() (playlist.Course, error) {
	hash, err := Fingerprint(s.root)
	if err != nil {
		return playlist.Course{}, err
	}
	return s.build(hash), nil
}

func (s *Scanner) build(hash string) playlist.Course {
	start := time.Now()
	contents := s.scanFolder("")

	course := playlist.Course{
		Title:         filepath.Base(s.root),
		RootPath:      s.root,
		Chapters:      contents.chapters,
		Documents:     contents.documents,
		Videos:        contents.videos,
		StructureHash: hash,
	}

	elapsed := time.Since(start)
	metrics.ScanDuration.Observe(elapsed.Seconds())
	metrics.ScanVideosFound.Set(float64(course.TotalVideos()))
	logging.Debug("Scanned %s in %v: %d chapters, %d videos", s.root, elapsed, len(course.Chapters), course.TotalVideos())

	return course
}

// scanFolder builds the contents of the folder at rel. An unreadable
// folder contributes nothing.
func (s *Scanner) scanFolder(rel string) folderContents {
	entries, err := os.ReadDir(s.abs(rel))
	if err != nil {
		logging.Debug("Skipping unreadable folder %q: %v", rel, err)
		return folderContents{}
	}

	var files, dirs []fileEntry
	for _, e := range entries {
		name := e.Name()
		if IsHidden(name) {
			continue
		}

		entry := fileEntry{name: name, rel: joinRel(rel, name)}
		if info, err := e.Info(); err == nil {
			entry.created = createdTime(info)
		}

		switch {
		case e.IsDir():
			if !IsIgnoredDir(name) {
				dirs = append(dirs, entry)
			}
		case e.Type().IsRegular():
			files = append(files, entry)
		}
	}

	ordering.SortByCreated(files, entryName, entryCreated)
	ordering.SortByCreated(dirs, entryName, entryCreated)

	var videoFiles, subtitleFiles []fileEntry
	var out folderContents
	for _, f := range files {
		ext := f.ext()
		switch mediatypes.GetFileType(ext) {
		case mediatypes.FileTypeVideo:
			videoFiles = append(videoFiles, f)
		case mediatypes.FileTypeSubtitle:
			subtitleFiles = append(subtitleFiles, f)
		case mediatypes.FileTypeImage, mediatypes.FileTypeDocument:
			out.documents = append(out.documents, playlist.Document{
				Type:  mediatypes.GetDocumentType(ext),
				Title: f.name,
				File:  f.name,
				Path:  MediaURL(f.rel),
			})
		}
	}

	videos := make([]sortableVideo, 0, len(videoFiles))
	for i, f := range videoFiles {
		videos = append(videos, sortableVideo{
			sortName: f.name,
			video: playlist.Video{
				Title:     ordering.CleanTitle(f.name),
				File:      f.name,
				Path:      MediaURL(f.rel),
				Order:     i + 1,
				Subtitles: linkSubtitles(f, subtitleFiles, len(videoFiles) == 1),
			},
		})
	}

	for _, d := range dirs {
		child := s.scanFolder(d.rel)
		order := ordering.SortKey(d.name).Order

		switch {
		case len(child.videos) == 1 && len(child.chapters) == 0:
			v := child.videos[0]
			v.Title = d.name
			v.Order = order
			videos = append(videos, sortableVideo{video: v, sortName: d.name})
			out.documents = append(out.documents, child.documents...)

		case len(child.videos) > 0 || len(child.documents) > 0 || len(child.chapters) > 0:
			out.chapters = append(out.chapters, playlist.Chapter{
				Title:     d.name,
				Order:     order,
				Path:      d.rel,
				Videos:    child.videos,
				Documents: child.documents,
				Children:  child.chapters,
			})
		}
	}

	ordering.Sort(videos, func(v sortableVideo) string { return v.sortName })
	ordering.Sort(out.chapters, func(c playlist.Chapter) string { return c.Title })

	out.videos = make([]playlist.Video, len(videos))
	for i, v := range videos {
		out.videos[i] = v.video
	}
	return out
}
