package handlers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Lacarte/video-player/internal/conversion"
	"github.com/Lacarte/video-player/internal/playlist"
)

// =============================================================================
// Mocks
// =============================================================================

type mockCourse struct {
	course playlist.Course
	err    error
}

func (m *mockCourse) Course() (playlist.Course, error) {
	return m.course, m.err
}

type mockProber struct {
	mu       sync.Mutex
	duration int
	err      error
	paths    []string
}

func (m *mockProber) Duration(_ context.Context, path string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths = append(m.paths, path)
	return m.duration, m.err
}

func (m *mockProber) calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.paths...)
}

type mockConversion struct {
	snapshot conversion.Snapshot
	total    int
	err      error
}

func (m *mockConversion) Snapshot() conversion.Snapshot {
	return m.snapshot
}

func (m *mockConversion) Confirm() (int, error) {
	return m.total, m.err
}

var errProbe = errors.New("ffprobe exited with status 1")

// =============================================================================
// Fixtures
// =============================================================================

type fixture struct {
	course     *mockCourse
	prober     *mockProber
	conversion *mockConversion
	root       string
	outside    string
	web        string
	handlers   *Handlers
}

// newFixture lays out a course folder next to a file that must never be
// reachable, plus a web folder with the player assets.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	base := t.TempDir()
	root := filepath.Join(base, "course")
	web := filepath.Join(base, "web")

	writeFile(t, filepath.Join(root, "01 Intro", "01 Welcome.mp4"), "0123456789abcdefghij")
	writeFile(t, filepath.Join(root, "01 Intro", "Notes é #1.txt"), "notes")
	writeFile(t, filepath.Join(base, "secret.txt"), "top secret")
	writeFile(t, filepath.Join(web, "index.html"), "<html>player</html>")
	writeFile(t, filepath.Join(web, "css", "style.css"), "body{}")
	writeFile(t, filepath.Join(web, "js", "app.js"), "console.log(1)")

	f := &fixture{
		course: &mockCourse{course: playlist.Course{
			Title:    "course",
			RootPath: root,
			Videos:   []playlist.Video{{Title: "Welcome", File: "01 Welcome.mp4", Path: "/media/01%20Intro/01%20Welcome.mp4", Order: 1}},
		}},
		prober:     &mockProber{duration: 125},
		conversion: &mockConversion{snapshot: conversion.Snapshot{Phase: conversion.PhaseWaiting, Total: 2}},
		root:       root,
		outside:    filepath.Join(base, "secret.txt"),
		web:        web,
	}
	f.handlers = New(f.course, f.prober, f.conversion, Config{
		CoursePath: root,
		WebDir:     web,
		Port:       8002,
	})
	return f
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
