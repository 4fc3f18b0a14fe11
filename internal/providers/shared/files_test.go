package shared

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
}

func TestCollectFilesByExtSkipsHiddenDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.jsonl"))
	writeFile(t, filepath.Join(root, "2026", "01", "02", "b.JSONL"))
	writeFile(t, filepath.Join(root, "deep", "x", "y", "z", "c.jsonl"))
	writeFile(t, filepath.Join(root, ".git", "d.jsonl"))
	writeFile(t, filepath.Join(root, "notes.txt"))
	writeFile(t, filepath.Join(root, ".hidden.jsonl"))

	files := CollectFilesByExt([]string{root}, map[string]bool{".jsonl": true})

	rel := make([]string, 0, len(files))
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.ElementsMatch(t, []string{
		".hidden.jsonl",
		"2026/01/02/b.JSONL",
		"a.jsonl",
		"deep/x/y/z/c.jsonl",
	}, rel)
}

func TestCollectFilesByExtMissingRoot(t *testing.T) {
	files := CollectFilesByExt([]string{filepath.Join(t.TempDir(), "missing"), ""}, map[string]bool{".jsonl": true})
	assert.Empty(t, files)
}

func TestCollectFilesByExtDeduplicatesOverlappingRoots(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sub", "a.jsonl"))

	files := CollectFilesByExt([]string{root, filepath.Join(root, "sub")}, map[string]bool{".jsonl": true})
	assert.Len(t, files, 1)
}

func TestCollectDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "b", "f.jsonl"))
	writeFile(t, filepath.Join(root, ".cache", "f.jsonl"))

	dirs := CollectDirs(root)
	assert.Len(t, dirs, 3)
	for _, d := range dirs {
		assert.False(t, strings.Contains(d, ".cache"), d)
	}
	assert.Nil(t, CollectDirs(filepath.Join(root, "missing")))
}

func TestParseTimestampValue(t *testing.T) {
	want := time.Date(2026, 2, 10, 12, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		raw  string
	}{
		{"rfc3339", `"2026-02-10T12:30:00Z"`},
		{"rfc3339 millis", `"2026-02-10T12:30:00.000Z"`},
		{"offset", `"2026-02-10T13:30:00+01:00"`},
		{"unix seconds", `1770726600`},
		{"unix millis", `1770726600000`},
		{"unix string", `"1770726600"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestampValue([]byte(tt.raw))
			require.True(t, ok)
			assert.True(t, got.Equal(want), "got %v", got)
		})
	}

	for _, bad := range []string{``, `null`, `"yesterday"`, `{}`, `-5`} {
		_, ok := ParseTimestampValue([]byte(bad))
		assert.False(t, ok, bad)
	}
}

func TestParseTimestampStringZoneLessIsLocal(t *testing.T) {
	prev := time.Local
	time.Local = time.FixedZone("UTC+9", 9*60*60)
	t.Cleanup(func() { time.Local = prev })

	got, err := ParseTimestampString("2026-02-10 08:30:00")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 2, 9, 23, 30, 0, 0, time.UTC)), "got %v", got)
	assert.Equal(t, "2026-02-10", got.In(time.Local).Format("2006-01-02"))
}

func TestSplitPathListAndTrailingDir(t *testing.T) {
	got := SplitPathList(" /a , ,/b/projects,")
	assert.Equal(t, []string{"/a", "/b/projects"}, got)

	assert.Equal(t, filepath.Join("/a", "projects"), WithTrailingDir("/a", "projects"))
	assert.Equal(t, filepath.Join("/b", "projects"), WithTrailingDir("/b/projects/", "projects"))
}

func TestScanLinesSkipsBlank(t *testing.T) {
	var lines []string
	err := ScanLines(strings.NewReader("a\n\nb\r\nc"), func(line []byte) {
		lines = append(lines, string(line))
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestScanLinesSkipsOversizedLine(t *testing.T) {
	huge := strings.Repeat("x", MaxLineSize+1)
	input := "first\n" + huge + "\nsecond\n" + huge + "\r\nthird"

	var lines []string
	err := ScanLines(strings.NewReader(input), func(line []byte) {
		lines = append(lines, string(line))
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, lines)
}

func TestScanLinesKeepsLineAtLimit(t *testing.T) {
	atLimit := strings.Repeat("y", MaxLineSize)

	var got []int
	err := ScanLines(strings.NewReader(atLimit+"\r\nz\n"), func(line []byte) {
		got = append(got, len(line))
	})
	require.NoError(t, err)
	assert.Equal(t, []int{MaxLineSize, 1}, got)
}
