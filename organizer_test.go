package organizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/mydehq/organizer/internal/journal"
	"github.com/mydehq/organizer/internal/types"
	"github.com/spf13/afero"
)

type memRecorder struct {
	records  []types.MoveRecord
	cleanups []string
	failures []string
}

func (m *memRecorder) Record(rec types.MoveRecord) { m.records = append(m.records, rec) }

func (m *memRecorder) Cleanup(dir string, err error) {
	if err != nil {
		m.failures = append(m.failures, dir)
		return
	}
	m.cleanups = append(m.cleanups, dir)
}

func (m *memRecorder) count(a types.Action) int {
	n := 0
	for _, r := range m.records {
		if r.Action == a {
			n++
		}
	}
	return n
}

func writeFiles(t *testing.T, fs afero.Fs, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func assertFile(t *testing.T, fs afero.Fs, path, want string) {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Errorf("expected %s: %v", path, err)
		return
	}
	if string(data) != want {
		t.Errorf("%s = %q, want %q", path, data, want)
	}
}

func assertGone(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	if ok, _ := afero.Exists(fs, path); ok {
		t.Errorf("%s should not exist", path)
	}
}

func TestOrganize_SixFileScenario(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(t.TempDir(), journal.DefaultFileName)
	fs := afero.NewOsFs()

	files := map[string]string{
		"photo.jpg":   "jpg",
		"video.mp4":   "mp4",
		"notes.txt":   "txt",
		"archive.zip": "zip",
		"script.py":   "py",
		"mystery.xyz": "xyz",
	}
	writeFiles(t, fs, dir, files)

	j, err := journal.Open(journal.Options{Path: logPath, Level: log.InfoLevel})
	if err != nil {
		t.Fatalf("journal.Open() error = %v", err)
	}
	summary, err := Organize(context.Background(), dir, WithRecorder(j))
	if cerr := j.Close(); cerr != nil {
		t.Fatalf("Close() error = %v", cerr)
	}
	if err != nil {
		t.Fatalf("Organize() error = %v", err)
	}

	want := map[string]string{
		"Images/photo.jpg":     "jpg",
		"Videos/video.mp4":     "mp4",
		"Documents/notes.txt":  "txt",
		"Archives/archive.zip": "zip",
		"Code/script.py":       "py",
		"Others/mystery.xyz":   "xyz",
	}
	for rel, content := range want {
		assertFile(t, fs, filepath.Join(dir, rel), content)
	}
	for name := range files {
		assertGone(t, fs, filepath.Join(dir, name))
	}

	if summary.Moved != 6 || summary.Failed != 0 || summary.Total != 6 {
		t.Errorf("summary = %+v", summary)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	moved := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.Contains(line, " moved ") {
			moved++
		}
	}
	if moved != 6 {
		t.Errorf("log has %d moved lines, want 6:\n%s", moved, data)
	}
}

func TestOrganize_Collision(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/t", map[string]string{
		"report.pdf":           "new",
		"Documents/report.pdf": "old",
	})

	rec := &memRecorder{}
	summary, err := Organize(context.Background(), "/t", WithFs(fs), WithRecorder(rec))
	if err != nil {
		t.Fatalf("Organize() error = %v", err)
	}

	assertFile(t, fs, "/t/Documents/report.pdf", "old")
	assertFile(t, fs, "/t/Documents/report_copy_1.pdf", "new")
	assertGone(t, fs, "/t/report.pdf")
	if summary.Moved != 1 {
		t.Errorf("Moved = %d, want 1", summary.Moved)
	}
	if len(rec.records) != 1 || !rec.records[0].Renamed() {
		t.Errorf("records = %+v, want one renamed move", rec.records)
	}
}

func TestOrganize_Idempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/t", map[string]string{
		"a.png":  "a",
		"b.mp3":  "b",
		"c.html": "c",
	})

	if _, err := Organize(context.Background(), "/t", WithFs(fs)); err != nil {
		t.Fatalf("first run: %v", err)
	}

	rec := &memRecorder{}
	summary, err := Organize(context.Background(), "/t", WithFs(fs), WithRecorder(rec))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.Total != 0 || len(rec.records) != 0 {
		t.Errorf("second run touched files: %+v", rec.records)
	}
	assertFile(t, fs, "/t/Images/a.png", "a")
	assertFile(t, fs, "/t/Audio/b.mp3", "b")
	assertFile(t, fs, "/t/Code/c.html", "c")
}

func TestOrganize_RemovesEmptyDirs(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/t", map[string]string{
		"keep/inner/file.bin": "x",
		"song.flac":           "f",
	})
	for _, d := range []string{"/t/old/deep/deeper", "/t/empty", "/t/keep/hollow"} {
		if err := fs.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	rec := &memRecorder{}
	summary, err := Organize(context.Background(), "/t", WithFs(fs), WithRecorder(rec))
	if err != nil {
		t.Fatalf("Organize() error = %v", err)
	}

	for _, d := range []string{"/t/old", "/t/empty", "/t/keep/hollow"} {
		assertGone(t, fs, d)
	}
	assertFile(t, fs, "/t/keep/inner/file.bin", "x")
	assertFile(t, fs, "/t/Audio/song.flac", "f")

	got := append([]string(nil), summary.RemovedDirs...)
	sort.Strings(got)
	want := []string{"/t/empty", "/t/keep/hollow", "/t/old", "/t/old/deep", "/t/old/deep/deeper"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("RemovedDirs = %v, want %v", got, want)
	}
	if len(rec.cleanups) != len(want) {
		t.Errorf("recorded %d cleanups, want %d", len(rec.cleanups), len(want))
	}
	if ok, _ := afero.DirExists(fs, "/t"); !ok {
		t.Error("target directory itself was removed")
	}
}

func TestOrganize_AccountsForEveryFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	names := []string{"a.jpg", "b.JPG", "c", ".bashrc", "d.tar.gz", "e.docx", "f.weird"}
	files := make(map[string]string, len(names))
	for _, n := range names {
		files[n] = n
	}
	writeFiles(t, fs, "/t", files)

	summary, err := Organize(context.Background(), "/t", WithFs(fs))
	if err != nil {
		t.Fatalf("Organize() error = %v", err)
	}
	if summary.Total != len(names) || summary.Moved+summary.Failed+summary.Skipped != len(names) {
		t.Errorf("summary = %+v, want %d accounted", summary, len(names))
	}

	for _, n := range names {
		found := 0
		for _, c := range types.Categories {
			if ok, _ := afero.Exists(fs, filepath.Join("/t", string(c), n)); ok {
				found++
			}
		}
		if found != 1 {
			t.Errorf("%s found in %d category folders, want 1", n, found)
		}
	}
	assertFile(t, fs, "/t/Images/b.JPG", "b.JPG")
	assertFile(t, fs, "/t/Others/c", "c")
	assertFile(t, fs, "/t/Others/.bashrc", ".bashrc")
	assertFile(t, fs, "/t/Archives/d.tar.gz", "d.tar.gz")
}

func TestOrganize_FailureContinues(t *testing.T) {
	base := afero.NewMemMapFs()
	writeFiles(t, base, "/t", map[string]string{"a.txt": "a", "b.txt": "b"})

	fs := &failingRenameFs{Fs: base, fail: "/t/a.txt"}
	rec := &memRecorder{}
	summary, err := Organize(context.Background(), "/t", WithFs(fs), WithRecorder(rec))
	if err != nil {
		t.Fatalf("Organize() error = %v", err)
	}
	if summary.Failed != 1 || summary.Moved != 1 {
		t.Errorf("summary = %+v, want 1 failed and 1 moved", summary)
	}
	assertFile(t, base, "/t/a.txt", "a")
	assertFile(t, base, "/t/Documents/b.txt", "b")
	if rec.records[0].Err == nil {
		t.Error("failed record carries no error")
	}
}

type failingRenameFs struct {
	afero.Fs
	fail string
}

func (f *failingRenameFs) Rename(oldname, newname string) error {
	if oldname == f.fail {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: os.ErrPermission}
	}
	return f.Fs.Rename(oldname, newname)
}

func TestOrganize_DryRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/t", map[string]string{"a.jpg": "a", "Documents/a.txt": "old", "a.txt": "new"})
	if err := fs.MkdirAll("/t/empty", 0o755); err != nil {
		t.Fatal(err)
	}

	rec := &memRecorder{}
	summary, err := Organize(context.Background(), "/t", WithFs(fs), WithRecorder(rec), WithDryRun(true))
	if err != nil {
		t.Fatalf("Organize() error = %v", err)
	}
	if summary.Planned != 2 || summary.Moved != 0 {
		t.Errorf("summary = %+v, want 2 planned", summary)
	}
	assertFile(t, fs, "/t/a.jpg", "a")
	assertFile(t, fs, "/t/a.txt", "new")
	if ok, _ := afero.DirExists(fs, "/t/empty"); !ok {
		t.Error("dry run removed a directory")
	}
	if ok, _ := afero.DirExists(fs, "/t/Images"); ok {
		t.Error("dry run created a category folder")
	}
	for _, r := range rec.records {
		if r.Source == "/t/a.txt" && r.Destination != "/t/Documents/a_copy_1.txt" {
			t.Errorf("planned destination = %s", r.Destination)
		}
	}
}

func TestOrganize_Exclude(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/t", map[string]string{"organizer.log": "log", "pic.gif": "g"})

	rec := &memRecorder{}
	summary, err := Organize(context.Background(), "/t", WithFs(fs), WithRecorder(rec),
		WithExclude("/t/organizer.log", "/t/organizer.log.lock"))
	if err != nil {
		t.Fatalf("Organize() error = %v", err)
	}
	assertFile(t, fs, "/t/organizer.log", "log")
	assertFile(t, fs, "/t/Images/pic.gif", "g")
	if summary.Skipped != 1 || rec.count(types.ActionSkipped) != 1 {
		t.Errorf("summary = %+v, want the log skipped", summary)
	}
}

func TestOrganize_RecordsNonRegularEntries(t *testing.T) {
	dir := t.TempDir()
	fs := afero.NewOsFs()
	writeFiles(t, fs, dir, map[string]string{"photo.png": "p"})
	link := filepath.Join(dir, "shortcut.png")
	if err := os.Symlink(filepath.Join(dir, "photo.png"), link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	rec := &memRecorder{}
	summary, err := Organize(context.Background(), dir, WithRecorder(rec))
	if err != nil {
		t.Fatalf("Organize() error = %v", err)
	}

	var skipped *types.MoveRecord
	for i, r := range rec.records {
		if r.Source == link {
			skipped = &rec.records[i]
		}
	}
	if skipped == nil || skipped.Action != types.ActionSkipped || skipped.Reason != "not a regular file" {
		t.Fatalf("symlink record = %+v, want skipped as not a regular file", skipped)
	}
	if summary.Skipped != 1 || summary.Moved != 1 || summary.Total != 2 {
		t.Errorf("summary = %+v, want 1 moved and 1 skipped", summary)
	}
	if _, err := os.Lstat(link); err != nil {
		t.Errorf("symlink should stay in place: %v", err)
	}
}

func TestOrganize_Interrupted(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/t", map[string]string{"a.jpg": "a", "b.jpg": "b"})
	if err := fs.MkdirAll("/t/empty", 0o755); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := Organize(ctx, "/t", WithFs(fs))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Organize() error = %v, want context.Canceled", err)
	}
	if summary == nil || !summary.Interrupted || summary.Moved != 0 {
		t.Fatalf("summary = %+v, want interrupted with nothing moved", summary)
	}
	if ok, _ := afero.DirExists(fs, "/t/empty"); !ok {
		t.Error("cleanup ran after interrupt")
	}
}

func TestOrganize_InvalidTarget(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/t", map[string]string{"file.txt": "x"})

	for _, dir := range []string{"/missing", "/t/file.txt", ""} {
		_, err := Organize(context.Background(), dir, WithFs(fs))
		var target types.ErrInvalidTarget
		if !errors.As(err, &target) {
			t.Errorf("Organize(%q) error = %v, want ErrInvalidTarget", dir, err)
		}
	}
	assertFile(t, fs, "/t/file.txt", "x")
}
