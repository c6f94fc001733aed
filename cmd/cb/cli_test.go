package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

var (
	cbBinary     string
	cbBinaryOnce sync.Once
	cbBinaryErr  error
)

// getCBBinary builds the cb binary once and returns its path.
func getCBBinary(t *testing.T) string {
	t.Helper()
	cbBinaryOnce.Do(func() {
		_, filename, _, ok := runtime.Caller(0)
		if !ok {
			cbBinaryErr = os.ErrInvalid
			return
		}

		tmpDir, err := os.MkdirTemp("", "cb-test-*")
		if err != nil {
			cbBinaryErr = err
			return
		}
		cbBinary = filepath.Join(tmpDir, "cb")

		cmd := exec.Command("go", "build", "-o", cbBinary, ".")
		cmd.Dir = filepath.Dir(filename)
		if output, err := cmd.CombinedOutput(); err != nil {
			cbBinaryErr = &buildError{output: string(output), err: err}
		}
	})
	if cbBinaryErr != nil {
		t.Fatalf("failed to build cb: %v", cbBinaryErr)
	}
	return cbBinary
}

type buildError struct {
	output string
	err    error
}

func (e *buildError) Error() string {
	return e.err.Error() + ": " + e.output
}

// result holds the outcome of one cb invocation.
type result struct {
	stdout string
	stderr string
	code   int
}

// testEnv isolates cb's settings and database in a temp home.
type testEnv struct {
	home string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{home: t.TempDir()}
}

func (e *testEnv) settingsPath() string {
	return filepath.Join(e.home, "config", "cb", "settings.yml")
}

func (e *testEnv) dbPath() string {
	return filepath.Join(e.home, "data", "cb", "notes.db")
}

// run executes cb with stdin and args inside the test home.
func (e *testEnv) run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	cmd := exec.Command(getCBBinary(t), args...)
	cmd.Dir = e.home
	cmd.Env = append(os.Environ(),
		"HOME="+e.home,
		"XDG_CONFIG_HOME="+filepath.Join(e.home, "config"),
		"XDG_DATA_HOME="+filepath.Join(e.home, "data"),
		"CB_DB_FILE=",
		"CB_CODE_THEME=plain",
	)
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	code := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("running cb %v: %v", args, err)
		}
		code = exitErr.ExitCode()
	}
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

// addNote saves a note through `cb new -y`.
func (e *testEnv) addNote(t *testing.T, name, tags string, lines ...string) {
	t.Helper()
	stdin := tags + "\n" + strings.Join(lines, "\n") + "\n"
	r := e.run(t, stdin, "new", name, "-y")
	if r.code != ExitSuccess {
		t.Fatalf("cb new %q: exit %d\nstdout: %s\nstderr: %s", name, r.code, r.stdout, r.stderr)
	}
}

func (e *testEnv) listJSON(t *testing.T, args ...string) []NoteJSON {
	t.Helper()
	r := e.run(t, "", append([]string{"--json"}, args...)...)
	if r.code != ExitSuccess {
		t.Fatalf("cb %v: exit %d\nstderr: %s", args, r.code, r.stderr)
	}
	var notes []NoteJSON
	if err := json.Unmarshal([]byte(r.stdout), &notes); err != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, r.stdout)
	}
	return notes
}

func TestCLI_FirstRunBootstrapsConfig(t *testing.T) {
	env := newTestEnv(t)

	r := env.run(t, "", "config", "db_file")
	if r.code != ExitSuccess {
		t.Fatalf("cb config: exit %d\nstderr: %s", r.code, r.stderr)
	}
	if got := strings.TrimSpace(r.stdout); got != env.dbPath() {
		t.Errorf("db_file = %q, want %q", got, env.dbPath())
	}
	if _, err := os.Stat(env.settingsPath()); err != nil {
		t.Errorf("settings file not created: %v", err)
	}
}

func TestCLI_ConfigReportsStore(t *testing.T) {
	env := newTestEnv(t)
	env.addNote(t, "Test Note", "tag1", "Line 1")

	r := env.run(t, "", "--json", "config")
	if r.code != ExitSuccess {
		t.Fatalf("cb config: exit %d\nstderr: %s", r.code, r.stderr)
	}
	var got ConfigResponse
	if err := json.Unmarshal([]byte(r.stdout), &got); err != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, r.stdout)
	}
	if got.Notes != 1 {
		t.Errorf("notes = %d, want 1", got.Notes)
	}
	if got.DBFile != env.dbPath() {
		t.Errorf("db_file = %q, want %q", got.DBFile, env.dbPath())
	}
	if got.Path != env.settingsPath() {
		t.Errorf("path = %q, want %q", got.Path, env.settingsPath())
	}

	r = env.run(t, "", "config")
	if !strings.Contains(r.stdout, "notes:") {
		t.Errorf("config output missing note count:\n%s", r.stdout)
	}
}

func TestCLI_NewThenList(t *testing.T) {
	env := newTestEnv(t)
	env.addNote(t, "Test Note", "tag2 #tag1", "Line 1", "Line 2")

	notes := env.listJSON(t, "list")
	if len(notes) != 1 {
		t.Fatalf("got %d notes, want 1", len(notes))
	}
	got := notes[0]
	if got.ID != 1 || got.Name != "Test Note" {
		t.Errorf("got note %d %q, want 1 %q", got.ID, got.Name, "Test Note")
	}
	if strings.Join(got.Tags, ",") != "tag1,tag2" {
		t.Errorf("tags = %v, want [tag1 tag2]", got.Tags)
	}
	if strings.Join(got.Content, "\n") != "Line 1\nLine 2" {
		t.Errorf("content = %v", got.Content)
	}

	r := env.run(t, "", "l")
	if r.code != ExitSuccess {
		t.Fatalf("cb l: exit %d\nstderr: %s", r.code, r.stderr)
	}
	for _, want := range []string{"NOTE #1", "Test Note", "#tag1 #tag2", "Line 1\nLine 2"} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("list output missing %q:\n%s", want, r.stdout)
		}
	}
}

func TestCLI_NewDeclined(t *testing.T) {
	env := newTestEnv(t)

	// Content runs to end of input, so the confirmation sees EOF.
	r := env.run(t, "tag\nbody\n", "new", "draft")
	if r.code != ExitSuccess {
		t.Fatalf("cb new: exit %d\nstderr: %s", r.code, r.stderr)
	}
	if !strings.Contains(r.stdout, "Note discarded.") {
		t.Errorf("expected discard message, got:\n%s", r.stdout)
	}

	r = env.run(t, "", "list")
	if r.code != ExitNoResults {
		t.Errorf("list after discard: exit %d, want %d", r.code, ExitNoResults)
	}
}

func TestCLI_NewAbortedBeforeContent(t *testing.T) {
	env := newTestEnv(t)

	r := env.run(t, "tag\n", "new", "draft", "-y")
	if r.code != ExitSuccess {
		t.Fatalf("cb new: exit %d\nstderr: %s", r.code, r.stderr)
	}
	if !strings.Contains(r.stdout, "No note saved.") {
		t.Errorf("expected abort message, got:\n%s", r.stdout)
	}
}

func TestCLI_ListMostRecent(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"N1", "N2", "N3"} {
		env.addNote(t, name, "t", "x")
	}

	tests := []struct {
		arg  string
		want []string
	}{
		{"2", []string{"N2", "N3"}},
		{"all", []string{"N1", "N2", "N3"}},
		{"0", []string{"N1", "N2", "N3"}},
		{"10", []string{"N1", "N2", "N3"}},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			notes := env.listJSON(t, "list", tt.arg)
			var got []string
			for _, n := range notes {
				got = append(got, n.Name)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("list %s = %v, want %v", tt.arg, got, tt.want)
			}
		})
	}
}

func TestCLI_ExitCodes(t *testing.T) {
	env := newTestEnv(t)

	r := env.run(t, "", "list")
	if r.code != ExitNoResults {
		t.Errorf("list on empty db: exit %d, want %d", r.code, ExitNoResults)
	}

	env.addNote(t, "Go generics", "golang", "type parameters")

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  int
	}{
		{"bad count", "", []string{"list", "many"}, ExitDataError},
		{"negative count", "", []string{"list", "--", "-1"}, ExitDataError},
		{"no matches", "", []string{"search", "zzz"}, ExitNoResults},
		{"blank query argument", "", []string{"search", "  "}, ExitDataError},
		{"blank prompted query", "\n", []string{"search"}, ExitDataError},
		{"query prompt interrupted", "", []string{"search"}, ExitSuccess},
		{"unknown config key", "", []string{"config", "nope"}, ExitError},
		{"import missing file", "", []string{"import", "missing.jsonl"}, ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := env.run(t, tt.stdin, tt.args...)
			if r.code != tt.want {
				t.Errorf("exit %d, want %d\nstderr: %s", r.code, tt.want, r.stderr)
			}
		})
	}
}

func TestCLI_Search(t *testing.T) {
	env := newTestEnv(t)
	env.addNote(t, "Go generics", "golang", "type parameters")
	env.addNote(t, "Shell loops", "bash", "for f in *; do echo $f; done")

	notes := env.listJSON(t, "search", "GOLANG")
	if len(notes) != 1 || notes[0].Name != "Go generics" {
		t.Errorf("search GOLANG = %+v", notes)
	}

	notes = env.listJSON(t, "s", "loops")
	if len(notes) != 1 || notes[0].Name != "Shell loops" {
		t.Errorf("search loops = %+v", notes)
	}

	r := env.run(t, "bash\n", "search")
	if r.code != ExitSuccess {
		t.Fatalf("prompted search: exit %d\nstderr: %s", r.code, r.stderr)
	}
	if !strings.Contains(r.stdout, "Shell loops") {
		t.Errorf("prompted search output:\n%s", r.stdout)
	}
}

func TestCLI_ExportImport(t *testing.T) {
	src := newTestEnv(t)
	src.addNote(t, "first", "a b", "one")
	src.addNote(t, "second", "c", "two", "lines")

	exportPath := filepath.Join(src.home, "notes.jsonl")
	r := src.run(t, "", "export", exportPath)
	if r.code != ExitSuccess {
		t.Fatalf("export: exit %d\nstderr: %s", r.code, r.stderr)
	}
	if !strings.Contains(r.stdout, "Exported 2 notes") {
		t.Errorf("export output: %s", r.stdout)
	}

	dst := newTestEnv(t)
	r = dst.run(t, "", "import", exportPath)
	if r.code != ExitSuccess {
		t.Fatalf("import: exit %d\nstderr: %s", r.code, r.stderr)
	}

	want := src.listJSON(t, "list")
	got := dst.listJSON(t, "list")
	if len(got) != len(want) {
		t.Fatalf("imported %d notes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Name != want[i].Name ||
			strings.Join(got[i].Tags, ",") != strings.Join(want[i].Tags, ",") ||
			strings.Join(got[i].Content, "\n") != strings.Join(want[i].Content, "\n") {
			t.Errorf("note %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCLI_ImportRejectsInvalidLine(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.home, "bad.jsonl")
	data := `{"name":"ok","tags":["a"],"content":"x"}
{"name":"","tags":["a"],"content":"x"}
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	r := env.run(t, "", "import", path)
	if r.code != ExitDataError {
		t.Fatalf("import: exit %d, want %d\nstderr: %s", r.code, ExitDataError, r.stderr)
	}
	if !strings.Contains(r.stderr, "line 2") {
		t.Errorf("expected line number in error, got: %s", r.stderr)
	}

	if r := env.run(t, "", "list"); r.code != ExitNoResults {
		t.Errorf("list after failed import: exit %d, want %d", r.code, ExitNoResults)
	}
}

func TestCLI_EnvOverride(t *testing.T) {
	env := newTestEnv(t)
	alt := filepath.Join(env.home, "alt.db")

	cmd := exec.Command(getCBBinary(t), "config", "db_file")
	cmd.Dir = env.home
	cmd.Env = append(os.Environ(),
		"HOME="+env.home,
		"XDG_CONFIG_HOME="+filepath.Join(env.home, "config"),
		"XDG_DATA_HOME="+filepath.Join(env.home, "data"),
		"CB_DB_FILE="+alt,
	)
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("cb config: %v", err)
	}
	if got := strings.TrimSpace(string(out)); got != alt {
		t.Errorf("db_file = %q, want %q", got, alt)
	}
}
