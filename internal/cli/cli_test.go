package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/brickyard/pkg/brick"
	"github.com/matzehuels/brickyard/pkg/catalog"
	errs "github.com/matzehuels/brickyard/pkg/errors"
	brickio "github.com/matzehuels/brickyard/pkg/io"
	"github.com/matzehuels/brickyard/pkg/observability"
)

// testEnv points config and data at a temp dir and writes a config file using
// the file backend. It returns the config path and the storage directory.
func testEnv(t *testing.T) (cfgPath, dataDir string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{"BRICKYARD_STORAGE", "BRICKYARD_STORAGE_KEY", "BRICKYARD_STORAGE_DIR", "BRICKYARD_CATALOG"} {
		t.Setenv(k, "")
	}
	t.Cleanup(observability.Reset)

	dataDir = filepath.Join(dir, "builds")
	cfgPath = filepath.Join(dir, "brickyard.toml")
	content := "[storage]\nbackend = \"file\"\ndir = \"" + filepath.ToSlash(dataDir) + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfgPath, dataDir
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	saved := stdout
	stdout = io.Discard
	defer func() { stdout = saved }()

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"edit", "serve", "palette", "scene", "config", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if f := root.PersistentFlags().Lookup("config"); f == nil {
		t.Error("--config flag not registered")
	}
}

func TestSceneSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"show", "export", "import", "plan", "delete"} {
		cmd, _, err := root.Find([]string{"scene", name})
		if err != nil || cmd.Name() != name {
			t.Errorf("scene subcommand %q not registered", name)
		}
	}
}

func TestConfigShow(t *testing.T) {
	cfgPath, dataDir := testEnv(t)
	out, err := execute(t, "--config", cfgPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{`backend = "file"`, `key = "lego-build"`, filepath.ToSlash(dataDir)} {
		if !strings.Contains(out, want) {
			t.Errorf("config show output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigShowInvalid(t *testing.T) {
	_, _ = testEnv(t)
	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("[storage\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := execute(t, "--config", bad, "config", "show")
	if !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestSceneImportExport(t *testing.T) {
	cfgPath, dataDir := testEnv(t)
	dir := t.TempDir()

	in := []brick.Instance{
		{ID: "brick-1", TypeID: "brick-2x2", Position: brick.V(0, 0.75, 0)},
		{ID: "brick-2", TypeID: "plate-4x4", Position: brick.V(4, 0.3, -2), Color: "#ef4444"},
	}
	src := filepath.Join(dir, "in.json")
	if err := brickio.ExportJSON(in, src); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "--config", cfgPath, "scene", "import", src); err != nil {
		t.Fatalf("scene import: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "lego-build.json")); err != nil {
		t.Errorf("saved build not written: %v", err)
	}

	dst := filepath.Join(dir, "out.json")
	if _, err := execute(t, "--config", cfgPath, "scene", "export", dst); err != nil {
		t.Fatalf("scene export: %v", err)
	}
	got, err := brickio.ImportJSON(dst)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(in) {
		t.Fatalf("exported %d bricks, want %d", len(got), len(in))
	}
	for i := range in {
		if got[i] != in[i] {
			t.Errorf("brick %d = %+v, want %+v", i, got[i], in[i])
		}
	}
}

func TestSceneImportInvalid(t *testing.T) {
	cfgPath, _ := testEnv(t)
	src := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(src, []byte(`{"bricks": 3}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := execute(t, "--config", cfgPath, "scene", "import", src)
	if !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestSceneExportWithoutSave(t *testing.T) {
	cfgPath, _ := testEnv(t)
	_, err := execute(t, "--config", cfgPath, "scene", "export", filepath.Join(t.TempDir(), "out.json"))
	if !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestSceneShowWithoutSave(t *testing.T) {
	cfgPath, _ := testEnv(t)
	if _, err := execute(t, "--config", cfgPath, "scene", "show"); err != nil {
		t.Errorf("scene show with nothing saved: %v", err)
	}
}

func TestScenePlanDOT(t *testing.T) {
	cfgPath, _ := testEnv(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "in.json")
	in := []brick.Instance{{ID: "brick-1", TypeID: "brick-2x4", Position: brick.V(1, 0.75, 2)}}
	if err := brickio.ExportJSON(in, src); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "--config", cfgPath, "scene", "import", src); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "plan.dot")
	if _, err := execute(t, "--config", cfgPath, "scene", "plan", "--dot", "--labels", dst); err != nil {
		t.Fatalf("scene plan: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "graph plan {") {
		t.Errorf("plan does not start with the graph header:\n%s", data)
	}
	if !strings.Contains(string(data), `"brick-1"`) {
		t.Errorf("plan missing brick-1 node:\n%s", data)
	}
}

func TestSceneDelete(t *testing.T) {
	cfgPath, dataDir := testEnv(t)
	src := filepath.Join(t.TempDir(), "in.json")
	if err := brickio.ExportJSON([]brick.Instance{{ID: "brick-1", TypeID: "brick-2x2", Position: brick.V(0, 0.75, 0)}}, src); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "--config", cfgPath, "scene", "import", src); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "--config", cfgPath, "scene", "delete")
	if !errs.Is(err, errs.ErrCodeConfirmationRequired) {
		t.Errorf("delete without --yes: err = %v, want CONFIRMATION_REQUIRED", err)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "lego-build.json")); err != nil {
		t.Fatalf("build removed without confirmation: %v", err)
	}

	if _, err := execute(t, "--config", cfgPath, "scene", "delete", "--yes"); err != nil {
		t.Fatalf("delete --yes: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "lego-build.json")); !os.IsNotExist(err) {
		t.Errorf("build still present after delete: %v", err)
	}
}

func TestPaletteCommand(t *testing.T) {
	cfgPath, _ := testEnv(t)
	out, err := execute(t, "--config", cfgPath, "palette")
	if err != nil {
		t.Fatalf("palette: %v", err)
	}
	if !strings.Contains(out, "plate-4x4") {
		t.Errorf("palette output missing plate-4x4:\n%s", out)
	}

	file := filepath.Join(t.TempDir(), "tiny.toml")
	content := "default = \"tile\"\n\n[[brick]]\nid = \"tile\"\nname = \"Tile\"\ncolor = \"#eab308\"\nsize = [1.0, 0.4, 1.0]\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = execute(t, "palette", "--file", file)
	if err != nil {
		t.Fatalf("palette --file: %v", err)
	}
	if !strings.Contains(out, "tile") || strings.Contains(out, "plate-4x4") {
		t.Errorf("palette --file output:\n%s", out)
	}
}

func TestConfigPath(t *testing.T) {
	cfgPath, _ := testEnv(t)
	out, err := execute(t, "--config", cfgPath, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != cfgPath {
		t.Errorf("config path = %q, want %q", strings.TrimSpace(out), cfgPath)
	}
}

func TestRenderPalette(t *testing.T) {
	out := renderPalette(catalog.Default())
	for _, d := range catalog.Default().Definitions() {
		if !strings.Contains(out, d.ID) {
			t.Errorf("palette table missing %q", d.ID)
		}
	}
	if !strings.Contains(out, "2 × 1.5 × 4") {
		t.Errorf("palette table missing the 2x4 size:\n%s", out)
	}
}

func TestRenderBricksUnknownType(t *testing.T) {
	m, _ := newTestEditor(t)
	if err := m.Engine.Import([]brick.Instance{{ID: "brick-1", TypeID: "gone", Position: brick.V(0, 1, 0)}}); err != nil {
		t.Fatal(err)
	}
	out := renderBricks(m.Engine)
	if !strings.Contains(out, "Unknown") {
		t.Errorf("bricks table does not name the dangling type Unknown:\n%s", out)
	}
}

func TestCompletion(t *testing.T) {
	_, _ = testEnv(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := execute(t, "completion", shell)
		if err != nil {
			t.Errorf("completion %s: %v", shell, err)
			continue
		}
		if !strings.Contains(out, "brickyard") {
			t.Errorf("completion %s output does not mention brickyard", shell)
		}
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh: want an error")
	}
}
