package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/DolphinWorld/demandsolution-codex/internal/intake"
	"github.com/DolphinWorld/demandsolution-codex/internal/models"
	"github.com/DolphinWorld/demandsolution-codex/internal/ranking"
	"github.com/DolphinWorld/demandsolution-codex/internal/search"
	"github.com/DolphinWorld/demandsolution-codex/internal/storage"
)

func init() {
	color.NoColor = true
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the CLI with args and returns its stdout. Flag variables outlive a
// run, so the ones the tests touch are reset first.
func execute(t *testing.T, args ...string) string {
	t.Helper()
	configPath, debugFlag, jsonOutput = defaultConfigPath, false, false
	searchFuzzy, searchServer = false, ""
	checkFile = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestJoinArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"flights"}, "flights"},
		{"multiple words", []string{"cheap", "flights"}, "cheap flights"},
		{"single quoted phrase", []string{"cheap flights"}, "cheap flights"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinArgs(tt.args); got != tt.expected {
				t.Errorf("joinArgs(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	path := writeConfig(t, `
debug: true
storage:
  database_path: "test.db"
`)
	t.Chdir(filepath.Dir(path))

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// On macOS, cwd can be /private/var/... while t.TempDir() is /var/...; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	wantCanon, _ := filepath.EvalSymlinks(path)
	if resolvedCanon != wantCanon {
		t.Errorf("resolved path = %s, want %s", resolved, path)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
}

func TestLoadConfig_defaultsWhenNothingFound(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != "" {
		t.Errorf("resolved path = %q, want empty for built-in defaults", resolved)
	}
	if cfg.Server.Port != 8080 || cfg.Dedup.DuplicateJaccard != 0.58 {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9000
`)
	cfg, resolved, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != path {
		t.Errorf("resolved path = %s, want %s", resolved, path)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}

	if _, _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing explicit config")
	}
}

func TestCheckText(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "idea.md")
	if err := os.WriteFile(doc, []byte("# Idea\n\nCheap flight alerts"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		file    string
		want    string
		wantErr bool
	}{
		{"args", []string{"cheap", "flights"}, "", "cheap flights", false},
		{"file", nil, doc, "Cheap flight alerts", false},
		{"both", []string{"x"}, doc, "", true},
		{"neither", nil, "", "", true},
		{"missing file", nil, doc + ".gone", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checkText(tt.args, tt.file)
			if (err != nil) != tt.wantErr {
				t.Fatalf("checkText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("checkText() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestListQuery(t *testing.T) {
	q := listQuery("new", 5, "2026-01-10T01:00:00Z")
	if q.Sort != ranking.SortNew || q.Limit != 5 {
		t.Errorf("unexpected query: %+v", q)
	}
	if want := time.Date(2026, 1, 10, 1, 0, 0, 0, time.UTC); !q.Cursor.Equal(want) {
		t.Errorf("cursor = %v, want %v", q.Cursor, want)
	}
	if q := listQuery("hot", 5, "yesterday"); !q.Cursor.IsZero() {
		t.Errorf("bad cursor should start at the top, got %v", q.Cursor)
	}
}

func TestApplyTunables(t *testing.T) {
	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	c := &Components{
		Logger:  zap.NewNop(),
		Storage: store,
		Engine:  search.NewEngine(store, nil, nil, zap.NewNop()),
		Intake:  intake.NewService(store, nil, nil),
	}

	path := writeConfig(t, `
dedup:
  duplicate_jaccard: 0.7
search:
  min_score: 0.5
ranking:
  gravity: 2
`)
	reloadTunables(c)(path)

	if got := c.Intake.DedupConfig().DuplicateJaccard; got != 0.7 {
		t.Errorf("duplicate_jaccard = %v, want 0.7", got)
	}
	if got := c.Engine.Config().MinScore; got != 0.5 {
		t.Errorf("min_score = %v, want 0.5", got)
	}
	now := time.Now()
	// 9 / (1 + 2)^2
	if got := c.Engine.Ranker().HotScore(9, now, now); got != 1 {
		t.Errorf("hot score with gravity 2 = %v, want 1", got)
	}

	if err := os.WriteFile(path, []byte("dedup: [broken"), 0600); err != nil {
		t.Fatal(err)
	}
	reloadTunables(c)(path)
	if got := c.Intake.DedupConfig().DuplicateJaccard; got != 0.7 {
		t.Errorf("broken config should keep 0.7, got %v", got)
	}
}

func TestCommands_SubmitSearchStatus(t *testing.T) {
	cfgPath := writeConfig(t, `
storage:
  database_path: "./ideas.db"
`)
	const text = "An app that finds cheap flight deals for weekend travel"

	var first models.SubmitResponse
	if err := json.Unmarshal([]byte(execute(t, "--config", cfgPath, "--json", "submit", text)), &first); err != nil {
		t.Fatal(err)
	}
	if first.Merged || first.Idea == nil || first.Idea.ID == "" {
		t.Fatalf("first submission should create an idea, got %+v", first)
	}

	var second models.SubmitResponse
	if err := json.Unmarshal([]byte(execute(t, "--config", cfgPath, "--json", "submit", text)), &second); err != nil {
		t.Fatal(err)
	}
	if !second.Merged || second.Idea.ID != first.Idea.ID {
		t.Fatalf("repeat submission should merge into %s, got %+v", first.Idea.ID, second)
	}

	var found models.SearchResponse
	if err := json.Unmarshal([]byte(execute(t, "--config", cfgPath, "--json", "search", "flight", "deals")), &found); err != nil {
		t.Fatal(err)
	}
	if found.Total != 1 || found.Results[0].Idea.ID != first.Idea.ID {
		t.Errorf("search should find the idea, got %+v", found)
	}

	out := execute(t, "--config", cfgPath, "status")
	if !strings.Contains(out, "Ideas: 1") || !strings.Contains(out, "Merges: 1") {
		t.Errorf("unexpected status output:\n%s", out)
	}
}

func TestCommands_ImportAndList(t *testing.T) {
	cfgPath := writeConfig(t, `
storage:
  database_path: "./ideas.db"
`)
	doc := filepath.Join(filepath.Dir(cfgPath), "ideas.md")
	content := "A planner that rotates household chores between roommates\n\n" +
		"A recipe box that suggests dinners from what is left in the fridge\n\n" +
		"too short"
	if err := os.WriteFile(doc, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	var res intake.ImportResult
	if err := json.Unmarshal([]byte(execute(t, "--config", cfgPath, "--json", "import", doc)), &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Created) != 2 || len(res.Skipped) != 1 {
		t.Fatalf("expected 2 created and 1 skipped, got %+v", res)
	}

	var page models.ListResponse
	if err := json.Unmarshal([]byte(execute(t, "--config", cfgPath, "--json", "list", "--sort", "new", "--limit", "1")), &page); err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 1 || page.NextCursor == nil {
		t.Fatalf("expected one idea and a next cursor, got %+v", page)
	}
}

func TestVersionCommand(t *testing.T) {
	if out := execute(t, "version"); out != "demandsolution version dev\n" {
		t.Errorf("version output = %q", out)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	want := []string{"check", "import", "list", "search", "server", "status", "submit", "version"}
	for _, name := range want {
		if cmd, _, err := rootCmd.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}
