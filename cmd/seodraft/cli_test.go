package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hpungsan/seodraft/internal/config"
	"github.com/hpungsan/seodraft/internal/db"
	"github.com/hpungsan/seodraft/internal/genai"
	"github.com/hpungsan/seodraft/internal/genai/genaitest"
	"github.com/hpungsan/seodraft/internal/logger"
	"github.com/hpungsan/seodraft/internal/pipeline"
)

// setupTestDeps creates deps backed by a temporary store and fake models.
func setupTestDeps(t *testing.T, draft, score string) *deps {
	t.Helper()

	store, err := db.Open(config.DatabaseConfig{}, t.TempDir())
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	gen := &genaitest.Fake{Model: "gemini-test", Respond: genaitest.Sequence(genaitest.Text(draft, genai.Usage{PromptTokens: 12, OutputTokens: 340}))}
	sc := &genaitest.Fake{Respond: genaitest.Sequence(genaitest.Text(score, genai.Usage{PromptTokens: 400, OutputTokens: 2}))}
	p, err := pipeline.New(pipeline.Deps{
		Writer: pipeline.NewWriter(gen),
		Scorer: pipeline.NewScorer(sc),
		Store:  store,
	})
	if err != nil {
		t.Fatalf("failed to build pipeline: %v", err)
	}

	return &deps{
		cfg:      config.DefaultConfig(),
		store:    store,
		pipeline: p,
		log:      logger.NewNop(),
	}
}

// runCLI runs the app with args and returns what it printed.
func runCLI(t *testing.T, d *deps, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	defer func() { stdout = old }()

	app := newCLIApp(d)
	err := app.Run(append([]string{"seodraft"}, args...))
	return buf.String(), err
}

func decodeOutput(t *testing.T, out string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	return m
}

func TestCLIGenerate(t *testing.T) {
	d := setupTestDeps(t, "## 강릉 여행 코스\n바다와 커피.\n#강릉 #여행", "93")

	out, err := runCLI(t, d, "generate", "강릉", "여행")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	result := decodeOutput(t, out)
	if result["status"] != "ok" {
		t.Errorf("status = %v, want ok", result["status"])
	}
	if result["model"] != "gemini-test" {
		t.Errorf("model = %v", result["model"])
	}

	post, err := d.store.GetPost(t.Context(), int64(result["post_id"].(float64)))
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if post.Keyword != "강릉 여행" {
		t.Errorf("keyword = %q, want args joined with a space", post.Keyword)
	}
}

func TestCLIGenerate_NoKeyword(t *testing.T) {
	d := setupTestDeps(t, "# t\nbody", "93")

	_, err := runCLI(t, d, "generate")
	if err == nil {
		t.Fatal("expected error for missing keyword")
	}
	if !strings.Contains(err.Error(), "[INVALID_INPUT]") {
		t.Errorf("error = %q, want [INVALID_INPUT] prefix", err.Error())
	}
}

func TestCLIGenerate_NotConfigured(t *testing.T) {
	d := setupTestDeps(t, "# t\nbody", "93")
	d.pipeline = nil

	_, err := runCLI(t, d, "generate", "k")
	if err == nil || !strings.Contains(err.Error(), "[NOT_CONFIGURED]") {
		t.Errorf("error = %v, want [NOT_CONFIGURED]", err)
	}
}

func TestCLIDraftsAndPost(t *testing.T) {
	d := setupTestDeps(t, "# 전주 한옥마을\n**골목** 산책\n#전주", "88")

	if _, err := runCLI(t, d, "generate", "전주"); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	out, err := runCLI(t, d, "drafts", "--limit", "5")
	if err != nil {
		t.Fatalf("drafts failed: %v", err)
	}
	drafts := decodeOutput(t, out)
	items := drafts["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}

	out, err = runCLI(t, d, "post", "--html", "1")
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	post := decodeOutput(t, out)
	if post["body"] != "**골목** 산책" {
		t.Errorf("body = %q", post["body"])
	}
	if html, _ := post["body_html"].(string); !strings.Contains(html, "<strong>골목</strong>") {
		t.Errorf("body_html = %q", html)
	}
}

func TestCLIPost_Errors(t *testing.T) {
	d := setupTestDeps(t, "# t\nbody", "90")

	_, err := runCLI(t, d, "post")
	if err == nil || !strings.Contains(err.Error(), "[INVALID_INPUT]") {
		t.Errorf("missing id: error = %v", err)
	}

	_, err = runCLI(t, d, "post", "41")
	if err == nil || !strings.Contains(err.Error(), "[NOT_FOUND]") {
		t.Errorf("unknown id: error = %v", err)
	}
}

func TestCLIEnqueueAndQueue(t *testing.T) {
	d := setupTestDeps(t, "# t\nbody", "90")

	out, err := runCLI(t, d, "enqueue", "--keyword", "전주 맛집", "--platform", "tistory", "--at", "2026-04-01 12:00:00")
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	result := decodeOutput(t, out)
	if result["status"] != "queued" || result["platform"] != "tistory" {
		t.Errorf("result = %v", result)
	}

	_, err = runCLI(t, d, "enqueue", "--keyword", "k", "--at", "next week")
	if err == nil || !strings.Contains(err.Error(), "[INVALID_INPUT]") {
		t.Errorf("bad timestamp: error = %v", err)
	}

	out, err = runCLI(t, d, "queue")
	if err != nil {
		t.Fatalf("queue failed: %v", err)
	}
	if items := decodeOutput(t, out)["items"].([]any); len(items) != 1 {
		t.Errorf("items = %d, want 1", len(items))
	}
}

func TestCLIHealth(t *testing.T) {
	d := setupTestDeps(t, "# t\nbody", "90")

	out, err := runCLI(t, d, "health")
	if err != nil {
		t.Fatalf("health failed: %v", err)
	}
	if decodeOutput(t, out)["status"] != "ok" {
		t.Errorf("output = %s", out)
	}
}

func TestCLIHelpWithoutDeps(t *testing.T) {
	if _, err := runCLI(t, nil, "--help"); err != nil {
		t.Errorf("help failed: %v", err)
	}
}

func TestBootstrap_WithoutAPIKey(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "SEODRAFT_API_KEY", "SEODRAFT_PROVIDER", "SEODRAFT_DB_DRIVER", "SEODRAFT_DB_DSN", "SEODRAFT_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	baseDir := t.TempDir()
	t.Setenv("ENV_FILE", filepath.Join(baseDir, "missing.env"))

	d, err := bootstrap(baseDir)
	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	defer d.store.Close()

	if d.pipeline != nil {
		t.Error("pipeline should be nil without an API key")
	}
	if d.store.Driver() != config.DriverSQLite {
		t.Errorf("driver = %q", d.store.Driver())
	}
}
