package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/osari-hq/seobot/internal/archive"
	"github.com/osari-hq/seobot/internal/config"
	"github.com/osari-hq/seobot/internal/domain"
	"github.com/osari-hq/seobot/internal/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		OsnovaBaseURL:    "http://127.0.0.1:0",
		OsnovaToken:      "test-token",
		LLMAPIKey:        "test-key",
		LLMModel:         "gpt-4o",
		PhotosDir:        t.TempDir(),
		ArchiveDir:       t.TempDir(),
		StorageType:      "none",
		PhotosPerArticle: 3,
		MinWords:         500,
		UploadTimeout:    time.Second,
		EntryTimeout:     time.Second,
		FetchTimeout:     time.Second,
	}
}

func newTestServer(t *testing.T) (*Server, *config.Config) {
	t.Helper()
	cfg := testConfig(t)
	bot, err := NewBot(context.Background(), cfg, &logger.NopLogger{})
	if err != nil {
		t.Fatalf("NewBot: %v", err)
	}
	t.Cleanup(bot.Close)
	return NewServer(bot, &logger.NopLogger{}), cfg
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServerHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestServerGenerateValidatesTopic(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/generate", `{"topic":"  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestServerGenerateRejectsUnknownArticleType(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/generate", `{"topic":"Кресла","article_type":"listicle"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestServerGenerateLocalOnly(t *testing.T) {
	payload := `{"title":"Выбор массажного кресла","intro":"Первый абзац","conclusion":"Итог"}`
	llm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{
				{"index": 0, "finish_reason": "stop", "message": map[string]any{"role": "assistant", "content": payload}},
			},
		})
	}))
	defer llm.Close()

	cfg := testConfig(t)
	cfg.LLMBaseURL = llm.URL + "/"
	bot, err := NewBot(context.Background(), cfg, &logger.NopLogger{})
	if err != nil {
		t.Fatalf("NewBot: %v", err)
	}
	t.Cleanup(bot.Close)
	srv := NewServer(bot, &logger.NopLogger{})

	body := `{"topic":"Массажные кресла","article_type":"expert","product_specs":"Вес: 50 кг","research_data":"Рынок растёт","video_embeds":["<iframe src=\"https://rutube.ru/play/embed/x\"></iframe>"],"local_only":true}`
	rec := doJSON(t, srv, http.MethodPost, "/api/generate", body)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var accepted struct {
		TaskID string `json:"task_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode accept: %v", err)
	}

	var task struct {
		Status   string   `json:"status"`
		Error    string   `json:"error"`
		EntryURL string   `json:"entry_url"`
		Archived []string `json:"archived"`
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		rec = doJSON(t, srv, http.MethodGet, "/api/task/"+accepted.TaskID, "")
		if err := json.Unmarshal(rec.Body.Bytes(), &task); err != nil {
			t.Fatalf("decode task: %v", err)
		}
		if task.Status != "running" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("generation task never finished")
		}
		time.Sleep(20 * time.Millisecond)
	}

	if task.Status != "done" {
		t.Fatalf("task status = %q, error %q", task.Status, task.Error)
	}
	if task.EntryURL != "" {
		t.Fatalf("local-only run must not publish, got entry url %q", task.EntryURL)
	}
	if len(task.Archived) != 1 {
		t.Fatalf("archived = %+v", task.Archived)
	}

	article, err := archive.Load(cfg.ArchiveDir, task.Archived[0])
	if err != nil {
		t.Fatalf("load archived article: %v", err)
	}
	if article.Title != "Выбор массажного кресла" {
		t.Fatalf("title = %q", article.Title)
	}
}

func TestServerTaskNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/task/deadbeef", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestServerListTopicsWithoutSources(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/topics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Topics []domain.Topic `json:"topics"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Topics) != 0 {
		t.Fatalf("topics = %+v", resp.Topics)
	}
}

func TestServerArticlesRoundTrip(t *testing.T) {
	srv, cfg := newTestServer(t)

	name, err := archive.Save(cfg.ArchiveDir, &domain.Article{Title: "Archived piece", Intro: "text"})
	if err != nil {
		t.Fatalf("seed archive: %v", err)
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/articles", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list struct {
		Articles []archive.Entry `json:"articles"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Articles) != 1 || list.Articles[0].Name != name {
		t.Fatalf("articles = %+v", list.Articles)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/article/"+name, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var article domain.Article
	if err := json.Unmarshal(rec.Body.Bytes(), &article); err != nil {
		t.Fatalf("decode article: %v", err)
	}
	if article.Title != "Archived piece" {
		t.Fatalf("title = %q", article.Title)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/article/missing.html", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing article status = %d", rec.Code)
	}
}

func TestServerPublishValidatesName(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/publish", `{"publish":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/publish", `{"name":"no-such-file.html"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestBotListTopicsMarksNothingWithoutSources(t *testing.T) {
	cfg := testConfig(t)
	cfg.SourcesFile = filepath.Join(t.TempDir(), "missing.yaml")

	bot, err := NewBot(context.Background(), cfg, &logger.NopLogger{})
	if err != nil {
		t.Fatalf("NewBot: %v", err)
	}
	defer bot.Close()

	topics, err := bot.ListTopics(context.Background())
	if err != nil {
		t.Fatalf("ListTopics: %v", err)
	}
	if topics != nil {
		t.Fatalf("expected no topics, got %+v", topics)
	}
}
