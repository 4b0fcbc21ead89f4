package osnova

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/osari-hq/seobot/internal/domain"
)

func writeTempImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("fake image bytes"), 0o644); err != nil {
		t.Fatalf("write temp image: %v", err)
	}
	return path
}

func TestClientUploadImage(t *testing.T) {
	var gotToken, gotFilename string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/uploader/upload" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotToken = r.Header.Get("X-Device-Token")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		_, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		gotFilename = header.Filename
		fmt.Fprint(w, `{"result":[{"type":"image","data":{"uuid":"u-1","url":"https://cdn/u-1","width":640,"height":480}}]}`)
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, Token: "secret-token"})

	ref, err := client.UploadImage(context.Background(), writeTempImage(t, "photo.jpg"))
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if gotToken != "secret-token" {
		t.Fatalf("token header = %q", gotToken)
	}
	if gotFilename != "photo.jpg" {
		t.Fatalf("filename = %q", gotFilename)
	}
	if ref.UUID != "u-1" || ref.Width != 640 {
		t.Fatalf("unexpected ref %+v", ref)
	}
}

func TestClientCreateEntryDraftFlag(t *testing.T) {
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/entry/create" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		form = r.PostForm
		fmt.Fprint(w, `{"result":{"entry":{"id":101,"url":"https://vc.ru/s/demo/101"}}}`)
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, Token: "t", SubsiteID: 555})

	blocks := []Block{paragraphBlock("hello")}
	entry, err := client.CreateEntry(context.Background(), "Draft title", blocks, false)
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if entry.ID != 101 {
		t.Fatalf("entry id = %d", entry.ID)
	}

	if got := form.Get("title"); got != "Draft title" {
		t.Fatalf("title = %q", got)
	}
	if got := form.Get("subsite_id"); got != "555" {
		t.Fatalf("subsite_id = %q", got)
	}
	if got := form.Get("is_published"); got != "0" {
		t.Fatalf("is_published = %q", got)
	}

	var text struct {
		Blocks  []json.RawMessage `json:"blocks"`
		Version string            `json:"version"`
	}
	if err := json.Unmarshal([]byte(form.Get("text")), &text); err != nil {
		t.Fatalf("text field is not valid JSON: %v", err)
	}
	if text.Version != editorVersion || len(text.Blocks) != 1 {
		t.Fatalf("unexpected text payload: %+v", text)
	}
}

func TestClientCreateEntryOmitsUnsetSubsite(t *testing.T) {
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		form = r.PostForm
		fmt.Fprint(w, `{"result":{"entry":{"id":42}}}`)
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, Token: "t"})

	if _, err := client.CreateEntry(context.Background(), "T", nil, false); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if _, ok := form["subsite_id"]; ok {
		t.Fatalf("subsite_id must be absent when unset, got %q", form.Get("subsite_id"))
	}
}

func TestClientCreateEntryPublishedOmitsDraftFlag(t *testing.T) {
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		form = r.PostForm
		fmt.Fprint(w, `{"result":{"entry":{"id":7}}}`)
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, Token: "t", SubsiteID: 1})

	if _, err := client.CreateEntry(context.Background(), "T", nil, true); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if _, ok := form["is_published"]; ok {
		t.Fatal("is_published must be absent when publishing directly")
	}
}

func TestClientCreateEntrySurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"invalid token"}`)
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, Token: "bad"})

	_, err := client.CreateEntry(context.Background(), "T", nil, false)
	if err == nil {
		t.Fatal("expected error on 403")
	}
}

func TestPublishArticleSkipsFailedUploads(t *testing.T) {
	uploads := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/uploader/upload":
			uploads++
			if uploads == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			fmt.Fprintf(w, `{"result":[{"type":"image","data":{"uuid":"u-%d","url":"https://cdn/u"}}]}`, uploads)
		case "/entry/create":
			if err := r.ParseForm(); err != nil {
				t.Fatalf("parse form: %v", err)
			}
			var text struct {
				Blocks []struct {
					Type string `json:"type"`
				} `json:"blocks"`
			}
			if err := json.Unmarshal([]byte(r.PostForm.Get("text")), &text); err != nil {
				t.Fatalf("decode text: %v", err)
			}
			images := 0
			for _, b := range text.Blocks {
				if b.Type == BlockImage {
					images++
				}
			}
			if images != 1 {
				t.Errorf("expected 1 image block after one failed upload, got %d", images)
			}
			fmt.Fprint(w, `{"result":{"entry":{"id":9,"url":"https://vc.ru/s/x/9"}}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, Token: "t", SubsiteID: 1})

	article := &domain.Article{Title: "T", Intro: "intro"}
	photos := []string{
		writeTempImage(t, "one.jpg"),
		writeTempImage(t, "two.jpg"),
	}

	entry, err := client.PublishArticle(context.Background(), article, photos, false)
	if err != nil {
		t.Fatalf("PublishArticle: %v", err)
	}
	if entry.ID != 9 {
		t.Fatalf("entry id = %d", entry.ID)
	}
	if uploads != 2 {
		t.Fatalf("expected both uploads attempted, got %d", uploads)
	}
}
