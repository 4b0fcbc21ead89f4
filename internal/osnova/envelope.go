package osnova

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// The platform wraps payloads inconsistently across API versions: sometimes
// under "result", sometimes under "data", sometimes bare. Responses are
// therefore unwrapped leniently, first match wins, falling back to the root.

// Entry identifies a created post on the platform.
type Entry struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

func unwrapNode(body []byte, paths ...string) gjson.Result {
	root := gjson.ParseBytes(body)
	for _, path := range paths {
		if node := root.Get(path); node.Exists() {
			return node
		}
	}
	return root
}

// parseUploadedMedia extracts the first uploaded file reference from an
// uploader response.
func parseUploadedMedia(body []byte) (MediaReference, error) {
	node := unwrapNode(body, "result.data", "result", "data")
	if node.IsArray() {
		node = node.Get("0")
	}
	// Image items may nest the file attributes one level deeper.
	if inner := node.Get("data"); inner.Exists() && inner.Get("uuid").Exists() {
		node = inner
	}

	ref := MediaReference{
		URL:    node.Get("url").String(),
		UUID:   node.Get("uuid").String(),
		Width:  int(node.Get("width").Int()),
		Height: int(node.Get("height").Int()),
	}
	if ref.UUID == "" && ref.URL == "" {
		return MediaReference{}, fmt.Errorf("uploader response carries no file reference: %s", readBodySnippet(body))
	}
	return ref, nil
}

// parseEntry extracts the created entry's identifier and public URL. A
// missing URL is synthesized from the id so callers always get something
// clickable.
func parseEntry(body []byte) (Entry, error) {
	node := unwrapNode(body, "result.entry", "result", "entry", "data.entry", "data")

	id := node.Get("id").Int()
	if id == 0 {
		id = node.Get("entryId").Int()
	}
	if id == 0 {
		return Entry{}, fmt.Errorf("entry id missing in response: %s", readBodySnippet(body))
	}

	url := node.Get("url").String()
	if url == "" {
		url = fmt.Sprintf("https://vc.ru/u/me/%d", id)
	}
	return Entry{ID: id, URL: url}, nil
}
