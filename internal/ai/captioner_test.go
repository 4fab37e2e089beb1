package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mehndi-album-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDescription_LineFormat(t *testing.T) {
	caption, tags := parseDescription("Caption: Intricate bridal henna on both hands\nTags: [mehndi, bridal, henna]")

	assert.Equal(t, "Intricate bridal henna on both hands", caption)
	assert.Equal(t, []string{"mehndi", "bridal", "henna"}, tags)
}

func TestParseDescription_QuotedCaption(t *testing.T) {
	caption, tags := parseDescription("Caption: \"Floral mehndi pattern\"\nTags: flowers, pattern")

	assert.Equal(t, "Floral mehndi pattern", caption)
	assert.Equal(t, []string{"flowers", "pattern"}, tags)
}

func TestParseDescription_JSON(t *testing.T) {
	caption, tags := parseDescription(`{"caption": "Geometric henna design", "tags": ["geometric", "henna"]}`)

	assert.Equal(t, "Geometric henna design", caption)
	assert.Equal(t, []string{"geometric", "henna"}, tags)
}

func TestParseDescription_FencedJSON(t *testing.T) {
	text := "```json\n{\"caption\": \"Peacock motif on palm\", \"tags\": [\"peacock\", \"palm\"]}\n```"
	caption, tags := parseDescription(text)

	assert.Equal(t, "Peacock motif on palm", caption)
	assert.Equal(t, []string{"peacock", "palm"}, tags)
}

func TestParseDescription_Garbage_Fallback(t *testing.T) {
	caption, tags := parseDescription("I cannot describe this image, sorry.")

	assert.Equal(t, FallbackCaption, caption)
	assert.Equal(t, FallbackTags(), tags)
}

func TestParseDescription_EmptyTags_Fallback(t *testing.T) {
	caption, tags := parseDescription("Caption: Simple design\nTags: [ , , ]")

	assert.Equal(t, "Simple design", caption)
	assert.Equal(t, FallbackTags(), tags)
}

func TestParseDescription_JSONWithEmptyTags_Fallback(t *testing.T) {
	_, tags := parseDescription(`{"caption": "Something", "tags": []}`)

	assert.Equal(t, FallbackTags(), tags)
}

func TestCleanTags(t *testing.T) {
	tags := cleanTags([]string{" mehndi ", `"design"`, "", "mehndi", "bridal"})

	assert.Equal(t, []string{"mehndi", "design", "bridal"}, tags)
}

func TestMimeTypeFromURL(t *testing.T) {
	assert.Equal(t, "image/png", mimeTypeFromURL("https://cdn.example.com/a.png"))
	assert.Equal(t, "image/gif", mimeTypeFromURL("https://cdn.example.com/a.gif"))
	assert.Equal(t, "image/webp", mimeTypeFromURL("https://cdn.example.com/a.webp"))
	assert.Equal(t, "image/jpeg", mimeTypeFromURL("https://cdn.example.com/a.jpg"))
	assert.Equal(t, "image/jpeg", mimeTypeFromURL("https://cdn.example.com/noext"))
}

// newImageServer serves fake image bytes on every path.
func newImageServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not-really-a-jpeg"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDescribe_Success(t *testing.T) {
	// Arrange
	images := newImageServer(t)

	gen := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Contains(t, r.URL.Path, ":generateContent")
		require.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Caption: Delicate vine work\nTags: [vine, delicate]"}]}}]}`))
	}))
	t.Cleanup(gen.Close)

	c := NewCaptioner(config.GeminiConfig{BaseURL: gen.URL, Model: "gemini-1.5-flash", APIKey: "test-key"})

	// Act
	caption, tags := c.Describe(context.Background(), images.URL+"/photo.jpg")

	// Assert
	assert.Equal(t, "Delicate vine work", caption)
	assert.Equal(t, []string{"vine", "delicate"}, tags)
}

func TestDescribe_GeneratorError_Fallback(t *testing.T) {
	images := newImageServer(t)

	gen := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(gen.Close)

	c := NewCaptioner(config.GeminiConfig{BaseURL: gen.URL, Model: "gemini-1.5-flash", APIKey: "k"})

	caption, tags := c.Describe(context.Background(), images.URL+"/photo.jpg")

	assert.Equal(t, FallbackCaption, caption)
	assert.Equal(t, FallbackTags(), tags)
}

func TestDescribe_MalformedResponse_Fallback(t *testing.T) {
	images := newImageServer(t)

	gen := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[]}`))
	}))
	t.Cleanup(gen.Close)

	c := NewCaptioner(config.GeminiConfig{BaseURL: gen.URL, Model: "gemini-1.5-flash", APIKey: "k"})

	caption, tags := c.Describe(context.Background(), images.URL+"/photo.jpg")

	assert.Equal(t, FallbackCaption, caption)
	assert.Equal(t, FallbackTags(), tags)
}

func TestDescribe_ImageFetchFails_Fallback(t *testing.T) {
	images := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(images.Close)

	gen := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("generator must not be called when the image fetch fails")
	}))
	t.Cleanup(gen.Close)

	c := NewCaptioner(config.GeminiConfig{BaseURL: gen.URL, Model: "gemini-1.5-flash", APIKey: "k"})

	caption, tags := c.Describe(context.Background(), images.URL+"/missing.jpg")

	assert.Equal(t, FallbackCaption, caption)
	assert.Equal(t, FallbackTags(), tags)
}
