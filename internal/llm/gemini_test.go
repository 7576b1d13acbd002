package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mchv/adminpilot/internal/store"
)

func testProvider(t *testing.T, handler http.HandlerFunc) *GeminiProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	g := NewGeminiProvider("test-key", "test-model")
	g.baseURL = srv.URL
	return g
}

func TestGeminiExtractSendsSchema(t *testing.T) {
	t.Parallel()
	var got geminiRequest
	g := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"title\":\"Bail\"}"}]}}]}`))
	})

	text, err := g.Extract(context.Background(), ExtractRequest{
		Text:       "bail de location",
		Categories: []string{"Logement", "Finance"},
	})
	require.NoError(t, err)
	require.Equal(t, `{"title":"Bail"}`, text)

	require.NotNil(t, got.GenerationConfig)
	require.Equal(t, "application/json", got.GenerationConfig.ResponseMimeType)
	require.NotNil(t, got.GenerationConfig.ResponseSchema)
	require.Contains(t, got.GenerationConfig.ResponseSchema.Properties["category"].Description, "Logement, Finance")
	require.Contains(t, got.GenerationConfig.ResponseSchema.Required, "dueDate")
	require.Empty(t, got.Tools)
}

func TestGeminiExtractImageInlineData(t *testing.T) {
	t.Parallel()
	var got geminiRequest
	g := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := g.Extract(context.Background(), ExtractRequest{
		ImageData: []byte{0x89, 0x50, 0x4e, 0x47},
		MimeType:  "image/png",
	})
	require.NoError(t, err)

	require.Len(t, got.Contents, 1)
	parts := got.Contents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].InlineData)
	require.Equal(t, "image/png", parts[0].InlineData.MimeType)
	require.Equal(t, "iVBORw==", parts[0].InlineData.Data)
	require.NotEmpty(t, parts[1].Text)
}

func TestGeminiDiscoverDealsGrounding(t *testing.T) {
	t.Parallel()
	var got geminiRequest
	g := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"candidates":[{
			"content":{"parts":[{"text":"Voici ["},{"text":"] les offres"}]},
			"groundingMetadata":{"groundingChunks":[
				{"web":{"uri":"https://a.example","title":"A"}},
				{"web":null},
				{"web":{"uri":"https://b.example"}}
			]}
		}]}`))
	})

	resp, err := g.DiscoverDeals(context.Background(), []store.Item{{ID: "1", Title: "Netflix"}})
	require.NoError(t, err)
	require.Equal(t, "Voici [] les offres", resp.Text)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, resp.SourceURLs)

	require.Len(t, got.Tools, 1)
	require.NotNil(t, got.Tools[0].GoogleSearch)
}

func TestGeminiStatusSentinels(t *testing.T) {
	t.Parallel()
	cases := map[int]error{
		http.StatusUnauthorized:    ErrUnauthorized,
		http.StatusForbidden:       ErrUnauthorized,
		http.StatusTooManyRequests: ErrRateLimited,
	}
	for code, want := range cases {
		code, want := code, want
		g := testProvider(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(code)
		})
		_, err := g.Advise(context.Background(), []AdviseItem{{Title: "x"}})
		require.ErrorIs(t, err, want, "status=%d", code)
	}
}

func TestGeminiNoAPIKey(t *testing.T) {
	t.Parallel()
	g := NewGeminiProvider("", "")
	_, err := g.Advise(context.Background(), []AdviseItem{{Title: "x"}})
	require.ErrorIs(t, err, ErrNoAPIKey)
}

func TestNewProviderSelection(t *testing.T) {
	t.Parallel()

	// the configured Gemini default must not override OpenAI's own default
	p := NewProvider("openai", "k", defaultModel)
	op, ok := p.(*OpenAIProvider)
	require.True(t, ok)
	require.Equal(t, "gpt-4o-mini", op.model)

	op = NewProvider("OpenAI", "k", "gpt-4.1").(*OpenAIProvider)
	require.Equal(t, "gpt-4.1", op.model)

	g, ok := NewProvider("", "k", "").(*GeminiProvider)
	require.True(t, ok)
	require.Equal(t, defaultModel, g.model)
}

func TestProjectItems(t *testing.T) {
	t.Parallel()
	items := []store.Item{{
		ID: "1", Title: "Netflix", Provider: "Netflix",
		DueDate: "2024-11-15", Status: store.StatusCompleted, Notes: "privé",
	}}
	proj := ProjectItems(items)
	require.Len(t, proj, 1)

	// the projection is compact: single-letter keys, nothing else leaks
	raw, err := json.Marshal(proj[0])
	require.NoError(t, err)
	require.JSONEq(t, `{"t":"Netflix","p":"Netflix","d":"2024-11-15","s":"completed"}`, string(raw))
}
