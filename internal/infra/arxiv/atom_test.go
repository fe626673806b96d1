package arxiv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const atomFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <title>ArXiv Query: search_query=cat:math.AG</title>
  <entry>
    <id>http://arxiv.org/abs/2408.01234v1</id>
    <title>On Moduli
  Spaces of Sheaves</title>
    <summary>We study
  moduli spaces of semistable sheaves.</summary>
    <author><name>Alice Doe</name></author>
    <author><name>Bob Roe</name></author>
    <category term="math.AG"/>
    <category term="math.RT"/>
    <link href="http://arxiv.org/abs/2408.01234v1" rel="alternate" type="text/html"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2408.05678v2</id>
    <title>Hodge Theory Revisited</title>
    <summary>A new look at Hodge structures.</summary>
    <author><name>Carol Poe</name></author>
    <category term="math.AG"/>
    <link href="http://arxiv.org/abs/2408.05678v2" rel="alternate" type="text/html"/>
  </entry>
</feed>`

func TestAtomFetcher_FetchNew(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(atomFeed))
	}))
	defer srv.Close()

	f := NewAtomFetcher(srv.Client(), AtomConfig{APIBaseURL: srv.URL, MaxResults: 50})

	papers, err := f.FetchNew(context.Background(), "math.AG")

	require.NoError(t, err)
	require.Len(t, papers, 2)

	assert.Contains(t, gotQuery, "search_query=cat%3Amath.AG")
	assert.Contains(t, gotQuery, "sortBy=submittedDate")
	assert.Contains(t, gotQuery, "max_results=50")

	assert.Equal(t, "2408.01234", papers[0].ID)
	assert.Equal(t, "On Moduli Spaces of Sheaves", papers[0].Title)
	assert.Equal(t, []string{"Alice Doe", "Bob Roe"}, papers[0].Authors)
	assert.Equal(t, []string{"math.AG", "math.RT"}, papers[0].Categories)
	assert.Equal(t, "We study moduli spaces of semistable sheaves.", papers[0].Abstract)

	assert.Equal(t, "2408.05678", papers[1].ID)
}

func TestAtomFetcher_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewAtomFetcher(srv.Client(), AtomConfig{APIBaseURL: srv.URL})

	_, err := f.FetchNew(context.Background(), "math.AG")

	assert.Error(t, err)
}

func TestPaperIDFromEntry(t *testing.T) {
	tests := []struct {
		name string
		item *gofeed.Item
		want string
	}{
		{
			name: "guid with version",
			item: &gofeed.Item{GUID: "http://arxiv.org/abs/2408.01234v1"},
			want: "2408.01234",
		},
		{
			name: "guid without version",
			item: &gofeed.Item{GUID: "http://arxiv.org/abs/2408.01234"},
			want: "2408.01234",
		},
		{
			name: "old style id",
			item: &gofeed.Item{GUID: "http://arxiv.org/abs/math/0211159v2"},
			want: "math/0211159",
		},
		{
			name: "falls back to link",
			item: &gofeed.Item{Link: "http://arxiv.org/abs/2408.05678v3"},
			want: "2408.05678",
		},
		{
			name: "no abs link",
			item: &gofeed.Item{GUID: "http://example.com/feed/1"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paperIDFromEntry(tt.item))
		})
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", normalizeWhitespace("  a\n  b\tc "))
	assert.Equal(t, "", normalizeWhitespace("  \n "))
}
