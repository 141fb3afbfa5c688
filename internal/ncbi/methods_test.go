// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ncbi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func methodsArticle(pmcid, text string) string {
	return fmt.Sprintf(`<article>
<front><article-meta><article-id pub-id-type="pmc">%s</article-id></article-meta></front>
<body><sec sec-type="methods"><title>Methods</title><p>%s</p></sec></body>
</article>`, pmcid, text)
}

func TestFetchMethodsBatch(t *testing.T) {
	// Response carries only the first requested article, in its own order.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pmc", r.URL.Query().Get("db"))
		// Prefixes must be stripped on the wire.
		assert.NotContains(t, r.URL.Query().Get("id"), "PMC")
		fmt.Fprintf(w, "<pmc-articleset>%s</pmc-articleset>", methodsArticle("100", "We did things."))
	}))
	defer ts.Close()

	old := efetchBase
	efetchBase = ts.URL
	defer func() { efetchBase = old }()

	texts, warnings, err := testClient(ts).FetchMethodsBatch(context.Background(), []string{"PMC100", "PMC200"})
	require.NoError(t, err)
	require.Len(t, texts, 2)

	require.NotNil(t, texts[0])
	assert.Contains(t, *texts[0], "We did things.")
	assert.Nil(t, texts[1])
	assert.Empty(t, warnings)
}

func TestFetchMethodsBatchOutOfOrder(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "<pmc-articleset>%s%s</pmc-articleset>",
			methodsArticle("PMC200", "Second methods."),
			methodsArticle("100", "First methods."))
	}))
	defer ts.Close()

	old := efetchBase
	efetchBase = ts.URL
	defer func() { efetchBase = old }()

	texts, _, err := testClient(ts).FetchMethodsBatch(context.Background(), []string{"pmc100", "PMC200"})
	require.NoError(t, err)
	require.Len(t, texts, 2)
	require.NotNil(t, texts[0])
	require.NotNil(t, texts[1])
	assert.Contains(t, *texts[0], "First methods.")
	assert.Contains(t, *texts[1], "Second methods.")
}

func TestFetchMethodsBatchMalformedArticle(t *testing.T) {
	// An article without a repository identifier is skipped with a
	// warning; the rest of the batch still resolves.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "<pmc-articleset><article><body/></article>%s</pmc-articleset>",
			methodsArticle("100", "Good article."))
	}))
	defer ts.Close()

	old := efetchBase
	efetchBase = ts.URL
	defer func() { efetchBase = old }()

	texts, warnings, err := testClient(ts).FetchMethodsBatch(context.Background(), []string{"PMC100"})
	require.NoError(t, err)
	require.Len(t, texts, 1)
	require.NotNil(t, texts[0])
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "skipped")
}

func TestFetchMethodsBatchEmbargoedArticle(t *testing.T) {
	// Present in the response but without a body: resolves to nil, not
	// an error.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<pmc-articleset><article><front><article-meta><article-id pub-id-type="pmc">100</article-id></article-meta></front></article></pmc-articleset>`)
	}))
	defer ts.Close()

	old := efetchBase
	efetchBase = ts.URL
	defer func() { efetchBase = old }()

	texts, warnings, err := testClient(ts).FetchMethodsBatch(context.Background(), []string{"PMC100"})
	require.NoError(t, err)
	require.Len(t, texts, 1)
	assert.Nil(t, texts[0])
	assert.Empty(t, warnings)
}

func TestFetchMethodsBatchChunking(t *testing.T) {
	var batchSizes []int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		batchSizes = append(batchSizes, len(strings.Split(r.URL.Query().Get("id"), ",")))
		fmt.Fprint(w, "<pmc-articleset></pmc-articleset>")
	}))
	defer ts.Close()

	old := efetchBase
	efetchBase = ts.URL
	defer func() { efetchBase = old }()

	ids := make([]string, 23)
	for i := range ids {
		ids[i] = fmt.Sprintf("PMC%d", i)
	}
	texts, _, err := testClient(ts).FetchMethodsBatch(context.Background(), ids)
	require.NoError(t, err)
	assert.Len(t, texts, 23)
	assert.Equal(t, []int{10, 10, 3}, batchSizes)
}

func TestFetchMethodsBatchTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	old := efetchBase
	efetchBase = ts.URL
	defer func() { efetchBase = old }()

	_, _, err := testClient(ts).FetchMethodsBatch(context.Background(), []string{"PMC1"})
	require.Error(t, err)
}

func TestFetchMethodsBatchEmptyInput(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
	}))
	defer ts.Close()

	old := efetchBase
	efetchBase = ts.URL
	defer func() { efetchBase = old }()

	texts, warnings, err := testClient(ts).FetchMethodsBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, texts)
	assert.Nil(t, warnings)
	assert.Zero(t, calls)
}
