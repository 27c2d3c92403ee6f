package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var longPosting = strings.Repeat("Build distributed systems in Go. ", 30)

func newLocalFetcher(options ...JobFetcherOption) *JobFetcher {
	return NewJobFetcher(append([]JobFetcherOption{WithOptions(localOptions())}, options...)...)
}

func postingHTML(body string) string {
	return `<html><head><title>Senior Go Engineer</title></head><body>
		<nav>Jobs home</nav>
		<div class="job-description"><h2>About the role</h2><p>` + body + `</p></div>
		<form id="application-form">Upload your CV</form>
	</body></html>`
}

func TestJobDescription_PlainFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(postingHTML(longPosting)))
	}))
	defer server.Close()

	fixed := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	f := newLocalFetcher()
	f.now = func() time.Time { return fixed }

	page, err := f.JobDescription(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer", page.Title)
	assert.Equal(t, PlatformUnknown, page.Platform)
	assert.True(t, strings.HasPrefix(page.Text, "About the role\nBuild distributed systems"))
	assert.NotContains(t, page.Text, "Upload your CV")
	assert.NotContains(t, page.Text, "Jobs home")
	assert.False(t, page.Rendered)
	assert.Equal(t, fixed, page.FetchedAt)
}

func TestJobDescription_InvalidURL(t *testing.T) {
	_, err := NewJobFetcher().JobDescription(context.Background(), "javascript:alert(1)")
	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
}

func TestJobDescription_ShortPageUsesRenderer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div id="root">Loading...</div></body></html>`))
	}))
	defer server.Close()

	var calls atomic.Int32
	f := newLocalFetcher(WithRenderer(func(_ context.Context, url string) (string, error) {
		calls.Add(1)
		assert.Equal(t, server.URL, url)
		return postingHTML(longPosting), nil
	}))

	page, err := f.JobDescription(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, page.Rendered)
	assert.Contains(t, page.Text, "Build distributed systems")
}

func TestJobDescription_ShortPageWithoutRenderer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(postingHTML("Go engineer wanted.")))
	}))
	defer server.Close()

	page, err := newLocalFetcher().JobDescription(context.Background(), server.URL)
	require.NoError(t, err)
	assert.False(t, page.Rendered)
	assert.Equal(t, "About the role\nGo engineer wanted.", page.Text)
}

func TestJobDescription_RendererFailureKeepsPlainText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(postingHTML("Go engineer wanted.")))
	}))
	defer server.Close()

	f := newLocalFetcher(WithRenderer(func(context.Context, string) (string, error) {
		return "", errors.New("chrome not installed")
	}))
	page, err := f.JobDescription(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, page.Text, "Go engineer wanted.")
}

func TestJobDescription_HTTPErrorRecoveredByRenderer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	f := newLocalFetcher(WithRenderer(func(context.Context, string) (string, error) {
		return postingHTML(longPosting), nil
	}))
	page, err := f.JobDescription(context.Background(), server.URL)
	require.NoError(t, err)
	assert.True(t, page.Rendered)
}

func TestJobDescription_HTTPErrorWithoutRenderer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := newLocalFetcher().JobDescription(context.Background(), server.URL)
	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusForbidden, fetchErr.Status)
}

func TestJobDescription_EmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><script>render()</script></body></html>`))
	}))
	defer server.Close()

	_, err := newLocalFetcher().JobDescription(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no job description text")
}

func TestJobDescription_Truncates(t *testing.T) {
	huge := strings.Repeat("é", MaxJobTextRunes+500)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><main>` + huge + `</main></body></html>`))
	}))
	defer server.Close()

	page, err := newLocalFetcher().JobDescription(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, MaxJobTextRunes, len([]rune(page.Text)))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héllo", truncateRunes("héllo", 10))
	assert.Equal(t, "hé", truncateRunes("héllo", 2))
}
