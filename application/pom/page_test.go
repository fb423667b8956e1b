package pom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name   string
		rawurl string
		params []Param
		want   string
	}{
		{
			name:   "no params",
			rawurl: "https://example.com/search",
			want:   "https://example.com/search",
		},
		{
			name:   "spaces encode as percent twenty",
			rawurl: "https://example.com/search",
			params: []Param{{"q", "a b"}, {"l", "ny"}},
			want:   "https://example.com/search?q=a%20b&l=ny",
		},
		{
			name:   "insertion order preserved",
			rawurl: "https://example.com/",
			params: []Param{{"z", "1"}, {"a", "2"}, {"m", "3"}},
			want:   "https://example.com/?z=1&a=2&m=3",
		},
		{
			name:   "existing query kept and appended to",
			rawurl: "https://example.com/items?page=2",
			params: []Param{{"sort", "name"}},
			want:   "https://example.com/items?page=2&sort=name",
		},
		{
			name:   "reserved characters escaped",
			rawurl: "https://example.com/",
			params: []Param{{"redirect", "https://other.com/?a=1&b=2"}},
			want:   "https://example.com/?redirect=https%3A%2F%2Fother.com%2F%3Fa%3D1%26b%3D2",
		},
		{
			name:   "duplicate keys all emitted",
			rawurl: "https://example.com/",
			params: []Param{{"tag", "go"}, {"tag", "web"}},
			want:   "https://example.com/?tag=go&tag=web",
		},
		{
			name:   "relative url",
			rawurl: "search",
			params: []Param{{"q", "a b"}},
			want:   "search?q=a%20b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildURL(tt.rawurl, tt.params...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildURLInvalid(t *testing.T) {
	_, err := BuildURL("://missing-scheme")
	assert.Error(t, err)
}

func TestOpenNavigates(t *testing.T) {
	drv := newFakeDriver()
	page := NewPage(drv)

	err := page.Open(context.Background(), "https://example.com/search", Param{"q", "a b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/search?q=a%20b"}, drv.visitedURLs())
}

func TestOpenWrapsBadURL(t *testing.T) {
	drv := newFakeDriver()
	page := NewPage(drv)

	err := page.Open(context.Background(), "://bad")
	var navErr *NavigationError
	require.ErrorAs(t, err, &navErr)
	assert.Equal(t, "://bad", navErr.URL)
	assert.Empty(t, drv.visitedURLs())
}

func TestOpenWrapsDriverFailure(t *testing.T) {
	drv := newFakeDriver()
	drv.navErr = errors.New("connection refused")
	page := NewPage(drv)

	err := page.Open(context.Background(), "https://example.com/")
	var navErr *NavigationError
	require.ErrorAs(t, err, &navErr)
	assert.Equal(t, "https://example.com/", navErr.URL)
	assert.ErrorIs(t, err, drv.navErr)
}

func TestPageAccessors(t *testing.T) {
	drv := newFakeDriver()
	drv.title = "Dashboard"
	drv.url = "https://example.com/dash"
	page := NewPage(drv)

	title, err := page.Title(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Dashboard", title)

	url, err := page.URL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/dash", url)

	shot, err := page.Screenshot(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, shot)

	assert.Same(t, drv, page.Driver())
}

func TestPageOptions(t *testing.T) {
	drv := newFakeDriver()

	t.Run("defaults", func(t *testing.T) {
		page := NewPage(drv)
		assert.Equal(t, DefaultTimeout, page.Timeout())
	})

	t.Run("overrides", func(t *testing.T) {
		log := logrus.New()
		page := NewPage(drv, WithTimeout(3*time.Second), WithLogger(log))
		assert.Equal(t, 3*time.Second, page.Timeout())
		assert.Same(t, log, page.log)
	})
}
