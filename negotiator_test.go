// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package negotiation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pearAcceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,text/*;q=0.7,*/*,image/gif; q=0.8, image/jpeg; q=0.6, image/*"
	rfcAcceptHeader  = "text/*;q=0.3, text/html;q=0.7, text/html;level=1, text/html;level=2;q=0.4, */*;q=0.5"
)

func TestBest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		header     string
		priorities []string
		wantOK     bool
		wantType   string
		wantParams map[string]string
	}{
		{name: "malformed header element ignored", header: "/qwer", priorities: []string{"f/g"}},
		{name: "malformed element skipped", header: "/qwer,f/g", priorities: []string{"f/g"}, wantOK: true, wantType: "f/g"},

		{name: "rfc level=1", header: rfcAcceptHeader, priorities: []string{"text/html;level=1"}, wantOK: true, wantType: "text/html", wantParams: map[string]string{"level": "1"}},
		{name: "rfc plain html", header: rfcAcceptHeader, priorities: []string{"text/html"}, wantOK: true, wantType: "text/html"},
		{name: "rfc text/plain", header: rfcAcceptHeader, priorities: []string{"text/plain"}, wantOK: true, wantType: "text/plain"},
		{name: "rfc image/jpeg", header: rfcAcceptHeader, priorities: []string{"image/jpeg"}, wantOK: true, wantType: "image/jpeg"},
		{name: "rfc level=2", header: rfcAcceptHeader, priorities: []string{"text/html;level=2"}, wantOK: true, wantType: "text/html", wantParams: map[string]string{"level": "2"}},
		{name: "rfc level=3", header: rfcAcceptHeader, priorities: []string{"text/html;level=3"}, wantOK: true, wantType: "text/html", wantParams: map[string]string{"level": "3"}},

		{name: "quality beats priority order", header: "text/*;q=0.7, text/html;q=0.3, */*;q=0.5, image/png;q=0.4", priorities: []string{"text/html", "image/png"}, wantOK: true, wantType: "image/png"},
		{name: "highest quality wins", header: "image/png;q=0.1, text/plain, audio/ogg;q=0.9", priorities: []string{"image/png", "text/plain", "audio/ogg"}, wantOK: true, wantType: "text/plain"},
		{name: "no compatible type", header: "image/png, text/plain, audio/ogg", priorities: []string{"baz/asdf"}},
		{name: "single compatible type", header: "image/png, text/plain, audio/ogg", priorities: []string{"audio/ogg"}, wantOK: true, wantType: "audio/ogg"},
		{name: "case insensitive no match", header: "image/png, text/plain, audio/ogg", priorities: []string{"YO/SuP"}},

		{name: "charset on both sides", header: "text/html; charset=UTF-8, application/pdf", priorities: []string{"text/html; charset=UTF-8"}, wantOK: true, wantType: "text/html", wantParams: map[string]string{"charset": "UTF-8"}},
		{name: "header charset unsatisfied", header: "text/html; charset=UTF-8, application/pdf", priorities: []string{"text/html"}},
		{name: "server params returned verbatim", header: "text/html, application/pdf", priorities: []string{"text/html; charset=UTF-8"}, wantOK: true, wantType: "text/html", wantParams: map[string]string{"charset": "UTF-8"}},

		{name: "pear 1", header: pearAcceptHeader, priorities: []string{"image/gif", "image/png", "application/xhtml+xml", "application/xml", "text/html", "image/jpeg", "text/plain"}, wantOK: true, wantType: "image/png"},
		{name: "pear 2", header: pearAcceptHeader, priorities: []string{"image/gif", "application/xhtml+xml", "application/xml", "image/jpeg", "text/plain"}, wantOK: true, wantType: "application/xhtml+xml"},
		{name: "pear 3", header: pearAcceptHeader, priorities: []string{"image/gif", "application/xml", "image/jpeg", "text/plain"}, wantOK: true, wantType: "application/xml"},
		{name: "pear 4", header: pearAcceptHeader, priorities: []string{"image/gif", "image/jpeg", "text/plain"}, wantOK: true, wantType: "image/gif"},
		{name: "pear 5", header: pearAcceptHeader, priorities: []string{"text/plain", "image/png", "image/jpeg"}, wantOK: true, wantType: "image/png"},
		{name: "pear 6", header: pearAcceptHeader, priorities: []string{"image/jpeg", "image/gif"}, wantOK: true, wantType: "image/gif"},
		{name: "pear 7", header: pearAcceptHeader, priorities: []string{"image/png"}, wantOK: true, wantType: "image/png"},
		{name: "pear 8", header: pearAcceptHeader, priorities: []string{"audio/midi"}, wantOK: true, wantType: "audio/midi"},
		{name: "browser wildcard", header: "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8", priorities: []string{"application/rss+xml"}, wantOK: true, wantType: "application/rss+xml"},

		{name: "whitespace and case 1", header: "text/* ; q=0.3, TEXT/html ;Q=0.7, text/html ; level=1, texT/Html ;leVel = 2 ;q=0.4, */* ; q=0.5", priorities: []string{"text/html; level=2"}, wantOK: true, wantType: "text/html", wantParams: map[string]string{"level": "2"}},
		{name: "whitespace and case 2", header: "text/* ; q=0.3, text/html;Q=0.7, text/html ;level=1, text/html; level=2;q=0.4, */*;q=0.5", priorities: []string{"text/HTML; level=3"}, wantOK: true, wantType: "text/html", wantParams: map[string]string{"level": "3"}},

		{name: "incompatible", header: "text/html", priorities: []string{"application/rss"}},
		{name: "ie8", header: "image/jpeg, application/x-ms-application, image/gif, application/xaml+xml, image/pjpeg, application/x-ms-xbap, */*", priorities: []string{"text/html", "application/xhtml+xml"}, wantOK: true, wantType: "text/html"},
		{name: "server quality ignored by default", header: rfcAcceptHeader, priorities: []string{"text/html;q=0.4", "text/plain"}, wantOK: true, wantType: "text/html"},

		{name: "suffix wildcard priority", header: "application/vnd.api+json", priorities: []string{"application/json", "application/*+json"}, wantOK: true, wantType: "application/*+json"},
		{name: "suffix wildcard against pear", header: pearAcceptHeader, priorities: []string{"application/*+xml"}, wantOK: true, wantType: "application/*+xml"},
		{name: "wildcard priority returned verbatim", header: "image/png", priorities: []string{"*/*"}, wantOK: true, wantType: "*/*"},
		{name: "only commas", header: ",,,", priorities: []string{"text/html"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mt, ok, err := Best(tt.header, tt.priorities)
			require.NoError(t, err)
			require.Equal(t, tt.wantOK, ok, "Best(%q, %v)", tt.header, tt.priorities)
			if !tt.wantOK {
				assert.Equal(t, MediaType{}, mt)
				return
			}

			assert.Equal(t, tt.wantType, mt.Value())
			want := tt.wantParams
			if want == nil {
				want = map[string]string{}
			}
			assert.Equal(t, want, mt.Params)
		})
	}
}

func TestBest_Errors(t *testing.T) {
	t.Parallel()

	t.Run("empty header", func(t *testing.T) {
		t.Parallel()
		for _, header := range []string{"", " ", "\n", "\r\n", " \v "} {
			_, ok, err := Best(header, []string{"foo/bar"})
			require.ErrorIs(t, err, ErrEmptyHeader, "header %q", header)
			assert.False(t, ok)

			_, _, err = New(WithStrict()).Best(header, []string{"foo/bar"})
			require.ErrorIs(t, err, ErrEmptyHeader, "strict header %q", header)
		}
	})

	t.Run("priority with a list separator", func(t *testing.T) {
		t.Parallel()
		_, ok, err := Best("*/*", []string{"text/html, x"})
		require.ErrorIs(t, err, ErrInvalidMediaType)
		assert.False(t, ok)
	})

	t.Run("nan quality is not acceptable", func(t *testing.T) {
		t.Parallel()
		_, ok, err := New(WithRejectZeroQuality()).Best("text/html;q=nan", []string{"text/html"})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing priorities", func(t *testing.T) {
		t.Parallel()
		_, _, err := Best("*/*", []string{})
		require.ErrorIs(t, err, ErrMissingPriorities)
	})

	t.Run("missing priorities reported before empty header", func(t *testing.T) {
		t.Parallel()
		_, _, err := Best("", nil)
		require.ErrorIs(t, err, ErrMissingPriorities)
	})

	t.Run("malformed priority", func(t *testing.T) {
		t.Parallel()
		_, _, err := Best("foo/bar", []string{"/qwer"})
		require.ErrorIs(t, err, ErrInvalidMediaType)
	})

	t.Run("malformed header in strict mode", func(t *testing.T) {
		t.Parallel()
		_, _, err := New(WithStrict()).Best("sdlfkj20ff; wdf", []string{"foo/qwer"})

		var mtErr *MediaTypeError
		require.ErrorAs(t, err, &mtErr)
		assert.Equal(t, "sdlfkj20ff; wdf", mtErr.Value)
	})

	t.Run("malformed header tolerated by default", func(t *testing.T) {
		t.Parallel()
		_, ok, err := Best("sdlfkj20ff; wdf", []string{"foo/qwer"})
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestBest_Options(t *testing.T) {
	t.Parallel()

	t.Run("source quality", func(t *testing.T) {
		t.Parallel()
		n := New(WithSourceQuality())

		mt, ok, err := n.Best("text/html,text/*;q=0.7", []string{"text/html;q=0.5", "text/plain;q=0.9"})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "text/plain", mt.Value())

		mt, ok, err = n.Best(rfcAcceptHeader, []string{"text/html;q=0.4", "text/plain"})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "text/plain", mt.Value())
	})

	t.Run("case sensitive parameter values", func(t *testing.T) {
		t.Parallel()

		_, ok, err := Best("text/html;charset=utf-8", []string{"text/html;charset=UTF-8"})
		require.NoError(t, err)
		assert.True(t, ok)

		_, ok, err = New(WithCaseSensitiveParamValues()).Best("text/html;charset=utf-8", []string{"text/html;charset=UTF-8"})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("reject zero quality", func(t *testing.T) {
		t.Parallel()

		mt, ok, err := Best("application/json;q=0", []string{"application/json"})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "application/json", mt.Value())

		_, ok, err = New(WithRejectZeroQuality()).Best("application/json;q=0", []string{"application/json"})
		require.NoError(t, err)
		assert.False(t, ok)

		n := New(WithRejectZeroQuality())

		_, ok, err = n.Best("text/html;q=0, */*", []string{"text/html"})
		require.NoError(t, err)
		assert.False(t, ok, "the specific q=0 range overrides */*")

		mt, ok, err = n.Best("text/html;q=0, */*", []string{"text/html", "application/json"})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "application/json", mt.Value())

		tok, ok, err := n.BestEncoding("br;q=0, *", []string{"br", "gzip"})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "gzip", tok.Value)
	})
}

// A duplicated priority never changes the selected media type.
func TestBest_DuplicatePriority(t *testing.T) {
	t.Parallel()

	priorities := []string{"image/gif", "image/png", "application/xhtml+xml", "application/xml", "text/html", "image/jpeg", "text/plain"}
	want, ok, err := Best(pearAcceptHeader, priorities)
	require.NoError(t, err)
	require.True(t, ok)

	for i := range priorities {
		dup := append(append([]string{}, priorities...), priorities[i])
		got, ok, err := Best(pearAcceptHeader, dup)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, got, "duplicated %q", priorities[i])
	}
}

func TestBest_Deterministic(t *testing.T) {
	t.Parallel()

	priorities := []string{"image/gif", "image/png", "application/xhtml+xml", "text/plain"}
	first, _, err := Best(pearAcceptHeader, priorities)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				got, ok, err := Best(pearAcceptHeader, priorities)
				assert.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, first, got)
			}
		}()
	}
	wg.Wait()
}

// The returned parameters are a copy owned by the caller.
func TestBest_ParamsNotShared(t *testing.T) {
	t.Parallel()

	priorities := []string{"text/html; charset=UTF-8"}
	mt, _, err := Best("text/html", priorities)
	require.NoError(t, err)
	mt.Params["charset"] = "latin1"

	again, _, err := Best("text/html", priorities)
	require.NoError(t, err)
	assert.Equal(t, "UTF-8", again.Params["charset"])
}

func TestBestLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		header     string
		priorities []string
		wantOK     bool
		want       string
	}{
		{name: "exact", header: "en-US, en;q=0.9, fr;q=0.8", priorities: []string{"fr", "en-US"}, wantOK: true, want: "en-us"},
		{name: "base accepts region", header: "en;q=0.9, fr;q=0.8", priorities: []string{"fr", "en-GB"}, wantOK: true, want: "en-gb"},
		{name: "region accepts base", header: "en-US", priorities: []string{"de", "en"}, wantOK: true, want: "en"},
		{name: "region mismatch", header: "en-US", priorities: []string{"en-GB"}},
		{name: "wildcard", header: "da, *;q=0.1", priorities: []string{"en", "de"}, wantOK: true, want: "en"},
		{name: "quality", header: "fr;q=0.5, de", priorities: []string{"fr", "de"}, wantOK: true, want: "de"},
		{name: "no match", header: "ja", priorities: []string{"en", "fr"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tok, ok, err := BestLanguage(tt.header, tt.priorities)
			require.NoError(t, err)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, tok.Value)
		})
	}
}

func TestBestCharsetAndEncoding(t *testing.T) {
	t.Parallel()

	t.Run("charset", func(t *testing.T) {
		t.Parallel()
		tok, ok, err := BestCharset("utf-8, iso-8859-1;q=0.5", []string{"iso-8859-1", "UTF-8"})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "utf-8", tok.String())
	})

	t.Run("charset wildcard", func(t *testing.T) {
		t.Parallel()
		tok, ok, err := BestCharset("*", []string{"iso-8859-1", "utf-8"})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "iso-8859-1", tok.Value)
	})

	t.Run("encoding quality", func(t *testing.T) {
		t.Parallel()
		tok, ok, err := BestEncoding("gzip;q=0.8, br", []string{"gzip", "br"})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "br", tok.Value)
	})

	t.Run("encoding no match", func(t *testing.T) {
		t.Parallel()
		_, ok, err := BestEncoding("compress", []string{"gzip", "br"})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed token priority", func(t *testing.T) {
		t.Parallel()
		_, _, err := BestEncoding("gzip", []string{"application/gzip"})
		require.ErrorIs(t, err, ErrInvalidMediaType)
	})

	t.Run("token errors", func(t *testing.T) {
		t.Parallel()
		_, _, err := BestCharset(" ", []string{"utf-8"})
		require.ErrorIs(t, err, ErrEmptyHeader)

		_, _, err = BestEncoding("gzip", nil)
		require.ErrorIs(t, err, ErrMissingPriorities)
	})
}

func TestOrderByQuality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		header   string
		expected []string
	}{
		{
			name:     "header order kept without qualities",
			header:   "text/html, text/xml",
			expected: []string{"text/html", "text/xml"},
		},
		{
			name:     "ordered by quality",
			header:   "text/html;q=0.3, text/html;q=0.7",
			expected: []string{"text/html;q=0.7", "text/html;q=0.3"},
		},
		{
			name:     "parameters do not affect order",
			header:   "text/*;q=0.3, text/html;q=0.7, text/html;level=1, text/html;level=2;q=0.4, */*;q=0.5",
			expected: []string{"text/html;level=1", "text/html;q=0.7", "*/*;q=0.5", "text/html;level=2;q=0.4", "text/*;q=0.3"},
		},
		{
			name:     "malformed kept",
			header:   "/qwer",
			expected: []string{"/qwer"},
		},
		{
			name:     "nan quality sorts as zero",
			header:   "a/a;q=0.5, b/b;q=nan, c/c;q=0.9",
			expected: []string{"c/c;q=0.9", "a/a;q=0.5", "b/b;q=0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			candidates, err := OrderByQuality(tt.header)
			require.NoError(t, err)

			got := make([]string, 0, len(candidates))
			for _, c := range candidates {
				got = append(got, c.String())
			}
			assert.Equal(t, tt.expected, got)
		})
	}

	t.Run("empty header", func(t *testing.T) {
		t.Parallel()
		_, err := OrderByQuality("")
		require.ErrorIs(t, err, ErrEmptyHeader)
	})

	t.Run("original index preserved", func(t *testing.T) {
		t.Parallel()
		candidates, err := OrderByQuality("a/b;q=0.1, c/d")
		require.NoError(t, err)
		require.Len(t, candidates, 2)
		assert.Equal(t, 1, candidates[0].Index)
		assert.Equal(t, 0, candidates[1].Index)
	})
}

func TestMediaTypeString(t *testing.T) {
	t.Parallel()

	mt := MediaType{Type: "text", Subtype: "html", Params: map[string]string{"level": "1", "charset": "UTF-8"}}
	assert.Equal(t, "text/html; charset=UTF-8; level=1", mt.String())
	assert.Equal(t, "text/html", mt.Value())

	quoted := MediaType{Type: "text", Subtype: "plain", Params: map[string]string{"title": "a,b"}}
	assert.Equal(t, `text/plain; title="a,b"`, quoted.String())
}
