package extract

import (
	"reflect"
	"sort"
	"testing"
)

func TestParseFrontMatter(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantMeta map[string]string
		wantBody string
	}{
		{
			name:     "basic block",
			raw:      "---\ntitle: Hello\nauthor: Jane\n---\nBody text\n",
			wantMeta: map[string]string{"title": "Hello", "author": "Jane"},
			wantBody: "Body text",
		},
		{
			name:     "no block",
			raw:      "  Just a body\nwith lines  \n",
			wantMeta: map[string]string{},
			wantBody: "Just a body\nwith lines",
		},
		{
			name:     "empty block",
			raw:      "---\n---\nOnly body",
			wantMeta: map[string]string{},
			wantBody: "Only body",
		},
		{
			name:     "unterminated block is body",
			raw:      "---\ntitle: Open\nbody",
			wantMeta: map[string]string{},
			wantBody: "---\ntitle: Open\nbody",
		},
		{
			name:     "value keeps later colons",
			raw:      "---\nlink: https://example.com:8080/a\ntime: 10:30:00\n---\n",
			wantMeta: map[string]string{"link": "https://example.com:8080/a", "time": "10:30:00"},
			wantBody: "",
		},
		{
			name:     "lines without colon and blank lines ignored",
			raw:      "---\n\njust words\n  key  :   spaced value  \n: no key\n---\nx",
			wantMeta: map[string]string{"key": "spaced value"},
			wantBody: "x",
		},
		{
			name:     "fence with surrounding whitespace and CRLF",
			raw:      "  ---  \r\ntitle: Windows\r\n--- \r\n\r\nBody\r\n",
			wantMeta: map[string]string{"title": "Windows"},
			wantBody: "Body",
		},
		{
			name:     "block must open on first line",
			raw:      "intro\n---\ntitle: Late\n---\nrest",
			wantMeta: map[string]string{},
			wantBody: "intro\n---\ntitle: Late\n---\nrest",
		},
		{
			name:     "later fences stay in body",
			raw:      "---\ntitle: A\n---\npart one\n---\npart two",
			wantMeta: map[string]string{"title": "A"},
			wantBody: "part one\n---\npart two",
		},
		{
			name:     "empty value",
			raw:      "---\nexcerpt:\n---\n",
			wantMeta: map[string]string{"excerpt": ""},
			wantBody: "",
		},
		{
			name:     "empty input",
			raw:      "",
			wantMeta: map[string]string{},
			wantBody: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, body := ParseFrontMatter(tt.raw)
			if !reflect.DeepEqual(meta, tt.wantMeta) {
				t.Errorf("meta = %#v, want %#v", meta, tt.wantMeta)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestParseFrontMatter_RoundTrip(t *testing.T) {
	docs := []string{
		"---\ntitle: Test\nweight: 2\n---\nBody",
		"---\ntitle:   Padded  \ntags: [a, b, c]\nurl: http://x.y:1/z\nfeatured: true\n---\n\nText\n",
		"---\nempty:\nnote: a: b: c\n---\n",
	}

	for _, doc := range docs {
		meta, body := ParseFrontMatter(doc)

		keys := make([]string, 0, len(meta))
		for k := range meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		again, againBody := ParseFrontMatter(FormatFrontMatter(keys, meta, body))
		if !reflect.DeepEqual(meta, again) {
			t.Errorf("round trip changed metadata:\n first %#v\nsecond %#v", meta, again)
		}
		if body != againBody {
			t.Errorf("round trip changed body: %q vs %q", body, againBody)
		}
	}
}

func TestParseDocument(t *testing.T) {
	doc := ParseDocument("---\nfeatured: true\nweight: 3\ntags: [go, cli]\ntitle: Hi\n---\nBody")

	if !doc.Meta["featured"].Bool {
		t.Error("expected featured to coerce to true")
	}
	if doc.Meta["weight"].Number != 3 {
		t.Errorf("expected weight 3, got %v", doc.Meta["weight"])
	}
	if !reflect.DeepEqual(doc.Meta["tags"].List, []string{"go", "cli"}) {
		t.Errorf("unexpected tags: %v", doc.Meta["tags"].List)
	}
	if doc.Meta["title"].Raw != "Hi" {
		t.Errorf("unexpected title: %v", doc.Meta["title"])
	}
	if doc.Body != "Body" {
		t.Errorf("unexpected body: %q", doc.Body)
	}
}
