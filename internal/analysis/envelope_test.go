package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"result key", `{"result":"from result","response":"ignored"}`, "from result"},
		{"response key", `{"response":"from response"}`, "from response"},
		{"chat completions", `{"choices":[{"message":{"content":"from choices"}}]}`, "from choices"},
		{"chat completions parts", `{"choices":[{"message":{"content":[{"type":"text","text":"a"},{"type":"text","text":"b"}]}}]}`, "ab"},
		{"message content", `{"message":{"content":"from message"}}`, "from message"},
		{"content key", `{"content":"from content"}`, "from content"},
		{"bare json string", `"bare text"`, "bare text"},
		{"empty result skipped", `{"result":"","content":"next"}`, "next"},
		{"unknown shape keeps body", `{"foo":{"overall":7}}`, `{"foo":{"overall":7}}`},
		{"not json", `Sure! {"overall": 7}`, `Sure! {"overall": 7}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractText([]byte(tc.body), DefaultTextExtractors))
		})
	}
}

func TestExtractText_CustomChain(t *testing.T) {
	only := []TextExtractor{textAt("output", "text")}
	assert.Equal(t, "deep", ExtractText([]byte(`{"result":"r","output":{"text":"deep"}}`), only))
}

func TestExtractURL(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
		ok   bool
	}{
		{"image_url", `{"image_url":"https://a/1.png","url":"https://b"}`, "https://a/1.png", true},
		{"url", `{"url":"https://b/2.png"}`, "https://b/2.png", true},
		{"image", `{"image":"https://c/3.png"}`, "https://c/3.png", true},
		{"data.url", `{"data":{"url":"https://d/4.png"}}`, "https://d/4.png", true},
		{"result", `{"result":"https://e/5.png"}`, "https://e/5.png", true},
		{"bare json string", `"https://f/6.png"`, "https://f/6.png", true},
		{"bare text", `https://g/7.png`, "https://g/7.png", true},
		{"bare non url", `"no image"`, "", false},
		{"missing", `{"status":"queued"}`, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractURL([]byte(tc.body), DefaultURLExtractors)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodePayload(t *testing.T) {
	t.Run("fenced reply", func(t *testing.T) {
		text := "```json\n{\"overall\": 7.5, \"jawline\": 6.1, \"summary\": \"ok\"}\n```"
		p, err := DecodePayload(text)
		require.NoError(t, err)
		face := p.Face()
		assert.Equal(t, 7.5, face.Overall)
		assert.Equal(t, 6.1, face.Jawline)
	})

	t.Run("no object", func(t *testing.T) {
		_, err := DecodePayload("I cannot rate faces.")
		assert.ErrorIs(t, err, ErrNoJSONObject)
	})

	t.Run("broken object", func(t *testing.T) {
		_, err := DecodePayload(`{"overall": 7,`+"\n"+`}`)
		assert.Error(t, err)
	})
}
