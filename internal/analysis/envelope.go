package analysis

import (
	"encoding/json"
	"strings"
)

// TextExtractor pulls the model's text out of one response envelope shape.
type TextExtractor func(envelope any) (string, bool)

// DefaultTextExtractors lists the envelope shapes the vision vendor has been
// seen to use, in priority order.
var DefaultTextExtractors = []TextExtractor{
	textAt("result"),
	textAt("response"),
	choicesContent,
	textAt("message", "content"),
	textAt("content"),
	bareString,
}

// ExtractText decodes body and runs the extractor chain; the first hit wins.
// A body that is not JSON, or matches no extractor, is returned as-is.
func ExtractText(body []byte, extractors []TextExtractor) string {
	var envelope any
	if err := json.Unmarshal(body, &envelope); err != nil {
		return string(body)
	}
	for _, extract := range extractors {
		if text, ok := extract(envelope); ok {
			return text
		}
	}
	return string(body)
}

func lookup(v any, path ...string) (any, bool) {
	for _, key := range path {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		if v, ok = m[key]; !ok {
			return nil, false
		}
	}
	return v, true
}

func textAt(path ...string) TextExtractor {
	return func(envelope any) (string, bool) {
		v, ok := lookup(envelope, path...)
		if !ok {
			return "", false
		}
		return asText(v)
	}
}

// choicesContent handles the chat-completions shape choices[0].message.content.
func choicesContent(envelope any) (string, bool) {
	choices, ok := lookup(envelope, "choices")
	if !ok {
		return "", false
	}
	list, ok := choices.([]any)
	if !ok || len(list) == 0 {
		return "", false
	}
	content, ok := lookup(list[0], "message", "content")
	if !ok {
		return "", false
	}
	return asText(content)
}

func bareString(envelope any) (string, bool) {
	return asText(envelope)
}

// asText accepts a non-empty string, or a list of {type:text,text} parts.
func asText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, strings.TrimSpace(t) != ""
	case []any:
		var b strings.Builder
		for _, part := range t {
			if text, ok := lookup(part, "text"); ok {
				if s, ok := text.(string); ok {
					b.WriteString(s)
				}
			}
		}
		return b.String(), b.Len() > 0
	}
	return "", false
}

// URLExtractor pulls a generated image URL out of one envelope shape.
type URLExtractor func(envelope any) (string, bool)

// DefaultURLExtractors lists the image generator envelope shapes.
var DefaultURLExtractors = []URLExtractor{
	urlAt("image_url"),
	urlAt("url"),
	urlAt("image"),
	urlAt("data", "url"),
	urlAt("result"),
	bareURL,
}

func urlAt(path ...string) URLExtractor {
	return func(envelope any) (string, bool) {
		v, ok := lookup(envelope, path...)
		if !ok {
			return "", false
		}
		s, ok := v.(string)
		return s, ok && s != ""
	}
}

func bareURL(envelope any) (string, bool) {
	s, ok := envelope.(string)
	return s, ok && strings.HasPrefix(s, "http")
}

// ExtractURL runs the URL chain over a decoded body.
func ExtractURL(body []byte, extractors []URLExtractor) (string, bool) {
	var envelope any
	if err := json.Unmarshal(body, &envelope); err != nil {
		envelope = strings.TrimSpace(string(body))
	}
	for _, extract := range extractors {
		if url, ok := extract(envelope); ok {
			return url, true
		}
	}
	return "", false
}
