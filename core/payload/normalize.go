package payload

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// Normalize coerces an arbitrary backend or capability result into the
// canonical [Payload] union. It accepts:
//
//   - nil → empty payload
//   - string → single text part, unless the string encodes a JSON content
//     list, in which case it is parsed (repairing broken JSON first) and
//     normalized structurally
//   - []any / []map[string]any → one part per item, mapping common provider
//     block shapes ({"type":"text","text":...}, {"type":"image_url",...},
//     {"type":"image","source":{...}})
//   - anything else → text part with the value's JSON (or fmt) rendering
//
// Normalize never returns an error and never panics: content it cannot
// interpret degrades to a text part carrying the raw representation, so a
// malformed payload costs fidelity, never a failed turn.
func Normalize(v any) Payload {
	switch val := v.(type) {
	case nil:
		return Payload{}
	case Payload:
		return val
	case Part:
		return Payload{val}
	case string:
		return normalizeString(val)
	case []any:
		return normalizeList(val)
	case []map[string]any:
		items := make([]any, len(val))
		for i := range val {
			items[i] = val[i]
		}
		return normalizeList(items)
	case map[string]any:
		return Payload{normalizeItem(val)}
	case json.RawMessage:
		return normalizeString(string(val))
	default:
		return Payload{{Kind: KindText, Text: renderOpaque(val)}}
	}
}

// normalizeString treats content that looks like a JSON array or object as a
// structured content list, repairing the JSON when the backend mangled it.
// Everything else is plain text and passes through untouched.
func normalizeString(s string) Payload {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "{") {
		return Text(s)
	}

	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(trimmed)
		if repairErr != nil {
			return Text(s)
		}
		if err := json.Unmarshal([]byte(repaired), &decoded); err != nil {
			return Text(s)
		}
	}

	switch d := decoded.(type) {
	case []any:
		if looksLikeContentList(d) {
			return normalizeList(d)
		}
	case map[string]any:
		if looksLikeContentItem(d) {
			return Payload{normalizeItem(d)}
		}
	}

	// Valid JSON but not a content list: keep it as text verbatim.
	return Text(s)
}

func normalizeList(items []any) Payload {
	out := make(Payload, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case string:
			out = append(out, Part{Kind: KindText, Text: it})
		case map[string]any:
			out = append(out, normalizeItem(it))
		case nil:
			// Skip null entries silently.
		default:
			out = append(out, Part{Kind: KindText, Text: renderOpaque(it)})
		}
	}
	return out
}

// normalizeItem maps one provider content block into a [Part]. The shapes
// handled cover the OpenAI chat-completions and Anthropic messages formats;
// unknown blocks degrade to their JSON rendering as text.
func normalizeItem(item map[string]any) Part {
	typ, _ := item["type"].(string)

	switch typ {
	case "text", "output_text":
		text, _ := item["text"].(string)
		return Part{Kind: KindText, Text: text}

	case "image_url":
		if nested, ok := item["image_url"].(map[string]any); ok {
			url, _ := nested["url"].(string)
			return Part{Kind: KindImage, URL: url}
		}
		url, _ := item["image_url"].(string)
		return Part{Kind: KindImage, URL: url}

	case "image":
		if source, ok := item["source"].(map[string]any); ok {
			mediaType, _ := source["media_type"].(string)
			data, _ := source["data"].(string)
			url, _ := source["url"].(string)
			return Part{Kind: KindImage, MediaType: mediaType, Data: data, URL: url}
		}
		return Part{Kind: KindImage}

	case "document", "file":
		if source, ok := item["source"].(map[string]any); ok {
			mediaType, _ := source["media_type"].(string)
			data, _ := source["data"].(string)
			return Part{Kind: KindBinary, MediaType: mediaType, Data: data}
		}
		return Part{Kind: KindBinary}
	}

	// Blocks without a type but with a text field are common enough to
	// special-case before falling back to opaque rendering.
	if text, ok := item["text"].(string); ok {
		return Part{Kind: KindText, Text: text}
	}
	if content, ok := item["content"].(string); ok {
		return Part{Kind: KindText, Text: content}
	}

	return Part{Kind: KindText, Text: renderOpaque(item)}
}

func looksLikeContentList(items []any) bool {
	for _, item := range items {
		switch it := item.(type) {
		case string:
			return true
		case map[string]any:
			if looksLikeContentItem(it) {
				return true
			}
		}
	}
	return false
}

func looksLikeContentItem(item map[string]any) bool {
	if _, ok := item["type"].(string); ok {
		return true
	}
	if _, ok := item["text"].(string); ok {
		return true
	}
	return false
}

func renderOpaque(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
