package payload

import (
	"strings"
)

// PartKind discriminates the variants of the [Part] union.
type PartKind string

const (
	// KindText is a plain UTF-8 text part.
	KindText PartKind = "text"

	// KindImage is a reference to an image, either by URL or by inline
	// base64 data with a media type.
	KindImage PartKind = "image"

	// KindBinary is an opaque non-text attachment (audio, PDF, raw bytes)
	// identified by its media type.
	KindBinary PartKind = "binary"
)

// Part is one content item in a [Payload]. Exactly one variant is populated,
// selected by Kind. Parts are immutable by convention: once appended to a
// transcript they are never modified.
type Part struct {
	Kind PartKind `json:"kind"`

	// Text holds the content for KindText parts.
	Text string `json:"text,omitempty"`

	// MediaType is the MIME type for image and binary parts
	// (e.g. "image/png", "application/pdf").
	MediaType string `json:"media_type,omitempty"`

	// URL references external content for image and binary parts.
	URL string `json:"url,omitempty"`

	// Data holds inline content for image and binary parts, base64-encoded
	// as received from the backend. It is carried verbatim; conclave never
	// decodes it.
	Data string `json:"data,omitempty"`
}

// Payload is an ordered, heterogeneous list of content parts. It is the only
// content representation the orchestrator, transcript, and exporter operate on.
type Payload []Part

// Text returns a new payload containing a single text part.
func Text(s string) Payload {
	return Payload{{Kind: KindText, Text: s}}
}

// String flattens the payload into displayable text. Text parts are joined
// with blank lines; non-text parts are rendered as bracketed placeholders so
// that a transcript containing images still reads coherently.
func (p Payload) String() string {
	parts := make([]string, 0, len(p))
	for _, part := range p {
		switch part.Kind {
		case KindText:
			parts = append(parts, part.Text)
		case KindImage:
			parts = append(parts, imagePlaceholder(part))
		case KindBinary:
			parts = append(parts, binaryPlaceholder(part))
		}
	}
	return strings.Join(parts, "\n\n")
}

// IsEmpty reports whether the payload carries no content at all: no parts, or
// only text parts that are blank after trimming.
func (p Payload) IsEmpty() bool {
	for _, part := range p {
		if part.Kind != KindText {
			return false
		}
		if strings.TrimSpace(part.Text) != "" {
			return false
		}
	}
	return true
}

// HasAttachments reports whether the payload contains any non-text part.
func (p Payload) HasAttachments() bool {
	for _, part := range p {
		if part.Kind != KindText {
			return true
		}
	}
	return false
}

func imagePlaceholder(part Part) string {
	if part.URL != "" {
		return "[image: " + part.URL + "]"
	}
	if part.MediaType != "" {
		return "[image: inline " + part.MediaType + "]"
	}
	return "[image]"
}

func binaryPlaceholder(part Part) string {
	if part.MediaType != "" {
		return "[attachment: " + part.MediaType + "]"
	}
	return "[attachment]"
}
