// Package axoratypes defines citation metadata types for grounded replies.
// This file contains the schema-less grounding document and its tolerant
// source extraction.
package axoratypes

import "encoding/json"

// Grounding carries provider-defined citation metadata verbatim, as raw
// JSON. Its shape is owned by the backend and only partially consumed here,
// so it is kept schema-less rather than forced into a fixed struct.
type Grounding []byte

// NewGrounding marshals an arbitrary metadata payload into a Grounding
// document. Returns nil for nil input or when the payload cannot be
// serialized, so callers can assign the result unconditionally.
func NewGrounding(metadata any) Grounding {
	if metadata == nil {
		return nil
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil
	}
	return Grounding(raw)
}

// MarshalJSON emits the raw document unchanged.
func (g Grounding) MarshalJSON() ([]byte, error) {
	if g == nil {
		return []byte("null"), nil
	}
	return g, nil
}

// UnmarshalJSON stores the raw document unchanged.
func (g *Grounding) UnmarshalJSON(data []byte) error {
	*g = append((*g)[0:0], data...)
	return nil
}

// GroundingSource is one web citation extracted from a grounding document.
type GroundingSource struct {
	URI   string
	Title string
}

// groundingDocument is the slice of the provider payload that Axora
// actually reads: groundingChunks[].web.{uri,title}.
type groundingDocument struct {
	GroundingChunks []struct {
		Web *struct {
			URI   string `json:"uri"`
			Title string `json:"title"`
		} `json:"web"`
	} `json:"groundingChunks"`
}

// Sources decodes the web citations out of the grounding document. Entries
// without a web URI are skipped; a malformed or empty document yields nil.
func (g Grounding) Sources() []GroundingSource {
	if len(g) == 0 {
		return nil
	}
	var doc groundingDocument
	if err := json.Unmarshal(g, &doc); err != nil {
		return nil
	}
	var sources []GroundingSource
	for _, chunk := range doc.GroundingChunks {
		if chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		sources = append(sources, GroundingSource{URI: chunk.Web.URI, Title: chunk.Web.Title})
	}
	return sources
}
