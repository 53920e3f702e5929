package tips

import (
	"encoding/json"
	"fmt"
)

// Top-level keys the listing endpoint uses instead of league names when it
// has nothing to list.
var envelopeKinds = []string{"Erro", "Info"}

// DecodeListing parses a jogos-do-dia payload. An Erro or Info envelope is
// returned as a *ListingRejection whose message is the home field of the
// envelope's first entry.
func DecodeListing(body []byte) (Catalog, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return Catalog{}, fmt.Errorf("failed to unmarshal listing: %w", err)
	}

	for _, kind := range envelopeKinds {
		payload, ok := raw[kind]
		if !ok {
			continue
		}
		var entries []struct {
			Home string `json:"home"`
		}
		// A malformed envelope still counts as a rejection, just without a message
		_ = json.Unmarshal(payload, &entries)

		rejection := &ListingRejection{Kind: kind}
		if len(entries) > 0 {
			rejection.Message = entries[0].Home
		}
		return Catalog{}, rejection
	}

	var catalog Catalog
	if err := json.Unmarshal(body, &catalog); err != nil {
		return Catalog{}, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	return catalog, nil
}
