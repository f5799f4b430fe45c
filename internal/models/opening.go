// ABOUTME: Opening represents a single chess opening keyed by FEN
// ABOUTME: Stored in SQLite as the primary entity of the explorer
package models

import "encoding/json"

// Opening is one catalog entry, uniquely identified by its FEN string.
type Opening struct {
	FEN     string   `json:"fen"`
	Name    string   `json:"name"`
	Eco     string   `json:"eco"`
	Aliases []string `json:"aliases"`
	Src     string   `json:"src,omitempty"`
}

// AliasList normalizes the legacy catalog alias field, which may arrive
// as a single string, an array of strings, or be absent entirely.
type AliasList []string

// UnmarshalJSON accepts a string, an array, or null and always yields a slice.
func (a *AliasList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*a = []string{}
		} else {
			*a = []string{single}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	if many == nil {
		many = []string{}
	}
	*a = many
	return nil
}
