// ABOUTME: Relationship links one opening to one video with a match score
// ABOUTME: Composite key (opening FEN, video id); score is an opaque rank weight
package models

// Relationship is one row of the opening-video join table.
type Relationship struct {
	OpeningFEN string  `json:"opening_fen"`
	VideoID    string  `json:"video_id"`
	MatchScore float64 `json:"match_score"`
}

// EcoMapping is a provisional legacy mapping that references an opening
// family by classification code rather than by exact position.
type EcoMapping struct {
	Eco        string  `json:"eco"`
	VideoID    string  `json:"video_id"`
	MatchScore float64 `json:"match_score"`
}
