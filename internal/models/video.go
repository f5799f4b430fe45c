// ABOUTME: Video represents an enriched YouTube video record
// ABOUTME: Validated with struct tags before insertion into the store
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Video is one external video keyed by its YouTube id.
type Video struct {
	ID           string    `json:"id" validate:"required"`
	Title        string    `json:"title" validate:"required"`
	ChannelID    string    `json:"channel_id" validate:"required"`
	ChannelTitle string    `json:"channel_title" validate:"required"`
	Duration     int64     `json:"duration" validate:"gte=0"`
	ViewCount    int64     `json:"view_count" validate:"gte=0"`
	PublishedAt  time.Time `json:"published_at"`
	ThumbnailURL string    `json:"thumbnail_url"`
}

// Validate checks the record against its struct tags and returns a
// single human-readable error listing every failing field.
func (v *Video) Validate() error {
	errs := validate.Struct(v)
	if errs == nil {
		return nil
	}

	var details strings.Builder
	for _, fe := range errs.(validator.ValidationErrors) {
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		switch fe.Tag() {
		case "required":
			fmt.Fprintf(&details, "%s is required", fe.Field())
		case "gte":
			fmt.Fprintf(&details, "%s must be >= %s", fe.Field(), fe.Param())
		default:
			fmt.Fprintf(&details, "%s failed %s validation", fe.Field(), fe.Tag())
		}
	}
	return fmt.Errorf("invalid video record: %s", details.String())
}

// URL returns the public watch URL for the video.
func (v *Video) URL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// RankedVideo pairs a video with the match score of one relationship.
type RankedVideo struct {
	Video
	MatchScore float64 `json:"score"`
}
