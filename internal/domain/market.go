package domain

import "time"

// MarketTags is the fixed tag vocabulary a market can be labelled with.
var MarketTags = []string{
	"Arts",
	"Web Dev",
	"Technology",
	"Crafts",
	"Entertainment",
	"Sports",
	"Music",
	"Business",
	"Fashion",
	"Food",
	"Health",
	"Travel",
	"Other",
}

func IsValidTag(tag string) bool {
	for _, t := range MarketTags {
		if t == tag {
			return true
		}
	}
	return false
}

type Market struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
