package reddit

import "sub_notifier/internal/domain"

// Listing mirrors the Reddit listing response for /r/<sub>/new.json.
type Listing struct {
	Data ListingData `json:"data"`
}

type ListingData struct {
	Children []Child `json:"children"`
}

type Child struct {
	Data Submission `json:"data"`
}

type Submission struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	CreatedUTC domain.CreatedAt `json:"created_utc"`
}
