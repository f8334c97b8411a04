package domain

// Transcript is the text acquired for one video in one language, plus the
// video metadata the provider exposed alongside it.
type Transcript struct {
	VideoID     string
	Language    string
	Text        string
	Title       string
	Description string
}

// VideoResult is one discovery hit returned by the search provider.
type VideoResult struct {
	ID          string
	Title       string
	Description string
}
