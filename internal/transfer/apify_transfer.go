package transfer

// ApifyActorInput is the run input for the Instagram post scraper actor.
type ApifyActorInput struct {
	Username     []string `json:"username"`
	ResultsLimit int      `json:"resultsLimit"`
}

type ApifySidecarItem struct {
	Type     string `json:"type"`
	VideoURL string `json:"videoUrl"`
}

// ApifyPostItem is one dataset item as returned by the actor. The response
// is loosely typed upstream; absent counters decode to zero.
type ApifyPostItem struct {
	ID             string             `json:"id"`
	URL            string             `json:"url"`
	Type           string             `json:"type"`
	ShortCode      string             `json:"shortCode"`
	Caption        string             `json:"caption"`
	LikesCount     int                `json:"likesCount"`
	CommentsCount  int                `json:"commentsCount"`
	VideoViewCount int                `json:"videoViewCount"`
	VideoURL       string             `json:"videoUrl"`
	DisplayURL     string             `json:"displayUrl"`
	Timestamp      string             `json:"timestamp"`
	OwnerUsername  string             `json:"ownerUsername"`
	QueryUsername  string             `json:"queryUsername"`
	SidecarMedia   []ApifySidecarItem `json:"sidecarMedia"`
}
