package unsplash

// SearchResponse represents the body of GET /search/photos
type SearchResponse struct {
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
	Results    []Photo `json:"results"`
}

// Photo represents a photo object from the Unsplash API
type Photo struct {
	ID             string     `json:"id"`
	Width          int        `json:"width"`
	Height         int        `json:"height"`
	Color          string     `json:"color"`
	Likes          int        `json:"likes"`
	Description    *string    `json:"description"`
	AltDescription *string    `json:"alt_description"`
	User           User       `json:"user"`
	URLs           PhotoURLs  `json:"urls"`
	Links          PhotoLinks `json:"links"`
}

// PhotoURLs holds the size variants of a photo
type PhotoURLs struct {
	Raw     string `json:"raw"`
	Full    string `json:"full"`
	Regular string `json:"regular"`
	Small   string `json:"small"`
	Thumb   string `json:"thumb"`
}

// PhotoLinks holds related links for a photo
type PhotoLinks struct {
	Self             string `json:"self"`
	HTML             string `json:"html"`
	Download         string `json:"download"`
	DownloadLocation string `json:"download_location"`
}

// User represents the photographer
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// ErrorResponse represents an Unsplash error body
type ErrorResponse struct {
	Errors []string `json:"errors"`
}
