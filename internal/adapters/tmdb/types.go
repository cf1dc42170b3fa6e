package tmdb

type searchResponse struct {
	Page    int           `json:"page"`
	Results []searchMovie `json:"results"`
}

type searchMovie struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
}

type movieResponse struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Tagline       string  `json:"tagline"`
	ReleaseDate   string  `json:"release_date"`
	Overview      string  `json:"overview"`
	PosterPath    string  `json:"poster_path"`
	Genres        []genre `json:"genres"`
	ExternalIDs   struct {
		IMDbID string `json:"imdb_id"`
	} `json:"external_ids"`
	Videos struct {
		Results []video `json:"results"`
	} `json:"videos"`
}

type genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type video struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Site        string `json:"site"`
	Type        string `json:"type"`
	Official    bool   `json:"official"`
	PublishedAt string `json:"published_at"`
}
