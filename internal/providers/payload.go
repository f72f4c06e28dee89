package providers

// NamedRef is the {id, name, slug} object RAWG nests for genres, tags, developers, etc.
type NamedRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// PlatformEntry wraps the nested platform object. Platform may be null upstream.
type PlatformEntry struct {
	Platform *NamedRef `json:"platform"`
}

// ScreenshotEntry is a screenshot as returned in short_screenshots or /screenshots.
type ScreenshotEntry struct {
	ID    int    `json:"id"`
	Image string `json:"image"`
	URL   string `json:"url,omitempty"`
}

// ListItem is the lightweight entry returned by the games listing endpoint.
type ListItem struct {
	ID               int               `json:"id"`
	Slug             string            `json:"slug"`
	Name             string            `json:"name"`
	Released         string            `json:"released"`
	BackgroundImage  *string           `json:"background_image"`
	Rating           *float64          `json:"rating"`
	Metacritic       *int              `json:"metacritic"`
	Platforms        []PlatformEntry   `json:"platforms"`
	Genres           []NamedRef        `json:"genres"`
	ShortScreenshots []ScreenshotEntry `json:"short_screenshots"`
}

// GameDetail is the full single-game payload.
type GameDetail struct {
	ListItem
	Description    string     `json:"description"`
	DescriptionRaw string     `json:"description_raw"`
	Website        string     `json:"website"`
	Playtime       *int       `json:"playtime"`
	Developers     []NamedRef `json:"developers"`
	Publishers     []NamedRef `json:"publishers"`
	ESRBRating     *NamedRef  `json:"esrb_rating"`
	Tags           []NamedRef `json:"tags"`
}

// GamesPage is one page of the listing endpoint.
type GamesPage struct {
	Count    int        `json:"count"`
	Next     *string    `json:"next"`
	Previous *string    `json:"previous"`
	Results  []ListItem `json:"results"`
}

// ScreenshotsPage is the payload of the screenshots endpoint.
type ScreenshotsPage struct {
	Count   int               `json:"count"`
	Results []ScreenshotEntry `json:"results"`
}
