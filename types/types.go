package types

// VideoInfo describes a resolved DoodStream video.
type VideoInfo struct {
	ID       string
	Title    string
	Domain   string
	PageURL  string
	EmbedURL string
	Token    string
}

// DisplayTitle returns the title, falling back to the token and then the page URL.
func (v *VideoInfo) DisplayTitle() string {
	if v.Title != "" {
		return v.Title
	}
	if v.Token != "" {
		return v.Token
	}
	return v.PageURL
}
