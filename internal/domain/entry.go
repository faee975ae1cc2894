package domain

// CalendarEntry is the content behind one door of a calendar.
// Title is required; at least one of the payload fields must be set.
type CalendarEntry struct {
	Record
	CalendarID string `json:"calendar_id"`
	Day        int    `json:"day"`
	Title      string `json:"title"`
	Body       string `json:"body,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	VideoURL   string `json:"video_url,omitempty"`
	LinkURL    string `json:"link_url,omitempty"`
}

// HasContent reports whether the entry carries any payload beyond its title.
func (e *CalendarEntry) HasContent() bool {
	return e.Body != "" || e.ImageURL != "" || e.VideoURL != "" || e.LinkURL != ""
}
