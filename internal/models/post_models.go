package models

// Post is one collected document as written to the intermediate JSON file.
type Post struct {
	Text string `json:"text"`
}

// Texts returns the post bodies in order.
func Texts(posts []Post) []string {
	texts := make([]string, 0, len(posts))
	for _, p := range posts {
		texts = append(texts, p.Text)
	}
	return texts
}
