package coach

type Article struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	IconKey  string `json:"iconKey"`
}

// Articles is the reading list shown next to the chat.
func Articles() []Article {
	return []Article{
		{Title: "Peptides 101: A Complete Guide", Category: "Education", IconKey: "book"},
		{Title: "Optimizing Your Jawline", Category: "Face", IconKey: "person"},
		{Title: "Body Recomposition Basics", Category: "Body", IconKey: "barbell"},
		{Title: "Skin Health & Peptides", Category: "Skin", IconKey: "sparkles"},
	}
}
