package entity

// Tweet is a labeled example stored for later fine-tuning
type Tweet struct {
	ID     string `json:"id" gorm:"type:text;primaryKey"`
	Author string `json:"author" gorm:"type:text"`
	Text   string `json:"text" gorm:"type:text"`
	Label  string `json:"label" gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Tweet) TableName() string {
	return "tweets"
}

// NewTweet creates a new Tweet
func NewTweet(id, author, text, label string) *Tweet {
	return &Tweet{
		ID:     id,
		Author: author,
		Text:   text,
		Label:  label,
	}
}

// HasKnownLabel reports whether the stored label is one of the two classes
func (t *Tweet) HasKnownLabel() bool {
	return Label(t.Label).IsValid()
}
