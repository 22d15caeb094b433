package model

type Shop struct {
	ID     int64   `db:"id" json:"id"`
	Name   string  `db:"name" json:"name"`
	URL    *string `db:"url" json:"url,omitempty"`
	UserID *int64  `db:"user_id" json:"-"`
	State  bool    `db:"state" json:"state"`
}

// Category ids come from supplier documents, not a sequence.
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
