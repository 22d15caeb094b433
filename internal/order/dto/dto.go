package dto

// ItemSpec adds a listing to the basket. The wire field "id" is the
// product_info id, matching the original API payloads.
type ItemSpec struct {
	ProductInfoID int64 `json:"id"`
	Quantity      int   `json:"quantity"`
}

// UpdateSpec changes the quantity of an existing basket line; here
// "id" is the order-item id.
type UpdateSpec struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

type ItemError struct {
	ID    int64  `json:"id"`
	Error string `json:"error"`
}

// AddResult reports a partial-success batch: every validly-formed
// entry is applied independently.
type AddResult struct {
	Created int         `json:"created"`
	Errors  []ItemError `json:"errors,omitempty"`
}

type UpdateResult struct {
	Updated int `json:"updated"`
}

type RemoveResult struct {
	Deleted int `json:"deleted"`
}
