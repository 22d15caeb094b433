package dto

type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Company   string `json:"company"`
	Position  string `json:"position"`
	Type      string `json:"type"`
}

type UpdateDetailsInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Company   *string `json:"company"`
	Position  *string `json:"position"`
	Password  *string `json:"password"`
}

type ContactInput struct {
	City      string `json:"city"`
	Street    string `json:"street"`
	House     string `json:"house"`
	Structure string `json:"structure"`
	Building  string `json:"building"`
	Apartment string `json:"apartment"`
	Phone     string `json:"phone"`
}

type ContactUpdateInput struct {
	City      *string `json:"city"`
	Street    *string `json:"street"`
	House     *string `json:"house"`
	Structure *string `json:"structure"`
	Building  *string `json:"building"`
	Apartment *string `json:"apartment"`
	Phone     *string `json:"phone"`
}
