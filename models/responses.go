package models

// AuthResponse is the backend's reply to password authentication and token
// refresh: a bearer token plus the account record it was issued for.
type AuthResponse struct {
	Token  string   `json:"token"`
	Record Identity `json:"record"`
}

// ListPage is one page of a paginated listing response. The gateway
// iterates pages until TotalPages is exhausted; callers only ever see the
// concatenated items.
type ListPage struct {
	Page       int      `json:"page"`
	PerPage    int      `json:"perPage"`
	TotalItems int      `json:"totalItems"`
	TotalPages int      `json:"totalPages"`
	Items      []Record `json:"items"`
}
