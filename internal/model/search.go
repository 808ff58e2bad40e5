package model

// NotAvailable is the sentinel providers use for missing year/poster.
const NotAvailable = "N/A"

// SearchResult is the provider-independent shape returned to the client.
// Field names follow the OMDB casing the client already consumes.
type SearchResult struct {
	IMDbID      string `json:"imdbID"`
	Title       string `json:"Title"`
	Year        string `json:"Year"`
	Poster      string `json:"Poster"`
	Actors      string `json:"Actors"`
	Plot        string `json:"Plot"`
	Description string `json:"description"`
}
