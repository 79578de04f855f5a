package dto

// Provider payloads are passed through to the client unchanged, so results
// stay schemaless here.

type SearchResultsResponse struct {
	Results []map[string]any `json:"results"`
	Source  string           `json:"source"`
}

type SearchDetailResponse struct {
	Result map[string]any `json:"result"`
	Source string         `json:"source"`
}
