package dto

type DraftRequest struct {
	Places string `json:"places"`
}

type DraftResponse struct {
	Places string `json:"places"`
}
