package dto

type UploadCVResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
