package global

import "encoding/json"

// ErrorBody is the envelope for every failed request.
type ErrorBody struct {
	Error string `json:"error"`
}

type ReviewResponse struct {
	Success bool        `json:"success"`
	Review  interface{} `json:"review"`
}

type ReviewListResponse struct {
	Success bool              `json:"success"`
	Reviews []json.RawMessage `json:"reviews"`
}

func SuccessResponse(review interface{}) ReviewResponse {
	return ReviewResponse{
		Success: true,
		Review:  review,
	}
}

func ListResponse(reviews []json.RawMessage) ReviewListResponse {
	if reviews == nil {
		reviews = []json.RawMessage{}
	}
	return ReviewListResponse{
		Success: true,
		Reviews: reviews,
	}
}

func ErrorResponse(message string) ErrorBody {
	return ErrorBody{Error: message}
}
