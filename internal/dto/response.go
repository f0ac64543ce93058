// File: internal/dto/response.go
package dto

import "devcamper/internal/query"

// Response 單筆資源或訊息
// swagger:model dto.Response
type Response struct {
	Success bool `json:"success" example:"true"`
	Data    any  `json:"data"`
}

// CountResponse 不分頁的清單
// swagger:model dto.CountResponse
type CountResponse struct {
	Success bool `json:"success" example:"true"`
	Count   int  `json:"count" example:"2"`
	Data    any  `json:"data"`
}

// ListResponse is the envelope of paginated list endpoints.
// swagger:model dto.ListResponse
type ListResponse struct {
	Success    bool             `json:"success" example:"true"`
	Count      int              `json:"count" example:"2"`
	Total      int64            `json:"total" example:"57"`
	Pagination query.Pagination `json:"pagination"`
	Data       any              `json:"data"`
}

// swagger:model dto.TokenResponse
type TokenResponse struct {
	Success bool   `json:"success" example:"true"`
	Token   string `json:"token" example:"eyJhbGciOi..."`
}

// OK 包裝成功回應
func OK(data any) Response {
	return Response{Success: true, Data: data}
}
