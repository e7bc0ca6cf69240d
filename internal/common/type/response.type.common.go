package types

// Response is what services hand back to handlers.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   error  `json:"-"`
}

// ResponseAPI is the JSON envelope written to clients.
type ResponseAPI struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type PaginationResponse[T any] struct {
	PageIndex int   `json:"pageIndex"`
	PageSize  int   `json:"pageSize"`
	Count     int64 `json:"count"`
	Data      []T   `json:"data"`
}
