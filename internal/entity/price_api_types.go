package entity

// PriceAPIError is the body the price API returns instead of prices, e.g.
// {"Response":"Error","Message":"fsym is a required param."}.
type PriceAPIError struct {
	Response string `json:"Response"`
	Message  string `json:"Message"`
}

// IsError reports whether the body was an error response.
func (e PriceAPIError) IsError() bool {
	return e.Response == "Error"
}
