package external

// CurrentWeatherResponse is the subset of the weatherapi.com
// current.json response the service consumes.
type CurrentWeatherResponse struct {
	Location LocationResponse `json:"location"`
	Current  CurrentResponse  `json:"current"`
}

// LocationResponse holds the resolved location for the queried city
type LocationResponse struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	// Localtime is "YYYY-MM-DD HH:MM" with a space separator
	Localtime string `json:"localtime"`
}

// CurrentResponse holds the current conditions
type CurrentResponse struct {
	TempC     float64           `json:"temp_c"`
	Condition ConditionResponse `json:"condition"`
}

// ConditionResponse holds the free-text condition description
type ConditionResponse struct {
	Text string `json:"text"`
}

// APIErrorResponse is the weatherapi.com error envelope. Unknown cities
// come back as HTTP 400 with code 1006.
type APIErrorResponse struct {
	Error APIError `json:"error"`
}

// APIError holds the provider error code and message
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
