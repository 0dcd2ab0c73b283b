package server

// FibonacciResponse is the body of a successful /fibonacci request.
type FibonacciResponse struct {
	K         int64  `json:"k"`
	Algorithm string `json:"algorithm"`
	// Result holds the decimal digits of F(k).
	Result   string `json:"result"`
	Digits   int    `json:"digits"`
	Duration string `json:"duration"`
}

// TimeResponse is the body of a successful /time request.
type TimeResponse struct {
	K        int64  `json:"k"`
	Selector int    `json:"selector"`
	Strategy string `json:"strategy"`
	// Value is F(k) as computed by the strategy, wrapped to 64 bits.
	Value     int64 `json:"value"`
	ElapsedNS int64 `json:"elapsed_ns"`
	CPU       int   `json:"cpu"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	// Error is the HTTP status text.
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// paramError is a query parameter error answered with 400.
type paramError struct {
	Message string
}

func (e paramError) Error() string { return e.Message }
