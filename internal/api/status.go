package api

// StatusClass groups HTTP status codes.
type StatusClass int

const (
	StatusUnknown StatusClass = iota
	StatusInfo
	StatusSuccess
	StatusRedirect
	StatusClientError
	StatusServerError
)

// ClassifyStatus maps a status code to its class.
func ClassifyStatus(code int) StatusClass {
	switch {
	case code >= 100 && code < 200:
		return StatusInfo
	case code >= 200 && code < 300:
		return StatusSuccess
	case code >= 300 && code < 400:
		return StatusRedirect
	case code >= 400 && code < 500:
		return StatusClientError
	case code >= 500 && code < 600:
		return StatusServerError
	default:
		return StatusUnknown
	}
}

// IsSuccess is true only for 2xx.
func (c StatusClass) IsSuccess() bool {
	return c == StatusSuccess
}

// IsError is true for 4xx and 5xx.
func (c StatusClass) IsError() bool {
	return c == StatusClientError || c == StatusServerError
}

func (c StatusClass) String() string {
	switch c {
	case StatusInfo:
		return "info"
	case StatusSuccess:
		return "success"
	case StatusRedirect:
		return "redirect"
	case StatusClientError:
		return "client_error"
	case StatusServerError:
		return "server_error"
	default:
		return "unknown"
	}
}
