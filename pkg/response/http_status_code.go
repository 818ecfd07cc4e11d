package response

const (
	CodeSuccess        = 2000 // Success
	CodeRateLimited    = 4290 // Too many requests
	CodeCatalogFailed  = 5001 // Template catalog unavailable
	CodePresenceFailed = 5002 // Presence mirror unavailable
)

// message
var msg = map[int]string{
	CodeSuccess:        "success",
	CodeRateLimited:    "rate limit exceeded",
	CodeCatalogFailed:  "template catalog unavailable",
	CodePresenceFailed: "presence mirror unavailable",
}

// Message returns the default text for code
func Message(code int) string {
	if m, ok := msg[code]; ok {
		return m
	}
	return "unknown error"
}
