package domain

import "encoding/json"

// QuotePayload is the body of an add-quote request.
type QuotePayload map[string]any

// ParseQuotePayload decodes an add-quote body and returns its "quote" field.
// Any JSON object is accepted as long as "quote" holds a string; other keys
// are left for the backend.
func ParseQuotePayload(body []byte) (string, error) {
	var payload QuotePayload
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		return "", ErrInvalidPayload
	}
	quote, ok := payload["quote"].(string)
	if !ok {
		return "", ErrMissingQuote
	}
	return quote, nil
}

// PayloadMessage is the response text for an add-quote validation error.
// Other errors are returned as their own text.
func PayloadMessage(err error) string {
	switch err {
	case ErrInvalidPayload:
		return "Could not parse quote"
	case ErrMissingQuote:
		return "No 'quote' key in JSON"
	default:
		return err.Error()
	}
}
