package domain

import "errors"

var (
	// ErrBackendNotConfigured is reported when no backend host/port pair is configured.
	ErrBackendNotConfigured = errors.New("backend not configured")
	// ErrUnexpectedStatus marks a backend response with a non-200 status.
	ErrUnexpectedStatus = errors.New("unexpected backend status")
	// ErrMalformedResponse marks a 200 response whose body could not be interpreted.
	ErrMalformedResponse = errors.New("malformed backend response")

	// ErrInvalidPayload is returned when an add-quote body is not a JSON object.
	ErrInvalidPayload = errors.New("could not parse quote")
	// ErrMissingQuote is returned when an add-quote body has no string "quote" field.
	ErrMissingQuote = errors.New("no 'quote' key in JSON")

	// ErrEmptyQuote is returned by repositories asked to store a blank quote.
	ErrEmptyQuote = errors.New("quote is empty")
	// ErrQuoteNotFound is returned by repositories that hold no quotes.
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrEmptyInput is returned when a measurement file has no data rows.
	ErrEmptyInput = errors.New("no measurement rows")
	// ErrMalformedRow is returned when a measurement row cannot be parsed.
	ErrMalformedRow = errors.New("malformed measurement row")
)
