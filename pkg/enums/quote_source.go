package enums

import "fmt"

// QuoteSource maps to the quote_source enum in Postgres and records how a
// supplier quote reached the system.
type QuoteSource string

const (
	QuoteSourceRelayMessage QuoteSource = "relay-message"
	QuoteSourceEmail        QuoteSource = "email"
	QuoteSourceManual       QuoteSource = "manual"
	QuoteSourceAPI          QuoteSource = "api"
)

var validQuoteSources = []QuoteSource{
	QuoteSourceRelayMessage,
	QuoteSourceEmail,
	QuoteSourceManual,
	QuoteSourceAPI,
}

// IsValid checks whether the given source matches the canonical enum.
func (q QuoteSource) IsValid() bool {
	for _, candidate := range validQuoteSources {
		if candidate == q {
			return true
		}
	}
	return false
}

// ParseQuoteSource converts raw strings into QuoteSource. Unknown values are
// rejected so scoring provenance stays trustworthy.
func ParseQuoteSource(value string) (QuoteSource, error) {
	for _, candidate := range validQuoteSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quote source %q", value)
}
