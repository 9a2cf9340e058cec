package gateway

// Sender identifier types understood by the gateway.
const (
	TONMSISDN       = "MSISDN"
	TONAlphanumeric = "ALPHANUMERIC"
	TONShortcode    = "SHORTCODE"
)

// Message is one outbound SMS as the gateway wire format sees it. It is
// built fresh per send attempt and discarded afterwards; Destination and
// UserData must be non-empty on a sendable message, everything else may be
// blank and is filtered out of the serialized form.
type Message struct {
	Source            string
	SourceTON         string
	Destination       string
	UserData          string
	PlatformID        string
	PlatformPartnerID string
}
