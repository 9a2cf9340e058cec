package gateway

// Wire-level field names. The gateway rejects blank keys in some modes, so
// extraction filters empty values instead of sending them.
const (
	FieldSource            = "source"
	FieldSourceTON         = "sourceTON"
	FieldDestination       = "destination"
	FieldUserData          = "userData"
	FieldPlatformID        = "platformId"
	FieldPlatformPartnerID = "platformPartnerId"
)

// Extract maps a message onto its wire field map, omitting empty fields.
func Extract(m Message) map[string]string {
	fields := map[string]string{
		FieldSource:            m.Source,
		FieldSourceTON:         m.SourceTON,
		FieldDestination:       m.Destination,
		FieldUserData:          m.UserData,
		FieldPlatformID:        m.PlatformID,
		FieldPlatformPartnerID: m.PlatformPartnerID,
	}

	for name, value := range fields {
		if value == "" {
			delete(fields, name)
		}
	}

	return fields
}

// Hydrate fills m from a possibly sparse field map. Absent keys leave the
// matching attribute at its zero value; unknown keys are ignored.
func Hydrate(fields map[string]string, m *Message) *Message {
	for name, value := range fields {
		switch name {
		case FieldSource:
			m.Source = value
		case FieldSourceTON:
			m.SourceTON = value
		case FieldDestination:
			m.Destination = value
		case FieldUserData:
			m.UserData = value
		case FieldPlatformID:
			m.PlatformID = value
		case FieldPlatformPartnerID:
			m.PlatformPartnerID = value
		}
	}

	return m
}
