package models

const (
	GeneralLocation = "General"
	UnknownDay      = "Unknown"
	TBATime         = "TBA"
	NotAvailable    = "N/A"
)

// SessionRecord is one scheduled item of the programme after normalisation.
// Day, Time and Location are always set; the remaining descriptive fields are
// optional.
type SessionRecord struct {
	Title    string  `json:"title"`
	Day      string  `json:"day"`
	Time     string  `json:"time"`
	Location string  `json:"location"`
	Authors  *string `json:"authors,omitempty"`
	Details  *string `json:"details,omitempty"`
	URL      *string `json:"url,omitempty"`
}

func (s SessionRecord) IsGeneral() bool {
	return s.Location == GeneralLocation
}

// Optional returns the value of an optional field, treating "N/A" as absent.
func Optional(value *string) (string, bool) {
	if value == nil || *value == "" || *value == NotAvailable {
		return "", false
	}
	return *value, true
}
