package models

// These structs define the JSON payloads exchanged by the HTTP function,
// the bucket trigger and the CLI.

// GenerateRequest selects which roster rows to generate and how.
// Date is a calendar date in YYYY-MM-DD form.
type GenerateRequest struct {
	Location string `json:"location"`
	Date     string `json:"date"`
	Blank    bool   `json:"blank"`
}

// GenerateResponse describes a finished generation run. The archive bytes
// travel separately (response body, bucket object or local file).
type GenerateResponse struct {
	Status       string `json:"status"`
	Location     string `json:"location"`
	Count        int    `json:"count"`
	TemplateType string `json:"templateType"`
	Message      string `json:"message"`
	ArchiveName  string `json:"archiveName"`
	ArchiveURI   string `json:"archiveUri,omitempty"`
}

// LocationSummary is one entry of the location picker.
type LocationSummary struct {
	Location   string `json:"location"`
	Total      int    `json:"total"`
	Qualifying int    `json:"qualifying"`
}

// LocationsResponse is the output of the locations listing.
type LocationsResponse struct {
	Status    string            `json:"status"`
	Locations []LocationSummary `json:"locations"`
}

// GCSEvent is the payload of a storage object finalize event.
// Generation changes every time the object is overwritten.
type GCSEvent struct {
	Bucket     string            `json:"bucket"`
	Name       string            `json:"name"`
	Generation string            `json:"generation"`
	Metadata   map[string]string `json:"metadata"`
}
