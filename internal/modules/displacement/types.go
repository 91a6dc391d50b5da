package displacement

// Snapshot is the latest-year displacement aggregate for one country of
// origin. Refugees and asylum seekers default to zero once a year is known;
// idps and year stay null when the upstream has no data.
type Snapshot struct {
	ISO3          string `json:"iso3"`
	Refugees      *int64 `json:"refugees"`
	AsylumSeekers *int64 `json:"asylum_seekers"`
	IDPs          *int64 `json:"idps"`
	Year          *int   `json:"year"`
	Source        string `json:"source"`
}

const sourceName = "UNHCR Population API"
