package consensus

import "time"

// Impact is the local impact placeholder artifact. The front-end
// expects the file on every run even while the metrics behind it are
// not built yet.
type Impact struct {
	AsOfUTC string `json:"as_of_utc"`
	Risk    string `json:"risk"`
	Note    string `json:"note"`
}

// BuildImpact produces the static impact note.
func BuildImpact(now time.Time) Impact {
	return Impact{
		AsOfUTC: now.UTC().Format("2006-01-02 15:04 UTC"),
		Risk:    "Low",
		Note:    "MVP demo: impact metrics will be added when track/intensity ensemble is ready.",
	}
}
