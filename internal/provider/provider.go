// Package provider lists the official forecast sources the pipeline
// fetches and normalizes, and maps each one to its endpoint
// configuration.
package provider

import (
	"os"
	"strings"
)

// All lists every known provider identifier in fetch order. The first
// five are the backbone sources; the rest are fetched once their
// endpoint is configured.
var All = []string{
	"hko",   // Hong Kong Observatory
	"jma",   // Japan Meteorological Agency
	"metno", // MET Norway
	"mss",   // Meteorological Service Singapore
	"smg",   // Macao SMG (RSS)

	"jtwc", "cwa", "kma", "bom", "tmd", "noaa", "bmkg",
}

// Preferred is the display/consensus ordering. It only sorts providers;
// it never limits which ones are used.
var Preferred = []string{
	"hko", "jma", "metno", "mss", "smg",
	"bom", "noaa", "cwa", "kma", "tmd", "bmkg", "jtwc",
}

var envKeys = map[string]string{
	"hko":   "HKO_URL",
	"jma":   "JMA_URL",
	"metno": "METNO_URL",
	"mss":   "MSS_URL",
	"smg":   "SMG_URL",

	"jtwc": "JTWC_URL",
	"cwa":  "CWA_URL",
	"kma":  "KMA_URL",
	"bom":  "BOM_URL",
	"tmd":  "TMD_URL",
	"noaa": "NOAA_URL",
	"bmkg": "BMKG_URL",
}

// defaults are built-in endpoint candidates used when no env override is
// set. Providers without a default stay idle until configured.
var defaults = map[string][]string{
	"hko": {
		"https://data.weather.gov.hk/weatherAPI/opendata/weather.php?dataType=fnd&lang=en",
	},
	"mss": {
		"https://api.data.gov.sg/v1/environment/24-hour-weather-forecast",
	},
	"metno": {
		// Central Hong Kong coordinates; override with METNO_URL.
		"https://api.met.no/weatherapi/locationforecast/2.0/compact?lat=22.302&lon=114.177",
	},
	"smg": {
		"http://rss.smg.gov.mo/c_WForecast7days_rss.xml",
		"http://rss.smg.gov.mo/c_WForecast_rss.xml",
	},
}

// Known reports whether id is a recognized provider identifier.
func Known(id string) bool {
	_, ok := envKeys[strings.ToLower(id)]
	return ok
}

// EnvKey returns the environment variable holding a provider's endpoint
// override, or "" for unknown providers.
func EnvKey(id string) string {
	return envKeys[strings.ToLower(id)]
}

// URLCandidates returns the endpoint URLs to try for a provider, the
// configured override first, then built-in defaults.
func URLCandidates(id string) []string {
	id = strings.ToLower(id)
	var out []string
	if key := envKeys[id]; key != "" {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			out = append(out, v)
		}
	}
	out = append(out, defaults[id]...)
	return out
}
