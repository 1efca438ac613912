package weather

import "fmt"

// wmoLabels maps WMO weather interpretation codes to short human labels.
var wmoLabels = map[int]string{
	0:  "clear sky",
	1:  "partly cloudy",
	2:  "partly cloudy",
	3:  "overcast",
	45: "fog",
	48: "fog",
	51: "drizzle",
	53: "drizzle",
	55: "drizzle",
	56: "freezing drizzle",
	57: "freezing drizzle",
	61: "rain",
	63: "rain",
	65: "rain",
	66: "freezing rain",
	67: "freezing rain",
	71: "snow",
	73: "snow",
	75: "snow",
	77: "snow grains",
	80: "showers",
	81: "showers",
	82: "showers",
	85: "snow showers",
	86: "snow showers",
	95: "thunderstorm",
	96: "thunderstorm with hail",
	99: "thunderstorm with hail",
}

// Describe translates a provider weather code into a short label. Unknown
// codes get a generic label; this function is total over the code space.
func Describe(code int) string {
	if label, ok := wmoLabels[code]; ok {
		return label
	}
	return fmt.Sprintf("weather code %d", code)
}
