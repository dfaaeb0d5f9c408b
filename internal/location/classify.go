package location

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind is the detected format of a raw location string.
type Kind int

const (
	KindFreeText Kind = iota
	KindCoordinates
	KindCanadianPostal
	KindUSZip
)

func (k Kind) String() string {
	switch k {
	case KindCoordinates:
		return "coordinates"
	case KindCanadianPostal:
		return "ca_postal"
	case KindUSZip:
		return "us_zip"
	default:
		return "free_text"
	}
}

var (
	coordinatesRe    = regexp.MustCompile(`^\s*([+-]?\d+(?:\.\d+)?)\s*,\s*([+-]?\d+(?:\.\d+)?)\s*$`)
	canadianPostalRe = regexp.MustCompile(`^[A-Za-z]\d[A-Za-z]\s?\d[A-Za-z]\d$`)
	usZipRe          = regexp.MustCompile(`^\d{5}(?:-\d{4})?$`)
)

// Classification is the outcome of Classify.
type Classification struct {
	Kind Kind
	// Text is the normalized text sent to the geocoder.
	Text string
	// Bias is the geocoder country bias, empty when none applies.
	Bias string

	// Lat and Lon are only set for KindCoordinates.
	Lat, Lon float64
}

// Classify detects the format of raw and normalizes it. The first matching
// format wins, in order: coordinate pair, Canadian postal code, US ZIP code,
// free text.
func Classify(raw string) Classification {
	s := strings.TrimSpace(raw)

	if m := coordinatesRe.FindStringSubmatch(s); m != nil {
		lat, latErr := strconv.ParseFloat(m[1], 64)
		lon, lonErr := strconv.ParseFloat(m[2], 64)
		if latErr == nil && lonErr == nil {
			return Classification{Kind: KindCoordinates, Text: s, Lat: lat, Lon: lon}
		}
	}

	if canadianPostalRe.MatchString(s) {
		return Classification{
			Kind: KindCanadianPostal,
			Text: NormalizeCanadianPostal(s),
			Bias: "countrycode:ca",
		}
	}

	if usZipRe.MatchString(s) {
		return Classification{Kind: KindUSZip, Text: s, Bias: "countrycode:us"}
	}

	return Classification{Kind: KindFreeText, Text: s}
}

// NormalizeCanadianPostal uppercases a postal code and formats it as "A1A 1A1".
func NormalizeCanadianPostal(s string) string {
	compact := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if len(compact) != 6 {
		return compact
	}
	return compact[:3] + " " + compact[3:]
}
