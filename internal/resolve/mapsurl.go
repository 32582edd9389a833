package resolve

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/sequenceapp/backend/internal/domain"
)

// Google Maps URLs carry the place name and coordinates in several formats;
// these patterns cover the long-link variants in descending precision.
var (
	placePathRe  = regexp.MustCompile(`/place/([^/]+)`)
	queryNameRe  = regexp.MustCompile(`[?&]q=([^&]+)`)
	numericOnly  = regexp.MustCompile(`^-?\d+(\.\d+)?,-?\d+(\.\d+)?$`)
	coordPattern = []*regexp.Regexp{
		regexp.MustCompile(`@(-?\d+\.\d+),(-?\d+\.\d+)`),
		regexp.MustCompile(`!3d(-?\d+\.\d+).*!4d(-?\d+\.\d+)`),
		regexp.MustCompile(`/place/(-?\d+\.\d+)\s*,\s*(-?\d+\.\d+)`),
		regexp.MustCompile(`[?&](?:q|ll|daddr)=(-?\d+\.\d+),(-?\d+\.\d+)`),
	}
)

// MapsURLResolver extracts a place directly from the structure of a pasted
// Google Maps URL, with no network access. It handles the long-link formats
// (/place/<name>, ?q=, @lat,lng, !3d..!4d.., ll=/daddr=); shortened links
// carry no embedded data and resolve to ErrUnresolved.
type MapsURLResolver struct{}

// NewMapsURLResolver returns a stateless URL-structure resolver.
func NewMapsURLResolver() *MapsURLResolver {
	return &MapsURLResolver{}
}

// Resolve parses the URL for a place name and coordinates. Coordinates are
// required (a name alone cannot be placed on the timeline); a missing name
// falls back to "Pinned Location" and a missing address to a coordinate
// label.
func (r *MapsURLResolver) Resolve(_ context.Context, rawInput string) (domain.ResolvedPlace, error) {
	rawInput = strings.TrimSpace(rawInput)
	if rawInput == "" {
		return domain.ResolvedPlace{}, fmt.Errorf("%w: empty input", ErrUnresolved)
	}

	name := extractName(rawInput)
	coords, ok := extractCoords(rawInput)
	if !ok {
		return domain.ResolvedPlace{}, fmt.Errorf("%w: no coordinates in %q", ErrUnresolved, rawInput)
	}

	if name == "" {
		name = "Pinned Location"
	}
	return domain.ResolvedPlace{
		Name:      name,
		Address:   fmt.Sprintf("%.4f, %.4f", coords.Lat, coords.Lng),
		Coords:    coords,
		SourceURL: rawInput,
	}, nil
}

// extractName pulls a human-readable place name from the /place/ path
// segment or the q= query parameter. A value that is just a coordinate pair
// is not a name and is discarded.
func extractName(raw string) string {
	var encoded string
	if m := placePathRe.FindStringSubmatch(raw); m != nil {
		encoded = m[1]
	} else if m := queryNameRe.FindStringSubmatch(raw); m != nil {
		encoded = m[1]
	}
	if encoded == "" {
		return ""
	}

	decoded, err := url.QueryUnescape(strings.ReplaceAll(encoded, "+", " "))
	if err != nil {
		decoded = strings.ReplaceAll(encoded, "+", " ")
	}
	decoded = strings.TrimSpace(decoded)
	if numericOnly.MatchString(decoded) {
		return ""
	}
	return decoded
}

func extractCoords(raw string) (domain.Coordinates, bool) {
	for _, re := range coordPattern {
		m := re.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		lat, err1 := strconv.ParseFloat(m[1], 64)
		lng, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		return domain.Coordinates{Lat: lat, Lng: lng}, true
	}
	return domain.Coordinates{}, false
}
