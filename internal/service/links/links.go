// Package links builds the external web search and maps URLs the client
// opens in a new tab.
package links

import (
	"net/url"
	"strings"
)

const (
	searchBase = "https://www.google.com/search"
	mapsBase   = "https://www.google.com/maps/search/"
	dirBase    = "https://www.google.com/maps/dir/"
)

// Search returns a web search URL for query.
func Search(query string) string {
	v := url.Values{}
	v.Set("q", strings.TrimSpace(query))
	return searchBase + "?" + v.Encode()
}

// Maps returns a map search URL for a place or address.
func Maps(query string) string {
	v := url.Values{}
	v.Set("api", "1")
	v.Set("query", strings.TrimSpace(query))
	return mapsBase + "?" + v.Encode()
}

// Directions returns a driving directions URL. An empty origin lets the
// maps client use the device location.
func Directions(origin, destination string) string {
	v := url.Values{}
	v.Set("api", "1")
	if o := strings.TrimSpace(origin); o != "" {
		v.Set("origin", o)
	}
	v.Set("destination", strings.TrimSpace(destination))
	v.Set("travelmode", "driving")
	return dirBase + "?" + v.Encode()
}
