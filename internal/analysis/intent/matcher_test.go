package intent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gtanav/assistant/backend/internal/catalog"
)

func newTestMatcher(t *testing.T) *Matcher {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return New(KnowledgeFrom(c))
}

func TestMatchWeather(t *testing.T) {
	m := newTestMatcher(t)

	for _, input := range []string{
		"What's the weather like today?",
		"WEATHER",
		"is the weather nice from brampton to toronto",
		"  weather  ",
	} {
		res := m.Match(input)
		assert.Equal(t, Weather, res.Intent, input)
		assert.True(t, strings.HasPrefix(res.Text, "🌤️ Today in the GTA"), input)
		assert.Contains(t, res.Text, "22°C")
	}
}

func TestMatchRouteExtractsBothEnds(t *testing.T) {
	m := newTestMatcher(t)

	cases := []struct {
		input    string
		from, to string
	}{
		{"Brampton to Union Station", "Brampton", "Union Station"},
		{"from Mississauga to Pearson", "Mississauga", "Pearson"},
		{"Directions from Oakville to the CN Tower?", "Oakville", "the CN Tower"},
		{"Markham to Square One!", "Markham", "Square One"},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			res := m.Match(tc.input)
			assert.Equal(t, Route, res.Intent)
			assert.Equal(t, tc.from, res.From)
			assert.Equal(t, tc.to, res.To)
			assert.Contains(t, res.Text, tc.from)
			assert.Contains(t, res.Text, tc.to)
			require.Len(t, res.Links, 1)
			assert.Contains(t, res.Links[0].URL, "maps/dir")
		})
	}
}

func TestMatchDirectionsUsesCurrentLocation(t *testing.T) {
	m := newTestMatcher(t)

	res := m.Match("How do I get to Gage Park?")
	assert.Equal(t, Directions, res.Intent)
	assert.Equal(t, CurrentLocation, res.From)
	assert.Equal(t, "Gage Park", res.To)
	require.Len(t, res.Links, 1)
	assert.NotContains(t, res.Links[0].URL, "origin=")
}

func TestMatchAnyXToYIsRoute(t *testing.T) {
	m := newTestMatcher(t)

	cases := []struct {
		input    string
		from, to string
	}{
		{"Time Square to Union Station", "Time Square", "Union Station"},
		{"Welcome Centre to Pearson", "Welcome Centre", "Pearson"},
		{"traffic to Brampton", "traffic", "Brampton"},
		{"I want to eat", "I want", "eat"},
		{"nice to meet you", "nice", "meet you"},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			res := m.Match(tc.input)
			assert.Equal(t, Route, res.Intent)
			assert.Equal(t, tc.from, res.From)
			assert.Equal(t, tc.to, res.To)
			assert.Contains(t, res.Text, "Route from "+tc.from+" to "+tc.to)
		})
	}
}

func TestMatchKeywordsAreSubstrings(t *testing.T) {
	m := newTestMatcher(t)

	cases := map[string]Label{
		"where is parking downtown": Park,
		"best seafood nearby":       Restaurant,
		"business hours":            Transit,
		"building permits":          CityHall,
		"recreational programs":     Park,
	}

	for input, want := range cases {
		assert.Equal(t, want, m.Match(input).Intent, input)
	}
}

func TestMatchKeywordIntents(t *testing.T) {
	m := newTestMatcher(t)

	cases := map[string]Label{
		"How's the traffic on the 401?":        Traffic,
		"Should I take the 407?":               Toll,
		"Avoid tolls":                          Toll,
		"Show me Brampton Transit routes":      Transit,
		"when is the next bus":                 Transit,
		"Find nearby restaurants":              Restaurant,
		"City hall hours and services":         CityHall,
		"driver licence renewal":               CityHall,
		"property taxes due":                   CityHall,
		"Tell me about Gage Park":              Place,
		"what time does the rose theatre open": Place,
		"any good parks around":                Park,
		"Start navigation":                     StartNavigation,
		"Show on map":                          Map,
		"Get directions":                       DirectionsHelp,
		"hey there":                            Greeting,
	}

	for input, want := range cases {
		assert.Equal(t, want, m.Match(input).Intent, input)
	}
}

func TestMatchPlaceUsesCatalogDetails(t *testing.T) {
	m := newTestMatcher(t)

	res := m.Match("tell me about pearson")
	require.Equal(t, Place, res.Intent)
	assert.Equal(t, "Toronto Pearson Airport", res.Place)
	assert.Contains(t, res.Text, "24/7")
	assert.Len(t, res.Links, 2)
	assert.Equal(t, "Directions to Toronto Pearson Airport", res.Suggestions[0])
}

func TestMatchFallbackEchoesInput(t *testing.T) {
	m := newTestMatcher(t)

	res := m.Match("Tell me more")
	assert.Equal(t, Fallback, res.Intent)
	assert.Contains(t, res.Text, "'Tell me more'")
	assert.Equal(t, DefaultSuggestions, res.Suggestions)
	require.Len(t, res.Links, 1)
	assert.Contains(t, res.Links[0].URL, "google.com/search")
}

func TestMatchNeverPanics(t *testing.T) {
	m := newTestMatcher(t)

	inputs := []string{
		"", "   ", "\n\t", "to", " to ", "from to", "from  to ", "???", "to to to to",
		strings.Repeat("x", 10000), "🚗🚗🚗", "\x00\xff", "from 🙂 to 🙃",
	}
	for _, input := range inputs {
		assert.NotPanics(t, func() {
			res := m.Match(input)
			assert.NotEmpty(t, res.Text)
			assert.NotEmpty(t, res.Suggestions)
		}, input)
	}
}

func TestMatchBlankInputFallsBackWithoutLinks(t *testing.T) {
	m := newTestMatcher(t)

	res := m.Match("   ")
	assert.Equal(t, Fallback, res.Intent)
	assert.Empty(t, res.Links)
}

func TestSuggestionsAreNotShared(t *testing.T) {
	m := newTestMatcher(t)

	first := m.Match("Tell me more")
	first.Suggestions[0] = "mutated"

	second := m.Match("Tell me more")
	assert.Equal(t, "Tell me more", second.Suggestions[0])
	assert.Equal(t, "Tell me more", DefaultSuggestions[0])
}

func TestLabelsEndWithFallback(t *testing.T) {
	m := newTestMatcher(t)
	labels := m.Labels()
	require.NotEmpty(t, labels)
	assert.Equal(t, Weather, labels[0])
	assert.Equal(t, Fallback, labels[len(labels)-1])
}
