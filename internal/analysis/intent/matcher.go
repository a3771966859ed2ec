package intent

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/gtanav/assistant/backend/internal/catalog"
	"github.com/gtanav/assistant/backend/internal/model/chat"
	"github.com/gtanav/assistant/backend/internal/model/directory"
	"github.com/gtanav/assistant/backend/internal/model/navigation"
	"github.com/gtanav/assistant/backend/internal/service/links"
)

// Label names the rule that produced a reply.
type Label string

const (
	Weather         Label = "weather"
	Route           Label = "route"
	Directions      Label = "directions"
	Traffic         Label = "traffic"
	Toll            Label = "toll"
	Transit         Label = "transit"
	Restaurant      Label = "restaurant"
	CityHall        Label = "city_hall"
	Place           Label = "place"
	Park            Label = "park"
	StartNavigation Label = "start_navigation"
	Map             Label = "map"
	DirectionsHelp  Label = "directions_help"
	Help            Label = "help"
	Greeting        Label = "greeting"
	Fallback        Label = "fallback"
)

// CurrentLocation is the origin used when the user only names a destination.
const CurrentLocation = "your current location"

// DefaultSuggestions are offered after any reply without its own list.
var DefaultSuggestions = []string{
	"Tell me more",
	"Show on map",
	"Get directions",
	"What else can you help with?",
}

// Result is the outcome of matching one utterance.
type Result struct {
	Intent      Label       `json:"intent"`
	Text        string      `json:"text"`
	Suggestions []string    `json:"suggestions"`
	Links       []chat.Link `json:"links,omitempty"`
	From        string      `json:"from,omitempty"`
	To          string      `json:"to,omitempty"`
	Place       string      `json:"place,omitempty"`
}

// Knowledge is the static data replies are rendered from.
type Knowledge struct {
	Places  []directory.Place
	Weather directory.Weather
	Route   navigation.RouteOption
	Toll    navigation.TollComparison
}

// KnowledgeFrom extracts the matcher's data from a catalog.
func KnowledgeFrom(c *catalog.Catalog) Knowledge {
	return Knowledge{
		Places:  append([]directory.Place(nil), c.Places...),
		Weather: c.Weather,
		Route:   c.RecommendedRoute(),
		Toll:    c.Toll,
	}
}

type utterance struct {
	raw   string
	lower string
}

type captures struct {
	from  string
	to    string
	place *directory.Place
}

type rule struct {
	label   Label
	match   func(m *Matcher, u utterance) (captures, bool)
	respond func(m *Matcher, u utterance, c captures) Result
}

type placeName struct {
	name  string
	place *directory.Place
}

// Matcher dispatches an utterance to the first rule whose predicate holds.
// It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	kb     Knowledge
	places []placeName
	rules  []rule
}

// New builds a Matcher over the supplied knowledge.
func New(kb Knowledge) *Matcher {
	m := &Matcher{kb: kb}

	for i := range m.kb.Places {
		p := &m.kb.Places[i]
		m.places = append(m.places, placeName{name: strings.ToLower(p.Name), place: p})
		for _, alias := range p.Aliases {
			if alias = strings.ToLower(strings.TrimSpace(alias)); alias != "" {
				m.places = append(m.places, placeName{name: alias, place: p})
			}
		}
	}
	// Longer names first so "gage park" wins over a shorter alias.
	sort.SliceStable(m.places, func(i, j int) bool {
		return len(m.places[i].name) > len(m.places[j].name)
	})

	m.rules = defaultRules()
	return m
}

// Match returns the reply of the first matching rule, or the fallback reply.
// It never fails.
func (m *Matcher) Match(text string) Result {
	raw := strings.TrimSpace(text)
	u := utterance{raw: raw, lower: strings.ToLower(raw)}

	for _, r := range m.rules {
		c, ok := r.match(m, u)
		if !ok {
			continue
		}
		res := r.respond(m, u, c)
		res.Intent = r.label
		if len(res.Suggestions) == 0 {
			res.Suggestions = append([]string(nil), DefaultSuggestions...)
		}
		return res
	}

	res := fallbackReply(m, u, captures{})
	res.Intent = Fallback
	return res
}

// Labels lists the rule labels in evaluation order, fallback last.
func (m *Matcher) Labels() []Label {
	labels := make([]Label, 0, len(m.rules)+1)
	for _, r := range m.rules {
		labels = append(labels, r.label)
	}
	return append(labels, Fallback)
}

var (
	fromToPattern      = regexp.MustCompile(`(?i)\bfrom\s+(.+?)\s+to\s+(.+)$`)
	destinationPattern = regexp.MustCompile(`(?i)\b(?:directions|navigate|take\s+me|get|drive|head|route)\s+to\s+(.+)$`)
	xToYPattern        = regexp.MustCompile(`(?i)^(.+?)\s+to\s+(.+)$`)
	greetingPattern    = regexp.MustCompile(`\b(?:hi|hello|hey)\b`)
)

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// pattern matches a regular expression against the lowercased utterance.
// Used for short words where a bare substring would hit unrelated words
// ("eat" in "theatre", "tax" in "taxi").
func pattern(expr string) func(*Matcher, utterance) (captures, bool) {
	re := regexp.MustCompile(expr)
	return func(_ *Matcher, u utterance) (captures, bool) {
		return captures{}, re.MatchString(u.lower)
	}
}

// anyOf matches when any of the predicates does.
func anyOf(preds ...func(*Matcher, utterance) (captures, bool)) func(*Matcher, utterance) (captures, bool) {
	return func(m *Matcher, u utterance) (captures, bool) {
		for _, p := range preds {
			if c, ok := p(m, u); ok {
				return c, true
			}
		}
		return captures{}, false
	}
}

func keywords(needles ...string) func(*Matcher, utterance) (captures, bool) {
	return func(_ *Matcher, u utterance) (captures, bool) {
		return captures{}, containsAny(u.lower, needles...)
	}
}

// cleanPlace trims whitespace and trailing punctuation from a captured name.
func cleanPlace(s string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), "?!.,;:"))
}

func matchFromTo(_ *Matcher, u utterance) (captures, bool) {
	sub := fromToPattern.FindStringSubmatch(u.raw)
	if sub == nil {
		return captures{}, false
	}
	from, to := cleanPlace(sub[1]), cleanPlace(sub[2])
	if from == "" || to == "" {
		return captures{}, false
	}
	return captures{from: from, to: to}, true
}

func matchDestination(_ *Matcher, u utterance) (captures, bool) {
	sub := destinationPattern.FindStringSubmatch(u.raw)
	if sub == nil {
		return captures{}, false
	}
	to := cleanPlace(sub[1])
	if to == "" {
		return captures{}, false
	}
	return captures{from: CurrentLocation, to: to}, true
}

func matchXToY(_ *Matcher, u utterance) (captures, bool) {
	sub := xToYPattern.FindStringSubmatch(u.raw)
	if sub == nil {
		return captures{}, false
	}
	from, to := cleanPlace(sub[1]), cleanPlace(sub[2])
	if from == "" || to == "" {
		return captures{}, false
	}
	return captures{from: from, to: to}, true
}

func matchPlace(m *Matcher, u utterance) (captures, bool) {
	for _, p := range m.places {
		if strings.Contains(u.lower, p.name) {
			return captures{place: p.place}, true
		}
	}
	return captures{}, false
}

func matchGreeting(_ *Matcher, u utterance) (captures, bool) {
	return captures{}, greetingPattern.MatchString(u.lower)
}

func defaultRules() []rule {
	return []rule{
		{Weather, keywords("weather", "forecast", "temperature"), weatherReply},
		{Route, matchFromTo, routeReply},
		{Directions, matchDestination, routeReply},
		{Route, matchXToY, routeReply},
		{Traffic, keywords("traffic", "congestion", "accident"), trafficReply},
		{Toll, keywords("toll", "407"), tollReply},
		{Transit, keywords("transit", "bus", "züm", "zum", "go train"), transitReply},
		{Restaurant, anyOf(keywords("restaurant", "food", "hungry", "dinner", "lunch", "breakfast"), pattern(`\beat(?:ing)?\b`)), restaurantReply},
		{CityHall, anyOf(keywords("city hall", "permit", "license", "licence"), pattern(`\btax(?:es)?\b`)), cityHallReply},
		{Place, matchPlace, placeReply},
		{Park, keywords("park", "recreation"), parkReply},
		{StartNavigation, keywords("start navigation", "start route", "let's go"), startNavigationReply},
		{Map, pattern(`\bmaps?\b`), mapReply},
		{DirectionsHelp, keywords("directions", "navigat"), directionsHelpReply},
		{Help, keywords("help", "what else", "what can you"), helpReply},
		{Greeting, matchGreeting, greetingReply},
	}
}

func weatherReply(m *Matcher, _ utterance, _ captures) Result {
	w := m.kb.Weather
	return Result{
		Text: fmt.Sprintf("🌤️ Today in the GTA: %s, %s with %s humidity and winds around %s. Perfect weather for a walk in Gage Park! Would you like the 7-day forecast?",
			w.Condition, w.Temperature, w.Humidity, w.WindSpeed),
		Suggestions: []string{"7-day forecast", "How's the traffic?", "Find nearby parks", "What else can you help with?"},
	}
}

func routeReply(m *Matcher, _ utterance, c captures) Result {
	r := m.kb.Route
	toll := m.kb.Toll.TollRoute

	origin := c.from
	if origin == CurrentLocation {
		origin = ""
	}

	return Result{
		Text: fmt.Sprintf("🗺️ Route from %s to %s: the %s takes about %s (%s) with %s traffic. The 407 toll route saves around %s for $%.2f. Ready to start navigation?",
			c.from, c.to, strings.ToLower(r.Name), r.Duration, r.Distance, r.Traffic, toll.Savings, toll.Cost),
		Suggestions: []string{"Start navigation", "Avoid tolls", "Show on map", "How's the traffic?"},
		Links: []chat.Link{
			{Label: "Open directions", URL: links.Directions(origin, c.to)},
		},
		From: c.from,
		To:   c.to,
	}
}

func trafficReply(_ *Matcher, _ utterance, _ captures) Result {
	return Result{
		Text:        "🚦 Traffic right now: Highway 401 eastbound is moderate near the 410 interchange, the 407 ETR is flowing freely, and Queen St in downtown Brampton has light delays. Want me to find the fastest route?",
		Suggestions: []string{"Find the fastest route", "Should I take the 407?", "Show on map", "What's the weather like today?"},
	}
}

func tollReply(m *Matcher, _ utterance, _ captures) Result {
	t := m.kb.Toll
	return Result{
		Text: fmt.Sprintf("💰 The 407 ETR route takes %s (%s) and costs about $%.2f, saving %s over the free route (%s, %s). Want me to include toll roads?",
			t.TollRoute.Duration, t.TollRoute.Distance, t.TollRoute.Cost, t.TollRoute.Savings, t.FreeRoute.Duration, t.FreeRoute.Distance),
		Suggestions: []string{"Use toll roads", "Avoid tolls", "Start navigation", "How's the traffic?"},
	}
}

func transitReply(_ *Matcher, _ utterance, _ captures) Result {
	return Result{
		Text: "🚌 Brampton Transit is running on schedule today. Popular routes include Route 1 (Main St), Route 5 (Dixie), and Züm lines. Would you like specific route information or real-time arrivals?",
	}
}

func restaurantReply(_ *Matcher, _ utterance, _ captures) Result {
	return Result{
		Text: "🍕 Great local spots near you: The Keg (steakhouse), Mandarin (buffet), Tim Hortons (coffee), and many ethnic cuisines on Queen St. What type of food are you craving?",
	}
}

func cityHallReply(_ *Matcher, _ utterance, _ captures) Result {
	return Result{
		Text: "🏛️ Brampton City Hall is open Mon-Fri 8:30am-4:30pm. Services include permits, licenses, tax payments, and more. You can also access many services online at brampton.ca",
		Links: []chat.Link{
			{Label: "brampton.ca", URL: "https://www.brampton.ca"},
		},
	}
}

func placeReply(_ *Matcher, _ utterance, c captures) Result {
	p := c.place
	return Result{
		Text: fmt.Sprintf("📍 %s (%s) is %s away. %s. Hours: %s. Phone: %s. Want directions?",
			p.Name, p.Category, p.Distance, p.Description, p.Hours, p.Phone),
		Suggestions: []string{"Directions to " + p.Name, "Show on map", "How's the traffic?", "What else can you help with?"},
		Links: []chat.Link{
			{Label: "Show on map", URL: links.Maps(p.Name)},
			{Label: "Get directions", URL: links.Directions("", p.Name)},
		},
		Place: p.Name,
	}
}

func parkReply(_ *Matcher, _ utterance, _ captures) Result {
	return Result{
		Text: "🌳 Brampton has amazing parks! Chinguacousy Park (skiing, pools), Gage Park (rose garden), and Heart Lake Conservation Area are popular. Which activities interest you?",
	}
}

func startNavigationReply(m *Matcher, _ utterance, _ captures) Result {
	r := m.kb.Route
	return Result{
		Text:        fmt.Sprintf("🧭 Starting navigation on the %s (%s, %s). Voice guidance is on; I'll call out each turn.", r.Name, r.Distance, r.Duration),
		Suggestions: []string{"Mute voice guidance", "Avoid tolls", "How's the traffic?", "Stop navigation"},
	}
}

func mapReply(_ *Matcher, _ utterance, _ captures) Result {
	return Result{
		Text: "🗺️ Here's the map. Tell me where you're headed, for example \"Brampton to CN Tower\", and I'll draw the route.",
		Links: []chat.Link{
			{Label: "Open map", URL: links.Maps("Greater Toronto Area")},
		},
	}
}

func directionsHelpReply(_ *Matcher, _ utterance, _ captures) Result {
	return Result{
		Text:        "🧭 Sure! Where are you starting from and where are you going? Try something like \"from Brampton to Square One\".",
		Suggestions: []string{"From Brampton to Square One", "Directions to CN Tower", "Take me to Pearson", "What else can you help with?"},
	}
}

func helpReply(_ *Matcher, _ utterance, _ captures) Result {
	return Result{
		Text:        "I can help with routes and directions across the GTA, traffic and toll options, Brampton Transit, the weather, local restaurants and parks, and city services. Just ask!",
		Suggestions: []string{"Brampton to Union Station", "How's the traffic?", "What's the weather like today?", "City hall hours and services"},
	}
}

func greetingReply(_ *Matcher, _ utterance, _ captures) Result {
	return Result{
		Text:        "👋 Hello! Where would you like to go today?",
		Suggestions: []string{"Directions to CN Tower", "How's the traffic?", "What's the weather like today?", "What else can you help with?"},
	}
}

func fallbackReply(_ *Matcher, u utterance, _ captures) Result {
	res := Result{
		Text:        "I understand you're asking about '" + u.raw + "'. As your GTA assistant, I can help with local services, directions, transit, weather, and city information. Could you be more specific about what you need?",
		Suggestions: append([]string(nil), DefaultSuggestions...),
	}
	if u.raw != "" {
		res.Links = []chat.Link{{Label: "Search the web", URL: links.Search(u.raw)}}
	}
	return res
}
