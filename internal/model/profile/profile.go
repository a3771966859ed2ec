package profile

// Profile describes an assistant flavour: who greets the user and which
// prompts are offered before the first question.
type Profile struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Region      string   `json:"region"`
	Greeting    string   `json:"greeting"`
	Suggestions []string `json:"suggestions"`
}

// Seed provides the built-in assistant profiles.
func Seed() []Profile {
	return []Profile{
		{
			ID:       "gta-navigator",
			Name:     "GTA Navigator",
			Title:    "Your GTA navigation assistant",
			Region:   "Greater Toronto Area",
			Greeting: "Hi! I'm your GTA navigation assistant. Ask me for a route like \"Brampton to CN Tower\", live-style traffic, toll options, or the weather before you head out.",
			Suggestions: []string{
				"Brampton to Union Station",
				"How's the traffic on the 401?",
				"Should I take the 407?",
				"What's the weather like today?",
			},
		},
		{
			ID:       "brampton",
			Name:     "Brampton Assistant",
			Title:    "Your Brampton assistant",
			Region:   "Brampton, ON",
			Greeting: "Hi! I'm your Brampton assistant. I can help you with local services, transit, weather, directions, and much more. What would you like to know?",
			Suggestions: []string{
				"What's the weather like today?",
				"Show me Brampton Transit routes",
				"Find nearby restaurants",
				"City hall hours and services",
			},
		},
	}
}
