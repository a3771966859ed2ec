package directory

// Tool is a single entry on the Tools page.
type Tool struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Action      string `json:"action" yaml:"action"`
	Link        string `json:"link" yaml:"link"`
}

// ToolCategory groups tools under a heading.
type ToolCategory struct {
	Title string `json:"title" yaml:"title"`
	Tools []Tool `json:"tools" yaml:"tools"`
}

// QuickService is a city service with opening hours and a contact number.
type QuickService struct {
	Name   string `json:"name" yaml:"name"`
	Hours  string `json:"hours" yaml:"hours"`
	Phone  string `json:"phone" yaml:"phone"`
	Status string `json:"status" yaml:"status"`
}

// PlaceCategory is a tile on the Explore page.
type PlaceCategory struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// Place describes a point of interest. Aliases are extra names the chat
// assistant recognises for it.
type Place struct {
	ID          int      `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Aliases     []string `json:"-" yaml:"aliases"`
	Category    string   `json:"category" yaml:"category"`
	Rating      float64  `json:"rating" yaml:"rating"`
	Distance    string   `json:"distance" yaml:"distance"`
	Description string   `json:"description" yaml:"description"`
	Hours       string   `json:"hours" yaml:"hours"`
	Phone       string   `json:"phone" yaml:"phone"`
	Featured    bool     `json:"featured,omitempty" yaml:"featured"`
}

// Weather is the static weather card.
type Weather struct {
	Temperature string `json:"temperature" yaml:"temperature"`
	Condition   string `json:"condition" yaml:"condition"`
	Humidity    string `json:"humidity" yaml:"humidity"`
	WindSpeed   string `json:"windSpeed" yaml:"windSpeed"`
	UVIndex     string `json:"uvIndex" yaml:"uvIndex"`
	AirQuality  string `json:"airQuality" yaml:"airQuality"`
}
