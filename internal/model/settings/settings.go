package settings

import (
	"github.com/go-playground/validator/v10"

	"github.com/gtanav/assistant/backend/internal/model/navigation"
)

// Profile holds the contact details shown on the Settings page.
type Profile struct {
	Name  string `json:"name" validate:"required,max=80"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}

// Notifications toggles alert categories.
type Notifications struct {
	Transit     bool `json:"transit"`
	Weather     bool `json:"weather"`
	CityUpdates bool `json:"cityUpdates"`
	Emergencies bool `json:"emergencies"`
}

// Preferences holds display preferences.
type Preferences struct {
	Language string `json:"language" validate:"oneof=English French Spanish"`
	Units    string `json:"units" validate:"oneof=Metric Imperial"`
	DarkMode bool   `json:"darkMode"`
	Location string `json:"location" validate:"max=120"`
}

// Privacy holds the privacy and security switches.
type Privacy struct {
	LocationServices bool `json:"locationServices"`
	DataSharing      bool `json:"dataSharing"`
	BiometricLogin   bool `json:"biometricLogin"`
}

// Settings is everything a user can change for their session.
type Settings struct {
	Profile       Profile                  `json:"profile"`
	Notifications Notifications            `json:"notifications"`
	Preferences   Preferences              `json:"preferences"`
	Privacy       Privacy                  `json:"privacy"`
	Voice         navigation.VoiceSettings `json:"voice"`
}

// Defaults returns the settings a new session starts with.
func Defaults() Settings {
	return Settings{
		Profile: Profile{
			Name:  "GTA Resident",
			Email: "user@example.com",
			Phone: "+1 (905) 555-0123",
		},
		Notifications: Notifications{
			Transit:     true,
			Weather:     true,
			CityUpdates: false,
			Emergencies: true,
		},
		Preferences: Preferences{
			Language: "English",
			Units:    "Metric",
			DarkMode: false,
			Location: "Brampton, ON",
		},
		Privacy: Privacy{
			LocationServices: true,
			DataSharing:      false,
			BiometricLogin:   true,
		},
		Voice: navigation.DefaultVoiceSettings(),
	}
}

var validate = validator.New()

// Validate checks every nested section, voice settings included.
func (s Settings) Validate() error {
	return validate.Struct(s)
}
