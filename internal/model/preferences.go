package model

// Theme is the colour scheme preference
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// Valid reports whether the theme is known
func (t Theme) Valid() bool {
	return t == ThemeSystem || t == ThemeLight || t == ThemeDark
}

// Preferences is the device-level configuration kept between runs
type Preferences struct {
	Locale    string `json:"locale"`
	Theme     Theme  `json:"theme"`
	AuthToken string `json:"auth_token,omitempty"`
	UserData  string `json:"user_data,omitempty"`
}

// DefaultPreferences returns the preferences used before anything is saved
func DefaultPreferences() Preferences {
	return Preferences{
		Locale: DefaultLocale,
		Theme:  ThemeSystem,
	}
}
