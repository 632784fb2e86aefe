package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the live view palette.
type Theme struct {
	Name    string
	Rope    lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeNebula = Theme{
		Name:    "nebula",
		Rope:    lipgloss.Color("#7dd3fc"),
		Accent:  lipgloss.Color("#c084fc"),
		Text:    lipgloss.Color("#f0f9ff"),
		Muted:   lipgloss.Color("#64748b"),
		Success: lipgloss.Color("#34d399"),
		Warning: lipgloss.Color("#fbbf24"),
		Error:   lipgloss.Color("#f87171"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Rope:    lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Success: lipgloss.Color("#88ff88"),
		Warning: lipgloss.Color("#ffff00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Rope:    lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Success: lipgloss.Color("#00ff00"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Rope:    lipgloss.Color("#ff6b6b"),
		Accent:  lipgloss.Color("#feca57"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Success: lipgloss.Color("#5fd068"),
		Warning: lipgloss.Color("#ffc048"),
		Error:   lipgloss.Color("#ff4757"),
	}

	Themes = []Theme{
		ThemeNebula,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeSunset,
	}
)

// HasTheme reports whether name is one of Themes.
func HasTheme(name string) bool {
	for _, n := range ThemeNames() {
		if n == name {
			return true
		}
	}
	return false
}

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme cycles to the theme after name.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
