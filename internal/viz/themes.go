package viz

import "github.com/charmbracelet/lipgloss"

// Pens select the color a canvas cell is drawn with.
const (
	PenGround uint8 = iota
	PenSnow
	PenTrunk
	PenFoliage
	PenMushroom
	PenFirefly
	PenFocal
	penCount
)

// Theme defines the color scheme for the live view.
type Theme struct {
	Name   string
	Pens   [penCount]lipgloss.Color
	Title  lipgloss.Color
	Label  lipgloss.Color
	Value  lipgloss.Color
	Accent lipgloss.Color
	Muted  lipgloss.Color
}

var (
	ThemeMoonlight = Theme{
		Name: "moonlight",
		Pens: [penCount]lipgloss.Color{
			PenGround:   "#444466",
			PenSnow:     "#e8ecff",
			PenTrunk:    "#8b4513",
			PenFoliage:  "#ffffff",
			PenMushroom: "#ff0000",
			PenFirefly:  "#ffff00",
			PenFocal:    "#6666ff",
		},
		Title:  "#aab4ff",
		Label:  "#888899",
		Value:  "#e8ecff",
		Accent: "#ffff00",
		Muted:  "#555577",
	}

	ThemeForest = Theme{
		Name: "forest",
		Pens: [penCount]lipgloss.Color{
			PenGround:   "#2d4030",
			PenSnow:     "#cfd8d0",
			PenTrunk:    "#a0522d",
			PenFoliage:  "#2e8b57",
			PenMushroom: "#ff6347",
			PenFirefly:  "#f0e68c",
			PenFocal:    "#ff8c00",
		},
		Title:  "#7fd18b",
		Label:  "#809080",
		Value:  "#e0f0e0",
		Accent: "#f0e68c",
		Muted:  "#4a5a4a",
	}

	ThemeMono = Theme{
		Name: "mono",
		Pens: [penCount]lipgloss.Color{
			PenGround:   "#666666",
			PenSnow:     "#ffffff",
			PenTrunk:    "#aaaaaa",
			PenFoliage:  "#dddddd",
			PenMushroom: "#bbbbbb",
			PenFirefly:  "#ffffff",
			PenFocal:    "#ffffff",
		},
		Title:  "#ffffff",
		Label:  "#888888",
		Value:  "#ffffff",
		Accent: "#ffffff",
		Muted:  "#555555",
	}

	Themes = []Theme{ThemeMoonlight, ThemeForest, ThemeMono}
)

// GetTheme returns a theme by name, falling back to moonlight.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMoonlight
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// nextTheme returns the theme after current in Themes.
func nextTheme(current Theme) Theme {
	for i, t := range Themes {
		if t.Name == current.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
