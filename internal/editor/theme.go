package editor

import "strings"

type editorPalette struct {
	Name       string
	Background string
	Text       string
	TextMuted  string
	Border     string
	Accent     string
	Focus      string
	Success    string
	Warning    string
	Error      string
}

var paletteOrder = []string{"default", "high-contrast", "ocean"}

var palettes = map[string]editorPalette{
	"default": {
		Name:       "default",
		Background: "#0B0F14",
		Text:       "#E6EDF3",
		TextMuted:  "#8B9AAE",
		Border:     "#223043",
		Accent:     "#5B8DEF",
		Focus:      "#7AA2F7",
		Success:    "#3FB950",
		Warning:    "#D29922",
		Error:      "#F85149",
	},
	"high-contrast": {
		Name:       "high-contrast",
		Background: "#000000",
		Text:       "#FFFFFF",
		TextMuted:  "#C0C0C0",
		Border:     "#FFFFFF",
		Accent:     "#00A2FF",
		Focus:      "#FFD400",
		Success:    "#00FF5A",
		Warning:    "#FFB000",
		Error:      "#FF4040",
	},
	"ocean": {
		Name:       "ocean",
		Background: "#07121A",
		Text:       "#D8ECF7",
		TextMuted:  "#78A2B8",
		Border:     "#1E4A61",
		Accent:     "#3DD3FF",
		Focus:      "#71E0FF",
		Success:    "#55E39F",
		Warning:    "#FFC857",
		Error:      "#FF6B6B",
	},
}

func resolvePalette(name string) editorPalette {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if palette, ok := palettes[trimmed]; ok {
		return palette
	}
	return palettes["default"]
}

func cyclePalette(current string, delta int) editorPalette {
	current = strings.ToLower(strings.TrimSpace(current))
	idx := 0
	for i, candidate := range paletteOrder {
		if candidate == current {
			idx = i
			break
		}
	}
	idx += delta
	for idx < 0 {
		idx += len(paletteOrder)
	}
	idx %= len(paletteOrder)
	return resolvePalette(paletteOrder[idx])
}
