package theme

import (
	"image/color"
)

// Theme defines the color palette of the selector window.
type Theme struct {
	Name string

	// General
	Background color.RGBA // area around the displayed image
	Foreground color.RGBA // text

	// Panels
	ToolbarBackground color.RGBA
	SidebarBackground color.RGBA
	StatusBackground  color.RGBA
	ListSelected      color.RGBA // active entry in the image list

	// Buttons
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonText            color.RGBA
	ButtonBorder          color.RGBA

	// Region strokes
	FotoStroke color.RGBA
	TextStroke color.RGBA

	// Dialog overlay
	OverlayBackground color.RGBA
}

// Default returns the built in light theme.
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{96, 96, 96, 255},
		Foreground:            color.RGBA{0, 0, 0, 255},
		ToolbarBackground:     color.RGBA{220, 220, 220, 255},
		SidebarBackground:     color.RGBA{235, 235, 235, 255},
		StatusBackground:      color.RGBA{220, 220, 220, 255},
		ListSelected:          color.RGBA{190, 210, 240, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonBackgroundPress: color.RGBA{150, 150, 150, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		FotoStroke:            color.RGBA{0, 0, 255, 255},
		TextStroke:            color.RGBA{0, 128, 0, 255},
		OverlayBackground:     color.RGBA{255, 255, 255, 235},
	}
}
