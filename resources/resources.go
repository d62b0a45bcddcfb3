// Package resources embeds static assets shipped with the binary.
package resources

import (
	"embed"

	"fyne.io/fyne/v2"
)

//go:embed icons/app_256.png
var iconData []byte

// GetAppIcon returns the application icon.
func GetAppIcon() fyne.Resource {
	return &fyne.StaticResource{
		StaticName:    "app_256.png",
		StaticContent: iconData,
	}
}

// AlgorithmFiles holds the segmentation algorithm catalog.
//
//go:embed algorithms/*.yaml
var AlgorithmFiles embed.FS
