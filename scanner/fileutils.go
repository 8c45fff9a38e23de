package scanner

import (
	"path/filepath"
	"strings"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// IsImageFile reports whether the extension belongs to a supported format
func IsImageFile(ext string) bool {
	return imageExtensions[strings.ToLower(ext)]
}

// IsTiffFormat reports whether the path is a TIFF file
func IsTiffFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".tif" || ext == ".tiff"
}
