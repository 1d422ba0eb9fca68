package restserver

import (
	"embed"
	"io/fs"
	"os"
)

// AssetsDirEnv names a directory laid out like assets/ (index.html.tmpl plus
// static/) that replaces the embedded dashboard page when set
const AssetsDirEnv = "MOONDASH_ASSETS_DIR"

// The dashboard page template, stylesheet and forecast toggle script
//
//go:embed all:assets
var assetsFS embed.FS

// GetAssets returns the dashboard's page template and static files. When
// AssetsDirEnv points at a directory they are read from disk on every
// request, so edits to the moon page show without a rebuild.
func GetAssets() fs.FS {
	if dir := os.Getenv(AssetsDirEnv); dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir)
		}
	}

	assets, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		panic("failed to create assets sub-filesystem: " + err.Error())
	}
	return assets
}
