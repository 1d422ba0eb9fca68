package restserver

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestGetAssetsEmbedded(t *testing.T) {
	t.Setenv(AssetsDirEnv, "")

	assets := GetAssets()
	for _, name := range []string{"index.html.tmpl", "static/moondash.css", "static/moondash.js"} {
		if _, err := fs.Stat(assets, name); err != nil {
			t.Errorf("embedded %s: %v", name, err)
		}
	}
}

func TestGetAssetsFromDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html.tmpl"), []byte("<h1>{{ .Title }}</h1>"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	t.Setenv(AssetsDirEnv, dir)

	got, err := fs.ReadFile(GetAssets(), "index.html.tmpl")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "<h1>{{ .Title }}</h1>" {
		t.Errorf("index.html.tmpl = %q, expected the on-disk copy", got)
	}
}

func TestGetAssetsMissingDirFallsBack(t *testing.T) {
	t.Setenv(AssetsDirEnv, filepath.Join(t.TempDir(), "missing"))

	if _, err := fs.Stat(GetAssets(), "static/moondash.css"); err != nil {
		t.Errorf("expected embedded assets when the directory is missing: %v", err)
	}
}
