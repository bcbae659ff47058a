package web

import (
	"embed"
	"io/fs"
	"net/http"
)

const (
	templatesDir   = "templates"
	templatesExt   = ".gohtml"
	staticDir      = "static"
	devTemplateDir = "./internal/web/" + templatesDir
)

//go:embed static/* templates/*
var assets embed.FS

// assetDir returns the embedded directory dir as http file system root.
// The directories are fixed at build time, so fs.Sub only fails on a typo.
func assetDir(dir string) http.FileSystem {
	sub, err := fs.Sub(assets, dir)
	if err != nil {
		panic(err)
	}

	return http.FS(sub)
}
