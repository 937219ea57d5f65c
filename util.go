package main

import (
	"os"

	"github.com/reqsync/reqsync/pkg/manifest"
)

// loadManifest reads and parses a requirements file.  Parse errors come back
// alongside the partial file, so callers that can limp along (lint) may, and
// callers that can't (everything else) just return the error.
func loadManifest(filename string) (*manifest.File, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return manifest.Parse(filename, content)
}
