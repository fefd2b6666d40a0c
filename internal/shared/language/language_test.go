package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectByExtension(t *testing.T) {
	cases := map[string]string{
		"app.ts":      "typescript",
		"App.TSX":     "typescript",
		"main.go":     "go",
		"styles.css":  "css",
		"README.md":   "markdown",
		"config.yml":  "yaml",
		"query.sql":   "sql",
		"index.html":  "html",
		"script.mjs":  "javascript",
		"Makefile":    Plaintext,
		"notes":       Plaintext,
		"data.unknwn": Plaintext,
	}
	for name, want := range cases {
		assert.Equal(t, want, Detect(name, ""), "name=%s", name)
	}
}

func TestDetectBySniffing(t *testing.T) {
	assert.Equal(t, "html", Detect("page.tmpl", "<!DOCTYPE html><html><body></body></html>"))
	assert.Equal(t, Plaintext, Detect("blob", "just some words"))
}
