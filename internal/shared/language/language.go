// Package language maps file names to editor language identifiers.
//
// The extension table covers what the editor widget highlights natively;
// anything else falls back to content sniffing via mimetype so tabs for
// unknown extensions still get a sensible mode.
package language

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Plaintext is the identifier used when nothing better can be detected
const Plaintext = "plaintext"

var byExtension = map[string]string{
	".ts":    "typescript",
	".tsx":   "typescript",
	".js":    "javascript",
	".jsx":   "javascript",
	".mjs":   "javascript",
	".json":  "json",
	".go":    "go",
	".py":    "python",
	".rs":    "rust",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".java":  "java",
	".rb":    "ruby",
	".sh":    "shell",
	".bash":  "shell",
	".css":   "css",
	".scss":  "scss",
	".html":  "html",
	".htm":   "html",
	".xml":   "xml",
	".md":    "markdown",
	".yaml":  "yaml",
	".yml":   "yaml",
	".toml":  "toml",
	".sql":   "sql",
	".proto": "protobuf",
}

var byMIME = map[string]string{
	"text/html":              "html",
	"text/xml":               "xml",
	"application/json":       "json",
	"text/csv":               "plaintext",
	"text/x-shellscript":     "shell",
	"application/javascript": "javascript",
}

// Detect resolves a language id from a file name, falling back to
// sniffing the content when the extension is unknown.
func Detect(name, content string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if lang, ok := byExtension[ext]; ok {
		return lang
	}
	if content == "" {
		return Plaintext
	}

	mtype := mimetype.Detect([]byte(content))
	for m := mtype; m != nil; m = m.Parent() {
		if lang, ok := byMIME[strings.Split(m.String(), ";")[0]]; ok {
			return lang
		}
	}
	return Plaintext
}
