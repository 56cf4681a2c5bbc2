// Package views embeds the HTML templates.
package views

import "embed"

// FS holds layout.html and the page templates below it.
//
//go:embed *.html news/*.html comments/*.html auth/*.html
var FS embed.FS
