// Package views holds the embedded HTML templates. layout.html provides the
// "layout" and "auth_layout" wrappers; every other file defines "content".
package views

import "embed"

//go:embed *.html
var TemplatesFS embed.FS
