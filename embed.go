// Package issuedash provides the embedded resource files of the application.
package issuedash

import "embed"

//go:embed templates
var Files embed.FS
