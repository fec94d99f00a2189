package stateworks

import _ "embed"

// Version is the release of the library, as recorded in the VERSION file.
//
//go:embed VERSION
var Version string
