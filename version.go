package rehearse

import _ "embed"

// Version is the release of the module, including a trailing newline.
//
//go:embed VERSION
var Version string
