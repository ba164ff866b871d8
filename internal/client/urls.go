// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package client

import (
	"fmt"

	"github.com/pdiddy/ssget/pkg/types"
)

// FilesBaseURL is the host serving matrix files. A variable so tests and
// mirror setups can point the client elsewhere.
var FilesBaseURL = "https://suitesparse-collection-website.herokuapp.com"

// MatrixURL returns the download URL for a matrix file. Each format maps to
// its own path prefix and extension.
func MatrixURL(group, name string, format types.Format) string {
	switch format {
	case types.FormatMM:
		return fmt.Sprintf("%s/MM/%s/%s.tar.gz", FilesBaseURL, group, name)
	case types.FormatRB:
		return fmt.Sprintf("%s/RB/%s/%s.tar.gz", FilesBaseURL, group, name)
	default:
		return fmt.Sprintf("%s/mat/%s/%s.mat", FilesBaseURL, group, name)
	}
}

// ChecksumURL returns the MD5 resource for a matrix file: the file URL with
// a ".md5" suffix.
func ChecksumURL(group, name string, format types.Format) string {
	return MatrixURL(group, name, format) + ".md5"
}
