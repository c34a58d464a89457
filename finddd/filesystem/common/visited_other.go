//go:build !unix

package common

import (
	"io/fs"
)

func fileIdentity(info fs.FileInfo) (dev, ino uint64, ok bool) {
	return 0, 0, false
}
