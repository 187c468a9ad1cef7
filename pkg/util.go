package pkg

import (
	"errors"
	"io/fs"
	"os"
	"strings"
)

// TrimmedString turns command output bytes into a string without the trailing newline.
func TrimmedString(buf []byte) string {
	return strings.TrimSpace(string(buf))
}

// PathExists reports whether path exists and is a directory (isDir) or a regular file.
func PathExists(path string, isDir bool) (bool, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return stat.IsDir() == isDir, nil
}
