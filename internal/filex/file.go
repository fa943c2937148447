// Package filex contains file-intake helpers for interactive client
// commands.
package filex

import (
	"fmt"
	"os"
)

// ReadFileLimited reads path fully, rejecting files larger than limit bytes.
// Interactive commands pass user-typed paths here, so the limit guards
// against accidentally slurping something huge into memory.
func ReadFileLimited(path string, limit int64) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if fi.Size() > limit {
		return nil, fmt.Errorf("%s is %d bytes, limit is %d", path, fi.Size(), limit)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
