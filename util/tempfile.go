package util

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/sirupsen/logrus"
)

// MaterializeTempFile writes an in-memory upload to a uniquely-named file
// under the OS temp directory and returns the path plus a cleanup function.
// Cleanup is best-effort: removal failures are logged, never propagated.
func MaterializeTempFile(data []byte, ext string) (string, func(), error) {
	suffix, err := GenerateRandomString(8)
	if err != nil {
		return "", nil, err
	}

	name := fmt.Sprintf("mediaforge-%d-%s%s", time.Now().UnixNano(), suffix[:12], ext)
	fullPath := path.Join(os.TempDir(), name)

	if err = os.WriteFile(fullPath, data, 0600); err != nil {
		return "", nil, err
	}

	cleanup := func() {
		if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
			logrus.Warn("failed to remove temp file ", fullPath, ": ", err)
		}
	}
	return fullPath, cleanup, nil
}
