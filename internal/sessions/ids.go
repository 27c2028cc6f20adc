package sessions

import (
	"fmt"
	"strings"
	"time"
)

const (
	idLayout = "20060102_150405"
	// maxCollisions bounds the suffixes tried for one second.
	maxCollisions = 99

	filePrefix = "session_"
	fileSuffix = ".json"
)

// FormatID renders the second-granularity id for t.
func FormatID(t time.Time) string {
	return t.Format(idLayout)
}

func candidateID(base string, attempt int) string {
	if attempt == 0 {
		return base
	}
	return fmt.Sprintf("%s_%02d", base, attempt)
}

// FileName returns the file name a record with id is stored under.
func FileName(id string) string {
	return filePrefix + id + fileSuffix
}

// IDFromFileName extracts the id from a session file name.
func IDFromFileName(name string) (string, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
	if len(id) < len(idLayout) {
		return "", false
	}
	return id, true
}
