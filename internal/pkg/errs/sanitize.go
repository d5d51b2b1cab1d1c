package errs

import (
	"fmt"
	"strings"
)

// sanitize renders v and flattens line breaks so error messages stay on one log line.
func sanitize(v any) string {
	s := fmt.Sprintf("%v", v)
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
