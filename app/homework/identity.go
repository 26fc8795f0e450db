package homework

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// DeriveID computes a deterministic identity for a record lacking a stable
// server id: a hash of the subject, the content with markup stripped, the
// authoring account and the due date truncated to the day. The same logical
// task therefore maps to the same id across repeated fetches.
//
// Markup is stripped before hashing because remote sources are not
// consistent about returning the same HTML decoration for the same task.
func DeriveID(subject, content, createdByAccount string, dueDate time.Time) string {
	stripped := html.UnescapeString(stripPolicy.Sanitize(content))

	payload := fmt.Sprintf("%s|%s|%s|%s",
		strings.TrimSpace(subject),
		strings.TrimSpace(stripped),
		createdByAccount,
		dueDate.Format("2006-01-02"))

	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
