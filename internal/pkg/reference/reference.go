// internal/pkg/reference/reference.go
package reference

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Ambiguous characters (0/O, 1/I/L) are excluded so references survive
// being read over the phone.
const charset = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// New builds a reference like BK-20240115-A3B2. Uniqueness is enforced by
// the database; the random suffix makes collisions within a day unlikely.
func New(prefix string) string {
	buf := make([]byte, 4)
	rand.Read(buf)
	for i := range buf {
		buf[i] = charset[int(buf[i])%len(charset)]
	}

	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102"), buf)
}
