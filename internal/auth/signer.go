package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// GenerateIntegrationToken creates the signed token accepted by the login
// endpoint for headless clients (the exporter service runs without an
// interactive session).
func GenerateIntegrationToken(clientID, secret string) string {
	// Keep the system clock synced; the server rejects tokens with more
	// than a few minutes of drift.
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	hash := sha256.Sum256([]byte(timestamp + secret))
	signature := hex.EncodeToString(hash[:])

	return fmt.Sprintf("%s:%s:%s", clientID, timestamp, signature)
}
