package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

const webhookTolerance = 5 * time.Minute

// VerifyWebhook checks the identity provider's webhook signature:
// HMAC-SHA256 over "<msgID>.<timestamp>.<body>" with the shared secret,
// base64-encoded and sent as one or more "v1,<sig>" entries. The
// timestamp must be within tolerance to rule out replays.
func VerifyWebhook(secret, msgID, timestamp, signatures string, body []byte) bool {
	if secret == "" || msgID == "" || timestamp == "" || signatures == "" {
		return false
	}
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	if d := time.Since(time.Unix(ts, 0)); d > webhookTolerance || d < -webhookTolerance {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(msgID))
	mac.Write([]byte("."))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	for _, entry := range strings.Split(signatures, " ") {
		sig := entry
		if i := strings.IndexByte(entry, ','); i >= 0 {
			sig = entry[i+1:]
		}
		if hmac.Equal([]byte(sig), []byte(want)) {
			return true
		}
	}
	return false
}
