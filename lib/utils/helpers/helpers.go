package helpers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

func IsContextDone(ctx context.Context) bool {
	if ctx == nil {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return false
}

// GenerateSecret returns a hex-encoded random secret of byteLen bytes.
func GenerateSecret(byteLen int) string {
	buf := make([]byte, byteLen)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

const otpDigits = "0123456789"

// GenerateOtpCode returns a numeric one-time code of the given length.
func GenerateOtpCode(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	for idx := range buf {
		buf[idx] = otpDigits[int(buf[idx])%len(otpDigits)]
	}
	return string(buf)
}

// LocalHour resolves the current hour in the given IANA timezone,
// falling back to UTC when the zone is unknown.
func LocalHour(now time.Time, timezoneID string) int {
	loc, err := time.LoadLocation(timezoneID)
	if err != nil || timezoneID == "" {
		return now.UTC().Hour()
	}
	return now.In(loc).Hour()
}
