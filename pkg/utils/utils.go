package utils

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// GetClientIP derives the client address from the trusted forwarded-for
// header, falling back to X-Real-IP and finally the socket address.
func GetClientIP(c *fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); len(xff) > 0 {
		if comma := strings.IndexByte(xff, ','); comma > 0 {
			return strings.TrimSpace(xff[:comma])
		}
		return strings.TrimSpace(xff)
	}

	if xri := c.Get("X-Real-IP"); len(xri) > 0 {
		return strings.TrimSpace(xri)
	}

	return StripPort(c.IP())
}

// StripPort removes a trailing :port from addr if one is present. Bare
// addresses, IPv6 included, come back unchanged.
func StripPort(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// MD5Hex returns the lowercase hex md5 digest of s.
func MD5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// OnetimeKey derives a single-use login key from the current time and the
// configured secret.
func OnetimeKey(secret string) string {
	return MD5Hex(fmt.Sprintf("%d%s", time.Now().UnixNano(), secret))
}

// GeneratedPassword truncates a one-time key into the random password set
// when the key is redeemed.
func GeneratedPassword(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}

var (
	alnumRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	emailRe = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
)

// IsAlphanumeric reports whether name contains only letters and digits.
func IsAlphanumeric(name string) bool {
	return alnumRe.MatchString(name)
}

func IsEmail(username string) bool {
	return emailRe.MatchString(username)
}
