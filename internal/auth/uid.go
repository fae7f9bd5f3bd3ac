package auth

import (
	"encoding/base64"
	"errors"
	"strconv"
)

// ErrInvalidUID is returned when a uid from a reset link cannot be decoded.
var ErrInvalidUID = errors.New("invalid uid")

// EncodeUID renders a user id as unpadded URL-safe base64 of its decimal form,
// so 42 becomes "NDI".
func EncodeUID(id int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(id, 10)))
}

// DecodeUID reverses EncodeUID. Trailing padding is tolerated.
func DecodeUID(uid string) (int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(trimPadding(uid))
	if err != nil {
		return 0, ErrInvalidUID
	}
	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidUID
	}
	return id, nil
}

func trimPadding(s string) string {
	for len(s) > 0 && s[len(s)-1] == '=' {
		s = s[:len(s)-1]
	}
	return s
}
