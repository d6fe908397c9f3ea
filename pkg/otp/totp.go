package otp

import (
	"crypto/hmac"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// ErrTimestampBeforeEpoch indicates a code was requested for a time
// before the Unix epoch, which the counter arithmetic cannot represent.
var ErrTimestampBeforeEpoch = errors.New("otp: timestamp predates the unix epoch")

// GenerateCode computes the code the record displays at the given time.
//
// The counter is floor(unixSeconds / period) encoded as an 8-byte
// big-endian integer, MACed with the record's algorithm and secret, and
// dynamically truncated per RFC 4226: the low 4 bits of the last MAC
// byte select a 4-byte window, the top bit is masked to yield a 31-bit
// integer, and the result is reduced modulo 10^digits and left-padded
// with zeros. Digits and period come from the record, not from any
// global setting. The function is pure: fixed inputs always produce the
// same code.
func GenerateCode(r Record, t time.Time) (string, error) {
	if err := r.validate(); err != nil {
		return "", err
	}
	unix := t.Unix()
	if unix < 0 {
		return "", ErrTimestampBeforeEpoch
	}
	counter := uint64(unix) / uint64(r.Period)
	return hotp(r, counter), nil
}

// SecondsRemaining reports how many seconds the code returned by
// GenerateCode at time t stays valid, i.e. the distance to the next
// period boundary. Display-only companion to GenerateCode; it returns 0
// for inputs GenerateCode would reject.
func SecondsRemaining(r Record, t time.Time) int {
	unix := t.Unix()
	if r.Period <= 0 || unix < 0 {
		return 0
	}
	return r.Period - int(unix%int64(r.Period))
}

// hotp derives the decimal code for one counter value.
func hotp(r Record, counter uint64) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(r.Algorithm.Hash(), r.Secret)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	// Dynamic truncation: the offset is the low 4 bits of the last byte.
	offset := sum[len(sum)-1] & 0x0f
	value := uint64(binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff)

	mod := uint64(1)
	for i := 0; i < r.Digits; i++ {
		mod *= 10
	}
	return fmt.Sprintf("%0*d", r.Digits, value%mod)
}
