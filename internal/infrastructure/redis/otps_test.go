package redis

import (
	"strconv"
	"testing"
	"time"

	"github.com/mubs-locator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPKey(t *testing.T) {
	assert.Equal(t, "otp:a@b.com", otpKey("a@b.com"))
}

func TestEncodeDecodeRecord(t *testing.T) {
	created := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	rec := &domain.OTPRecord{
		Identity:  "a@b.com",
		Code:      "0042",
		IssueID:   "01JTEST",
		Attempts:  2,
		CreatedAt: created,
		ExpiresAt: created.Add(30 * time.Minute),
	}

	// Redis returns every hash field as a string.
	raw := map[string]string{}
	for k, v := range encodeRecord(rec) {
		switch x := v.(type) {
		case string:
			raw[k] = x
		case int:
			raw[k] = strconv.Itoa(x)
		case int64:
			raw[k] = strconv.FormatInt(x, 10)
		}
	}

	got, err := decodeRecord("a@b.com", raw)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestDecodeRecord_Corrupt(t *testing.T) {
	_, err := decodeRecord("a@b.com", map[string]string{"code": "1", "attempts": "x"})
	assert.Error(t, err)
}
