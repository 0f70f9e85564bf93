package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePayloadMasksSensitiveKeys(t *testing.T) {
	payload := map[string]any{
		"cvv":          "123",
		"cardNumber":   "4539578763621486",
		"merchantName": "Corner Shop",
		"nested": map[string]any{
			"transaction-pin": "9999",
		},
	}

	sanitized, ok := SanitizePayload(payload).(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "******", sanitized["cvv"])
	assert.Equal(t, "************1486", sanitized["cardNumber"])
	assert.Equal(t, "Corner Shop", sanitized["merchantName"])
	assert.Equal(t, "******", sanitized["nested"].(map[string]any)["transaction-pin"])
}

func TestErrorWritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: "info"}) })

	Error("movement service transfer failed", errors.New("boom"), Fields{
		"movementId": "m-1",
		"cvv":        "321",
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "movement service transfer failed", entry["message"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "m-1", entry["movementId"])
	assert.Equal(t, "******", entry["cvv"])
}

func TestConfigureFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "warn", Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: "info"}) })

	Info("dropped", nil)
	assert.Zero(t, buf.Len())

	Warn("kept", Fields{"reason": "test"})
	assert.Contains(t, buf.String(), `"kept"`)
}
