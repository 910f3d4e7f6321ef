package articles

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedCursorRoundTrip(t *testing.T) {
	id := uuid.New()
	at := time.Date(2026, 8, 29, 9, 15, 0, 0, time.UTC)

	encoded, err := EncodeFeedCursor(at, id)
	require.NoError(t, err)

	decoded, err := DecodeFeedCursor(encoded)
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.True(t, decoded.PublishedAt.Equal(at))
	assert.Equal(t, id, decoded.ID)
}

func TestEncodeFeedCursor_NilID(t *testing.T) {
	_, err := EncodeFeedCursor(time.Now(), uuid.Nil)
	require.Error(t, err)
}

func TestDecodeFeedCursor(t *testing.T) {
	decoded, err := DecodeFeedCursor("")
	require.NoError(t, err)
	assert.Nil(t, decoded, "empty cursor means top of feed")

	_, err = DecodeFeedCursor("not base64!!!")
	require.Error(t, err)

	_, err = DecodeFeedCursor("bm90IGpzb24=")
	require.Error(t, err)
}
