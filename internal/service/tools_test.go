package service

import (
	"testing"

	"github.com/UnendingLoop/ImageVault/internal/model"
	"github.com/stretchr/testify/require"
)

func TestStorageKeyDerivation(t *testing.T) {
	// pure function of (user, id, extension); no dot means jpg
	require.Equal(t, "images/u1/id1.png", storageKey("u1", "id1", "cat.png"))
	require.Equal(t, "images/u1/id1.jpeg", storageKey("u1", "id1", "photo.archive.JPEG"))
	require.Equal(t, "images/u1/id1.jpg", storageKey("u1", "id1", "noextension"))
}

func TestContentTypeFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"cat.png", model.PNG},
		{"cat.PNG", model.PNG},
		{"cat.jpg", model.JPEG},
		{"cat.jpeg", model.JPEG},
		{"anim.gif", model.GIF},
		{"pic.webp", model.WEBP},
		{"noextension", model.JPEG},
		{"weird.xyz", model.JPEG},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, contentTypeFromFilename(tt.filename), tt.filename)
	}
}

func TestParseBase64Image(t *testing.T) {
	raw, err := parseBase64Image("aGVsbG8=")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), raw)

	// data-URI prefix up to the first comma is stripped
	raw, err = parseBase64Image("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), raw)

	_, err = parseBase64Image("!!!")
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestParseExpiresIn(t *testing.T) {
	exp, err := parseExpiresIn("", 3600)
	require.NoError(t, err)
	require.Equal(t, 3600, exp)

	exp, err = parseExpiresIn("3600", 60)
	require.NoError(t, err)
	require.Equal(t, 3600, exp)

	exp, err = parseExpiresIn("604800", 60)
	require.NoError(t, err)
	require.Equal(t, 604800, exp)

	for _, raw := range []string{"0", "-5", "604801", "1.5", "soon"} {
		_, err := parseExpiresIn(raw, 60)
		var vErr *model.ValidationError
		require.ErrorAs(t, err, &vErr, raw)
	}
}

func TestParseLimit(t *testing.T) {
	limit, err := parseLimit("")
	require.NoError(t, err)
	require.Equal(t, defaultListLimit, limit)

	limit, err = parseLimit("100")
	require.NoError(t, err)
	require.Equal(t, 100, limit)

	for _, raw := range []string{"0", "101", "ten"} {
		_, err := parseLimit(raw)
		var vErr *model.ValidationError
		require.ErrorAs(t, err, &vErr, raw)
	}
}

func TestLastKeyRoundtrip(t *testing.T) {
	token := encodeLastKey("img-42")
	require.NotEqual(t, "img-42", token) // opaque, not the raw cursor

	cursor, err := decodeLastKey(token)
	require.NoError(t, err)
	require.Equal(t, "img-42", cursor)

	cursor, err = decodeLastKey("")
	require.NoError(t, err)
	require.Empty(t, cursor)
	require.Empty(t, encodeLastKey(""))

	_, err = decodeLastKey("###garbage###")
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestBuildScanFilter(t *testing.T) {
	// tag clause is match-ANY; owner clause must hold at the same time
	filter := buildScanFilter("u1", []string{"a", "b"})

	require.True(t, filter(&model.ImageRecord{UserID: "u1", Tags: "b"}))
	require.True(t, filter(&model.ImageRecord{UserID: "u1", Tags: "x, a"}))
	require.False(t, filter(&model.ImageRecord{UserID: "u1", Tags: "c"}))
	require.False(t, filter(&model.ImageRecord{UserID: "u1"}))
	require.False(t, filter(&model.ImageRecord{UserID: "u2", Tags: "a"}))

	// tags are a set, not substrings
	require.False(t, filter(&model.ImageRecord{UserID: "u1", Tags: "ab"}))

	noFilter := buildScanFilter("", nil)
	require.True(t, noFilter(&model.ImageRecord{UserID: "anyone"}))
}
