package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexStringUnmarshal(t *testing.T) {
	var doc struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
		D FlexString `json:"d"`
		E FlexString `json:"e"`
	}

	payload := `{"a": "1,650.00", "b": 1650, "c": 16.5, "d": null, "e": true}`
	require.NoError(t, json.Unmarshal([]byte(payload), &doc))

	assert.Equal(t, "1,650.00", doc.A.String())
	assert.Equal(t, "1650", doc.B.String())
	assert.Equal(t, "16.5", doc.C.String())
	assert.True(t, doc.D.Empty())
	assert.Equal(t, "1", doc.E.String())
}

func TestFlexStringRejectsComposite(t *testing.T) {
	var f FlexString
	assert.Error(t, json.Unmarshal([]byte(`{"nested": 1}`), &f))
}

func TestFlexStringMarshal(t *testing.T) {
	out, err := json.Marshal(FlexString("12.5"))
	require.NoError(t, err)
	assert.Equal(t, `"12.5"`, string(out))
}
