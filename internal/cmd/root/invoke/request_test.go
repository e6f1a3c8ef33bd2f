package invoke

import (
	"encoding/json"
	"testing"

	"github.com/rob3c/aws-resource-providers/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequestDocument(t *testing.T) {
	t.Run("yaml document", func(t *testing.T) {
		doc := []byte(`
desiredResourceState:
  organizationalUnitName: Team A
  parentOU: ou-1
previousResourceState:
  organizationalUnitName: Team A
  parentOU: ou-2
callbackContext:
  attempt: 1
`)
		req, err := parseRequestDocument(doc, provider.ActionUpdate)
		require.NoError(t, err)

		assert.Equal(t, provider.ActionUpdate, req.Action)
		assert.Equal(t, map[string]any{"attempt": 1}, req.CallbackContext)

		var desired map[string]any
		require.NoError(t, json.Unmarshal(req.DesiredResourceState, &desired))
		assert.Equal(t, "Team A", desired["organizationalUnitName"])
		assert.Equal(t, "ou-1", desired["parentOU"])

		var previous map[string]any
		require.NoError(t, json.Unmarshal(req.PreviousResourceState, &previous))
		assert.Equal(t, "ou-2", previous["parentOU"])
	})

	t.Run("json document", func(t *testing.T) {
		doc := []byte(`{"desiredResourceState": {"organizationalUnitName": "Team A"}}`)
		req, err := parseRequestDocument(doc, provider.ActionCreate)
		require.NoError(t, err)

		assert.Equal(t, provider.ActionCreate, req.Action)
		assert.NotNil(t, req.DesiredResourceState)
		assert.Nil(t, req.PreviousResourceState)
		assert.Nil(t, req.CallbackContext)
	})

	t.Run("malformed document", func(t *testing.T) {
		_, err := parseRequestDocument([]byte("\t: not yaml"), provider.ActionCreate)
		assert.Error(t, err)
	})
}
