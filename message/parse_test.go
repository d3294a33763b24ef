package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/inappmsg/trigger"
)

func TestParseSet(t *testing.T) {
	data := []byte(`[
		{
			"id": "m1",
			"variants": {"all": {"en": "v1", "default": "v1-def"}},
			"triggers": [[{"key": "level", "operator": "greater_than", "value": 3}]]
		},
		{
			"id": "m2",
			"variants": {"ios": {"default": "v2"}},
			"triggers": []
		}
	]`)

	msgs, err := ParseSet(data)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, "m1", msgs[0].ID)
	id, ok := msgs[0].VariantID("all", "en")
	require.True(t, ok)
	assert.Equal(t, "v1", id)
	require.Len(t, msgs[0].Triggers, 1)
	assert.Equal(t, trigger.OpGreaterThan, msgs[0].Triggers[0][0].Op)

	assert.Equal(t, "m2", msgs[1].ID)
	assert.Empty(t, msgs[1].Triggers)
	assert.False(t, msgs[1].Preview)
}

func TestParseSetDropsMalformed(t *testing.T) {
	data := []byte(`[
		{"id": "", "variants": {"all": {"en": "v1"}}},
		{"id": "no-variant"},
		{"id": "bad-clause", "variants": {"all": {"en": "v2"}},
		 "triggers": [[{"key": "level", "operator": "equal", "value": [1]}]]},
		{"id": "ok", "variants": {"all": {"en": "v3"}}}
	]`)

	msgs, err := ParseSet(data)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "ok", msgs[0].ID)
}

func TestParseSetBadEnvelope(t *testing.T) {
	_, err := ParseSet([]byte(`{"not": "an array"}`))
	assert.Error(t, err)

	_, err = ParseSet([]byte(`not json`))
	assert.Error(t, err)
}

func TestParseSetEmpty(t *testing.T) {
	msgs, err := ParseSet([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
