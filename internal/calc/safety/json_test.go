package safety

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightedJSON_InfiniteIsNull(t *testing.T) {
	w := Weighted{Hours: Hours{Skin: math.Inf(1), Eye: 6.5}, Warnings: []string{"lamp X"}}
	data, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `{"skin": null, "eye": 6.5, "warnings": ["lamp X"]}`, string(data))

	var back Weighted
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, math.IsInf(back.Skin, 1))
	assert.Equal(t, 6.5, back.Eye)
	assert.Equal(t, w.Warnings, back.Warnings)

	data, err = json.Marshal(Hours{Skin: 1, Eye: math.Inf(1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"skin": 1, "eye": null}`, string(data))
}
