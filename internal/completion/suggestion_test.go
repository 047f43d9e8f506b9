package completion

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDecodeTagIndexResponse(t *testing.T) {
	body := `[{"tag":"blue_sky","total":40,"type":"general"},{"tag":"AND","total":"And"},{"tag":"x","total":null}]`
	var rows []Suggestion
	require.NoError(t, json.Unmarshal([]byte(body), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, CountTotal(40), rows[0].Total)
	assert.Equal(t, "general", rows[0].Type)
	assert.Equal(t, TextTotal("And"), rows[1].Total)
	assert.Equal(t, Total{}, rows[2].Total)
}

func TestTotalRejectsGarbage(t *testing.T) {
	var tot Total
	assert.Error(t, json.Unmarshal([]byte(`{"n":1}`), &tot))
}

func TestTotalEncodings(t *testing.T) {
	out, err := json.Marshal([]Suggestion{{Tag: "fox", Total: CountTotal(7)}, {Tag: "-", Total: TextTotal("Not"), Kind: KindOperator}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"tag":"fox","total":7},{"tag":"-","total":"Not"}]`, string(out))

	y, err := yaml.Marshal(Suggestion{Tag: "fox", Total: CountTotal(7)})
	require.NoError(t, err)
	assert.Equal(t, "tag: fox\ntotal: 7\n", string(y))

	txt, err := TextTotal("Implies").MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Implies", string(txt))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "tag", KindTag.String())
	assert.Equal(t, "operator", KindOperator.String())
}
