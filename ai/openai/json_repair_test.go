package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "valid untouched", in: `{"name": "Jane", "skills": ["Go"]}`, want: `{"name": "Jane", "skills": ["Go"]}`},
		{name: "missing opening quote", in: `{"name": "Jane", email": "j@x.io"}`, want: `{"name": "Jane", "email": "j@x.io"}`},
		{name: "camel case key", in: `{ professionalDetails": []}`, want: `{ "professionalDetails": []}`},
		{name: "trailing comma in array", in: `["Go", "SQL", ]`, want: `["Go", "SQL" ]`},
		{name: "trailing comma in object", in: "{\"a\": 1,\n}", want: "{\"a\": 1\n}"},
		{name: "comma inside string kept", in: `["C, C++",]`, want: `["C, C++"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repairJSON(tt.in))
		})
	}
}

func TestFirstJSONArray(t *testing.T) {
	got, ok := firstJSONArray("Skills:\n[\n  \"Python\",\n  \"Excel\"\n]")
	assert.True(t, ok)
	assert.Equal(t, "[\n  \"Python\",\n  \"Excel\"\n]", got)

	_, ok = firstJSONArray("nothing here")
	assert.False(t, ok)
}

func TestFirstJSONObject(t *testing.T) {
	got, ok := firstJSONObject(`Sure! {"name": "Jane"} Hope that helps.`)
	assert.True(t, ok)
	assert.Equal(t, `{"name": "Jane"}`, got)

	_, ok = firstJSONObject("} backwards {")
	assert.False(t, ok)
}
