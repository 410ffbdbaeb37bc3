package tools_test

import (
	"reflect"
	"testing"

	"github.com/glitchcube/glitchcube-go/pkg/tools"
)

func TestNormalizeArguments_KeyStyles(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"state", "state"},
		{"State", "state"},
		{"rgbColor", "rgb_color"},
		{"RGB_Color", "rgb_color"},
		{"RGBColor", "rgb_color"},
		{" rgb color ", "rgb_color"},
		{"entity-id", "entity_id"},
		{"mediaContentID", "media_content_id"},
	}

	for _, tc := range cases {
		args := tools.NormalizeArguments(map[string]interface{}{tc.in: "x"})
		if _, ok := args[tc.want]; !ok {
			t.Fatalf("key %q: expected %q, got %v", tc.in, tc.want, args)
		}
	}
}

func TestNormalizeArguments_ValuesUntouched(t *testing.T) {
	original := []interface{}{255, 128, 0}
	args := tools.NormalizeArguments(map[string]interface{}{"rgbColor": original})

	got, ok := args["rgb_color"].([]interface{})
	if !ok || !reflect.DeepEqual(got, original) {
		t.Fatalf("expected value passed through unchanged, got %v", args["rgb_color"])
	}
}

func rgbSchema() tools.ParameterSchema {
	return tools.ParameterSchema{
		Type: "object",
		Properties: map[string]tools.PropertySchema{
			"rgb_color": {Type: "array", Items: &tools.PropertySchema{Type: "integer"}},
			"levels":    {Type: "array", Items: &tools.PropertySchema{Type: "number"}},
			"tags":      {Type: "array", Items: &tools.PropertySchema{Type: "string"}},
			"state":     {Type: "string"},
		},
	}
}

func TestCoerceToSchema_CommaListToIntegers(t *testing.T) {
	coerced := tools.CoerceToSchema(rgbSchema(), map[string]interface{}{
		"rgb_color": "255, 128,0",
	})

	if !reflect.DeepEqual(coerced["rgb_color"], []int{255, 128, 0}) {
		t.Fatalf("expected [255 128 0], got %v", coerced["rgb_color"])
	}
}

func TestCoerceToSchema_CommaListToNumbers(t *testing.T) {
	coerced := tools.CoerceToSchema(rgbSchema(), map[string]interface{}{
		"levels": "0.5, 0.25",
	})

	if !reflect.DeepEqual(coerced["levels"], []float64{0.5, 0.25}) {
		t.Fatalf("expected [0.5 0.25], got %v", coerced["levels"])
	}
}

func TestCoerceToSchema_CommaListToStrings(t *testing.T) {
	coerced := tools.CoerceToSchema(rgbSchema(), map[string]interface{}{
		"tags": "ambient, sparkle",
	})

	if !reflect.DeepEqual(coerced["tags"], []interface{}{"ambient", "sparkle"}) {
		t.Fatalf("expected trimmed string items, got %v", coerced["tags"])
	}
}

func TestCoerceToSchema_UnparseableStaysOriginal(t *testing.T) {
	// Validation reports the type mismatch on the original value
	coerced := tools.CoerceToSchema(rgbSchema(), map[string]interface{}{
		"rgb_color": "red,green,blue",
	})

	if coerced["rgb_color"] != "red,green,blue" {
		t.Fatalf("expected original value kept, got %v", coerced["rgb_color"])
	}
}

func TestCoerceToSchema_FloatLiteralsToIntegers(t *testing.T) {
	coerced := tools.CoerceToSchema(rgbSchema(), map[string]interface{}{
		"rgb_color": []interface{}{255.0, 128.0, 0.0},
	})

	if !reflect.DeepEqual(coerced["rgb_color"], []int{255, 128, 0}) {
		t.Fatalf("expected [255 128 0], got %v", coerced["rgb_color"])
	}
}

func TestCoerceToSchema_NonIntegralFloatsStayOriginal(t *testing.T) {
	original := []interface{}{255.0, 0.5}
	coerced := tools.CoerceToSchema(rgbSchema(), map[string]interface{}{
		"rgb_color": original,
	})

	if !reflect.DeepEqual(coerced["rgb_color"], original) {
		t.Fatalf("expected original slice kept, got %v", coerced["rgb_color"])
	}
}

func TestCoerceToSchema_NonArrayPropertiesUntouched(t *testing.T) {
	coerced := tools.CoerceToSchema(rgbSchema(), map[string]interface{}{
		"state": "on,off",
	})

	if coerced["state"] != "on,off" {
		t.Fatalf("expected string property untouched, got %v", coerced["state"])
	}
}

func TestCoerceToSchema_DoesNotMutateInput(t *testing.T) {
	input := map[string]interface{}{"rgb_color": "255,128,0"}
	_ = tools.CoerceToSchema(rgbSchema(), input)

	if input["rgb_color"] != "255,128,0" {
		t.Fatalf("expected input map unchanged, got %v", input["rgb_color"])
	}
}
