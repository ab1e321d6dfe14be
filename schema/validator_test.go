package schema

import (
	"testing"

	"github.com/grovetools/widgets/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSchemaCompiles(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Contains(t, string(Embedded()), `"Widgets Configuration"`)
}

func TestValidateAcceptsDashboard(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	doc := map[string]interface{}{
		"version":  "1.0",
		"renderer": "terminal",
		"database": "library.db",
		"widgets": []interface{}{
			map[string]interface{}{"mount": "genre-chart", "source": map[string]interface{}{"type": "placeholder"}},
			map[string]interface{}{"mount": "rentals", "kind": "line", "source": map[string]interface{}{"type": "library.rentals_per_month"}},
			map[string]interface{}{
				"mount":  "static",
				"legend": "left",
				"source": map[string]interface{}{
					"type": "static",
					"data": []interface{}{map[string]interface{}{"label": "A", "value": 1}},
				},
			},
		},
		"watch": map[string]interface{}{"debounce_ms": 250},
	}
	assert.NoError(t, v.Validate(doc))
}

func TestValidateReportsViolations(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name string
		doc  map[string]interface{}
		want string
	}{
		{
			name: "unknown top-level key",
			doc:  map[string]interface{}{"widgetz": []interface{}{}},
			want: "widgetz",
		},
		{
			name: "bad legend",
			doc: map[string]interface{}{"widgets": []interface{}{
				map[string]interface{}{"mount": "m", "legend": "middle", "source": map[string]interface{}{}},
			}},
			want: "/widgets/0/legend",
		},
		{
			name: "negative value",
			doc: map[string]interface{}{"widgets": []interface{}{
				map[string]interface{}{"mount": "m", "source": map[string]interface{}{
					"type": "static",
					"data": []interface{}{map[string]interface{}{"label": "A", "value": -1}},
				}},
			}},
			want: "/widgets/0/source/data/0/value",
		},
		{
			name: "unknown source type",
			doc: map[string]interface{}{"widgets": []interface{}{
				map[string]interface{}{"mount": "m", "source": map[string]interface{}{"type": "http"}},
			}},
			want: "/widgets/0/source/type",
		},
		{
			name: "missing mount",
			doc: map[string]interface{}{"widgets": []interface{}{
				map[string]interface{}{"source": map[string]interface{}{}},
			}},
			want: "/widgets/0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.doc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeConfigValidation))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewValidatorFromBytesRejectsGarbage(t *testing.T) {
	_, err := NewValidatorFromBytes([]byte("{not json"))
	assert.Error(t, err)
}
