package descriptor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTag(t *testing.T) {
	testCases := []struct {
		name      string
		tag       string
		field     string
		expected  []Descriptor
		expectErr error
	}{
		{
			name:     "empty tag",
			tag:      "",
			field:    "GetText",
			expected: nil,
		},
		{
			name:     "raw property with empty default",
			tag:      "property,name=text,default=,raw",
			field:    "GetText",
			expected: []Descriptor{Property{Name: "text", Default: "", Raw: true}},
		},
		{
			name:     "property name derived from field",
			tag:      "property,default=0",
			field:    "SetPokeCount",
			expected: []Descriptor{Property{Name: "pokeCount", Default: "0"}},
		},
		{
			name:     "function name derived from field",
			tag:      "function",
			field:    "PokeIt",
			expected: []Descriptor{Function{Name: "pokeIt"}},
		},
		{
			name:  "property with marker",
			tag:   "property,name=text; audited,level=high",
			field: "GetText",
			expected: []Descriptor{
				Property{Name: "text"},
				Marker{Of: "audited", Options: map[string]string{"level": "high"}},
			},
		},
		{
			name:      "duplicated kind",
			tag:       "function;function,name=x",
			field:     "PokeIt",
			expectErr: ErrInvalidTag,
		},
		{
			name:      "unknown property option",
			tag:       "property,nmae=text",
			field:     "GetText",
			expectErr: ErrInvalidTag,
		},
		{
			name:      "unknown function option",
			tag:       "function,raw",
			field:     "PokeIt",
			expectErr: ErrInvalidTag,
		},
		{
			name:      "empty kind",
			tag:       ",name=text",
			field:     "GetText",
			expectErr: ErrInvalidTag,
		},
		{
			name:      "empty function name",
			tag:       "function,name=",
			field:     "PokeIt",
			expectErr: ErrInvalidTag,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			descriptors, err := ParseTag(tc.tag, tc.field)
			if tc.expectErr != nil {
				require.ErrorIs(t, err, tc.expectErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.expected, descriptors)
		})
	}
}

func TestSet(t *testing.T) {
	s := KindsOf([]Descriptor{Property{Name: "text"}, Marker{Of: "audited"}})

	require.True(t, s.Has(KindProperty))
	require.False(t, s.Has(KindFunction))
	require.True(t, s.Without(KindProperty).Equal(NewSet("audited")))
	require.True(t, s.Intersects(NewSet(KindFunction, "audited")))
	require.False(t, s.Intersects(NewSet(KindFunction)))
	require.Equal(t, "[audited, property]", s.String())
	require.True(t, NewSet().Equal(KindsOf(nil)))
}

func TestFind(t *testing.T) {
	descriptors := []Descriptor{Marker{Of: "audited"}, Function{Name: "pokeIt"}}

	d, ok := Find(descriptors, KindFunction)
	require.True(t, ok)
	require.Equal(t, Function{Name: "pokeIt"}, d)

	_, ok = Find(descriptors, KindProperty)
	require.False(t, ok)
}
