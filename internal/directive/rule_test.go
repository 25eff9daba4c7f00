package directive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultRulesAreValid(t *testing.T) {
	rules := DefaultRules()
	require.NoError(t, ValidateRules(rules))
	require.Equal(t, "code", rules[0].Name)
	require.Equal(t, "usage", rules[1].Name)
}

func TestValidateRules(t *testing.T) {
	code := CodeWrapper{Language: "tsx"}

	tests := []struct {
		name    string
		rules   []Rule
		wantErr string
	}{
		{name: "empty", rules: nil, wantErr: "no directive rules"},
		{name: "no name", rules: []Rule{{Keywords: []string{"example"}, Wrapper: code}}, wantErr: "no name"},
		{name: "no keywords", rules: []Rule{{Name: "code", Wrapper: code}}, wantErr: "no keywords"},
		{name: "bad keyword", rules: []Rule{{Name: "code", Keywords: []string{"ex ample"}, Wrapper: code}}, wantErr: "invalid keyword"},
		{name: "no wrapper", rules: []Rule{{Name: "code", Keywords: []string{"example"}}}, wantErr: "no wrapper"},
		{
			name: "shared keyword",
			rules: []Rule{
				{Name: "code", Keywords: []string{"example"}, Wrapper: code},
				{Name: "usage", Keywords: []string{"usage", "example"}, Wrapper: code},
			},
			wantErr: `keyword "example" used by both`,
		},
		{
			name: "duplicate name",
			rules: []Rule{
				{Name: "code", Keywords: []string{"example"}, Wrapper: code},
				{Name: "code", Keywords: []string{"codeblock"}, Wrapper: code},
			},
			wantErr: "duplicate directive rule name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRules(tt.rules)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSentinelPattern(t *testing.T) {
	re := SentinelPattern(DefaultRules())
	require.True(t, re.MatchString("::example='a'::"))
	require.True(t, re.MatchString("::expander="))
	require.False(t, re.MatchString("::note='a'::"))
	require.False(t, re.MatchString(":: example="))
}
