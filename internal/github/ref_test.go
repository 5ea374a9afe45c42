package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePRRef(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    PRRef
		wantErr bool
	}{
		{
			name:  "valid reference",
			input: "sevigo/codelens#42",
			want:  PRRef{Owner: "sevigo", Repo: "codelens", Number: 42},
		},
		{
			name:  "repo with dots and dashes",
			input: "my-org/some.repo-name#1",
			want:  PRRef{Owner: "my-org", Repo: "some.repo-name", Number: 1},
		},
		{
			name:    "missing number",
			input:   "sevigo/codelens",
			wantErr: true,
		},
		{
			name:    "missing repo",
			input:   "sevigo#42",
			wantErr: true,
		},
		{
			name:    "non-numeric number",
			input:   "sevigo/codelens#abc",
			wantErr: true,
		},
		{
			name:    "zero number",
			input:   "sevigo/codelens#0",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePRRef(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
