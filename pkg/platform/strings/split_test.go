package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty input", input: "", want: nil},
		{name: "whitespace only", input: "   ", want: nil},
		{name: "single value", input: "go", want: []string{"go"}},
		{name: "trims pieces", input: " go ,  react", want: []string{"go", "react"}},
		{name: "drops empty pieces", input: "go,,, ,react,", want: []string{"go", "react"}},
		{name: "keeps order, not sorted", input: "zig,c,ada", want: []string{"zig", "c", "ada"}},
		{name: "keeps duplicates", input: "go,go", want: []string{"go", "go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitAndTrim(tt.input, ","))
		})
	}
}
