package core

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "two lines",
			text: "123456789,111111111\n000000000",
			want: []string{"123456789", "111111111", "000000000"},
		},
		{
			name: "spaces trimmed",
			text: " 123456789 ,  711111111 ",
			want: []string{"123456789", "711111111"},
		},
		{
			name: "empty fields dropped",
			text: "1,,2,,,3,",
			want: []string{"1", "2", "3"},
		},
		{
			name: "blank lines skipped",
			text: "\n\n1\n   \n2\n",
			want: []string{"1", "2"},
		},
		{
			name: "carriage returns",
			text: "123456789\r\n000000000\r\n",
			want: []string{"123456789", "000000000"},
		},
		{
			name: "duplicates kept in order",
			text: "2,1,2",
			want: []string{"2", "1", "2"},
		},
		{
			name: "leading zeros preserved",
			text: "000000001",
			want: []string{"000000001"},
		},
		{
			name: "only commas",
			text: ",,,\n,",
			want: []string{},
		},
		{
			name: "empty",
			text: "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if got == nil {
				t.Fatal("Tokenize returned nil")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestTokenize_Idempotent(t *testing.T) {
	inputs := []string{
		"123456789,111111111\n000000000",
		"  1 , 2 ,,3\n\n4,5  \n",
		"\t9\t\r\n,8",
		",,,",
	}

	for _, in := range inputs {
		once := Tokenize(in)
		twice := Tokenize(strings.Join(once, ","))
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("Tokenize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
