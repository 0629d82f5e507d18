package tcp

import (
	"reflect"
	"testing"
)

func TestSplitCommand(t *testing.T) {
	cases := []struct {
		line string
		n    int
		want []string
	}{
		{"/join eng", 2, []string{"/join", "eng"}},
		{"/join", 2, []string{"/join"}},
		{"/join   eng room", 2, []string{"/join", "eng room"}},
		{"/m bob hello there", 3, []string{"/m", "bob", "hello there"}},
		{"/m bob", 3, []string{"/m", "bob"}},
		{"/m", 3, []string{"/m"}},
		{"/upload  notes.txt ", 2, []string{"/upload", "notes.txt"}},
		{"", 2, nil},
		{"   ", 2, nil},
		{"/m\tbob\thi", 3, []string{"/m", "bob", "hi"}},
	}
	for _, tc := range cases {
		got := splitCommand(tc.line, tc.n)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitCommand(%q, %d) = %v, want %v", tc.line, tc.n, got, tc.want)
		}
	}
}
