package pagination

import "testing"

func TestFromStrings(t *testing.T) {
	cases := []struct {
		page, limit string
		want        Params
	}{
		{"", "", Params{Page: 1, Limit: 20, Offset: 0}},
		{"3", "10", Params{Page: 3, Limit: 10, Offset: 20}},
		{"0", "-5", Params{Page: 1, Limit: 20, Offset: 0}},
		{"abc", "500", Params{Page: 1, Limit: 100, Offset: 0}},
		{"2", "100", Params{Page: 2, Limit: 100, Offset: 100}},
	}
	for _, tc := range cases {
		if got := FromStrings(tc.page, tc.limit); got != tc.want {
			t.Errorf("FromStrings(%q, %q) = %+v, want %+v", tc.page, tc.limit, got, tc.want)
		}
	}
}
