package sanitize

import (
	"reflect"
	"testing"
)

func TestText(t *testing.T) {
	cases := map[string]string{
		"<b>Solid</b> walnut":                     "Solid walnut",
		"&lt;script&gt;alert(1)&lt;/script&gt;ok": "alert(1)ok",
		"  two   spaces  ":                        "two spaces",
		"line one\nline two":                      "line one\nline two",
	}
	for in, want := range cases {
		if got := Text(in); got != want {
			t.Fatalf("Text(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestTextPtrNil(t *testing.T) {
	if TextPtr(nil) != nil {
		t.Fatalf("expected nil")
	}
}

func TestTags(t *testing.T) {
	got := Tags([]string{"Oak", " ", "oak", "<i>Desk</i>", "Home Office"})
	want := []string{"Oak", "Desk", "Home Office"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
