package cli

import (
	"reflect"
	"testing"
)

func TestCompleteFormats(t *testing.T) {
	got, _ := completeFormats(nil, nil, "")
	if len(got) != 6 || got[0] != "svg" {
		t.Errorf("completeFormats(\"\") = %v", got)
	}

	got, _ = completeFormats(nil, nil, "svg,png,")
	want := []string{"svg,png,jpg", "svg,png,pdf", "svg,png,json", "svg,png,dot"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("completeFormats(svg,png,) = %v, want %v", got, want)
	}
}
