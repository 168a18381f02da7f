package fonts

import (
	"encoding/base64"
	"testing"
)

func TestGoMonoTTFBase64(t *testing.T) {
	enc := GoMonoTTFBase64()
	if enc == "" {
		t.Fatal("GoMonoTTFBase64() is empty")
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		t.Fatalf("DecodeString() error = %v", err)
	}
	if len(raw) != len(GoMonoTTF()) {
		t.Errorf("decoded %d bytes, want %d", len(raw), len(GoMonoTTF()))
	}
	if GoMonoTTFBase64() != enc {
		t.Error("second call returned a different encoding")
	}
}
