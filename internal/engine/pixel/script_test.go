package pixel

import (
	"strings"
	"testing"
)

func TestRenderScript(t *testing.T) {
	out, err := RenderScript("abc123defg", "https://track.example.com/collect")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	script := string(out)
	if !strings.Contains(script, `var PIXEL_ID = "abc123defg";`) {
		t.Error("Script missing pixel id")
	}
	if !strings.Contains(script, `var COLLECT_URL = "https://track.example.com/collect";`) {
		t.Error("Script missing collect url")
	}
	if !strings.Contains(script, "window.adpulse.track") {
		t.Error("Script missing public track function")
	}
	if !strings.Contains(script, `send("page_view")`) {
		t.Error("Script missing automatic page_view")
	}
}

func TestRenderScriptEscapesValues(t *testing.T) {
	out, err := RenderScript(`px"1`, `https://x.example/collect?a="b"`)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	script := string(out)
	if !strings.Contains(script, `var PIXEL_ID = "px\"1";`) {
		t.Error("Pixel id not escaped as a JS string literal")
	}
	if strings.Contains(script, `= "https://x.example/collect?a="b"";`) {
		t.Error("Collect url quotes leaked unescaped")
	}
}
