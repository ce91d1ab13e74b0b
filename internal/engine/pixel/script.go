package pixel

import (
	"bytes"
	"text/template"
)

// scriptTemplate is the client-side snippet served per pixel. It batches
// events in-page and ships them to the collect endpoint with sendBeacon,
// falling back to fetch with keepalive.
const scriptTemplate = `(function () {
  "use strict";
  var PIXEL_ID = {{printf "%q" .PixelID}};
  var COLLECT_URL = {{printf "%q" .CollectURL}};

  function sid() {
    try {
      var s = sessionStorage.getItem("_ap_sid");
      if (!s) {
        s = Math.random().toString(36).slice(2) + Date.now().toString(36);
        sessionStorage.setItem("_ap_sid", s);
      }
      return s;
    } catch (e) {
      return "";
    }
  }

  function send(name, props) {
    var payload = JSON.stringify({
      pixel_id: PIXEL_ID,
      event_name: name,
      session_id: sid(),
      page_url: location.href,
      referrer: document.referrer || "",
      props: props || {}
    });
    if (navigator.sendBeacon && navigator.sendBeacon(COLLECT_URL, payload)) {
      return;
    }
    fetch(COLLECT_URL, {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: payload,
      keepalive: true
    }).catch(function () {});
  }

  window.adpulse = window.adpulse || {};
  window.adpulse.track = send;
  send("page_view");
})();
`

type scriptData struct {
	PixelID    string
	CollectURL string
}

var scriptTmpl = template.Must(template.New("pixel").Parse(scriptTemplate))

// RenderScript produces the JS snippet for one pixel.
func RenderScript(pixelID, collectURL string) ([]byte, error) {
	var buf bytes.Buffer
	err := scriptTmpl.Execute(&buf, scriptData{PixelID: pixelID, CollectURL: collectURL})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
