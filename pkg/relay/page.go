package relay

import (
	"html/template"
	"net/http"
)

// page is a full-screen pad that forwards pointer, touch and wheel input.
var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta name="viewport" content="width=device-width, initial-scale=1, user-scalable=no">
<title>globe input</title>
<style>
html, body { margin: 0; height: 100%; background: #000008; color: #888; font: 14px sans-serif; }
#pad { position: fixed; inset: 0; touch-action: none; display: flex; align-items: center; justify-content: center; }
</style>
</head>
<body>
<div id="pad">connecting...</div>
<script>
const pad = document.getElementById("pad");
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + {{.Path}});
const send = (m) => { if (ws.readyState === 1) ws.send(JSON.stringify(m)); };
const touches = (list) => Array.from(list, (t) => ({ id: t.identifier, x: t.clientX, y: t.clientY }));
ws.onmessage = (e) => { const m = JSON.parse(e.data); if (m.type === "hello") pad.textContent = "drag to rotate, scroll to zoom"; };
ws.onclose = () => { pad.textContent = "disconnected"; };
let down = false;
pad.addEventListener("mousedown", (e) => { down = true; send({ type: "pressStart", x: e.clientX, y: e.clientY }); });
pad.addEventListener("mousemove", (e) => { if (down) send({ type: "pressMove", x: e.clientX, y: e.clientY }); });
const up = (e) => { if (down) { down = false; send({ type: "pressEnd", x: e.clientX, y: e.clientY }); } };
pad.addEventListener("mouseup", up);
pad.addEventListener("mouseleave", up);
pad.addEventListener("wheel", (e) => { e.preventDefault(); send({ type: "wheel", deltaY: e.deltaY }); }, { passive: false });
pad.addEventListener("touchstart", (e) => { e.preventDefault(); send({ type: "touchStart", touches: touches(e.touches) }); }, { passive: false });
pad.addEventListener("touchmove", (e) => { e.preventDefault(); send({ type: "touchMove", touches: touches(e.touches) }); }, { passive: false });
pad.addEventListener("touchend", (e) => { send({ type: "touchEnd", touches: touches(e.changedTouches) }); });
</script>
</body>
</html>
`))

func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, struct{ Path string }{s.cfg.Path}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
