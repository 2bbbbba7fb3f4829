package console

import "net/http"

// HandleIndex serves the embedded operator page.
func (s *Console) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>spirepilot console</title>
<style>
  body { font-family: ui-monospace, monospace; margin: 0; background: #111; color: #ddd; }
  #bar { padding: 8px 12px; background: #1c1c28; display: flex; gap: 16px; align-items: center; }
  #log { padding: 8px 12px; height: calc(100vh - 110px); overflow-y: auto; font-size: 12px; white-space: pre-wrap; word-break: break-all; }
  .in  { color: #8a8fa8; }
  .out { color: #7ce38b; }
  #entry { display: flex; gap: 8px; padding: 8px 12px; background: #1c1c28; }
  #cmd { flex: 1; background: #111; color: #ddd; border: 1px solid #333; padding: 6px; }
  button { background: #2a2a3a; color: #ddd; border: 1px solid #444; padding: 6px 12px; cursor: pointer; }
</style>
</head>
<body>
<div id="bar">
  <span id="status">connecting</span>
  <span id="snap"></span>
  <button id="pause">pause</button>
  <button id="resume">resume</button>
</div>
<div id="log"></div>
<div id="entry">
  <input id="cmd" placeholder="command line, e.g. choose 0" autocomplete="off">
  <button id="send">send</button>
</div>
<script>
var log = document.getElementById("log");
var status = document.getElementById("status");
var snap = document.getElementById("snap");
var maxRows = 200;
var ws;

function connect() {
  ws = new WebSocket("ws://" + location.host + "/ws");
  ws.onclose = function () {
    status.textContent = "disconnected";
    setTimeout(connect, 1000);
  };
  ws.onmessage = function (ev) {
    var f = JSON.parse(ev.data);
    if (f.type === "status") {
      var st = f.status;
      status.textContent = (st.running ? "running" : "idle")
        + (st.paused ? " (paused)" : "")
        + " | run " + st.run
        + (st.class ? " | " + st.class : "")
        + (st.seed ? " | seed " + st.seed : "");
      return;
    }
    if (f.type === "line") {
      if (f.dir === "in") { summarize(f.line); }
      append(f.dir, f.line);
    }
  };
}

function summarize(line) {
  try {
    var gs = JSON.parse(line).game_state;
    if (!gs) { return; }
    snap.textContent = "floor " + gs.floor + " | hp " + gs.current_hp + "/" + gs.max_hp + " | gold " + gs.gold;
  } catch (e) {}
}

function append(dir, line) {
  var row = document.createElement("div");
  row.className = dir;
  row.textContent = (dir === "out" ? "> " : "< ") + line;
  log.appendChild(row);
  while (log.childNodes.length > maxRows) { log.removeChild(log.firstChild); }
  log.scrollTop = log.scrollHeight;
}

document.getElementById("pause").onclick = function () { ws.send(JSON.stringify({op: "pause"})); };
document.getElementById("resume").onclick = function () { ws.send(JSON.stringify({op: "resume"})); };
function sendCmd() {
  var input = document.getElementById("cmd");
  if (input.value.trim() !== "") {
    ws.send(JSON.stringify({cmd: input.value}));
    input.value = "";
  }
}
document.getElementById("send").onclick = sendCmd;
document.getElementById("cmd").addEventListener("keydown", function (ev) {
  if (ev.key === "Enter") { sendCmd(); }
});
connect();
</script>
</body>
</html>
`
