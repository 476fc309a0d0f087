package main

import "net/http"

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>MatchRelay</title>
<meta name="description" content="Room and matchmaking relay for two-player games">
<style>
*{margin:0;padding:0;box-sizing:border-box}
:root{--bg:#14161a;--card:#1f2329;--border:#30353d;--fg:#e6e6e6;--muted:#7d848f;--accent:#f2c94c;--radius:6px}
body{font-family:system-ui,-apple-system,'Segoe UI',Roboto,sans-serif;background:var(--bg);color:var(--fg);min-height:100vh;display:flex;align-items:center;justify-content:center;padding:24px}
.container{width:100%;max-width:440px}
.title{font-size:22px;font-weight:600;margin-bottom:4px}
.subtitle{color:var(--muted);font-size:14px;margin-bottom:24px;line-height:1.5}
.card{background:var(--card);border:1px solid var(--border);border-radius:var(--radius);padding:4px 16px;margin-bottom:16px}
.card-row{display:flex;justify-content:space-between;padding:10px 0;border-bottom:1px solid var(--border);font-size:14px}
.card-row:last-child{border-bottom:none}
.card-label{color:var(--muted)}
.ok{color:#6fcf97}.err{color:#eb5757}
.endpoint{display:flex;gap:12px;font-size:13px;padding:6px 0;font-family:ui-monospace,monospace}
.method{color:var(--accent);width:36px}
.footer{color:var(--muted);font-size:12px;margin-top:24px;text-align:center}
</style>
</head>
<body>
<div class="container">
<div class="title">MatchRelay</div>
<div class="subtitle">Room codes, random matchmaking and move relay for two-player games.</div>

<div class="card">
<div class="card-row"><span class="card-label">Status</span><span id="status">Checking</span></div>
<div class="card-row"><span class="card-label">Rooms</span><span id="rooms">-</span></div>
<div class="card-row"><span class="card-label">Players seated</span><span id="players">-</span></div>
<div class="card-row"><span class="card-label">Waiting for a match</span><span id="waiting">-</span></div>
<div class="card-row"><span class="card-label">Connections</span><span id="connections">-</span></div>
</div>

<div class="card">
<div class="endpoint"><span class="method">WS</span><span>/ws</span></div>
<div class="endpoint"><span class="method">GET</span><span>/health</span></div>
<div class="endpoint"><span class="method">GET</span><span>/stats</span></div>
</div>

<div class="footer">MatchRelay</div>
</div>
<script>
(function(){
var s=document.getElementById('status');
function set(id,v){document.getElementById(id).textContent=v}
function check(){
fetch('/stats').then(function(r){return r.json()}).then(function(j){
s.className='ok';s.textContent='Online';
set('rooms',j.rooms);set('players',j.players);set('waiting',j.waiting);set('connections',j.connections);
}).catch(function(){s.className='err';s.textContent='Offline'});
}
check();setInterval(check,10000);
})();
</script>
</body>
</html>`

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(indexHTML))
}
