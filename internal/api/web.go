package api

import (
	"net/http"
)

// handleWebInterface serves the demo single-page UI. The pie chart is drawn
// on a canvas from the public chart endpoint, so balances update live as
// pledges come in.
func (a *API) handleWebInterface(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(webInterfaceHTML))
}

const webInterfaceHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>warikan</title>
<style>
  body { font-family: sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; }
  h1 { font-size: 1.4rem; }
  section { margin-bottom: 2rem; }
  input, select, button { padding: 0.3rem; margin: 0.2rem 0; }
  #login-url, #session-state { font-size: 0.85rem; color: #555; word-break: break-all; }
  table { border-collapse: collapse; width: 100%; }
  td, th { border: 1px solid #ccc; padding: 0.3rem 0.5rem; text-align: left; }
  canvas { display: block; margin: 1rem auto; }
</style>
</head>
<body>
<h1>warikan — event expense splitter</h1>

<section id="auth">
  <h2>Login</h2>
  <input id="email" type="email" placeholder="you@example.com">
  <button onclick="requestLink()">Send magic link</button>
  <div id="login-url"></div>
  <div id="session-state"></div>
</section>

<section id="events-section">
  <h2>Events</h2>
  <button onclick="loadEvents()">Refresh</button>
  <table><tbody id="events"></tbody></table>
</section>

<section id="event-section" style="display:none">
  <h2 id="event-title"></h2>
  <canvas id="pie" width="320" height="320"></canvas>
  <table><tbody id="allocations"></tbody></table>
</section>

<script>
const colors = ['#4e79a7','#f28e2b','#e15759','#76b7b2','#59a14f','#edc948','#b07aa1','#ff9da7'];

function token() { return localStorage.getItem('warikan_token') || ''; }

async function requestLink() {
  const email = document.getElementById('email').value;
  const res = await fetch('/api/auth/magic-link', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({email})
  });
  const data = await res.json();
  document.getElementById('login-url').textContent = 'Login link: ' + data.login_url;
  // Demo shortcut: follow the link immediately and keep the session.
  const verify = await fetch(data.login_url);
  if (verify.ok) {
    const session = await verify.json();
    localStorage.setItem('warikan_token', session.token);
    document.getElementById('session-state').textContent = 'Logged in as ' + session.email;
    loadEvents();
  }
}

async function loadEvents() {
  const res = await fetch('/api/events', {headers: {'Authorization': 'Bearer ' + token()}});
  if (!res.ok) return;
  const events = await res.json();
  const rows = events.map(ev =>
    '<tr><td><a href="#" onclick="openEvent(' + ev.id + ');return false">' + ev.title + '</a></td>' +
    '<td>' + ev.currency + ' ' + ev.total_amount + '</td><td>' + ev.status + '</td></tr>');
  document.getElementById('events').innerHTML = rows.join('');
}

async function openEvent(id) {
  const res = await fetch('/api/events/' + id + '/chart');
  if (!res.ok) return;
  const chart = await res.json();
  document.getElementById('event-section').style.display = 'block';
  document.getElementById('event-title').textContent = 'Event ' + id;
  drawPie(chart.labels, chart.values);
  const rows = chart.labels.map((name, i) =>
    '<tr><td>' + name + '</td><td>' + chart.values[i].toFixed(2) + '</td></tr>');
  document.getElementById('allocations').innerHTML = rows.join('');
  // Live updates while the event page is open.
  clearInterval(window.pieTimer);
  window.pieTimer = setInterval(() => openEvent(id), 5000);
}

function drawPie(labels, values) {
  const canvas = document.getElementById('pie');
  const ctx = canvas.getContext('2d');
  ctx.clearRect(0, 0, canvas.width, canvas.height);
  const total = values.reduce((a, b) => a + b, 0);
  if (total <= 0) return;
  let start = -Math.PI / 2;
  values.forEach((v, i) => {
    const angle = (v / total) * Math.PI * 2;
    ctx.beginPath();
    ctx.moveTo(160, 160);
    ctx.arc(160, 160, 150, start, start + angle);
    ctx.closePath();
    ctx.fillStyle = colors[i % colors.length];
    ctx.fill();
    start += angle;
  });
}

const parts = window.location.pathname.split('/');
if (parts[1] === 'events' && parts[2]) openEvent(parseInt(parts[2], 10));
</script>
</body>
</html>
`
