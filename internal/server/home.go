package server

const homePage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>YouTube Transcript Chat</title>
<style>
  body { font-family: sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; }
  textarea, input[type=text] { width: 100%; box-sizing: border-box; padding: 0.5rem; }
  button { margin-top: 0.5rem; padding: 0.5rem 1rem; }
  pre { background: #f4f4f4; padding: 1rem; white-space: pre-wrap; }
  section { margin-bottom: 2rem; }
</style>
</head>
<body>
<h1>YouTube Transcript Chat</h1>

<section>
  <h2>Add videos</h2>
  <textarea id="videos" rows="3" placeholder="Video IDs or URLs, one per line"></textarea>
  <button onclick="addVideos()">Ingest</button>
  <pre id="ingest-out"></pre>
</section>

<section>
  <h2>Ask</h2>
  <input type="text" id="question" placeholder="Ask about the indexed videos">
  <button onclick="ask()">Ask</button>
  <pre id="ask-out"></pre>
</section>

<section>
  <h2>Status</h2>
  <button onclick="status()">Refresh</button>
  <pre id="status-out"></pre>
</section>

<script>
async function post(url, body) {
  const res = await fetch(url, {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify(body),
  });
  return res.json();
}

async function addVideos() {
  const videos = document.getElementById('videos').value.split('\n').filter(v => v.trim());
  const out = await post('/api/videos', {videos});
  document.getElementById('ingest-out').textContent = JSON.stringify(out, null, 2);
}

async function ask() {
  const question = document.getElementById('question').value;
  const out = await post('/api/ask', {question, verbose: true});
  let text = out.error || out.answer;
  if (out.sources) text += '\n\nSources:\n' + out.sources;
  document.getElementById('ask-out').textContent = text;
}

async function status() {
  const res = await fetch('/api/status');
  document.getElementById('status-out').textContent = JSON.stringify(await res.json(), null, 2);
}
</script>
</body>
</html>
`
