package web

const indexPage = `<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>QR-сканер</title>
	<style>
		body { font-family: Arial, sans-serif; margin: 40px; }
		.status { padding: 20px; background-color: #e0f7fa; border-radius: 5px; }
		#preview { max-width: 640px; width: 100%; background: #000; }
		#result { font-size: 1.2em; color: #1565c0; word-break: break-all; }
		button { margin: 4px; padding: 8px 16px; }
	</style>
</head>
<body>
	<h1>QR-сканер</h1>
	<div class="status">
		<p>Состояние: <b id="state">idle</b></p>
		<p>Результат: <span id="result">-</span></p>
		<button onclick="cmd('start')">Старт</button>
		<button onclick="cmd('stop')">Стоп</button>
		<button onclick="cmd('rescan')">Сканировать снова</button>
	</div>
	<img id="preview" alt="">

	<h2>Генерация QR-кода</h2>
	<input id="text" size="50" value="https://">
	<button onclick="generate()">Создать</button>
	<div><img id="qr" alt=""></div>

	<script>
		const preview = document.getElementById('preview');
		const state = document.getElementById('state');
		const result = document.getElementById('result');

		const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
		ws.binaryType = 'blob';
		ws.onmessage = (msg) => {
			if (msg.data instanceof Blob) {
				const old = preview.src;
				preview.src = URL.createObjectURL(msg.data);
				if (old) URL.revokeObjectURL(old);
				return;
			}
			const ev = JSON.parse(msg.data);
			if (ev.type === 'result') { result.textContent = ev.text; state.textContent = 'found'; }
			if (ev.type === 'error') { result.textContent = ev.kind + ': ' + ev.message; }
			if (ev.type === 'state') { state.textContent = ev.state; }
		};

		async function cmd(name) {
			const resp = await fetch('/api/' + name, { method: 'POST' });
			const body = await resp.json();
			state.textContent = body.state;
			if (body.error) result.textContent = body.kind + ': ' + body.error;
		}

		async function generate() {
			const text = document.getElementById('text').value;
			const resp = await fetch('/api/generate', { method: 'POST', body: JSON.stringify({ text }) });
			if (!resp.ok) { alert((await resp.json()).error); return; }
			document.getElementById('qr').src = URL.createObjectURL(await resp.blob());
		}
	</script>
</body>
</html>
`
