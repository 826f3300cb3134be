// Package pages holds the templ components for the chat UI. The page is a
// single static component: login screen, chat screen and the script speaking
// the relay's wire protocol.
package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Chat returns the login + chat page.
func Chat() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, chatHTML)
		return err
	})
}

const chatHTML = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Sala de Bate-Papo</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; font-family: system-ui, sans-serif; }
  body { background: #111b21; color: #e9edef; height: 100vh; display: flex; flex-direction: column; }
  .screen { display: none; flex: 1; flex-direction: column; }
  .screen.active { display: flex; }
  #login { align-items: center; justify-content: center; gap: 12px; }
  #login input { padding: 10px 14px; border-radius: 8px; border: none; font-size: 16px; }
  #login button, #form button { padding: 10px 18px; border-radius: 8px; border: none;
    background: #00a884; color: #fff; font-size: 16px; cursor: pointer; }
  header { padding: 12px 16px; background: #202c33; display: flex; justify-content: space-between; }
  #messages { flex: 1; overflow-y: auto; padding: 16px; display: flex; flex-direction: column; gap: 8px; }
  .msg { max-width: 70%; padding: 8px 12px; border-radius: 8px; background: #202c33; align-self: flex-start; }
  .msg.mine { background: #005c4b; align-self: flex-end; }
  .msg .who { font-size: 12px; color: #53bdeb; }
  .msg img, .msg video { max-width: 100%; border-radius: 6px; }
  .notice { align-self: center; font-size: 13px; color: #8696a0; }
  .notice.ban { color: #f15c6d; }
  #typing { min-height: 18px; padding: 0 16px; font-size: 13px; color: #8696a0; }
  #form { display: flex; gap: 8px; padding: 12px 16px; background: #202c33; }
  #form input[type=text] { flex: 1; padding: 10px 14px; border-radius: 8px; border: none; font-size: 16px; }
</style>
</head>
<body>
<div id="login" class="screen active">
  <h1>Sala de Bate-Papo</h1>
  <input id="name" type="text" placeholder="Seu nome (3-20 caracteres)" maxlength="20">
  <button id="enter">Entrar</button>
</div>
<div id="chat" class="screen">
  <header><span id="me"></span><span id="online"></span></header>
  <div id="messages"></div>
  <div id="typing"></div>
  <form id="form">
    <input id="text" type="text" placeholder="Mensagem" autocomplete="off">
    <input id="image" type="file" accept="image/*" hidden>
    <button type="button" id="attach">+</button>
    <button type="submit">Enviar</button>
  </form>
</div>
<script>
(function () {
  var sock, myId = null, myName = null, typingTimer = null, banned = false;

  function show(id) {
    document.querySelectorAll('.screen').forEach(function (s) { s.classList.remove('active'); });
    document.getElementById(id).classList.add('active');
  }

  function send(type, data) {
    if (sock && sock.readyState === WebSocket.OPEN) {
      sock.send(JSON.stringify({ type: type, data: data }));
    }
  }

  function notice(text, cls) {
    var el = document.createElement('div');
    el.className = 'notice' + (cls ? ' ' + cls : '');
    el.textContent = text;
    append(el);
  }

  function append(el) {
    var box = document.getElementById('messages');
    box.appendChild(el);
    box.scrollTop = box.scrollHeight;
  }

  function bubble(d, body) {
    var el = document.createElement('div');
    el.className = 'msg' + (d.userId === myId ? ' mine' : '');
    var who = document.createElement('div');
    who.className = 'who';
    who.textContent = d.userName;
    el.appendChild(who);
    el.appendChild(body);
    append(el);
  }

  function textNode(content) {
    var el = document.createElement('div');
    el.textContent = content;
    return el;
  }

  function connect(name) {
    var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
    sock = new WebSocket(proto + location.host + '/ws');

    sock.onopen = function () {
      if (name) { send('set_name', name); }
      show('chat');
    };

    sock.onclose = function (ev) {
      if (ev.code === 1008 || banned) {
        notice('Você foi desconectado: ' + (ev.reason || 'violação de política'), 'ban');
        return; // do not reconnect after a policy close
      }
      notice('Conexão perdida.');
    };

    sock.onmessage = function (ev) {
      var frame = JSON.parse(ev.data), d = frame.data;
      switch (frame.type) {
        case 'user_id':
          myId = d.userId;
          myName = d.userName;
          document.getElementById('me').textContent = myName;
          break;
        case 'online_count':
          document.getElementById('online').textContent = d.count + ' online';
          break;
        case 'message':
          bubble(d, textNode(d.content));
          break;
        case 'audio_message':
          var audio = document.createElement('audio');
          audio.controls = true; audio.src = d.content;
          bubble(d, audio);
          break;
        case 'image_message':
          var img = document.createElement('img');
          img.src = d.content; img.alt = d.fileName || '';
          bubble(d, img);
          break;
        case 'video_message':
          var video = document.createElement('video');
          video.controls = true; video.src = d.content;
          bubble(d, video);
          break;
        case 'sticker_message':
          bubble(d, textNode(d.content));
          break;
        case 'user_typing':
          document.getElementById('typing').textContent =
            d.isTyping && d.userId !== myId ? d.userName + ' está digitando...' : '';
          break;
        case 'message_blocked':
          notice('Mensagem bloqueada: ' + d.reason, 'ban');
          break;
        case 'user_banned':
          banned = true;
          notice('Você foi banido: ' + d.reason, 'ban');
          break;
        case 'user_banned_notification':
          notice(d.userName + ' foi banido: ' + d.reason, 'ban');
          break;
        case 'error':
          notice(d.message, 'ban');
          break;
      }
    };
  }

  document.getElementById('enter').addEventListener('click', function () {
    var name = document.getElementById('name').value.trim();
    connect(name.length >= 3 ? name : null);
  });

  document.getElementById('form').addEventListener('submit', function (ev) {
    ev.preventDefault();
    var input = document.getElementById('text');
    var text = input.value.trim();
    if (!text) { return; }
    send('message', text);
    send('typing_stop', null);
    input.value = '';
  });

  document.getElementById('text').addEventListener('input', function () {
    send('typing_start', null);
    clearTimeout(typingTimer);
    typingTimer = setTimeout(function () { send('typing_stop', null); }, 2000);
  });

  document.getElementById('attach').addEventListener('click', function () {
    document.getElementById('image').click();
  });

  document.getElementById('image').addEventListener('change', function (ev) {
    var file = ev.target.files[0];
    if (!file) { return; }
    var reader = new FileReader();
    reader.onload = function () {
      send('image_message', { image: reader.result, fileName: file.name });
    };
    reader.readAsDataURL(file);
    ev.target.value = '';
  });
})();
</script>
</body>
</html>
`
