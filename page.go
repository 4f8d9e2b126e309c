package main

// chatPage is the whole front end. The server renders model output to
// sanitized HTML, so the client inserts message content with innerHTML.
const chatPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Chat</title>
<style>
  :root { --bg: #f5f6f8; --panel: #ffffff; --accent: #2563eb; --text: #1f2937; }
  * { box-sizing: border-box; }
  body {
    margin: 0; font-family: -apple-system, "Segoe UI", Roboto, sans-serif;
    background: var(--bg); color: var(--text);
    display: flex; flex-direction: column; height: 100vh;
  }
  header {
    background: var(--panel); border-bottom: 1px solid #e5e7eb;
    padding: 12px 20px; display: flex; align-items: center; gap: 16px;
  }
  header h1 { font-size: 18px; margin: 0; flex: 1; }
  select {
    padding: 6px 10px; border: 1px solid #d1d5db; border-radius: 6px;
    background: #fff; font-size: 14px;
  }
  #messages {
    flex: 1; overflow-y: auto; padding: 20px;
    display: flex; flex-direction: column; gap: 12px;
  }
  .message { max-width: 75%; padding: 10px 14px; border-radius: 12px; line-height: 1.5; }
  .message.user { align-self: flex-end; background: var(--accent); color: #fff; }
  .message.assistant { align-self: flex-start; background: var(--panel); border: 1px solid #e5e7eb; }
  .message.error { align-self: flex-start; background: #fef2f2; border: 1px solid #fecaca; color: #b91c1c; }
  .message.loading { align-self: flex-start; color: #6b7280; font-style: italic; }
  .message pre {
    background: #f3f4f6; padding: 10px; border-radius: 6px; overflow-x: auto;
  }
  .message.user pre { background: rgba(255,255,255,0.15); }
  .message code { font-family: "SF Mono", Menlo, Consolas, monospace; font-size: 13px; }
  .message p:first-child { margin-top: 0; }
  .message p:last-child { margin-bottom: 0; }
  footer { background: var(--panel); border-top: 1px solid #e5e7eb; padding: 12px 20px; }
  form { display: flex; gap: 10px; align-items: flex-end; }
  textarea {
    flex: 1; resize: none; padding: 10px 12px; font: inherit;
    border: 1px solid #d1d5db; border-radius: 8px; min-height: 44px; max-height: 160px;
  }
  textarea:focus { outline: 2px solid var(--accent); border-color: transparent; }
  button {
    padding: 10px 20px; font: inherit; border: none; border-radius: 8px;
    background: var(--accent); color: #fff; cursor: pointer;
  }
  button:disabled { background: #9ca3af; cursor: not-allowed; }
</style>
</head>
<body>
<header>
  <h1>Chat</h1>
  <select id="model-select" aria-label="Model"></select>
</header>
<div id="messages"></div>
<footer>
  <form id="chat-form">
    <textarea id="prompt" placeholder="Ask anything..." rows="1" autofocus></textarea>
    <button id="send" type="submit">Send</button>
  </form>
</footer>
<script>
(function () {
  "use strict";

  var messagesEl = document.getElementById("messages");
  var formEl = document.getElementById("chat-form");
  var promptEl = document.getElementById("prompt");
  var sendEl = document.getElementById("send");
  var modelEl = document.getElementById("model-select");

  var FALLBACK_TEXT = "Received an unexpected response from the API.";

  // All UI state lives here; setState is the only mutator.
  var state = { sending: false, loadingEl: null };

  function setState(next) {
    state = next;
    sendEl.disabled = state.sending;
    promptEl.disabled = state.sending;
  }

  function scrollToBottom() {
    messagesEl.scrollTop = messagesEl.scrollHeight;
  }

  function addMessage(role, content, asHTML) {
    var el = document.createElement("div");
    el.className = "message " + role;
    if (asHTML) {
      el.innerHTML = content;
    } else {
      el.textContent = content;
    }
    messagesEl.appendChild(el);
    scrollToBottom();
    return el;
  }

  function beginSend() {
    var loading = addMessage("loading", "Thinking...", false);
    setState({ sending: true, loadingEl: loading });
  }

  function settle() {
    if (state.loadingEl && state.loadingEl.parentNode) {
      state.loadingEl.parentNode.removeChild(state.loadingEl);
    }
    setState({ sending: false, loadingEl: null });
    promptEl.focus();
  }

  function renderResult(data) {
    if (data && data.error) {
      addMessage("error", "Error: " + data.error, false);
    } else if (data && data.choices && data.choices.length > 0 &&
        data.choices[0].message && data.choices[0].message.content) {
      addMessage("assistant", data.choices[0].message.content, true);
    } else if (data && data.response) {
      addMessage("assistant", data.response, false);
    } else {
      addMessage("error", FALLBACK_TEXT, false);
    }
  }

  function sendPrompt() {
    var prompt = promptEl.value.trim();
    if (!prompt || state.sending) {
      return;
    }
    addMessage("user", prompt, false);
    promptEl.value = "";
    beginSend();

    fetch("/generate", {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({ prompt: prompt, model: modelEl.value || undefined })
    })
      .then(function (resp) { return resp.json(); })
      .then(function (data) {
        settle();
        renderResult(data);
      })
      .catch(function (err) {
        settle();
        addMessage("error", "Error: " + err.message, false);
      });
  }

  formEl.addEventListener("submit", function (ev) {
    ev.preventDefault();
    sendPrompt();
  });

  promptEl.addEventListener("keydown", function (ev) {
    if (ev.key === "Enter" && !ev.shiftKey) {
      ev.preventDefault();
      sendPrompt();
    }
  });

  fetch("/api/models")
    .then(function (resp) { return resp.json(); })
    .then(function (data) {
      var models = (data && data.models) || [];
      models.forEach(function (m) {
        var opt = document.createElement("option");
        opt.value = m.id;
        opt.textContent = m.name;
        modelEl.appendChild(opt);
      });
    })
    .catch(function () {
      // Selector stays empty; the server falls back to its default model.
    });
})();
</script>
</body>
</html>
`
