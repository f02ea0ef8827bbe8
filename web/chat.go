package web

import (
	"fmt"
	"net/http"

	"github.com/amonks/smarttodo/chat"
)

// chatEntry is a message prepared for display.
type chatEntry struct {
	chat.Message
	Pending bool
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	data := pageData{ActiveTab: tabChat}
	var response chatMessagesResponse
	if err := h.post(r, "/chat/messages", emptyRequest{}, &response); err != nil {
		data.Error = err.Error()
	}
	pending := make(map[string]bool, len(response.Pending))
	for _, id := range response.Pending {
		pending[id] = true
	}
	for _, m := range response.Messages {
		data.Chat = append(data.Chat, chatEntry{Message: m, Pending: pending[m.ID]})
	}
	h.render(w, data)
}

func (h *Handler) handleChatSend(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.setFlash(flash{tab: tabChat, err: "invalid form input"})
		http.Redirect(w, r, "/web/chat", http.StatusSeeOther)
		return
	}
	message := trimmedFormValue(r, "message")
	if message == "" {
		http.Redirect(w, r, "/web/chat", http.StatusSeeOther)
		return
	}
	var response chatMessagesResponse
	if err := h.post(r, "/chat", chatSendRequest{Message: message}, &response); err != nil {
		h.setFlash(flash{tab: tabChat, err: err.Error()})
	}
	http.Redirect(w, r, "/web/chat", http.StatusSeeOther)
}

func (h *Handler) handleChatAccept(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var response chatAcceptResponse
	if err := h.post(r, "/chat/accept", taskIDRequest{ID: trimmedQueryValue(r, "id")}, &response); err != nil {
		h.setFlash(flash{tab: tabChat, err: err.Error()})
	} else if response.Notice != "" {
		h.setFlash(flash{tab: tabChat, notice: fmt.Sprintf("%s: %q", response.Notice, response.Task.Title)})
	}
	http.Redirect(w, r, "/web/chat", http.StatusSeeOther)
}

func (h *Handler) handleChatDismiss(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var response chatDismissResponse
	if err := h.post(r, "/chat/dismiss", taskIDRequest{ID: trimmedQueryValue(r, "id")}, &response); err != nil {
		h.setFlash(flash{tab: tabChat, err: err.Error()})
	}
	http.Redirect(w, r, "/web/chat", http.StatusSeeOther)
}
