package search_api

import "github.com/gorilla/websocket"

// SendText pushes a raw text frame to every client.
func (h *Hub) SendText(msg []byte) { h.send(websocket.TextMessage, msg) }
