// Package websocket is the RPC surface between the editor core and its
// browser clients: requests call exported App methods by name, and state
// changes flow back as broadcast events.
package websocket

// RPCRequest is a method call from a client.
type RPCRequest struct {
	ID     string        `json:"id"`
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

// RPCResponse answers one request, matched by ID.
type RPCResponse struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Event is a server-initiated push, e.g. "outline:changed".
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Message is the envelope for everything on the wire. Kind selects which of
// the optional fields is set: "rpc_request", "rpc_response" or "event".
type Message struct {
	Kind     string       `json:"kind"`
	Request  *RPCRequest  `json:"request,omitempty"`
	Response *RPCResponse `json:"response,omitempty"`
	Event    *Event       `json:"event,omitempty"`
}
