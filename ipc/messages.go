/*
Package ipc serves grammar completions as msgpack messages over a byte
stream, normally the stdin and stdout of an editor plugin's child process.

The server first writes a ready message:

	{"status": "ready"}

Each request is one msgpack map:

	{"id": "req_001", "i": "select * fr", "l": 10}

and is answered with either a completion response

	{"id": "req_001", "p": "fr", "s": ["om"], "c": 1, "t": 85}

where "p" is the partial token the suggestions extend and "t" the time taken
in microseconds, or an error response:

	{"id": "req_001", "e": "suggest: context deadline exceeded", "c": 504}

Requests are answered in order. The server stops at the end of the input.
*/
package ipc

// CompletionRequest asks for the suggestions after Input.
type CompletionRequest struct {
	ID    string `msgpack:"id"`
	Input string `msgpack:"i"`
	Limit int    `msgpack:"l,omitempty"`
}

// CompletionResponse answers a CompletionRequest.
type CompletionResponse struct {
	ID          string   `msgpack:"id"`
	Partial     string   `msgpack:"p"`
	Suggestions []string `msgpack:"s"`
	Count       int      `msgpack:"c"`
	TimeTaken   int64    `msgpack:"t"`
}

// ErrorResponse reports a request that could not be answered. Status follows
// HTTP status codes.
type ErrorResponse struct {
	ID     string `msgpack:"id"`
	Error  string `msgpack:"e"`
	Status int    `msgpack:"c"`
}

// StatusResponse is written once when the server is ready.
type StatusResponse struct {
	Status string `msgpack:"status"`
}
