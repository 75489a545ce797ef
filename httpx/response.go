package httpx

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
)

// ResponseBuffer holds a handler's response so it can be inspected before
// anything reaches the client.
type ResponseBuffer struct {
	status int
	header http.Header
	body   bytes.Buffer
}

func NewResponseBuffer() *ResponseBuffer {
	return &ResponseBuffer{header: http.Header{}}
}

func (resp *ResponseBuffer) Status() int {
	if resp.status == 0 {
		return http.StatusOK
	}
	return resp.status
}

func (resp *ResponseBuffer) Header() http.Header {
	return resp.header
}

func (resp *ResponseBuffer) Body() []byte {
	return resp.body.Bytes()
}

func (resp *ResponseBuffer) Write(body []byte) (int, error) {
	if resp.status == 0 {
		resp.status = http.StatusOK
	}
	return resp.body.Write(body)
}

// only the first status sticks, as with a real connection
func (resp *ResponseBuffer) WriteHeader(statusCode int) {
	if resp.status == 0 {
		resp.status = statusCode
	}
}

// ETag is a strong validator over the buffered body.
func (resp *ResponseBuffer) ETag() string {
	sum := sha256.Sum256(resp.body.Bytes())
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

func (resp *ResponseBuffer) Flush(w http.ResponseWriter) error {
	header := w.Header()
	for key, value := range resp.header {
		header[key] = value
	}
	w.WriteHeader(resp.Status())
	if resp.body.Len() == 0 {
		return nil
	}
	_, err := w.Write(resp.body.Bytes())
	return err
}
