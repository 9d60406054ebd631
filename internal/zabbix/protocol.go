// Package zabbix implements the sender ("trapper") protocol and the
// per-flush batching transport session built on it.
package zabbix

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Frame layout: "ZBXD" + 0x01 + little-endian uint64 body length + JSON.
var frameHeader = []byte{'Z', 'B', 'X', 'D', 0x01}

const (
	frameHeaderSize = 13

	// maxResponseSize guards against a misbehaving peer; real trapper
	// responses are a few hundred bytes.
	maxResponseSize = 1 << 20
)

// Item is one trapper data entry.
type Item struct {
	Host  string `json:"host"`
	Key   string `json:"key"`
	Value string `json:"value"`
	Clock int64  `json:"clock,omitempty"`
}

type senderRequest struct {
	Request string `json:"request"`
	Data    []Item `json:"data"`
	Clock   int64  `json:"clock,omitempty"`
}

type senderResponse struct {
	Response string `json:"response"`
	Info     string `json:"info"`
}

// BatchResult is the parsed outcome of one trapper request.
type BatchResult struct {
	Processed int
	Failed    int
	Total     int
	Info      string
}

// encodeRequest frames a sender-data request for the given items.
func encodeRequest(items []Item, clock int64) ([]byte, error) {
	body, err := json.Marshal(senderRequest{
		Request: "sender data",
		Data:    items,
		Clock:   clock,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling sender request: %w", err)
	}

	frame := make([]byte, 0, frameHeaderSize+len(body))
	frame = append(frame, frameHeader...)
	frame = binary.LittleEndian.AppendUint64(frame, uint64(len(body)))
	frame = append(frame, body...)

	return frame, nil
}

// decodeResponse reads one framed trapper response and parses its info
// counters.
func decodeResponse(r io.Reader) (BatchResult, error) {
	hdr := make([]byte, frameHeaderSize)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return BatchResult{}, fmt.Errorf("reading response header: %w", err)
	}

	if !bytes.Equal(hdr[:len(frameHeader)], frameHeader) {
		return BatchResult{}, fmt.Errorf(
			"response does not start with a ZBXD frame",
		)
	}

	size := binary.LittleEndian.Uint64(hdr[len(frameHeader):])
	if size > maxResponseSize {
		return BatchResult{}, fmt.Errorf(
			"response body of %d bytes exceeds limit", size,
		)
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return BatchResult{}, fmt.Errorf("reading response body: %w", err)
	}

	var resp senderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return BatchResult{}, fmt.Errorf("parsing response body: %w", err)
	}

	res := parseInfo(resp.Info)

	if resp.Response != "success" {
		return res, fmt.Errorf("zabbix returned %q: %s", resp.Response, resp.Info)
	}

	return res, nil
}

// parseInfo extracts counters from an info string such as
// "processed: 2; failed: 0; total: 2; seconds spent: 0.000055".
// Unknown or non-integer fields are ignored.
func parseInfo(info string) BatchResult {
	res := BatchResult{Info: info}

	for _, part := range strings.Split(info, ";") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}

		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			continue
		}

		switch strings.TrimSpace(k) {
		case "processed":
			res.Processed = n
		case "failed":
			res.Failed = n
		case "total":
			res.Total = n
		}
	}

	return res
}
