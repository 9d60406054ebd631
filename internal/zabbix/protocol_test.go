package zabbix

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRequest_Framing(t *testing.T) {
	frame, err := encodeRequest([]Item{
		{Host: "web01", Key: "requests[total]", Value: "300"},
	}, 1700000000)
	require.NoError(t, err)

	require.Greater(t, len(frame), frameHeaderSize)
	assert.Equal(t, frameHeader, frame[:len(frameHeader)])

	size := binary.LittleEndian.Uint64(frame[len(frameHeader):frameHeaderSize])
	assert.EqualValues(t, len(frame)-frameHeaderSize, size)

	var req senderRequest
	require.NoError(t, json.Unmarshal(frame[frameHeaderSize:], &req))

	assert.Equal(t, "sender data", req.Request)
	require.Len(t, req.Data, 1)
	assert.Equal(t, "web01", req.Data[0].Host)
	assert.Equal(t, "requests[total]", req.Data[0].Key)
	assert.Equal(t, "300", req.Data[0].Value)
	assert.EqualValues(t, 1700000000, req.Clock)
}

func TestEncodeRequest_ClockOmittedFromItems(t *testing.T) {
	frame, err := encodeRequest([]Item{
		{Host: "web01", Key: "k", Value: "1"},
	}, 0)
	require.NoError(t, err)

	body := string(frame[frameHeaderSize:])
	assert.NotContains(t, body, `"clock"`)
}

func encodeTestResponse(t *testing.T, status, info string) []byte {
	t.Helper()

	body, err := json.Marshal(senderResponse{Response: status, Info: info})
	require.NoError(t, err)

	frame := append([]byte{}, frameHeader...)
	frame = binary.LittleEndian.AppendUint64(frame, uint64(len(body)))

	return append(frame, body...)
}

func TestDecodeResponse_Success(t *testing.T) {
	raw := encodeTestResponse(t, "success",
		"processed: 2; failed: 1; total: 3; seconds spent: 0.000055")

	res, err := decodeResponse(bytes.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 3, res.Total)
	assert.Contains(t, res.Info, "seconds spent")
}

func TestDecodeResponse_Failure(t *testing.T) {
	raw := encodeTestResponse(t, "failed", "processed: 0; failed: 0; total: 0")

	_, err := decodeResponse(bytes.NewReader(raw))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `zabbix returned "failed"`)
}

func TestDecodeResponse_BadHeader(t *testing.T) {
	_, err := decodeResponse(bytes.NewReader([]byte("HTTP/1.1 200 OK\r\n")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ZBXD")
}

func TestDecodeResponse_Truncated(t *testing.T) {
	raw := encodeTestResponse(t, "success", "processed: 1; failed: 0; total: 1")

	_, err := decodeResponse(bytes.NewReader(raw[:len(raw)-4]))
	require.Error(t, err)
}

func TestParseInfo_IgnoresUnknownFields(t *testing.T) {
	res := parseInfo("processed: 7; failed: 0; total: 7; seconds spent: 0.001")

	assert.Equal(t, 7, res.Processed)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, 7, res.Total)
}

func TestParseInfo_Garbage(t *testing.T) {
	res := parseInfo("not an info string")

	assert.Zero(t, res.Processed)
	assert.Zero(t, res.Total)
	assert.Equal(t, "not an info string", res.Info)
}
