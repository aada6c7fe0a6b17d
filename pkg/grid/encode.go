package grid

import (
	"bytes"
	"encoding/base64"
	"encoding/json"

	"github.com/klauspost/compress/zlib"
	"github.com/tidwall/sjson"
)

// Encode builds a double-wrapped compressed envelope holding a schema/data
// table, the way the recent-decisions page embeds it.
func Encode(schema []string, rows [][]any) (string, error) {
	if rows == nil {
		rows = [][]any{}
	}
	payload, err := json.Marshal(struct {
		Schema []string `json:"schema"`
		Data   [][]any  `json:"data"`
	}{Schema: schema, Data: rows})
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}

	out, err := sjson.Set(`{"compressed":true}`, "data.compressed", true)
	if err != nil {
		return "", err
	}
	return sjson.Set(out, "data.data", base64.StdEncoding.EncodeToString(buf.Bytes()))
}
