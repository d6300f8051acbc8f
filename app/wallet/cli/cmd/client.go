package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

var client = http.Client{Timeout: 10 * time.Second}

// apiError is the error document returned by the node.
type apiError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// send performs the request and decodes a JSON response into dataRecv
// when provided.
func send(method string, path string, dataSend any, dataRecv any) error {
	var body io.Reader
	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var ae apiError
		if err := json.NewDecoder(resp.Body).Decode(&ae); err != nil {
			return fmt.Errorf("node returned %s", resp.Status)
		}
		if len(ae.Fields) > 0 {
			return fmt.Errorf("%s: %s: %v", resp.Status, ae.Error, ae.Fields)
		}
		return fmt.Errorf("%s: %s", resp.Status, ae.Error)
	}

	switch v := dataRecv.(type) {
	case nil:
		return nil
	case *string:
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		*v = string(raw)
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(dataRecv)
}
