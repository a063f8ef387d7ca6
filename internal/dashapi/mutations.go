package dashapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
)

// UpdateRows pushes edited cells for the given table. Changes are applied
// in order, so a later change to the same cell wins.
func (c *Client) UpdateRows(ctx context.Context, table string, changes []CellChange) (string, error) {
	body := struct {
		Table   string       `json:"table"`
		Changes []CellChange `json:"changes"`
	}{Table: table, Changes: changes}
	return c.postJSON(ctx, "/api/update_rows", body)
}

// DeleteRows removes the given rows from the table by id.
func (c *Client) DeleteRows(ctx context.Context, table string, rowIDs []int64) (string, error) {
	body := struct {
		Table  string  `json:"table"`
		RowIDs []int64 `json:"row_ids"`
	}{Table: table, RowIDs: rowIDs}
	return c.postJSON(ctx, "/api/delete_rows", body)
}

// DeleteFile drops an uploaded dataset table.
func (c *Client) DeleteFile(ctx context.Context, table string) (string, error) {
	body := struct {
		Table string `json:"table"`
	}{Table: table}
	return c.postJSON(ctx, "/api/delete_file", body)
}

// AppendTable merges the source table's rows into the target.
func (c *Client) AppendTable(ctx context.Context, source, target string) (string, error) {
	body := struct {
		Source string `json:"source"`
		Target string `json:"target"`
	}{Source: source, Target: target}
	return c.postJSON(ctx, "/api/append_table", body)
}

// SetForecastSource selects which table the forecast models train on.
func (c *Client) SetForecastSource(ctx context.Context, table string) (string, error) {
	body := struct {
		Table string `json:"table"`
	}{Table: table}
	return c.postJSON(ctx, "/api/set_forecast_source", body)
}

// RetrainModel kicks off a retrain of the named forecast model.
func (c *Client) RetrainModel(ctx context.Context, model string) (string, error) {
	body := struct {
		Model string `json:"model"`
	}{Model: model}
	return c.postJSON(ctx, "/api/retrain_model", body)
}

// UploadFile streams a dataset file to the backend as multipart form data.
// name is the original filename; its extension tells the backend how to
// parse the content.
func (c *Client) UploadFile(ctx context.Context, name string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(name))
	if err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("read upload content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("finish upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/api/upload_files", ""), &buf)
	if err != nil {
		return "", fmt.Errorf("build request for /api/upload_files: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("post /api/upload_files: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("decode response for /api/upload_files: %w", err)
	}
	if !env.Success {
		return "", &APIError{Message: env.Message}
	}
	return env.Message, nil
}
