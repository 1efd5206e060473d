package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/pkg/api"
)

//go:generate moq -out client_mock.go . ClientAPI

// ClientAPI определяет интерфейс протокольного клиента синхронизации
type ClientAPI interface {
	// SyncCell синхронизирует одну ячейку.
	// При расхождении состояния сервера возвращает *ConflictError.
	SyncCell(ctx context.Context, req api.CellSyncRequest) (*api.CellSyncResponse, error)

	// SyncBatch синхронизирует упорядоченный батч операций одной модели.
	// Результаты сопоставляются по адресу ячейки, не по позиции.
	SyncBatch(ctx context.Context, req api.BatchSyncRequest) (*api.BatchSyncResponse, error)

	// GetValue читает значение ячейки вместе с формулой, типом данных
	// и provenance последнего изменения
	GetValue(ctx context.Context, modelID, sheetID, reference string) (*api.ValueResponse, error)

	// GetScenarioValue читает значение ячейки в рамках сценария
	GetScenarioValue(ctx context.Context, modelID, scenarioID, sheetID, reference string) (*api.ValueResponse, error)

	// GetSensitivity запрашивает sensitivity-анализ ячейки
	GetSensitivity(ctx context.Context, modelID, reference string) (*api.SensitivityResponse, error)

	// GetAuditTrail запрашивает историю изменений ячейки
	GetAuditTrail(ctx context.Context, modelID, reference string) (*api.AuditTrailResponse, error)

	// GetComments запрашивает комментарии ячейки
	GetComments(ctx context.Context, modelID, reference string) (*api.CommentsResponse, error)
}

// Client представляет HTTP клиент для взаимодействия с удаленным хранилищем моделей
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// interface guard
var _ ClientAPI = (*Client)(nil)

// NewClient создает новый протокольный клиент.
// token добавляется в Authorization header каждого запроса.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовок Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// SyncCell синхронизирует одну ячейку
func (c *Client) SyncCell(ctx context.Context, req api.CellSyncRequest) (*api.CellSyncResponse, error) {
	var resp api.CellSyncResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/sync/cell", req, &resp); err != nil {
		return nil, fmt.Errorf("cell sync request failed: %w", err)
	}
	return &resp, nil
}

// SyncBatch синхронизирует упорядоченный батч операций
func (c *Client) SyncBatch(ctx context.Context, req api.BatchSyncRequest) (*api.BatchSyncResponse, error) {
	var resp api.BatchSyncResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/sync/batch", req, &resp); err != nil {
		return nil, fmt.Errorf("batch sync request failed: %w", err)
	}
	return &resp, nil
}

// GetValue читает значение ячейки
func (c *Client) GetValue(ctx context.Context, modelID, sheetID, reference string) (*api.ValueResponse, error) {
	var resp api.ValueResponse
	path := fmt.Sprintf("/api/v1/models/%s/sheets/%s/cells/%s/value",
		url.PathEscape(modelID), url.PathEscape(sheetID), url.PathEscape(reference))
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get value request failed: %w", err)
	}
	return &resp, nil
}

// GetScenarioValue читает значение ячейки в рамках сценария
func (c *Client) GetScenarioValue(ctx context.Context, modelID, scenarioID, sheetID, reference string) (*api.ValueResponse, error) {
	var resp api.ValueResponse
	path := fmt.Sprintf("/api/v1/models/%s/scenarios/%s/sheets/%s/cells/%s/value",
		url.PathEscape(modelID), url.PathEscape(scenarioID), url.PathEscape(sheetID), url.PathEscape(reference))
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get scenario value request failed: %w", err)
	}
	return &resp, nil
}

// GetSensitivity запрашивает sensitivity-анализ ячейки
func (c *Client) GetSensitivity(ctx context.Context, modelID, reference string) (*api.SensitivityResponse, error) {
	var resp api.SensitivityResponse
	path := fmt.Sprintf("/api/v1/models/%s/cells/%s/sensitivity",
		url.PathEscape(modelID), url.PathEscape(reference))
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get sensitivity request failed: %w", err)
	}
	return &resp, nil
}

// GetAuditTrail запрашивает историю изменений ячейки
func (c *Client) GetAuditTrail(ctx context.Context, modelID, reference string) (*api.AuditTrailResponse, error) {
	var resp api.AuditTrailResponse
	path := fmt.Sprintf("/api/v1/models/%s/cells/%s/audit",
		url.PathEscape(modelID), url.PathEscape(reference))
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get audit trail request failed: %w", err)
	}
	return &resp, nil
}

// GetComments запрашивает комментарии ячейки
func (c *Client) GetComments(ctx context.Context, modelID, reference string) (*api.CommentsResponse, error) {
	var resp api.CommentsResponse
	path := fmt.Sprintf("/api/v1/models/%s/cells/%s/comments",
		url.PathEscape(modelID), url.PathEscape(reference))
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get comments request failed: %w", err)
	}
	return &resp, nil
}

// doRequest выполняет HTTP запрос и разбирает типизированные ошибки сервера
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	reqURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// 409 несет payload конфликта — типизируем его отдельно
	if resp.StatusCode == http.StatusConflict {
		var conflict api.CellConflict
		if err := json.Unmarshal(respBody, &conflict); err != nil {
			return fmt.Errorf("failed to decode conflict payload: %w", err)
		}
		return &ConflictError{Conflict: conflict}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return &RequestError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &RequestError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
