// Package patrimonio is a REST client for the inventory backend.
package patrimonio

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/lamic-ufsm/patrimonio/internal/domain/models"
)

// ExportKind selects one of the downloadable inventory files.
type ExportKind string

const (
	ExportSpreadsheet ExportKind = "exportar_excel"
	ExportDocument    ExportKind = "exportar_pdf"
)

// APIError is returned when the backend answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("patrimonio api error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("patrimonio api error: status=%d, message=%s", e.StatusCode, e.Message)
}

type apiError struct {
	Error string `json:"error"`
}

// APIClient is a resty-backed client of the inventory REST API.
type APIClient struct {
	httpClient *resty.Client
	baseURL    string
}

// NewClient builds a client for the API rooted at baseURL.
func NewClient(baseURL string) *APIClient {
	base := strings.TrimSuffix(baseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)

	return &APIClient{httpClient: restyClient, baseURL: base}
}

// ListAssets fetches the full asset collection.
func (c *APIClient) ListAssets(ctx context.Context) ([]models.AssetRecord, error) {
	var records []models.AssetRecord
	if err := c.do(ctx, http.MethodGet, "/patrimonios/", nil, nil, &records); err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	if records == nil {
		records = []models.AssetRecord{}
	}
	return records, nil
}

// ListRooms fetches the valid room set.
func (c *APIClient) ListRooms(ctx context.Context) ([]string, error) {
	var rooms models.RoomList
	if err := c.do(ctx, http.MethodGet, "/salas/", nil, nil, &rooms); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms.Rooms, nil
}

// CreateAsset creates a record; the backend assigns its id.
func (c *APIClient) CreateAsset(ctx context.Context, in models.AssetInput) (models.AssetRecord, error) {
	var record models.AssetRecord
	if err := c.do(ctx, http.MethodPost, "/patrimonios/", nil, in, &record); err != nil {
		return models.AssetRecord{}, fmt.Errorf("create asset: %w", err)
	}
	return record, nil
}

// UpdateAsset replaces the record addressed by room and id.
func (c *APIClient) UpdateAsset(ctx context.Context, room, id string, in models.AssetInput) (models.AssetRecord, error) {
	var record models.AssetRecord
	params := map[string]string{"room": room, "id": id}
	if err := c.do(ctx, http.MethodPut, "/patrimonios/{room}/{id}", params, in, &record); err != nil {
		return models.AssetRecord{}, fmt.Errorf("update asset: %w", err)
	}
	return record, nil
}

// DeleteAsset removes the record addressed by room and id.
func (c *APIClient) DeleteAsset(ctx context.Context, room, id string) error {
	params := map[string]string{"room": room, "id": id}
	if err := c.do(ctx, http.MethodDelete, "/patrimonios/{room}/{id}", params, nil, nil); err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	return nil
}

// Chat sends one free-text message to the assistant endpoint.
func (c *APIClient) Chat(ctx context.Context, message string) (models.ChatResponse, error) {
	var resp models.ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", nil, models.ChatRequest{Message: message}, &resp); err != nil {
		return models.ChatResponse{}, fmt.Errorf("chat: %w", err)
	}
	return resp, nil
}

// ExportURL is the absolute address of an export, suitable for opening in a browser.
func (c *APIClient) ExportURL(kind ExportKind) string {
	return c.baseURL + "/" + string(kind)
}

// Export downloads an export file and returns the server-suggested filename.
func (c *APIClient) Export(ctx context.Context, kind ExportKind) (string, []byte, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetError(&apiError{}).
		Get("/" + string(kind))
	if err != nil {
		return "", nil, fmt.Errorf("export %s: %w", kind, err)
	}
	if err := asAPIError(resp); err != nil {
		return "", nil, fmt.Errorf("export %s: %w", kind, err)
	}

	filename := string(kind)
	if _, params, err := mime.ParseMediaType(resp.Header().Get("Content-Disposition")); err == nil && params["filename"] != "" {
		filename = params["filename"]
	}
	return filename, resp.Body(), nil
}

func (c *APIClient) do(ctx context.Context, method, path string, params map[string]string, body, result any) error {
	req := c.httpClient.R().
		SetContext(ctx).
		SetError(&apiError{})
	if params != nil {
		// Path params are percent-encoded by resty.
		req.SetPathParams(params)
	}
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}
	return asAPIError(resp)
}

func asAPIError(resp *resty.Response) error {
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}
	apiErr := &APIError{StatusCode: resp.StatusCode()}
	if payload, ok := resp.Error().(*apiError); ok && payload != nil {
		apiErr.Message = payload.Error
	}
	return apiErr
}
