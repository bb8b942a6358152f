package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/chapelworks/mediasync/internal/logger"
	"github.com/chapelworks/mediasync/models"
)

// listPageSize is the page size requested from the backend's paginated
// listing endpoint. The gateway keeps requesting pages until the reported
// total is exhausted, so the value only affects round-trip count.
const listPageSize = 200

// GatewayConfig carries the settings needed to construct an HTTP gateway.
type GatewayConfig struct {
	// BaseURL is the backend root (e.g. "https://media.example.org").
	BaseURL string

	// RequestTimeout bounds read calls; UploadTimeout bounds multipart
	// creates.
	RequestTimeout time.Duration
	UploadTimeout  time.Duration

	// AuthCollection is the auth collection used for password login.
	// Defaults to "users".
	AuthCollection string

	// MaxImageBytes caps cover-image attachments client-side. Zero
	// disables the local ceiling (the server limit still applies).
	MaxImageBytes int64
}

type httpGateway struct {
	client *resty.Client
	cfg    GatewayConfig

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPGateway constructs an HTTP/REST implementation of
// [CollectionGateway]. It normalises and validates cfg.BaseURL and
// configures the underlying resty client. The client-level timeout is the
// upload timeout; read calls are bounded tighter per request.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a valid
// URL.
func NewHTTPGateway(cfg GatewayConfig, log *logger.Logger) (CollectionGateway, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid gateway base url: %w", err)
	}
	cfg.BaseURL = baseURL

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.UploadTimeout < cfg.RequestTimeout {
		cfg.UploadTimeout = cfg.RequestTimeout
	}
	if cfg.AuthCollection == "" {
		cfg.AuthCollection = "users"
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.UploadTimeout)

	return &httpGateway{client: client, cfg: cfg, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [CollectionGateway]. It stores token
// (whitespace-trimmed) for use in the Authorization header of all
// subsequent authenticated requests.
func (h *httpGateway) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [CollectionGateway].
func (h *httpGateway) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// AuthWithPassword implements [CollectionGateway]. It POSTs the identifier
// and secret to the auth collection's auth-with-password endpoint. On
// success the returned bearer token is stored via SetToken.
func (h *httpGateway) AuthWithPassword(ctx context.Context, identifier, secret string) (models.AuthResponse, error) {
	ctx, cancel := h.readCtx(ctx)
	defer cancel()

	var auth models.AuthResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"identity": identifier, "password": secret}).
		SetResult(&auth).
		Post("/api/collections/" + h.cfg.AuthCollection + "/auth-with-password")
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("%w: auth request: %v", ErrFetch, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AuthResponse{}, err
	}
	if auth.Token == "" {
		return models.AuthResponse{}, fmt.Errorf("%w: empty token in auth response", ErrAuth)
	}

	h.SetToken(auth.Token)
	return auth, nil
}

// AuthRefresh implements [CollectionGateway]. It POSTs the currently held
// bearer token to the auth-refresh endpoint. On success the refreshed
// token replaces the stored one; on [ErrAuth] the stored token is cleared
// so no later call reuses a credential the server has rejected.
func (h *httpGateway) AuthRefresh(ctx context.Context) (models.AuthResponse, error) {
	ctx, cancel := h.readCtx(ctx)
	defer cancel()

	var auth models.AuthResponse
	resp, err := h.authedRequest(ctx).
		SetResult(&auth).
		Post("/api/collections/" + h.cfg.AuthCollection + "/auth-refresh")
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("%w: auth refresh request: %v", ErrFetch, err)
	}
	if err = mapHTTPError(resp); err != nil {
		if errors.Is(err, ErrAuth) {
			h.SetToken("")
		}
		return models.AuthResponse{}, err
	}

	h.SetToken(auth.Token)
	return auth, nil
}

// List implements [CollectionGateway]. It walks the backend's paginated
// listing until every page is fetched, returning the concatenated records
// in descending ordering-key order.
func (h *httpGateway) List(ctx context.Context, collection string, filter models.ListFilter) ([]models.Record, error) {
	var items []models.Record

	for page := 1; ; page++ {
		pageResult, err := h.listPage(ctx, collection, filter, page)
		if err != nil {
			return nil, err
		}

		items = append(items, pageResult.Items...)
		if page >= pageResult.TotalPages || len(pageResult.Items) == 0 {
			break
		}
	}

	return items, nil
}

func (h *httpGateway) listPage(ctx context.Context, collection string, filter models.ListFilter, page int) (models.ListPage, error) {
	ctx, cancel := h.readCtx(ctx)
	defer cancel()

	req := h.authedRequest(ctx).
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("perPage", strconv.Itoa(listPageSize)).
		SetQueryParam("sort", "-date")

	if expr := buildFilterExpr(filter); expr != "" {
		req.SetQueryParam("filter", expr)
	}
	if len(filter.Expand) > 0 {
		req.SetQueryParam("expand", strings.Join(filter.Expand, ","))
	}

	var result models.ListPage
	resp, err := req.
		SetResult(&result).
		Get("/api/collections/" + collection + "/records")
	if err != nil {
		return models.ListPage{}, fmt.Errorf("%w: list %s page %d: %v", ErrFetch, collection, page, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ListPage{}, err
	}

	return result, nil
}

// buildFilterExpr translates a declarative [models.ListFilter] into the
// backend's filter expression syntax. Values are quoted and escaped here
// so no caller ever concatenates expression strings.
func buildFilterExpr(filter models.ListFilter) string {
	var conjuncts []string

	if filter.DateFrom != nil {
		conjuncts = append(conjuncts, fmt.Sprintf("date >= %s", quoteFilterValue(models.DateTime(*filter.DateFrom).String())))
	}
	if filter.DateTo != nil {
		conjuncts = append(conjuncts, fmt.Sprintf("date <= %s", quoteFilterValue(models.DateTime(*filter.DateTo).String())))
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		quoted := quoteFilterValue(q)
		conjuncts = append(conjuncts, fmt.Sprintf("(title ~ %s || description ~ %s)", quoted, quoted))
	}

	return strings.Join(conjuncts, " && ")
}

func quoteFilterValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return `"` + v + `"`
}

// GetOne implements [CollectionGateway].
func (h *httpGateway) GetOne(ctx context.Context, collection, id string, expand ...string) (models.Record, error) {
	ctx, cancel := h.readCtx(ctx)
	defer cancel()

	req := h.authedRequest(ctx)
	if len(expand) > 0 {
		req.SetQueryParam("expand", strings.Join(expand, ","))
	}

	var record models.Record
	resp, err := req.
		SetResult(&record).
		Get("/api/collections/" + collection + "/records/" + url.PathEscape(id))
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: get %s/%s: %v", ErrFetch, collection, id, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Record{}, err
	}

	return record, nil
}

// Create implements [CollectionGateway]. Scalar fields become plain form
// parts and attachments become file parts of a single multipart request.
// The configured cover-image ceiling is enforced before any bytes are
// sent; the backend's own limit is still mapped if it trips first.
func (h *httpGateway) Create(ctx context.Context, collection string, payload models.CreatePayload) (models.Record, error) {
	for _, file := range payload.Files {
		if file.Field == "image" && h.cfg.MaxImageBytes > 0 && int64(len(file.Content)) > h.cfg.MaxImageBytes {
			return models.Record{}, fmt.Errorf("%w: %s is %d bytes, limit %d",
				ErrPayloadTooLarge, file.Name, len(file.Content), h.cfg.MaxImageBytes)
		}
	}

	req := h.authedRequest(ctx)
	if len(payload.Fields) > 0 {
		req.SetMultipartFormData(payload.Fields)
	}
	for _, file := range payload.Files {
		req.SetMultipartField(file.Field, file.Name, "application/octet-stream", bytes.NewReader(file.Content))
	}

	var record models.Record
	resp, err := req.
		SetResult(&record).
		Post("/api/collections/" + collection + "/records")
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: create %s: %v", ErrFetch, collection, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Record{}, err
	}

	return record, nil
}

// Update implements [CollectionGateway].
func (h *httpGateway) Update(ctx context.Context, collection, id string, fields map[string]string) (models.Record, error) {
	ctx, cancel := h.readCtx(ctx)
	defer cancel()

	var record models.Record
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(fields).
		SetResult(&record).
		Patch("/api/collections/" + collection + "/records/" + url.PathEscape(id))
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: update %s/%s: %v", ErrFetch, collection, id, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Record{}, err
	}

	return record, nil
}

// Delete implements [CollectionGateway].
func (h *httpGateway) Delete(ctx context.Context, collection, id string) error {
	ctx, cancel := h.readCtx(ctx)
	defer cancel()

	resp, err := h.authedRequest(ctx).
		Delete("/api/collections/" + collection + "/records/" + url.PathEscape(id))
	if err != nil {
		return fmt.Errorf("%w: delete %s/%s: %v", ErrFetch, collection, id, err)
	}

	return mapHTTPError(resp)
}

// FileURL implements [CollectionGateway]. Pure; no network call.
func (h *httpGateway) FileURL(record models.Record, field string) (string, bool) {
	filename, ok := record.FileFields()[field]
	if !ok || record.ID == "" || record.CollectionName == "" {
		return "", false
	}

	return h.cfg.BaseURL + "/api/files/" +
		url.PathEscape(record.CollectionName) + "/" +
		url.PathEscape(record.ID) + "/" +
		url.PathEscape(filename), true
}

func (h *httpGateway) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// readCtx bounds read calls tighter than the client-level upload timeout.
func (h *httpGateway) readCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.cfg.RequestTimeout)
}
