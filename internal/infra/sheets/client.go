// Package sheets provides a client for the Google Sheets values API.
// Used as the tabular record store backing the report pipeline: each
// worksheet (VENDAS, GASTOS) is fetched whole and handed downstream as
// loosely-typed rows.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gestaofin/visionario-analytics-go/internal/domain"
	"github.com/gestaofin/visionario-analytics-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("sheets")

// Client wraps HTTP calls to the Google Sheets values endpoint.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	apiKey        string
	spreadsheetID string
	cb            *gobreaker.CircuitBreaker
	bulkhead      *resilience.Bulkhead
	cfg           resilience.Config
	logger        *zap.Logger
}

// NewClient creates a sheets client.
func NewClient(httpClient *http.Client, baseURL, apiKey, spreadsheetID string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, logger *zap.Logger) *Client {
	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &Client{
		httpClient:    httpClient,
		baseURL:       strings.TrimRight(baseURL, "/"),
		apiKey:        apiKey,
		spreadsheetID: spreadsheetID,
		cb:            cb,
		bulkhead:      resilience.NewBulkhead(maxConcurrency),
		cfg:           cfg,
		logger:        logger,
	}
}

// valueRange mirrors the values.get response shape. Cells arrive as
// strings or numbers depending on sheet formatting, so they decode to any.
type valueRange struct {
	Range  string  `json:"range"`
	Values [][]any `json:"values"`
}

// doRequest executes one values.get call for a worksheet.
func (c *Client) doRequest(ctx context.Context, worksheet string) (*valueRange, error) {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?majorDimension=ROWS&key=%s",
		c.baseURL, url.PathEscape(c.spreadsheetID), url.PathEscape(worksheet), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Error("sheets: failed to create request",
			zap.String("worksheet", worksheet),
			zap.Error(err),
		)
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("sheets: request failed",
			zap.String("worksheet", worksheet),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("sheets: failed to read response body",
			zap.String("worksheet", worksheet),
			zap.Error(err),
		)
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, &domain.ErrNotFound{Resource: "worksheet", ID: worksheet}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("sheets: non-2xx response",
			zap.String("worksheet", worksheet),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return nil, fmt.Errorf("sheets returned status %d: %s", resp.StatusCode, string(body))
	}

	var vr valueRange
	if err := json.Unmarshal(body, &vr); err != nil {
		return nil, fmt.Errorf("failed to decode value range: %w", err)
	}

	c.logger.Debug("sheets: request OK",
		zap.String("worksheet", worksheet),
		zap.Int("rows", len(vr.Values)),
	)

	return &vr, nil
}

// FetchRecords fetches a worksheet and maps its rows into header-keyed
// records (implements port.RecordFetcher). The first row is the header;
// rows shorter than the header are padded with empty cells so every
// record carries every column key.
func (c *Client) FetchRecords(ctx context.Context, worksheet string) ([]domain.RawRecord, error) {
	ctx, span := tracer.Start(ctx, "Sheets.FetchRecords")
	defer span.End()
	span.SetAttributes(attribute.String("sheets.worksheet", worksheet))

	if err := c.bulkhead.Acquire(ctx); err != nil {
		return nil, err
	}
	defer c.bulkhead.Release()

	var records []domain.RawRecord

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			vr, err := c.doRequest(ctx, worksheet)
			if err != nil {
				return err
			}
			records = mapRows(vr.Values)
			return nil
		})
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "sheets/" + worksheet, Err: err}
	}

	return records, nil
}

// mapRows turns a header row plus data rows into raw records.
func mapRows(values [][]any) []domain.RawRecord {
	if len(values) == 0 {
		return []domain.RawRecord{}
	}

	header := make([]string, len(values[0]))
	for i, cell := range values[0] {
		header[i] = strings.TrimSpace(cellString(cell))
	}

	records := make([]domain.RawRecord, 0, len(values)-1)
	for _, row := range values[1:] {
		rec := make(domain.RawRecord, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(row) {
				rec[col] = cellString(row[i])
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}

// cellString renders a JSON cell value as text without losing numeric
// precision; normalization happens downstream, never here.
func cellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
