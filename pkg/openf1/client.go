package openf1

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/pkg/errors"

	"f1fastestlaps/log"
	"f1fastestlaps/pkg/model"
)

var (
	// ErrSourceUnavailable is returned for network failures, non-200
	// responses and empty bodies.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrMalformedPayload is returned when the body is not a JSON list.
	ErrMalformedPayload = errors.New("malformed payload")
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetSessions returns every session of the given year in source order.
// An empty sessionType matches all session types.
func (c *Client) GetSessions(ctx context.Context, year int, sessionType string) ([]model.Session, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(year))
	if sessionType != "" {
		query.Set("session_type", sessionType)
	}
	return getList[model.Session](ctx, c, "sessions", query)
}

// GetRawSessions is GetSessions without decoding the records, used to
// explore the payload as served.
func (c *Client) GetRawSessions(ctx context.Context, year int, sessionType string) ([]json.RawMessage, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(year))
	if sessionType != "" {
		query.Set("session_type", sessionType)
	}
	body, err := c.get(ctx, "sessions", query)
	if err != nil {
		return nil, err
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrapf(ErrMalformedPayload, "sessions: %v", err)
	}
	return raw, nil
}

// GetLaps returns the laps of a session, restricted to one driver when
// driver holds a value.
func (c *Client) GetLaps(ctx context.Context, sessionKey int, driver null.Val[int]) ([]model.Lap, error) {
	query := url.Values{}
	query.Set("session_key", strconv.Itoa(sessionKey))
	if num, ok := driver.Get(); ok {
		query.Set("driver_number", strconv.Itoa(num))
	}
	return getList[model.Lap](ctx, c, "laps", query)
}

func (c *Client) GetDrivers(ctx context.Context) ([]model.Driver, error) {
	return getList[model.Driver](ctx, c, "drivers", url.Values{})
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	target := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build request for %s", endpoint)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrapf(ErrSourceUnavailable, "%s: %v", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrSourceUnavailable, "%s: status %d", endpoint, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(ErrSourceUnavailable, "%s: read body: %v", endpoint, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, errors.Wrapf(ErrSourceUnavailable, "%s: empty body", endpoint)
	}
	return body, nil
}

// getList decodes a JSON list record by record. Records that do not decode
// are dropped, a body that is not a list fails as a whole.
func getList[T any](ctx context.Context, c *Client, endpoint string, query url.Values) ([]T, error) {
	body, err := c.get(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrapf(ErrMalformedPayload, "%s: %v", endpoint, err)
	}
	ret := make([]T, 0, len(raw))
	for i, r := range raw {
		var item T
		if err := json.Unmarshal(r, &item); err != nil {
			log.Debug("dropping record",
				log.String("endpoint", endpoint), log.Int("index", i), log.ErrorField(err))
			continue
		}
		ret = append(ret, item)
	}
	return ret, nil
}
