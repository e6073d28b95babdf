// Package platform is the client for the remote detection/camera API the
// dashboard is built on. It owns authentication and the wire shapes; every
// call takes a context and returns plain typed data.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go-firewatch/types"
)

// Client talks to the platform API. Safe for concurrent use; the access
// token is refreshed on demand.
type Client struct {
	baseURL  string
	login    string
	password string
	http     *http.Client

	mu    sync.Mutex
	token string
}

func NewClient(baseURL, login, password string) *Client {
	return &Client{
		baseURL:  baseURL,
		login:    login,
		password: password,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Authenticate exchanges the configured credentials for an access token.
// Called automatically by the other methods when no token is held yet or
// after the platform rejects one.
func (c *Client) Authenticate(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{
		"login":    c.login,
		"password": c.password,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("platform login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("platform login: unexpected status %d", resp.StatusCode)
	}

	var out loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("platform login: decoding response: %w", err)
	}

	c.mu.Lock()
	c.token = out.AccessToken
	c.mu.Unlock()
	return nil
}

// Cameras fetches the camera registry.
func (c *Client) Cameras(ctx context.Context) ([]types.Camera, error) {
	var out []types.Camera
	if err := c.getJSON(ctx, "/api/v1/cameras", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Sequences fetches the unlabeled smoke sequences seen since the given
// instant. The zero time fetches everything the platform is willing to
// return.
func (c *Client) Sequences(ctx context.Context, since time.Time) ([]types.Sequence, error) {
	q := url.Values{}
	if !since.IsZero() {
		q.Set("from_date", since.UTC().Format(time.RFC3339))
	}

	var out []types.Sequence
	if err := c.getJSON(ctx, "/api/v1/sequences/unlabeled", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SequenceDetections fetches the chronological detections of one sequence.
func (c *Client) SequenceDetections(ctx context.Context, sequenceID int64) ([]types.Detection, error) {
	path := "/api/v1/sequences/" + strconv.FormatInt(sequenceID, 10) + "/detections"

	var out []types.Detection
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LabelSequence records an operator verdict on a sequence: wildfire or
// false positive. The platform drops labeled sequences from the unlabeled
// feed, so the next poll reflects the acknowledgement.
func (c *Client) LabelSequence(ctx context.Context, sequenceID int64, isWildfire bool) error {
	path := "/api/v1/sequences/" + strconv.FormatInt(sequenceID, 10) + "/label"
	body := map[string]bool{"is_wildfire": isWildfire}
	return c.send(ctx, http.MethodPatch, path, body)
}

// MoveCameraToPose steers a PTZ camera to one of its preset poses.
func (c *Client) MoveCameraToPose(ctx context.Context, cameraID int64, poseID int) error {
	path := "/api/v1/cameras/" + strconv.FormatInt(cameraID, 10) + "/control/move"
	return c.send(ctx, http.MethodPost, path, map[string]int{"pose_id": poseID})
}

// MoveCameraToAzimuth steers a PTZ camera to an absolute azimuth.
func (c *Client) MoveCameraToAzimuth(ctx context.Context, cameraID int64, azimuth float64) error {
	path := "/api/v1/cameras/" + strconv.FormatInt(cameraID, 10) + "/control/move"
	return c.send(ctx, http.MethodPost, path, map[string]float64{"azimuth": azimuth})
}

// ZoomCamera sets the zoom level of a PTZ camera.
func (c *Client) ZoomCamera(ctx context.Context, cameraID int64, level float64) error {
	path := "/api/v1/cameras/" + strconv.FormatInt(cameraID, 10) + "/control/zoom"
	return c.send(ctx, http.MethodPost, path, map[string]float64{"level": level})
}

// StopCamera halts any in-flight PTZ movement.
func (c *Client) StopCamera(ctx context.Context, cameraID int64) error {
	path := "/api/v1/cameras/" + strconv.FormatInt(cameraID, 10) + "/control/stop"
	return c.send(ctx, http.MethodPost, path, nil)
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("platform: GET %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("platform: GET %s: decoding response: %w", path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	resp, err := c.do(ctx, method, path, nil, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("platform: %s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	return nil
}

// do issues an authenticated request, logging in first when no token is
// held and retrying once after a 401 in case the token expired.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Response, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	if token == "" {
		if err := c.Authenticate(ctx); err != nil {
			return nil, err
		}
		c.mu.Lock()
		token = c.token
		c.mu.Unlock()
	}

	resp, err := c.issue(ctx, method, path, query, body, token)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if err := c.Authenticate(ctx); err != nil {
			return nil, err
		}
		c.mu.Lock()
		token = c.token
		c.mu.Unlock()
		return c.issue(ctx, method, path, query, body, token)
	}

	return resp, nil
}

func (c *Client) issue(ctx context.Context, method, path string, query url.Values, body []byte, token string) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("platform: %s %s: %w", method, path, err)
	}
	return resp, nil
}
