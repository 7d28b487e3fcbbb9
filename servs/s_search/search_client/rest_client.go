package search_client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rskv-p/searchlab/pkg/x_search"
	"github.com/rskv-p/searchlab/servs/s_search/search_api"
	"github.com/rskv-p/searchlab/servs/s_search/search_serv"
)

// RESTClient handles HTTP requests to the server
type RESTClient struct {
	BaseURL string       // e.g. http://localhost:8000
	Token   string       // bearer token, optional
	Client  *http.Client
}

// NewRESTClient creates a new REST client with the provided base URL
func NewRESTClient(baseURL, token string) *RESTClient {
	return &RESTClient{
		BaseURL: baseURL,
		Token:   token,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// APIError is a non-2xx answer.
type APIError struct {
	Status int
	Msg    string
	Kind   string
}

func (e *APIError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Msg)
}

func (c *RESTClient) do(method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var er search_api.ErrorResponse
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &er) != nil || er.Error == "" {
			er.Error = string(bytes.TrimSpace(data))
		}
		return &APIError{Status: resp.StatusCode, Msg: er.Error, Kind: er.Kind}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *RESTClient) Login(username, password string) (string, error) {
	var out map[string]string
	if err := c.do(http.MethodPost, "/auth/login", map[string]string{"username": username, "password": password}, &out); err != nil {
		return "", err
	}
	c.Token = out["token"]
	return c.Token, nil
}

// Create allocates the structure of kind.
func (c *RESTClient) Create(kind search_serv.Kind, req search_api.CreateRequest) (*x_search.State, error) {
	var out search_api.Response
	if err := c.do(http.MethodPost, "/"+string(kind)+"/create", req, &out); err != nil {
		return nil, err
	}
	return out.State, nil
}

// Insert adds key; trees receive it as a letter.
func (c *RESTClient) Insert(kind search_serv.Kind, key string) (*search_api.Response, error) {
	body := search_api.InsertRequest{Value: key}
	if kind.IsTree() {
		body = search_api.InsertRequest{Letter: key}
	}
	var out search_api.Response
	if err := c.do(http.MethodPost, "/"+string(kind)+"/insert", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search returns the positions of key.
func (c *RESTClient) Search(kind search_serv.Kind, key string) (*search_api.LookupResponse, error) {
	var out search_api.LookupResponse
	if err := c.do(http.MethodGet, "/"+string(kind)+"/search/"+url.PathEscape(key), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes key.
func (c *RESTClient) Delete(kind search_serv.Kind, key string) (*search_api.LookupResponse, error) {
	var out search_api.LookupResponse
	if err := c.do(http.MethodDelete, "/"+string(kind)+"/delete/"+url.PathEscape(key), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// State returns the structure snapshot.
func (c *RESTClient) State(kind search_serv.Kind) (*x_search.State, error) {
	var out x_search.State
	if err := c.do(http.MethodGet, "/"+string(kind)+"/state", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Nodes returns a tree listing.
func (c *RESTClient) Nodes(kind search_serv.Kind) (*search_serv.TreeView, error) {
	var out search_serv.TreeView
	if err := c.do(http.MethodGet, "/"+string(kind)+"/nodes", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetHash configures the hash function, e.g. {"type": "folding", "group_size": 2}.
func (c *RESTClient) SetHash(fn map[string]any) error {
	return c.do(http.MethodPost, "/hash/set-hash", fn, nil)
}

// SetCollision configures the collision strategy.
func (c *RESTClient) SetCollision(cfg map[string]any) error {
	return c.do(http.MethodPost, "/hash/set-collision", cfg, nil)
}

// History lists journaled operations.
func (c *RESTClient) History(kind string, limit int) ([]search_serv.Operation, error) {
	q := url.Values{}
	if kind != "" {
		q.Set("kind", kind)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []search_serv.Operation
	if err := c.do(http.MethodGet, "/history?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats returns per-operation counters.
func (c *RESTClient) Stats() (*search_serv.Stats, error) {
	var out search_serv.Stats
	if err := c.do(http.MethodGet, "/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
