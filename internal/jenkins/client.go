// Package jenkins triggers remote builds and reports job state over the
// Jenkins JSON API.
package jenkins

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// TimeoutError is returned when a queued build does not start in time.
type TimeoutError struct {
	Job     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("jenkins job %s did not start within %s", e.Job, e.Timeout)
}

type Client struct {
	httpClient   *http.Client
	baseURL      string
	user         string
	token        string
	pollInterval time.Duration
}

// NewClient talks to the Jenkins server at baseURL. An empty token falls
// back to JENKINS_TOKEN.
func NewClient(baseURL, user, token string) *Client {
	if token == "" {
		token = os.Getenv("JENKINS_TOKEN")
	}
	return &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		baseURL:      strings.TrimRight(baseURL, "/"),
		user:         user,
		token:        token,
		pollInterval: time.Second,
	}
}

type jobInfo struct {
	QueueItem *struct{} `json:"queueItem"`
	LastBuild *struct {
		URL string `json:"url"`
	} `json:"lastBuild"`
}

type buildInfo struct {
	Building bool `json:"building"`
}

type queueItem struct {
	Executable *struct {
		Number int `json:"number"`
	} `json:"executable"`
}

func (c *Client) jobURL(job, action string) string {
	return fmt.Sprintf("%s/job/%s/%s", c.baseURL, url.PathEscape(job), action)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.user != "" && c.token != "" {
		req.SetBasicAuth(c.user, c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("jenkins API error: %d %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(v)
}

// IsBuilding reports whether job is queued or its last build is running.
func (c *Client) IsBuilding(ctx context.Context, job string) (bool, error) {
	var info jobInfo
	if err := c.getJSON(ctx, c.jobURL(job, "api/json"), &info); err != nil {
		return false, err
	}
	if info.QueueItem != nil {
		return true, nil
	}
	if info.LastBuild == nil {
		return false, nil
	}
	var last buildInfo
	if err := c.getJSON(ctx, strings.TrimRight(info.LastBuild.URL, "/")+"/api/json", &last); err != nil {
		return false, err
	}
	return last.Building, nil
}

// RequestBuild queues a build of job and blocks until Jenkins assigns it a
// build number, which is returned. A nil params triggers a plain build.
func (c *Client) RequestBuild(ctx context.Context, job string, params url.Values, timeout time.Duration) (int, error) {
	action := "build"
	form := url.Values{}
	if params != nil {
		action = "buildWithParameters"
		for k, vs := range params {
			form[k] = vs
		}
	}
	if c.token != "" {
		form.Set("token", c.token)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.jobURL(job, action), strings.NewReader(form.Encode()))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.do(req)
	if err != nil {
		return 0, fmt.Errorf("request build of %s: %w", job, err)
	}
	resp.Body.Close()

	location := resp.Header.Get("Location")
	if location == "" {
		return 0, fmt.Errorf("request build of %s: no queue location in response", job)
	}
	if !strings.HasSuffix(location, "/") {
		location += "/"
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		var item queueItem
		if err := c.getJSON(ctx, location+"api/json", &item); err != nil {
			if ctx.Err() == context.DeadlineExceeded {
				return 0, &TimeoutError{Job: job, Timeout: timeout}
			}
			return 0, err
		}
		if item.Executable != nil {
			return item.Executable.Number, nil
		}
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return 0, &TimeoutError{Job: job, Timeout: timeout}
			}
			return 0, ctx.Err()
		case <-ticker.C:
		}
	}
}
