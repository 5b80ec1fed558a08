// Package client provides access to the conductor's REST surface. It is used by
// the command line to load, scale, unload and list bundles. Every call is a
// single synchronous request and nothing is retried.
package client

//go:generate mockgen -source=client.go -package=client -destination=client_mock.go

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sethgrid/pester"
	log "github.com/sirupsen/logrus"

	"github.com/twitter/conduct/common"
	"github.com/twitter/conduct/common/stats"
	"github.com/twitter/conduct/conductr/api"
	"github.com/twitter/conduct/config"
)

const (
	BundlesPath = "/bundles"

	RequestIDHeader = "X-Request-Id"
)

// Doer sends one HTTP request.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// MakePesterClient returns a pester client that makes exactly one attempt per request.
func MakePesterClient() *pester.Client {
	client := pester.New()
	client.MaxRetries = 1
	client.Concurrency = 1
	client.Timeout = common.DefaultClientTimeout
	client.LogHook = func(e pester.ErrEntry) {
		log.Debugf("Request attempt failed: %+v", e)
	}
	return client
}

// Parameters to configure a Client.
type Config struct {
	IP   string              // Conductor address, config.DefaultIP when empty
	Port int                 // Conductor port, config.DefaultPort when zero
	Doer Doer                // Transport, a single attempt pester client when nil
	Stat stats.StatsReceiver // Request stats, discarded when nil
}

// Client talks to one conductor. It holds no state between calls.
type Client struct {
	addr string
	doer Doer
	stat stats.StatsReceiver
}

func NewClient(cfg Config) *Client {
	ip := cfg.IP
	if ip == "" {
		ip = config.DefaultIP
	}
	port := cfg.Port
	if port == 0 {
		port = config.DefaultPort
	}
	doer := cfg.Doer
	if doer == nil {
		doer = MakePesterClient()
	}
	stat := cfg.Stat
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	return &Client{
		addr: net.JoinHostPort(ip, strconv.Itoa(port)),
		doer: doer,
		stat: stat.Scope("client"),
	}
}

// Addr is the host:port the client sends requests to.
func (c *Client) Addr() string {
	return c.addr
}

func (c *Client) url(path string, query url.Values) string {
	u := url.URL{Scheme: "http", Host: c.addr, Path: path}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Reply is a fully read response.
type Reply struct {
	StatusCode int
	Status     string
	Body       []byte
}

// Decode unmarshals the reply body into v.
func (r *Reply) Decode(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.Wrapf(err, "cannot decode conductor response %q", truncate(r.Body, 200))
	}
	return nil
}

// do sends req and reads the whole response, whatever its status.
// Transport failures come back as *ConnectionError.
func (c *Client) do(op string, req *http.Request) (*Reply, error) {
	stat := c.stat.Scope(op)
	stat.Counter(stats.ClientRequestCounter).Inc(1)
	defer stat.Latency(stats.ClientRequestLatency_ms).Time().Stop()

	requestID := common.GenUUID()
	req.Header.Set(RequestIDHeader, requestID)
	log.WithFields(log.Fields{
		"method":    req.Method,
		"url":       req.URL.String(),
		"requestId": requestID,
	}).Debug("Sending request")

	resp, err := c.doer.Do(req)
	if err != nil {
		stat.Counter(stats.ClientConnectionErrCounter).Inc(1)
		return nil, &ConnectionError{Addr: c.addr, Err: err}
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		stat.Counter(stats.ClientConnectionErrCounter).Inc(1)
		return nil, &ConnectionError{Addr: c.addr, Err: errors.Wrap(err, "reading response")}
	}
	stat.Gauge(stats.ClientResponseBytesGauge).Update(int64(len(body)))
	log.WithFields(log.Fields{
		"status":    resp.Status,
		"bytes":     len(body),
		"requestId": requestID,
	}).Debug("Received response")

	return &Reply{StatusCode: resp.StatusCode, Status: resp.Status, Body: body}, nil
}

// checkStatus applies CheckStatus to the reply of op, counting failures.
func (c *Client) checkStatus(op string, reply *Reply) error {
	if err := CheckStatus(reply); err != nil {
		c.stat.Scope(op).Counter(stats.ClientStatusErrCounter).Inc(1)
		return err
	}
	return nil
}

// LoadRequest describes a bundle to load.
type LoadRequest struct {
	BundleName    string
	System        string
	NrOfCpus      float64
	Memory        int64
	DiskSpace     int64
	Roles         []string
	Bundle        string // path of the bundle archive
	Configuration string // optional path of a configuration archive
}

// Load uploads a bundle (and optional configuration) as a multipart form.
func (c *Client) Load(lr *LoadRequest) (*api.BundleResponse, *Reply, error) {
	body, contentType, err := loadForm(lr)
	if err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequest(http.MethodPost, c.url(BundlesPath, nil), body)
	if err != nil {
		return nil, nil, errors.Wrap(err, "building load request")
	}
	req.Header.Set("Content-Type", contentType)

	reply, err := c.do("load", req)
	if err != nil {
		return nil, reply, err
	}
	if err := c.checkStatus("load", reply); err != nil {
		return nil, reply, err
	}
	var br api.BundleResponse
	if err := reply.Decode(&br); err != nil {
		return nil, reply, err
	}
	return &br, reply, nil
}

// loadForm encodes the form fields followed by the file parts.
func loadForm(lr *LoadRequest) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	fields := []struct{ name, value string }{
		{"nrOfCpus", strconv.FormatFloat(lr.NrOfCpus, 'f', -1, 64)},
		{"memory", strconv.FormatInt(lr.Memory, 10)},
		{"diskSpace", strconv.FormatInt(lr.DiskSpace, 10)},
		{"roles", strings.Join(lr.Roles, " ")},
		{"bundleName", lr.BundleName},
		{"system", lr.System},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", errors.Wrapf(err, "writing form field %s", f.name)
		}
	}
	if err := attach(w, "bundle", lr.Bundle); err != nil {
		return nil, "", err
	}
	if lr.Configuration != "" {
		if err := attach(w, "configuration", lr.Configuration); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "closing form")
	}
	return buf, w.FormDataContentType(), nil
}

func attach(w *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening %s file", field)
	}
	defer f.Close()
	part, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return errors.Wrapf(err, "writing %s part", field)
	}
	if _, err := io.Copy(part, f); err != nil {
		return errors.Wrapf(err, "reading %s file", field)
	}
	return nil
}

// Scale asks the conductor to run scale instances of a bundle. Zero stops it.
func (c *Client) Scale(bundleID string, scale int) (*api.BundleResponse, *Reply, error) {
	if scale < 0 {
		return nil, nil, fmt.Errorf("invalid scale %d, must be >= 0", scale)
	}
	query := url.Values{"scale": []string{strconv.Itoa(scale)}}
	req, err := http.NewRequest(http.MethodPut, c.url(bundlePath(bundleID), query), nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "building scale request")
	}
	reply, err := c.do("scale", req)
	if err != nil {
		return nil, reply, err
	}
	if err := c.checkStatus("scale", reply); err != nil {
		return nil, reply, err
	}
	var br api.BundleResponse
	if err := reply.Decode(&br); err != nil {
		return nil, reply, err
	}
	return &br, reply, nil
}

// Unload removes a bundle from the cluster.
func (c *Client) Unload(bundleID string) (*Reply, error) {
	req, err := http.NewRequest(http.MethodDelete, c.url(bundlePath(bundleID), nil), nil)
	if err != nil {
		return nil, errors.Wrap(err, "building unload request")
	}
	reply, err := c.do("unload", req)
	if err != nil {
		return nil, err
	}
	if err := c.checkStatus("unload", reply); err != nil {
		return reply, err
	}
	return reply, nil
}

// Info lists every bundle known to the conductor, in the conductor's order.
func (c *Client) Info() ([]api.Bundle, *Reply, error) {
	req, err := http.NewRequest(http.MethodGet, c.url(BundlesPath, nil), nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "building info request")
	}
	reply, err := c.do("info", req)
	if err != nil {
		return nil, reply, err
	}
	if err := c.checkStatus("info", reply); err != nil {
		return nil, reply, err
	}
	var bundles []api.Bundle
	if err := reply.Decode(&bundles); err != nil {
		return nil, reply, err
	}
	return bundles, reply, nil
}

func bundlePath(bundleID string) string {
	return BundlesPath + "/" + url.PathEscape(bundleID)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
