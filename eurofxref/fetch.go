package eurofxref

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"sort"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/viac/date"
)

// frankfurterURL serves the ECB reference rate history as JSON.
const frankfurterURL = "https://api.frankfurter.app/%s..?base=EUR"

// diskCache implements a simple disk cache for HTTP responses
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// get from disk
	// diskcache implements a unique key per day, so the local tmp expires every day.
	key := fmt.Sprintf("%s %s %s", date.Today().String(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v/%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// otherwise attempt to store it in cache

	err = c.put(key, resp)
	if err != nil {
		log.Printf("cache write err (ignored): %v\n", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	file := filepath.Join(os.TempDir(), key)
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	file := filepath.Join(os.TempDir(), key)

	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	_, err = f.Write(content)
	f.Close()
	return err
}

// daily returns a client with a cache all with daily expire
func daily() *http.Client {
	client := new(http.Client)
	client.Transport = &diskCache{http.DefaultTransport}
	return client
}

// jwget performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
func jwget(client *http.Client, addr string, data interface{}) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return json.Unmarshal(buf.Bytes(), data)
}

// Fetch downloads the EUR-based rate history since `from` and writes it to
// `w` in the eurofxref-hist CSV layout that Read understands. Responses are
// cached on disk for the day, so repeated runs do not hammer the API.
func Fetch(from date.Date, w io.Writer) error {
	addr := fmt.Sprintf(frankfurterURL, from.String())
	var jobj any
	if err := jwget(daily(), addr, &jobj); err != nil {
		return fmt.Errorf("cannot fetch rate history: %w", err)
	}

	jval, err := jsonpath.Get("$.rates", jobj)
	if err != nil {
		return fmt.Errorf("cannot locate rates in response: %w", err)
	}
	byDay, ok := jval.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot locate rates in response: not an object but %T", jval)
	}

	// collect the currency set and the day set for a stable layout
	currencies := map[string]bool{}
	days := make([]string, 0, len(byDay))
	for d, quotes := range byDay {
		days = append(days, d)
		jq, ok := quotes.(map[string]any)
		if !ok {
			return fmt.Errorf("day %s: not an object but %T", d, quotes)
		}
		for c := range jq {
			currencies[c] = true
		}
	}
	header := []string{"Date"}
	for c := range currencies {
		header = append(header, c)
	}
	sort.Strings(header[1:])
	// newest first, like the ECB file
	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, d := range days {
		jq := byDay[d].(map[string]any)
		rec := make([]string, len(header))
		rec[0] = d
		for i, c := range header[1:] {
			if v, ok := jq[c].(float64); ok {
				rec[i+1] = fmt.Sprintf("%g", v)
			} else {
				rec[i+1] = "N/A"
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
