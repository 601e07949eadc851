package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

const defaultFetchTimeout = 30 * time.Second

// ExportURL turns a shared spreadsheet "edit" link into its CSV export
// endpoint, keeping the tab (gid) identifier and any other fragment pairs
// such as a linked range. Other URLs are returned as is.
func ExportURL(sheetURL string) string {
	u, err := url.Parse(strings.TrimSpace(sheetURL))
	if err != nil || !strings.HasSuffix(u.Path, "/edit") {
		return sheetURL
	}

	fragment, err := url.ParseQuery(u.Fragment)
	if err != nil {
		fragment = url.Values{}
	}

	gid := u.Query().Get("gid")
	if gid == "" {
		gid = fragment.Get("gid")
	}

	u.Path = strings.TrimSuffix(u.Path, "/edit") + "/export"
	q := url.Values{"format": {"csv"}}
	for key, values := range fragment {
		if key == "gid" || key == "format" || key == "" {
			continue
		}
		q[key] = values
	}
	if gid != "" {
		q.Set("gid", gid)
	}
	u.RawQuery = q.Encode()
	u.Fragment = ""

	return u.String()
}

// SheetSource downloads a published spreadsheet as CSV. It makes exactly one
// request per Fetch.
type SheetSource struct {
	client *http.Client
	log    logrus.FieldLogger
}

func NewSheetSource(client *http.Client, log logrus.FieldLogger) *SheetSource {
	if client == nil {
		client = cleanhttp.DefaultClient()
		client.Timeout = defaultFetchTimeout
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SheetSource{client: client, log: log}
}

func (s *SheetSource) Fetch(ctx context.Context, id string) (*domain.Register, error) {
	exportURL := ExportURL(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", domain.ErrSourceUnavailable, exportURL, resp.Status)
	}

	s.log.WithField("url", exportURL).Debug("register downloaded")

	return DecodeRegisterCSV(resp.Body)
}
