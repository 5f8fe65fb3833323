package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/text/language"

	"charityportal/pkg/types"
)

const (
	locationTypesPath = "location-types"
	regionsPath       = "regions"
	requirementsPath  = "attachment-requirements"

	maxResponseBytes = 4 << 20
)

var errUnknownEnvelope = errors.New("unrecognized lookup response envelope")

// Envelopes the lookup service has been seen to answer with, in the order
// they are tried.
var listPaths = []string{"data", "items", "result.data", "result.items", "result"}

var (
	idKeys        = []string{"id", "value", "key"}
	secondaryKeys = []string{"secondaryLabel", "description"}
	mandatoryKeys = []string{"mandatory", "isMandatory", "required", "isRequired"}
	scopeKeys     = []string{"scope", "owner"}
)

// RemoteSource reads lookups from an HTTP lookup service and normalizes
// every tolerated response shape into types.Option.
type RemoteSource struct {
	baseURL    *url.URL
	httpClient *http.Client
	labelKeys  []string
}

func NewRemoteSource(baseURL, locale string, httpClient *http.Client) (*RemoteSource, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid lookup base url %q", baseURL)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &RemoteSource{
		baseURL:    u,
		httpClient: httpClient,
		labelKeys:  labelKeys(locale),
	}, nil
}

// labelKeys orders the label spellings so the locale's own column wins.
func labelKeys(locale string) []string {
	base, _ := language.Make(locale).Base()
	if base.String() == "ar" {
		return []string{"localizedLabel", "nameAr", "label", "name", "nameEn"}
	}
	return []string{"localizedLabel", "nameEn", "label", "name", "nameAr"}
}

func (s *RemoteSource) LocationTypes(ctx context.Context) ([]types.Option, error) {
	return s.options(ctx, locationTypesPath)
}

func (s *RemoteSource) Regions(ctx context.Context) ([]types.Option, error) {
	return s.options(ctx, regionsPath)
}

func (s *RemoteSource) Requirements(ctx context.Context) ([]types.AttachmentRequirement, error) {
	list, err := s.fetch(ctx, requirementsPath)
	if err != nil {
		return nil, err
	}

	out := make([]types.AttachmentRequirement, 0)
	var parseErr error
	list.ForEach(func(_, item gjson.Result) bool {
		id := first(item, idKeys...).Int()
		name := first(item, s.labelKeys...).String()
		if id <= 0 || name == "" {
			return true
		}

		scope := types.RequirementScope(strings.ToLower(first(item, scopeKeys...).String()))
		switch scope {
		case "":
			scope = types.RequirementScopeRequest
		case types.RequirementScopeRequest, types.RequirementScopePartner:
		default:
			parseErr = fmt.Errorf("requirement %d: unknown scope %q", id, scope)
			return false
		}

		out = append(out, types.AttachmentRequirement{
			ID:        id,
			Name:      name,
			Mandatory: first(item, mandatoryKeys...).Bool(),
			Scope:     scope,
			IsActive:  true,
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return out, nil
}

func (s *RemoteSource) options(ctx context.Context, path string) ([]types.Option, error) {
	list, err := s.fetch(ctx, path)
	if err != nil {
		return nil, err
	}

	out := make([]types.Option, 0)
	list.ForEach(func(_, item gjson.Result) bool {
		option := types.Option{
			ID:             first(item, idKeys...).Int(),
			Label:          first(item, s.labelKeys...).String(),
			SecondaryLabel: first(item, secondaryKeys...).String(),
		}
		if option.ID > 0 && option.Label != "" {
			out = append(out, option)
		}
		return true
	})

	return out, nil
}

// fetch returns the list contained in the response for path, whatever
// envelope wraps it.
func (s *RemoteSource) fetch(ctx context.Context, path string) (gjson.Result, error) {
	endpoint := s.baseURL.ResolveReference(&url.URL{Path: path})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to create lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("lookup %s failed with status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	list, err := unwrap(body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("lookup %s: %w", path, err)
	}

	return list, nil
}

func unwrap(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, errors.New("response is not valid json")
	}

	root := gjson.ParseBytes(body)
	if root.IsArray() {
		return root, nil
	}

	for _, p := range listPaths {
		if list := root.Get(p); list.IsArray() {
			return list, nil
		}
	}

	return gjson.Result{}, errUnknownEnvelope
}

func first(item gjson.Result, keys ...string) gjson.Result {
	for _, key := range keys {
		if v := item.Get(key); v.Exists() && v.String() != "" {
			return v
		}
	}
	return gjson.Result{}
}
