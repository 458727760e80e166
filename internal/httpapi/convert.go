package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/muhammadmuzzammil1998/jsonc"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/John-Robertt/mihomo-override/internal/classify"
	"github.com/John-Robertt/mihomo-override/internal/compiler"
	"github.com/John-Robertt/mihomo-override/internal/flags"
	"github.com/John-Robertt/mihomo-override/internal/model"
	"github.com/John-Robertt/mihomo-override/internal/render"
	"github.com/John-Robertt/mihomo-override/internal/sub"
)

const maxBodyBytes = 5 * 1024 * 1024

type convertRequest struct {
	Target   render.Target
	Subs     []string
	Proxies  []model.Endpoint
	Args     map[string]any
	FileName string
}

type convertRequestJSON struct {
	Target   string           `json:"target"`
	Subs     []string         `json:"subs"`
	Proxies  []model.Endpoint `json:"proxies"`
	Args     map[string]any   `json:"args"`
	FileName string           `json:"filename"`
}

func (s *server) handleSub(w http.ResponseWriter, r *http.Request) {
	req, err := parseConvertGET(r)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.serveConvert(w, r, req)
}

func (s *server) handleConvert(w http.ResponseWriter, r *http.Request) {
	req, err := parseConvertPOST(r)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.serveConvert(w, r, req)
}

func (s *server) serveConvert(w http.ResponseWriter, r *http.Request, req convertRequest) {
	body, err := s.runConvert(r.Context(), req)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if err := setAttachmentHeaders(w, req); err != nil {
		s.writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", req.Target.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// runConvert resolves the request against the active profile, then fetches,
// compiles and renders.
func (s *server) runConvert(ctx context.Context, req convertRequest) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opt.ConvertTimeout)
	defer cancel()

	prof := s.opt.Profile.Get()
	subs := req.Subs
	if len(subs) == 0 && len(req.Proxies) == 0 {
		subs = prof.Subscriptions
	}
	if len(subs) == 0 && len(req.Proxies) == 0 {
		return nil, requestError("INVALID_ARGUMENT", "缺少订阅", "expected: url=<subscription> or a profile with subscriptions")
	}

	fetched, err := s.fetchAndParseSubs(ctx, subs)
	if err != nil {
		return nil, err
	}
	endpoints := sub.Normalize(append(append([]model.Endpoint(nil), req.Proxies...), fetched...))

	f := flags.Resolve(flags.Merge(prof.Args, req.Args))
	res := compiler.Compile(endpoints, f)
	s.metrics.endpoints.Observe(float64(len(endpoints)))
	s.opt.Logger.WithFields(log.Fields{
		"endpoints":     len(endpoints),
		"raw_countries": bucketString(res.RawCountries),
		"countries":     bucketString(res.Countries),
		"groups":        len(res.Document.Groups),
		"threshold":     f.CountryThreshold,
	}).Debug("compiled")

	return render.Render(req.Target, &res.Document)
}

// fetchAndParseSubs fetches distinct URLs concurrently and returns their
// endpoints in first-seen URL order.
func (s *server) fetchAndParseSubs(ctx context.Context, urls []string) ([]model.Endpoint, error) {
	uniq := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			return nil, requestError("INVALID_ARGUMENT", "订阅 URL 不能为空", "")
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		uniq = append(uniq, u)
	}
	if len(uniq) > s.opt.MaxSubs {
		return nil, requestError("TOO_MANY_SUBS", fmt.Sprintf("订阅数量超过上限（>%d）", s.opt.MaxSubs), "")
	}

	results := make([][]model.Endpoint, len(uniq))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, u := range uniq {
		g.Go(func() error {
			text, hit, err := s.opt.Cache.Text(gctx, u)
			switch {
			case err != nil:
				s.metrics.fetches.WithLabelValues("error").Inc()
				return err
			case hit:
				s.metrics.fetches.WithLabelValues("hit").Inc()
			default:
				s.metrics.fetches.WithLabelValues("miss").Inc()
			}
			eps, err := sub.Parse(u, text)
			if err != nil {
				return err
			}
			results[i] = eps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.Endpoint
	for _, eps := range results {
		out = append(out, eps...)
	}
	return out, nil
}

func bucketString(bs []classify.Bucket) string {
	parts := make([]string, 0, len(bs))
	for _, b := range bs {
		parts = append(parts, fmt.Sprintf("%s=%d", b.Country, b.Count))
	}
	return strings.Join(parts, ",")
}

// parseConvertGET reads GET /sub. Unknown query keys are ignored so client
// apps can append their own.
func parseConvertGET(r *http.Request) (convertRequest, error) {
	q := r.URL.Query()

	targetStr, err := singleQuery(q, "target")
	if err != nil {
		return convertRequest{}, err
	}
	target, err := render.ParseTarget(targetStr)
	if err != nil {
		return convertRequest{}, err
	}
	fileName, err := singleQuery(q, "filename")
	if err != nil {
		return convertRequest{}, err
	}

	subs := make([]string, 0, len(q["url"]))
	for _, s := range q["url"] {
		s = strings.TrimSpace(s)
		if s == "" {
			return convertRequest{}, requestError("INVALID_ARGUMENT", "url 不能为空", "expected: url=<subscription>")
		}
		subs = append(subs, s)
	}

	return convertRequest{
		Target:   target,
		Subs:     subs,
		Args:     flags.FromQuery(q),
		FileName: fileName,
	}, nil
}

// parseConvertPOST reads the POST /api/convert body. JSONC comments are
// accepted.
func parseConvertPOST(r *http.Request) (convertRequest, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return convertRequest{}, requestError("INVALID_ARGUMENT", "读取请求体失败", err.Error())
	}
	if len(raw) > maxBodyBytes {
		return convertRequest{}, &APIError{
			Status: http.StatusRequestEntityTooLarge,
			AppError: model.AppError{
				Code:    "TOO_LARGE",
				Message: fmt.Sprintf("请求体过大（>%d bytes）", maxBodyBytes),
				Stage:   "validate_request",
			},
		}
	}

	var body convertRequestJSON
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		return convertRequest{}, requestError("INVALID_ARGUMENT", "JSON body 解析失败", err.Error())
	}
	var extra any
	if err := dec.Decode(&extra); err == nil {
		return convertRequest{}, requestError("INVALID_ARGUMENT", "JSON body 不允许多段", "")
	} else if !errors.Is(err, io.EOF) {
		return convertRequest{}, requestError("INVALID_ARGUMENT", "JSON body 解析失败", err.Error())
	}

	target, err := render.ParseTarget(body.Target)
	if err != nil {
		return convertRequest{}, err
	}
	for _, s := range body.Subs {
		if strings.TrimSpace(s) == "" {
			return convertRequest{}, requestError("INVALID_ARGUMENT", "subs 不能包含空字符串", "")
		}
	}
	return convertRequest{
		Target:   target,
		Subs:     body.Subs,
		Proxies:  body.Proxies,
		Args:     body.Args,
		FileName: body.FileName,
	}, nil
}

func singleQuery(q url.Values, key string) (string, error) {
	values, ok := q[key]
	if !ok || len(values) == 0 {
		return "", nil
	}
	if len(values) != 1 {
		return "", requestError("INVALID_ARGUMENT", fmt.Sprintf("%s 参数只能出现一次", key), "")
	}
	return values[0], nil
}
