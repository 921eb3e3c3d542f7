package azure

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/Azure/go-autorest/autorest"
	"github.com/Azure/go-autorest/autorest/azure"
	"github.com/netbeacon/azvnet/utils"
)

type page[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"nextLink"`
}

// listAll follows nextLink until the collection is exhausted. nextLink already carries the
// api-version, so only the first request adds it.
func listAll[T any](ctx context.Context, f *Fetcher, path, apiVersion string) ([]T, error) {
	var out []T
	req, err := autorest.Prepare((&http.Request{}).WithContext(ctx),
		autorest.AsGet(),
		autorest.WithBaseURL(f.endpoint),
		autorest.WithPath(path),
		autorest.WithQueryParameters(map[string]interface{}{"api-version": apiVersion}))
	for err == nil {
		var p page[T]
		if err = f.send(req, &p); err != nil {
			break
		}
		out = append(out, p.Value...)
		if p.NextLink == "" {
			return out, nil
		}
		req, err = autorest.Prepare((&http.Request{}).WithContext(ctx),
			autorest.AsGet(),
			autorest.WithBaseURL(p.NextLink))
	}
	return out, err
}

// getOne reads a single resource by its ARM id.
func getOne[T any](ctx context.Context, f *Fetcher, id, apiVersion string) (T, error) {
	var out T
	req, err := autorest.Prepare((&http.Request{}).WithContext(ctx),
		autorest.AsGet(),
		autorest.WithBaseURL(f.endpoint),
		autorest.WithPath(id),
		autorest.WithQueryParameters(map[string]interface{}{"api-version": apiVersion}))
	if err != nil {
		return out, err
	}
	err = f.send(req, &out)
	return out, err
}

func (f *Fetcher) send(req *http.Request, v interface{}) error {
	resp, err := f.client.Do(req)
	if err != nil {
		armRequests.WithLabelValues("error").Inc()
		return err
	}
	var raw bytes.Buffer
	decorators := []autorest.RespondDecorator{azure.WithErrorUnlessStatusCode(http.StatusOK)}
	if f.verbose {
		decorators = append(decorators, autorest.ByCopying(&raw))
	}
	decorators = append(decorators, autorest.ByUnmarshallingJSON(v), autorest.ByClosing())
	err = autorest.Respond(resp, decorators...)
	if f.verbose {
		utils.LogDebug(fmt.Sprintf("GET %s - %d\n%s", req.URL, resp.StatusCode, raw.String()))
	}
	if err != nil {
		armRequests.WithLabelValues("error").Inc()
		return err
	}
	armRequests.WithLabelValues("ok").Inc()
	return nil
}
