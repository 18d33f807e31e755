package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"libnet/pkg/domain"
	dErrors "libnet/pkg/domain-errors"
	"libnet/pkg/requestcontext"
)

const maxBodyBytes = 1 << 20

// decodeJSON decodes the request body into dst, rejecting oversized bodies
// and trailing garbage.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "invalid JSON body")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return dErrors.New(dErrors.CodeBadRequest, "request body must contain a single JSON object")
	}
	return nil
}

// actorFrom pulls the authenticated actor placed by RequireActor. Reaching a
// handler without one is a wiring bug, reported as unauthorized rather than a
// panic.
func actorFrom(r *http.Request) (domain.Actor, error) {
	actor, ok := requestcontext.Actor(r.Context())
	if !ok {
		return domain.Actor{}, dErrors.New(dErrors.CodeUnauthorized, "no authenticated actor")
	}
	return actor, nil
}
