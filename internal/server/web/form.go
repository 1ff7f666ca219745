package web

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"

	"github.com/dmitrijs2005/chrima/internal/common"
)

const maxFormBytes = 64 << 10

// readForm returns the requested fields from an HTML form or a JSON object
// body. Missing fields come back empty.
func readForm(w http.ResponseWriter, r *http.Request, fields ...string) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	out := make(map[string]string, len(fields))

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("%w: malformed JSON body", common.ErrorValidation)
		}
		for _, f := range fields {
			switch v := body[f].(type) {
			case nil:
			case string:
				out[f] = v
			default:
				return nil, fmt.Errorf("%w: %s must be a string", common.ErrorValidation, f)
			}
		}
		return out, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: malformed form body", common.ErrorValidation)
	}
	for _, f := range fields {
		out[f] = r.PostForm.Get(f)
	}
	return out, nil
}
