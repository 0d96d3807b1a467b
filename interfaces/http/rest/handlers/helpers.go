package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

// maxBodyBytes bounds request bodies. A full dataset is well below it.
const maxBodyBytes = 8 << 20

// decodeJSON reads an optional JSON body into dst. An empty body leaves
// dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return pkgerrors.NewValidationError("Invalid request body: " + err.Error())
}

// indexParam parses the {index} path parameter.
func indexParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.NewValidationError("index must be an integer").WithCode("index")
	}
	return index, nil
}

// confirmedQuery reports whether the request carries ?confirm=true.
func confirmedQuery(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return ok
}
