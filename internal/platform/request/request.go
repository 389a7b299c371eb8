// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/storage"
	"github.com/taibuivan/vidtube/internal/platform/validate"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

/*
DecodeJSON reads the request body into target and runs its `validate` tags.

Returns:
  - validate.ErrInvalidJSON if decoding fails
  - a validation [apperr.AppError] if a tag rule fails
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxJSONBody)

	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return validate.Struct(target)
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
PathID retrieves a named URL parameter that must be a UUID.

Returns:
  - apperr.InvalidArgument naming the parameter if it is malformed
*/
func PathID(request *http.Request, name string) (string, error) {
	id := chi.URLParam(request, name)
	if !uuid.Valid(id) {
		return "", apperr.InvalidArgument("Invalid " + name)
	}
	return id, nil
}

/*
RequiredPrincipalID returns the id of the authenticated caller.

Returns:
  - apperr.Unauthorized if the request is anonymous
*/
func RequiredPrincipalID(request *http.Request) (string, error) {
	principalID := ctxutil.PrincipalID(request.Context())
	if principalID == "" {
		return "", apperr.Unauthorized("Unauthorized request")
	}
	return principalID, nil
}

// # Multipart

/*
ParseMultipart parses a multipart body of at most maxBytes.

Returns:
  - apperr.InvalidArgument if the body is not multipart or exceeds the limit
*/
func ParseMultipart(writer http.ResponseWriter, request *http.Request, maxBytes int64) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBytes)

	if err := request.ParseMultipartForm(constants.MultipartMemory); err != nil {
		if oversized(err) {
			return errUploadTooLarge
		}
		return apperr.InvalidArgument("Invalid multipart form")
	}
	return nil
}

var errUploadTooLarge = apperr.InvalidArgument("Upload exceeds the maximum allowed size")

// oversized reports whether err comes from the body cap or from the multipart
// reader's own part and header limits.
func oversized(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || errors.Is(err, multipart.ErrMessageTooLarge)
}

// FormValue returns a trimmed multipart or url-encoded field.
func FormValue(request *http.Request, name string) string {
	return strings.TrimSpace(request.FormValue(name))
}

/*
FormFile opens an uploaded file. Callers must close the returned body.

Returns:
  - (nil, nil) when the field is absent and not required
  - apperr.ValidationError naming the field when it is required and absent
  - apperr.InvalidArgument when the form is too large to read
*/
func FormFile(request *http.Request, name string, required bool) (*storage.Upload, io.Closer, error) {
	file, header, err := request.FormFile(name)
	if err != nil {
		if oversized(err) {
			return nil, nil, errUploadTooLarge
		}
		if errors.Is(err, http.ErrMissingFile) {
			if required {
				return nil, nil, validate.RequiredError(name, "File is required")
			}
			return nil, nil, nil
		}
		return nil, nil, apperr.InvalidArgument("Invalid upload for " + name)
	}

	if header.Size == 0 {
		_ = file.Close()
		if required {
			return nil, nil, validate.RequiredError(name, "File is empty")
		}
		return nil, nil, nil
	}

	upload := &storage.Upload{
		Body:        file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Filename:    header.Filename,
	}
	return upload, file, nil
}
