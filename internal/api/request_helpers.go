package api

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medveritas/medveritas-api/internal/api/shared"
	"github.com/medveritas/medveritas-api/internal/capture"
	"github.com/medveritas/medveritas-api/internal/domain"
)

// multipartMemory is how much of a multipart upload is held in memory
// before spilling to temporary files.
const multipartMemory = 8 << 20

// imageFormField is the multipart field carrying the photo.
const imageFormField = "image"

// errInvalidID is returned for a malformed path ID.
var errInvalidID = errors.New("invalid ID")

// getPathUUID extracts a UUID from the URL path parameters.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, paramName))
	if err != nil {
		return uuid.Nil, errors.Join(domain.ErrValidation, errInvalidID)
	}
	return id, nil
}

// isMultipart reports whether the request body is multipart/form-data.
func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// readImageUpload reads the image field of a multipart form as a data URL.
// Other form values stay available through r.FormValue.
func readImageUpload(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return "", shared.ErrBodyTooLarge
		}
		return "", errors.Join(shared.ErrMalformedBody, err)
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	_, header, err := r.FormFile(imageFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", capture.ErrNoImage
		}
		return "", errors.Join(capture.ErrInvalidDataURL, err)
	}
	return capture.FromFileHeader(header)
}

// decodeAnalyzeRequest accepts either {"image": "..."} or a multipart upload.
func decodeAnalyzeRequest(r *http.Request) (string, error) {
	if isMultipart(r) {
		return readImageUpload(r)
	}

	var req AnalyzeImageRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.Image) == "" {
		return "", capture.ErrNoImage
	}
	if err := shared.ValidateRequest(&req); err != nil {
		return "", err
	}
	return req.Image, nil
}

// decodeSubmitJobRequest accepts either a JSON body or a multipart upload
// with "mode" and "sessionKey" form fields.
func decodeSubmitJobRequest(r *http.Request) (SubmitJobRequest, error) {
	var req SubmitJobRequest
	if isMultipart(r) {
		image, err := readImageUpload(r)
		if err != nil {
			return req, err
		}
		req = SubmitJobRequest{
			Image:      image,
			Mode:       r.FormValue("mode"),
			SessionKey: r.FormValue("sessionKey"),
		}
	} else if err := shared.DecodeJSON(r, &req); err != nil {
		return req, err
	}

	if err := shared.ValidateRequest(&req); err != nil {
		return req, err
	}
	return req, nil
}
