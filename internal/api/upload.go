package api

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
)

// uploadOverhead is the room left for the non-file form fields and the
// multipart framing.
const uploadOverhead = 1 << 20

var errUploadTooLarge = errors.New("upload exceeds the size limit")

// limitUpload caps the request body before any form field is read. A body
// whose declared length is already over the cap is refused unread.
func limitUpload(c *gin.Context, maxFile int64) error {
	limit := maxFile + uploadOverhead
	if c.Request.ContentLength > limit {
		return errUploadTooLarge
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	return nil
}

// uploadedFile opens the named file of a capped multipart request. A missing
// file returns http.ErrMissingFile.
func uploadedFile(c *gin.Context, field string, maxFile int64) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, errUploadTooLarge
		}
		return nil, nil, err
	}
	if header.Size > maxFile {
		_ = file.Close()
		return nil, nil, errUploadTooLarge
	}
	return file, header, nil
}
