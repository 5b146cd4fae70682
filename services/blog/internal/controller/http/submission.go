package http

import (
	"errors"
	"mime/multipart"
	"net/http"

	"blog/services/blog/internal/entity"
	"blog/services/blog/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	errInvalidBody = entity.NewValidationError("", "Invalid request body.")
	errInvalidForm = entity.NewValidationError("", "Failed to parse the form.")
	errTooLarge    = entity.NewValidationError("image", "Request body is too large.")
)

// readSubmission decodes a JSON or form submission. The returned cleanup closes the
// uploaded file and is always safe to call.
func readSubmission(c *gin.Context) (usecase.CreatePostInput, func(), error) {
	noop := func() {}

	switch c.ContentType() {
	case binding.MIMEMultipartPOSTForm, binding.MIMEPOSTForm:
		return readForm(c)
	default:
		var req CreatePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			if isTooLarge(err) {
				return usecase.CreatePostInput{}, noop, errTooLarge
			}
			return usecase.CreatePostInput{}, noop, errInvalidBody
		}
		return usecase.CreatePostInput{Title: req.Title, Content: req.Content}, noop, nil
	}
}

func readForm(c *gin.Context) (usecase.CreatePostInput, func(), error) {
	noop := func() {}
	multipartBody := c.ContentType() == binding.MIMEMultipartPOSTForm

	var err error
	if multipartBody {
		_, err = c.MultipartForm()
	} else {
		err = c.Request.ParseForm()
	}
	if err != nil {
		if isTooLarge(err) {
			return usecase.CreatePostInput{}, noop, errTooLarge
		}
		return usecase.CreatePostInput{}, noop, errInvalidForm
	}

	input := usecase.CreatePostInput{
		Title:   c.PostForm("title"),
		Content: formContent(c.PostFormArray("content")),
	}
	if !multipartBody {
		return input, noop, nil
	}

	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return input, noop, nil
	}
	if err != nil {
		return usecase.CreatePostInput{}, noop, errInvalidForm
	}

	image, file, err := openUpload(header)
	if err != nil {
		return usecase.CreatePostInput{}, noop, errInvalidForm
	}
	input.Image = image
	return input, func() { file.Close() }, nil
}

// formContent treats repeated content fields as paragraphs.
func formContent(values []string) entity.Content {
	switch len(values) {
	case 0:
		return entity.TextContent("")
	case 1:
		return entity.TextContent(values[0])
	default:
		return entity.ParagraphContent(values...)
	}
}

func openUpload(header *multipart.FileHeader) (*usecase.ImageUpload, multipart.File, error) {
	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	return &usecase.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	}, file, nil
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
