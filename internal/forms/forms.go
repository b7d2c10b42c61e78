package forms

import (
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/inkpost/inkpost/internal/models"
	"gorm.io/gorm"
)

// Supported raster image formats for post uploads. Anything else is a
// validation error and nothing is persisted.
var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
	"image/bmp":  {},
}

// PostForm validates a post submission. Author is never part of the form;
// the handler supplies it from the session.
type PostForm struct {
	Text    string
	GroupID string
	Image   *multipart.FileHeader

	Errors map[string]string

	group     *models.Group
	imageData []byte
	imageExt  string
}

// Validate checks the form and collects field-level errors. A failed
// validation never touches the data model.
func (f *PostForm) Validate(db *gorm.DB) bool {
	f.Errors = map[string]string{}

	if strings.TrimSpace(f.Text) == "" {
		f.Errors["text"] = "This field is required."
	}

	if f.GroupID != "" {
		var group models.Group
		err := db.First(&group, "id = ?", f.GroupID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			f.Errors["group"] = "Select a valid group."
		case err != nil:
			f.Errors["group"] = "Select a valid group."
		default:
			f.group = &group
		}
	}

	if f.Image != nil {
		if err := f.validateImage(); err != nil {
			f.Errors["image"] = err.Error()
		}
	}

	return len(f.Errors) == 0
}

// validateImage sniffs the upload content. The filename and declared
// content type are untrusted; only the bytes decide.
func (f *PostForm) validateImage() error {
	file, err := f.Image.Open()
	if err != nil {
		return errors.New("Upload a valid image.")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil || len(data) == 0 {
		return errors.New("Upload a valid image.")
	}

	mtype := mimetype.Detect(data)
	if _, ok := allowedImageTypes[mtype.String()]; !ok {
		return errors.New("Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}

	f.imageData = data
	f.imageExt = mtype.Extension()
	return nil
}

// Group returns the resolved group after a successful Validate, or nil.
func (f *PostForm) Group() *models.Group {
	return f.group
}

// ImageData returns the validated upload bytes after a successful Validate.
func (f *PostForm) ImageData() []byte {
	return f.imageData
}

// ImageExtension returns the sniffed file extension, e.g. ".png".
func (f *PostForm) ImageExtension() string {
	return f.imageExt
}

// CommentForm validates a comment submission. Author and target post are
// supplied by the handler, so a client cannot forge either.
type CommentForm struct {
	Text string

	Errors map[string]string
}

func (f *CommentForm) Validate() bool {
	f.Errors = map[string]string{}

	if strings.TrimSpace(f.Text) == "" {
		f.Errors["text"] = "This field is required."
	}

	return len(f.Errors) == 0
}
