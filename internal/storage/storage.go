package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"unicode"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/hr-portal/recruitment-service/internal/config"
)

const docsViewerURL = "https://docs.google.com/viewer"

// StoredFile describes an uploaded object.
type StoredFile struct {
	URL      string
	PublicID string
}

// FileStorage persists candidate CVs.
type FileStorage interface {
	Upload(ctx context.Context, filename string, body io.Reader) (*StoredFile, error)
	Delete(ctx context.Context, publicID string) error
}

// Cloudinary stores files as raw resources in a Cloudinary folder.
type Cloudinary struct {
	client *cloudinary.Cloudinary
	folder string
	logger *zap.Logger
}

// NewCloudinary builds the client from credentials.
func NewCloudinary(cfg config.StorageConfig, logger *zap.Logger) (*Cloudinary, error) {
	if !cfg.Enabled() {
		return nil, errors.New("cloudinary credentials missing")
	}
	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &Cloudinary{client: client, folder: cfg.Folder, logger: logger}, nil
}

// Upload sends body to Cloudinary under a public id derived from filename.
func (c *Cloudinary) Upload(ctx context.Context, filename string, body io.Reader) (*StoredFile, error) {
	resp, err := c.client.Upload.Upload(ctx, body, uploader.UploadParams{
		PublicID:       PublicIDFor(filename),
		Folder:         c.folder,
		ResourceType:   "raw",
		UniqueFilename: api.Bool(true),
		Overwrite:      api.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", filename, err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("upload %s: %s", filename, resp.Error.Message)
	}
	c.logger.Info("file uploaded", zap.String("public_id", resp.PublicID))
	return &StoredFile{URL: resp.SecureURL, PublicID: resp.PublicID}, nil
}

// Delete removes a stored file. Missing files are not an error.
func (c *Cloudinary) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	resp, err := c.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID, ResourceType: "raw"})
	if err != nil {
		return fmt.Errorf("destroy %s: %w", publicID, err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("destroy %s: %s", publicID, resp.Error.Message)
	}
	return nil
}

var dStroke = strings.NewReplacer("đ", "d", "Đ", "D")

// foldDiacritics maps Vietnamese letters to their ASCII base, "Hồ sơ" becomes "Ho so".
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, dStroke.Replace(s))
	if err != nil {
		return s
	}
	return folded
}

// PublicIDFor turns an uploaded filename into a URL safe public id, keeping the extension so
// raw downloads retain their type.
func PublicIDFor(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(path.Ext(base))
	name := foldDiacritics(strings.TrimSuffix(base, path.Ext(base)))

	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		slug = "cv"
	}
	return slug + ext
}

// PreviewURL wraps a file URL in the Google Docs viewer so PDFs and Word files render inline.
func PreviewURL(fileURL string) string {
	if fileURL == "" {
		return ""
	}
	q := url.Values{}
	q.Set("url", fileURL)
	q.Set("embedded", "true")
	return docsViewerURL + "?" + q.Encode()
}

// AllowedCVExtension reports whether filename looks like a CV document.
func AllowedCVExtension(filename string) bool {
	switch strings.ToLower(path.Ext(filename)) {
	case ".pdf", ".doc", ".docx":
		return true
	default:
		return false
	}
}
