package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/hr-portal/recruitment-service/internal/config"
)

func TestPublicIDFor(t *testing.T) {
	assert.Equal(t, "nguyen_van_a_cv.pdf", PublicIDFor("Nguyen Van A CV.PDF"))
	assert.Equal(t, "resume-2024.docx", PublicIDFor(`C:\Users\me\resume-2024.docx`))
	assert.Equal(t, "ho_so.pdf", PublicIDFor("Hồ sơ.pdf"))
	assert.Equal(t, "don_xin_viec_dang_thi_huong.docx", PublicIDFor("Đơn xin việc Đặng Thị Hương.docx"))
	assert.Equal(t, "cv", PublicIDFor("???"))
}

func TestPreviewURL(t *testing.T) {
	got := PreviewURL("https://res.cloudinary.com/demo/raw/upload/v1/cv/a b.pdf")
	assert.Equal(t,
		"https://docs.google.com/viewer?embedded=true&url=https%3A%2F%2Fres.cloudinary.com%2Fdemo%2Fraw%2Fupload%2Fv1%2Fcv%2Fa+b.pdf",
		got)
	assert.Empty(t, PreviewURL(""))
}

func TestAllowedCVExtension(t *testing.T) {
	assert.True(t, AllowedCVExtension("cv.PDF"))
	assert.True(t, AllowedCVExtension("cv.docx"))
	assert.False(t, AllowedCVExtension("cv.exe"))
}

func TestNewCloudinaryRequiresCredentials(t *testing.T) {
	_, err := NewCloudinary(config.StorageConfig{}, zap.NewNop())
	assert.Error(t, err)

	c, err := NewCloudinary(config.StorageConfig{CloudName: "demo", APIKey: "k", APISecret: "s", Folder: "cv"}, zap.NewNop())
	assert.NoError(t, err)
	assert.Equal(t, "cv", c.folder)
}
