// Package media abstracts the external image host. Assets are
// identified by the host's public ID; deleting by ID is the only
// cleanup path.
package media

import (
	"context"
	"errors"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Upload folders and transformations used by the API.
const (
	PostFolder   = "blogify_posts"
	AvatarFolder = "blogify_avatars"

	PostTransformation   = "w_800,c_scale,q_auto,f_auto"
	AvatarTransformation = "w_400,h_400,c_fill"
)

type Asset struct {
	URL      string
	PublicID string
}

type Host interface {
	Upload(ctx context.Context, file io.Reader, folder, transformation string) (Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

type CloudinaryHost struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryHost builds a host from a CLOUDINARY_URL-style URL.
func NewCloudinaryHost(url string) (*CloudinaryHost, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, err
	}
	return &CloudinaryHost{cld: cld}, nil
}

func (h *CloudinaryHost) Upload(ctx context.Context, file io.Reader, folder, transformation string) (Asset, error) {
	result, err := h.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         folder,
		Transformation: transformation,
	})
	if err != nil {
		return Asset{}, err
	}

	return Asset{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

func (h *CloudinaryHost) Destroy(ctx context.Context, publicID string) error {
	result, err := h.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return err
	}
	if result.Result != "ok" {
		return errors.New("media host refused to delete " + publicID)
	}
	return nil
}
